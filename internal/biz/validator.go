package biz

import "regexp"

// Only gmail.com addresses are accepted.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@gmail\.com$`)

// ValidEmail reports whether email is an accepted gmail address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks credentials for mode. The first failing rule wins.
func Validate(mode AuthMode, c Credentials) ValidationOutcome {
	switch {
	case len(c.Email) == 0:
		return invalid(KindEmailRequired)
	case !ValidEmail(c.Email):
		return invalid(KindEmailInvalidDomain)
	case len(c.Password) == 0:
		return invalid(KindPasswordRequired)
	case mode == ModeSignup && c.Password != c.ConfirmPassword:
		return invalid(KindPasswordMismatch)
	}
	return ValidationOutcome{Valid: true}
}

func invalid(kind ErrorKind) ValidationOutcome {
	return ValidationOutcome{Reason: kind}
}
