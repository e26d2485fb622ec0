package biz

// Message returns the user-facing text for a failure of kind during op.
func Message(kind ErrorKind, op Operation) string {
	switch kind {
	case KindEmailRequired:
		return "Email is required."
	case KindEmailInvalidDomain:
		return "Email should be a valid gmail address."
	case KindPasswordRequired:
		return "Password is required."
	case KindPasswordMismatch:
		return "Password and Confirm Password should be the same."
	case KindLoginRejected:
		return "Login failed. Please try again."
	case KindSignupRejected:
		return "Signup failed. Please try again."
	case KindOAuthRejected, KindOAuthProviderFailed:
		return "Google login failed. Please try again."
	case KindSubmissionInFlight:
		return "A sign-in request is already in progress."
	case KindSessionStoreFailed:
		return "Could not save your session. Please try again."
	case KindNetworkError:
		switch op {
		case OpSignup:
			return "An error occurred during signup."
		case OpGoogle:
			return "An error occurred during Google login."
		default:
			return "An error occurred during login."
		}
	}
	return "Something went wrong. Please try again."
}

// NotifyKindFor returns the notification kind used for a failure.
func NotifyKindFor(kind ErrorKind) NotifyKind {
	if kind == KindSubmissionInFlight {
		return NotifyInfo
	}
	return NotifyError
}
