package biz

import (
	"errors"
	"strconv"
)

// ErrorKind classifies every failure the gate can produce.
type ErrorKind int

const (
	KindNone ErrorKind = iota

	// local validation, never reach the network
	KindEmailRequired
	KindEmailInvalidDomain
	KindPasswordRequired
	KindPasswordMismatch

	// logical rejection despite transport success
	KindLoginRejected
	KindSignupRejected
	KindOAuthRejected

	KindNetworkError
	KindOAuthProviderFailed
	KindSubmissionInFlight
	KindSessionStoreFailed
)

var kindNames = map[ErrorKind]string{
	KindNone:                "None",
	KindEmailRequired:       "EmailRequired",
	KindEmailInvalidDomain:  "EmailInvalidDomain",
	KindPasswordRequired:    "PasswordRequired",
	KindPasswordMismatch:    "PasswordMismatch",
	KindLoginRejected:       "LoginRejected",
	KindSignupRejected:      "SignupRejected",
	KindOAuthRejected:       "OAuthRejected",
	KindNetworkError:        "NetworkError",
	KindOAuthProviderFailed: "OAuthProviderFailed",
	KindSubmissionInFlight:  "SubmissionInFlight",
	KindSessionStoreFailed:  "SessionStoreFailed",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// IsValidation reports whether the kind comes from a local validation rule.
func (k ErrorKind) IsValidation() bool {
	return k >= KindEmailRequired && k <= KindPasswordMismatch
}

// IsRejected reports whether the backend answered but refused the operation.
func (k ErrorKind) IsRejected() bool {
	return k == KindLoginRejected || k == KindSignupRejected || k == KindOAuthRejected
}

// RejectedKind maps an operation to its logical-rejection kind.
func RejectedKind(op Operation) ErrorKind {
	switch op {
	case OpSignup:
		return KindSignupRejected
	case OpGoogle:
		return KindOAuthRejected
	default:
		return KindLoginRejected
	}
}

// AuthError is the single error type returned by the gate.
type AuthError struct {
	Kind   ErrorKind
	Op     Operation
	Status int // HTTP status when a response was received
	Err    error
}

func (e *AuthError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = string(e.Op) + ": " + msg
	}
	if e.Status != 0 {
		msg += " (status " + strconv.Itoa(e.Status) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches any *AuthError of the same kind, so the Err* sentinels work with errors.Is.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewAuthError builds an AuthError.
func NewAuthError(kind ErrorKind, op Operation, err error) *AuthError {
	return &AuthError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or KindNone when err is not an AuthError.
func KindOf(err error) ErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindNone
}

// Sentinels for errors.Is.
var (
	ErrEmailRequired       = &AuthError{Kind: KindEmailRequired}
	ErrEmailInvalidDomain  = &AuthError{Kind: KindEmailInvalidDomain}
	ErrPasswordRequired    = &AuthError{Kind: KindPasswordRequired}
	ErrPasswordMismatch    = &AuthError{Kind: KindPasswordMismatch}
	ErrLoginRejected       = &AuthError{Kind: KindLoginRejected}
	ErrSignupRejected      = &AuthError{Kind: KindSignupRejected}
	ErrOAuthRejected       = &AuthError{Kind: KindOAuthRejected}
	ErrNetwork             = &AuthError{Kind: KindNetworkError}
	ErrOAuthProviderFailed = &AuthError{Kind: KindOAuthProviderFailed}
	ErrSubmissionInFlight  = &AuthError{Kind: KindSubmissionInFlight}
	ErrSessionStoreFailed  = &AuthError{Kind: KindSessionStoreFailed}
)

// ErrSessionNotFound is returned by SessionStore.Get when nothing was committed yet.
var ErrSessionNotFound = errors.New("session not found")
