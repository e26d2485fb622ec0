package auth

import (
	"context"
	"errors"

	"authgate/internal/biz"
)

// ErrEmptyCredential is reported when the widget succeeds without a credential.
var ErrEmptyCredential = errors.New("provider returned an empty credential")

// Submitter is the part of the flow controller the adapter drives.
type Submitter interface {
	SubmitOAuth(ctx context.Context, token string) (biz.NavigationTarget, error)
	Fail(ctx context.Context, op biz.Operation, err error)
}

// GoogleOAuthAdapter turns the widget's success/failure callbacks into the
// controller's OAuth exchange. It never inspects the token; the identity
// backend is the one that verifies it.
type GoogleOAuthAdapter struct {
	submitter Submitter
}

// NewGoogleOAuthAdapter creates a GoogleOAuthAdapter.
func NewGoogleOAuthAdapter(submitter Submitter) *GoogleOAuthAdapter {
	return &GoogleOAuthAdapter{submitter: submitter}
}

// OnProviderSuccess exchanges resp.Credential for a session.
func (a *GoogleOAuthAdapter) OnProviderSuccess(ctx context.Context, resp ProviderResponse) (biz.NavigationTarget, error) {
	if resp.Credential == "" {
		return biz.NavigationTarget{}, a.OnProviderFailure(ctx, ErrEmptyCredential)
	}
	return a.submitter.SubmitOAuth(ctx, resp.Credential)
}

// OnProviderFailure reports an OAuthProviderFailed error. No backend call is made.
func (a *GoogleOAuthAdapter) OnProviderFailure(ctx context.Context, providerErr error) error {
	err := biz.NewAuthError(biz.KindOAuthProviderFailed, biz.OpGoogle, providerErr)
	a.submitter.Fail(ctx, biz.OpGoogle, err)
	return err
}
