package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"authgate/internal/conf"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// ErrNoIDToken is returned when the token response carries no id_token.
var ErrNoIDToken = errors.New("no id_token in token response")

// GoogleSignIn drives the provider side of Google sign-in: it builds the
// authorization URL and trades the returned code for the raw ID token that
// the adapter passes on. The ID token is not verified here.
type GoogleSignIn struct {
	oauth2Config oauth2.Config
}

// NewGoogleSignIn discovers the provider endpoints and creates a GoogleSignIn.
func NewGoogleSignIn(ctx context.Context, cfg *conf.Google, redirectURL string) (*GoogleSignIn, error) {
	// Initialize OIDC provider (discovers .well-known/openid-configuration)
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	return newGoogleSignIn(oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       cfg.Scopes,
	}), nil
}

func newGoogleSignIn(oauth2Config oauth2.Config) *GoogleSignIn {
	return &GoogleSignIn{oauth2Config: oauth2Config}
}

// AuthURLWithPKCE returns the authorization URL with state and PKCE parameters
func (g *GoogleSignIn) AuthURLWithPKCE(state string, codeChallenge string) string {
	return g.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Complete exchanges the authorization code using PKCE and returns the
// credential response the widget would have produced.
func (g *GoogleSignIn) Complete(ctx context.Context, code string, codeVerifier string) (ProviderResponse, error) {
	token, err := g.oauth2Config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return ProviderResponse{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return ProviderResponse{}, ErrNoIDToken
	}
	return ProviderResponse{
		Credential: rawIDToken,
		ClientID:   g.oauth2Config.ClientID,
		SelectBy:   "btn",
	}, nil
}

// === PKCE Support ===

// GenerateCodeVerifier generates a random code verifier for PKCE
// Returns a base64-url-encoded random string (43-128 characters)
func GenerateCodeVerifier() (string, error) {
	// Generate 32 random bytes (will be 43 chars after base64url encoding)
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		return "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	// Base64-URL encode without padding
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// GenerateCodeChallenge generates a code challenge from the verifier
// Uses SHA256 and base64-url encoding as per RFC 7636
func GenerateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
