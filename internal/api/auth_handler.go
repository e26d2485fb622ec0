package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"authgate/internal/auth"

	"github.com/gorilla/mux"
)

// SignInProvider is the provider side of Google sign-in (auth.GoogleSignIn).
type SignInProvider interface {
	AuthURLWithPKCE(state string, codeChallenge string) string
	Complete(ctx context.Context, code string, codeVerifier string) (auth.ProviderResponse, error)
}

// AuthHandler handles the Google sign-in redirect endpoints
type AuthHandler struct {
	signIn      SignInProvider
	callbacks   OAuthCallbacks
	gate        GateService
	stateStore  *StateStore
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(signIn SignInProvider, callbacks OAuthCallbacks, gate GateService, stateStore *StateStore, frontendURL string, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		signIn:      signIn,
		callbacks:   callbacks,
		gate:        gate,
		stateStore:  stateStore,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/google/start", h.start).Methods(http.MethodGet)
	r.HandleFunc("/auth/google/callback", h.callback).Methods(http.MethodGet)
}

// start initiates the Google flow with PKCE
func (h *AuthHandler) start(w http.ResponseWriter, r *http.Request) {
	// Generate CSRF state
	state, err := generateState()
	if err != nil {
		http.Error(w, "failed to generate state", http.StatusInternalServerError)
		return
	}

	// Generate PKCE parameters
	codeVerifier, err := auth.GenerateCodeVerifier()
	if err != nil {
		http.Error(w, "failed to generate code verifier: "+err.Error(), http.StatusInternalServerError)
		return
	}
	codeChallenge := auth.GenerateCodeChallenge(codeVerifier)

	h.stateStore.SaveWithVerifier(state, 10*time.Minute, codeVerifier)

	http.Redirect(w, r, h.signIn.AuthURLWithPKCE(state, codeChallenge), http.StatusFound)
}

// callback receives the provider redirect and hands the outcome to the adapter.
// Whatever happens, the browser goes back to the front end at the current view.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	// Verify state and get code verifier (CSRF protection + PKCE)
	codeVerifier, ok := h.stateStore.VerifyAndGetVerifier(query.Get("state"))
	if !ok {
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	if providerErr := query.Get("error"); providerErr != "" {
		h.callbacks.OnProviderFailure(ctx, fmt.Errorf("provider error: %s", providerErr))
		h.redirectToFrontend(w, r)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.callbacks.OnProviderFailure(ctx, errors.New("missing authorization code"))
		h.redirectToFrontend(w, r)
		return
	}

	resp, err := h.signIn.Complete(ctx, code, codeVerifier)
	if err != nil {
		h.logger.WarnContext(ctx, "google sign-in failed", "error", err)
		h.callbacks.OnProviderFailure(ctx, err)
		h.redirectToFrontend(w, r)
		return
	}

	// Errors are already reported to the notifier by the controller.
	h.callbacks.OnProviderSuccess(ctx, resp)
	h.redirectToFrontend(w, r)
}

func (h *AuthHandler) redirectToFrontend(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.frontendURL+h.gate.View(), http.StatusFound)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// StateStore manages CSRF state parameters and PKCE verifiers (simple in-memory)
type StateStore struct {
	states sync.Map // map[state]StateData
}

// StateData stores state-related data
type StateData struct {
	Expiry       time.Time
	CodeVerifier string // For PKCE
}

// NewStateStore creates a new state store; expired entries are swept until ctx is done
func NewStateStore(ctx context.Context) *StateStore {
	store := &StateStore{}
	go store.cleanup(ctx)
	return store
}

// SaveWithVerifier stores a state with expiry and code verifier (for PKCE)
func (s *StateStore) SaveWithVerifier(state string, duration time.Duration, codeVerifier string) {
	s.states.Store(state, StateData{
		Expiry:       time.Now().Add(duration),
		CodeVerifier: codeVerifier,
	})
}

// VerifyAndGetVerifier checks and consumes a state, returning the code verifier
func (s *StateStore) VerifyAndGetVerifier(state string) (string, bool) {
	if state == "" {
		return "", false
	}
	val, ok := s.states.LoadAndDelete(state) // One-time use
	if !ok {
		return "", false
	}

	data := val.(StateData)
	if time.Now().After(data.Expiry) {
		return "", false
	}
	return data.CodeVerifier, true
}

func (s *StateStore) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			s.states.Range(func(key, value any) bool {
				data := value.(StateData)
				if now.After(data.Expiry) {
					s.states.Delete(key)
				}
				return true
			})
		}
	}
}
