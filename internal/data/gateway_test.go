package data

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"authgate/internal/biz"
	"authgate/internal/conf"
)

var testIdentity = conf.Identity{
	LoginRoute:  "/api/auth/login",
	SignupRoute: "/api/auth/signup",
	GoogleRoute: "/auth/google",
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) biz.AuthGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testIdentity
	cfg.BaseURL = srv.URL + "/"
	gw, err := NewIdentityGateway(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewIdentityGateway: %v", err)
	}
	return gw
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestLoginSuccess(t *testing.T) {
	var got credentialsBody
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		respond(http.StatusOK, `{"user":{"id":"u1","profileSetup":true,"email":"a@gmail.com"}}`)(w, r)
	})

	session, err := gw.Login(context.Background(), "a@gmail.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.ID != "u1" || !session.ProfileSetup {
		t.Fatalf("session = %+v", session)
	}
	if got.Email != "a@gmail.com" || got.Password != "pw" {
		t.Fatalf("request body = %+v", got)
	}
}

func TestLoginWithoutUserIDIsRejected(t *testing.T) {
	bodies := []string{
		`{"user":{"profileSetup":true}}`,
		`{"user":{"id":""}}`,
		`{}`,
		`not json`,
	}
	for _, body := range bodies {
		gw := newTestGateway(t, respond(http.StatusOK, body))
		_, err := gw.Login(context.Background(), "a@gmail.com", "pw")
		if !errors.Is(err, biz.ErrLoginRejected) {
			t.Fatalf("body %q: err = %v, want LoginRejected", body, err)
		}
	}
}

func TestLoginKeepsOddlyTypedProfileFields(t *testing.T) {
	gw := newTestGateway(t, respond(http.StatusOK, `{"user":{"id":"u1","profileSetup":true,"color":"#ff00aa","image":null}}`))

	session, err := gw.Login(context.Background(), "a@gmail.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.ID != "u1" || !session.ProfileSetup || session.Color != 0 {
		t.Fatalf("session = %+v", session)
	}
	if string(session.Extra["color"]) != `"#ff00aa"` {
		t.Fatalf("extra color = %s", session.Extra["color"])
	}
}

func TestNon2xxIsNetworkError(t *testing.T) {
	gw := newTestGateway(t, respond(http.StatusUnauthorized, `{"message":"bad credentials"}`))

	_, err := gw.Login(context.Background(), "a@gmail.com", "pw")
	if !errors.Is(err, biz.ErrNetwork) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
	var ae *biz.AuthError
	if !errors.As(err, &ae) || ae.Status != http.StatusUnauthorized {
		t.Fatalf("status not recorded: %v", err)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := testIdentity
	cfg.BaseURL = url
	gw, err := NewIdentityGateway(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewIdentityGateway: %v", err)
	}
	_, err = gw.ExchangeOAuthToken(context.Background(), "tok")
	if !errors.Is(err, biz.ErrNetwork) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
}

func TestSignupRequires201(t *testing.T) {
	gw := newTestGateway(t, respond(http.StatusOK, `{"user":{"id":"u1"}}`))
	_, err := gw.Signup(context.Background(), "a@gmail.com", "pw")
	if !errors.Is(err, biz.ErrSignupRejected) {
		t.Fatalf("200 signup err = %v, want SignupRejected", err)
	}

	gw = newTestGateway(t, respond(http.StatusCreated, `{"user":{"id":"u2","profileSetup":false}}`))
	session, err := gw.Signup(context.Background(), "a@gmail.com", "pw")
	if err != nil {
		t.Fatalf("201 signup: %v", err)
	}
	if session.ID != "u2" {
		t.Fatalf("session = %+v", session)
	}

	gw = newTestGateway(t, respond(http.StatusCreated, `{}`))
	if _, err := gw.Signup(context.Background(), "a@gmail.com", "pw"); !errors.Is(err, biz.ErrSignupRejected) {
		t.Fatalf("201 without user err = %v", err)
	}
}

func TestExchangeOAuthToken(t *testing.T) {
	var got tokenBody
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/google" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		respond(http.StatusOK, `{"user":{"id":"g1","profileSetup":false}}`)(w, r)
	})

	session, err := gw.ExchangeOAuthToken(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("ExchangeOAuthToken: %v", err)
	}
	if session.ID != "g1" || got.Token != "id-token" {
		t.Fatalf("session = %+v, token = %q", session, got.Token)
	}

	gw = newTestGateway(t, respond(http.StatusOK, `{"user":{}}`))
	_, err = gw.ExchangeOAuthToken(context.Background(), "id-token")
	if !errors.Is(err, biz.ErrOAuthRejected) || !biz.KindOf(err).IsRejected() {
		t.Fatalf("err = %v, want OAuthRejected", err)
	}
}

func TestCookiesAreReplayed(t *testing.T) {
	var sawCookie bool
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/signup":
			http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "abc", Path: "/"})
			respond(http.StatusCreated, `{"user":{"id":"u1"}}`)(w, r)
		case "/api/auth/login":
			if c, err := r.Cookie("jwt"); err == nil && c.Value == "abc" {
				sawCookie = true
			}
			respond(http.StatusOK, `{"user":{"id":"u1"}}`)(w, r)
		}
	})

	if _, err := gw.Signup(context.Background(), "a@gmail.com", "pw"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := gw.Login(context.Background(), "a@gmail.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sawCookie {
		t.Fatal("session cookie was not sent back")
	}
}

func TestRequestIDHeader(t *testing.T) {
	var got string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
		respond(http.StatusOK, `{"user":{"id":"u1"}}`)(w, r)
	})

	ctx := biz.WithRequestID(context.Background(), "req-42")
	if _, err := gw.Login(ctx, "a@gmail.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got != "req-42" {
		t.Fatalf("%s = %q", RequestIDHeader, got)
	}
}
