package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"authgate/internal/api"
	"authgate/internal/auth"
	"authgate/internal/biz"
	"authgate/internal/conf"
	"authgate/internal/data"
)

type harness struct {
	router  http.Handler
	ports   *HostPorts
	store   biz.SessionStore
	adapter *auth.GoogleOAuthAdapter
}

// newHarness wires the real stack against a fake identity backend.
func newHarness(t *testing.T, backend http.HandlerFunc) *harness {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw, err := data.NewIdentityGateway(conf.Identity{
		BaseURL:     srv.URL,
		LoginRoute:  "/api/auth/login",
		SignupRoute: "/api/auth/signup",
		GoogleRoute: "/auth/google",
	}, nil, logger)
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	store := data.NewMemorySessionStore()
	ports := NewHostPorts(logger)
	controller := biz.NewController(gw, biz.NewSessionRouter(store, ports, ports, logger), logger)
	gate := NewGateService(controller, store, ports)

	return &harness{
		router:  api.NewRouter(api.NewGateHandler(gate, logger), nil),
		ports:   ports,
		store:   store,
		adapter: auth.NewGoogleOAuthAdapter(controller),
	}
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func (h *harness) state(t *testing.T) api.GateState {
	t.Helper()
	var s api.GateState
	if err := json.NewDecoder(h.do(t, http.MethodGet, "/gate", "").Body).Decode(&s); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return s
}

func identityBackend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/auth/login":
		io.WriteString(w, `{"user":{"id":"u1","email":"a@gmail.com","profileSetup":true}}`)
	case "/api/auth/signup":
		w.WriteHeader(http.StatusOK) // not 201
		io.WriteString(w, `{"user":{"id":"u2"}}`)
	case "/auth/google":
		io.WriteString(w, `{"user":{"profileSetup":true}}`)
	default:
		http.NotFound(w, r)
	}
}

func TestLoginThroughHostShell(t *testing.T) {
	h := newHarness(t, identityBackend)

	h.do(t, http.MethodPut, "/gate/form", `{"mode":"login","email":"a@gmail.com","password":"pw"}`)
	rec := h.do(t, http.MethodPost, "/gate/submit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body)
	}

	st := h.state(t)
	if st.View != biz.PathChat || st.Phase != "idle" || len(st.Notifications) != 0 {
		t.Fatalf("state = %+v", st)
	}
	rec = h.do(t, http.MethodGet, "/gate/session", "")
	if !strings.Contains(rec.Body.String(), `"id":"u1"`) {
		t.Fatalf("session = %s", rec.Body)
	}
}

func TestValidationFailureKeepsForm(t *testing.T) {
	h := newHarness(t, identityBackend)

	h.do(t, http.MethodPut, "/gate/form", `{"email":"a@yahoo.com","password":"pw"}`)
	rec := h.do(t, http.MethodPost, "/gate/submit", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("submit = %d", rec.Code)
	}

	st := h.state(t)
	if st.Email != "a@yahoo.com" || st.View != biz.PathAuth {
		t.Fatalf("state = %+v", st)
	}
	if len(st.Notifications) != 1 || st.Notifications[0].Message != "Email should be a valid gmail address." {
		t.Fatalf("notifications = %+v", st.Notifications)
	}
	if again := h.state(t); len(again.Notifications) != 0 {
		t.Fatal("notifications must be drained")
	}
}

func TestSignupWith200IsRejected(t *testing.T) {
	h := newHarness(t, identityBackend)

	h.do(t, http.MethodPost, "/gate/mode/signup", "")
	h.do(t, http.MethodPut, "/gate/form", `{"email":"b@gmail.com","password":"pw","confirm_password":"pw"}`)
	rec := h.do(t, http.MethodPost, "/gate/submit", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("submit = %d", rec.Code)
	}

	st := h.state(t)
	if st.View != biz.PathAuth || st.Mode != "signup" {
		t.Fatalf("state = %+v", st)
	}
	if len(st.Notifications) != 1 || st.Notifications[0].Message != "Signup failed. Please try again." {
		t.Fatalf("notifications = %+v", st.Notifications)
	}
	if _, err := h.store.Get(context.Background()); err != biz.ErrSessionNotFound {
		t.Fatalf("store written: %v", err)
	}
}

func TestGoogleWithoutUserID(t *testing.T) {
	h := newHarness(t, identityBackend)

	_, err := h.adapter.OnProviderSuccess(context.Background(), auth.ProviderResponse{Credential: "tok"})
	if !biz.KindOf(err).IsRejected() {
		t.Fatalf("err = %v", err)
	}
	st := h.state(t)
	if len(st.Notifications) != 1 || st.Notifications[0].Kind != string(biz.NotifyError) {
		t.Fatalf("notifications = %+v", st.Notifications)
	}
	if _, err := h.store.Get(context.Background()); err != biz.ErrSessionNotFound {
		t.Fatal("store must not be written")
	}
}

func TestHostPortsCapsPending(t *testing.T) {
	p := NewHostPorts(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < maxPendingNotifications+5; i++ {
		p.Notify(biz.NotifyInfo, "n")
	}
	if got := len(p.Drain()); got != maxPendingNotifications {
		t.Fatalf("pending = %d", got)
	}
	if p.View() != biz.PathAuth {
		t.Fatalf("initial view = %q", p.View())
	}
}
