package biz

import (
	"context"
	"errors"
	"log/slog"
)

// SessionRouter commits a successful result to the session store and picks
// the next view. It keeps no state between calls.
type SessionRouter struct {
	store     SessionStore
	notifier  Notifier
	navigator Navigator
	logger    *slog.Logger
}

// NewSessionRouter creates a SessionRouter.
func NewSessionRouter(store SessionStore, notifier Notifier, navigator Navigator, logger *slog.Logger) *SessionRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRouter{
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// Route handles the outcome of one backend call.
//
// On success the session is written once and the user is sent to /chat or
// /profile. Signup always lands on /profile. On failure nothing is written,
// nothing navigates, and the failure is forwarded to the notifier.
func (r *SessionRouter) Route(ctx context.Context, op Operation, session *UserSession, err error) NavigationTarget {
	target, _ := r.route(ctx, op, session, err)
	return target
}

func (r *SessionRouter) route(ctx context.Context, op Operation, session *UserSession, err error) (NavigationTarget, error) {
	if err == nil && (session == nil || session.ID == "") {
		err = NewAuthError(RejectedKind(op), op, errors.New("missing user id"))
	}
	if err != nil {
		r.Fail(ctx, op, err)
		return NavigationTarget{}, err
	}

	if setErr := r.store.Set(ctx, session); setErr != nil {
		err = NewAuthError(KindSessionStoreFailed, op, setErr)
		r.Fail(ctx, op, err)
		return NavigationTarget{}, err
	}

	path := nextPath(op, session)
	r.navigator.GoTo(path)
	r.logger.InfoContext(ctx, "authenticated",
		"op", op, "user_id", session.ID, "profile_setup", session.ProfileSetup, "path", path,
		"request_id", RequestIDFromContext(ctx))
	return NavigationTarget{Path: path, Navigated: true}, nil
}

// Fail forwards a failure to the notifier without touching the store.
func (r *SessionRouter) Fail(ctx context.Context, op Operation, err error) {
	kind := KindOf(err)
	if kind == KindNone {
		kind = KindNetworkError
	}
	r.notifier.Notify(NotifyKindFor(kind), Message(kind, op))
	r.logger.WarnContext(ctx, "authentication failed",
		"op", op, "kind", kind, "error", err, "request_id", RequestIDFromContext(ctx))
}

func nextPath(op Operation, session *UserSession) string {
	if op == OpSignup || !session.ProfileSetup {
		return PathProfile
	}
	return PathChat
}
