package biz

import (
	"context"
	"log/slog"
	"sync"
)

// Phase is the controller's position in the per-submission state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseRouting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseRouting:
		return "routing"
	default:
		return "unknown"
	}
}

// Controller 认证流程控制器
// 校验 -> 网关 -> 路由；同一时刻只允许一个提交（密码或 OAuth），
// 进行中的再次提交直接拒绝（SubmissionInFlight），不排队。
type Controller struct {
	gateway AuthGateway
	router  *SessionRouter
	logger  *slog.Logger

	mu    sync.Mutex
	phase Phase
}

// NewController creates a Controller.
func NewController(gateway AuthGateway, router *SessionRouter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gateway: gateway,
		router:  router,
		logger:  logger,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Submit validates the form for its current mode and, when valid, performs
// the matching backend call and routes the result. The form is never
// modified.
func (c *Controller) Submit(ctx context.Context, form *FormState) (NavigationTarget, error) {
	ctx = ensureRequestID(ctx)
	mode := form.Mode
	op := mode.Operation()

	if err := c.begin(ctx, op, PhaseValidating); err != nil {
		return NavigationTarget{}, err
	}
	defer c.setPhase(PhaseIdle)

	creds := form.Credentials()
	if outcome := Validate(mode, creds); !outcome.Valid {
		err := NewAuthError(outcome.Reason, op, nil)
		c.router.Fail(ctx, op, err)
		return NavigationTarget{}, err
	}

	c.setPhase(PhaseSubmitting)
	var (
		session *UserSession
		err     error
	)
	switch op {
	case OpSignup:
		session, err = c.gateway.Signup(ctx, creds.Email, creds.Password)
	default:
		session, err = c.gateway.Login(ctx, creds.Email, creds.Password)
	}

	c.setPhase(PhaseRouting)
	return c.router.route(ctx, op, session, err)
}

// SubmitOAuth exchanges a provider token for a session and routes the result.
func (c *Controller) SubmitOAuth(ctx context.Context, token string) (NavigationTarget, error) {
	ctx = ensureRequestID(ctx)
	if err := c.begin(ctx, OpGoogle, PhaseSubmitting); err != nil {
		return NavigationTarget{}, err
	}
	defer c.setPhase(PhaseIdle)

	session, err := c.gateway.ExchangeOAuthToken(ctx, token)

	c.setPhase(PhaseRouting)
	return c.router.route(ctx, OpGoogle, session, err)
}

// Fail reports a failure produced outside the backend call, such as the
// OAuth widget giving up. No store write, no navigation.
func (c *Controller) Fail(ctx context.Context, op Operation, err error) {
	c.router.Fail(ctx, op, err)
}

// begin moves Idle -> next, or rejects when another submission is running.
func (c *Controller) begin(ctx context.Context, op Operation, next Phase) error {
	c.mu.Lock()
	current := c.phase
	if current == PhaseIdle {
		c.phase = next
	}
	c.mu.Unlock()

	if current != PhaseIdle {
		err := NewAuthError(KindSubmissionInFlight, op, nil)
		c.logger.InfoContext(ctx, "submission rejected", "op", op, "phase", current)
		c.router.Fail(ctx, op, err)
		return err
	}
	return nil
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}
