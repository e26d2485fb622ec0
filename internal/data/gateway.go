package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"authgate/internal/biz"
	"authgate/internal/conf"

	"golang.org/x/net/publicsuffix"
)

// RequestIDHeader carries the submission id to the identity backend.
const RequestIDHeader = "X-Request-ID"

// identityGateway HTTP 实现的身份后端网关
// 所有请求共用一个 cookie jar，后端设置的会话 cookie 会在后续请求中带上。
type identityGateway struct {
	client      *http.Client
	baseURL     string
	loginRoute  string
	signupRoute string
	googleRoute string
	logger      *slog.Logger
}

// NewIdentityGateway 创建身份后端网关
// client 为 nil 时创建新的 http.Client；不设置超时，请求只受调用方 context 约束。
func NewIdentityGateway(cfg conf.Identity, client *http.Client, logger *slog.Logger) (biz.AuthGateway, error) {
	if client == nil {
		client = &http.Client{}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.Jar = jar
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &identityGateway{
		client:      client,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		loginRoute:  cfg.LoginRoute,
		signupRoute: cfg.SignupRoute,
		googleRoute: cfg.GoogleRoute,
		logger:      logger,
	}, nil
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type userEnvelope struct {
	User *biz.UserSession `json:"user"`
}

// Login 凭据登录
func (g *identityGateway) Login(ctx context.Context, email, password string) (*biz.UserSession, error) {
	status, session, err := g.post(ctx, biz.OpLogin, g.loginRoute, credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return requireUser(biz.OpLogin, status, session)
}

// Signup 注册，只接受 201
func (g *identityGateway) Signup(ctx context.Context, email, password string) (*biz.UserSession, error) {
	status, session, err := g.post(ctx, biz.OpSignup, g.signupRoute, credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, &biz.AuthError{
			Kind:   biz.KindSignupRejected,
			Op:     biz.OpSignup,
			Status: status,
			Err:    fmt.Errorf("expected status %d", http.StatusCreated),
		}
	}
	return requireUser(biz.OpSignup, status, session)
}

// ExchangeOAuthToken 用 Google 凭据换取会话
func (g *identityGateway) ExchangeOAuthToken(ctx context.Context, token string) (*biz.UserSession, error) {
	status, session, err := g.post(ctx, biz.OpGoogle, g.googleRoute, tokenBody{Token: token})
	if err != nil {
		return nil, err
	}
	return requireUser(biz.OpGoogle, status, session)
}

// post 发送带凭据的 JSON POST
// 传输错误和非 2xx 返回 NetworkError；2xx 但响应体无法解析时视为逻辑拒绝。
func (g *identityGateway) post(ctx context.Context, op biz.Operation, route string, body any) (int, *biz.UserSession, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, biz.NewAuthError(biz.KindNetworkError, op, fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+route, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, biz.NewAuthError(biz.KindNetworkError, op, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := biz.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, biz.NewAuthError(biz.KindNetworkError, op, err)
	}
	defer resp.Body.Close()

	g.logger.DebugContext(ctx, "identity backend responded",
		"op", op, "status", resp.StatusCode, "request_id", biz.RequestIDFromContext(ctx))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil, &biz.AuthError{
			Kind:   biz.KindNetworkError,
			Op:     op,
			Status: resp.StatusCode,
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	var envelope userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		g.logger.WarnContext(ctx, "undecodable identity response", "op", op, "error", err)
		return resp.StatusCode, nil, &biz.AuthError{
			Kind:   biz.RejectedKind(op),
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	return resp.StatusCode, envelope.User, nil
}

// requireUser 只有带非空 user.id 的响应才算成功
func requireUser(op biz.Operation, status int, session *biz.UserSession) (*biz.UserSession, error) {
	if session == nil || session.ID == "" {
		return nil, &biz.AuthError{
			Kind:   biz.RejectedKind(op),
			Op:     op,
			Status: status,
			Err:    errors.New("response has no user id"),
		}
	}
	return session, nil
}
