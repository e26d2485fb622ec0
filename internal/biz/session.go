package biz

import (
	"context"
)

// AuthGateway 身份后端网关
type AuthGateway interface {
	// Login 凭据登录；响应中必须带非空 user.id
	Login(ctx context.Context, email, password string) (*UserSession, error)
	// Signup 注册；只有 HTTP 201 视为成功
	Signup(ctx context.Context, email, password string) (*UserSession, error)
	// ExchangeOAuthToken 用第三方 OAuth 凭据换取会话
	ExchangeOAuthToken(ctx context.Context, token string) (*UserSession, error)
}

// SessionStore 全局会话存储（宿主应用持有）
// 单写者约定：同一时刻只有一个提交会写入，由 Controller 的 in-flight 保护保证。
type SessionStore interface {
	// Get 返回已提交的会话，没有时返回 ErrSessionNotFound
	Get(ctx context.Context) (*UserSession, error)
	// Set 单次写入，整体替换，不做合并
	Set(ctx context.Context, session *UserSession) error
}

// NotifyKind 通知类型
type NotifyKind string

const (
	NotifyInfo  NotifyKind = "info"
	NotifyError NotifyKind = "error"
)

// Notifier 通知端口，fire-and-forget
type Notifier interface {
	Notify(kind NotifyKind, message string)
}

// Navigator 导航端口，立即生效，不排队
type Navigator interface {
	GoTo(path string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind NotifyKind, message string)

func (f NotifierFunc) Notify(kind NotifyKind, message string) { f(kind, message) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) GoTo(path string) { f(path) }
