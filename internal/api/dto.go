package api

import (
	"context"

	"authgate/internal/auth"
	"authgate/internal/biz"
)

// FormRequest 表单更新请求 DTO
type FormRequest struct {
	Mode            string `json:"mode,omitempty"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Notification 通知 DTO
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// GateState 门禁状态 DTO；不回显密码
type GateState struct {
	Mode          string         `json:"mode"`
	Email         string         `json:"email"`
	Phase         string         `json:"phase"`
	View          string         `json:"view"`
	Notifications []Notification `json:"notifications"`
}

// SubmitResponse 提交结果 DTO
type SubmitResponse struct {
	View      string `json:"view"`
	Navigated bool   `json:"navigated"`
}

// SessionInfo 已提交会话 DTO
type SessionInfo struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	ProfileSetup bool   `json:"profileSetup"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Image        string `json:"image,omitempty"`
	Color        int    `json:"color,omitempty"`
}

// ErrorResponse 错误响应 DTO
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// GateService 门禁服务接口（由 service 层实现）
type GateService interface {
	State(ctx context.Context) GateState
	UpdateForm(ctx context.Context, req *FormRequest) error
	SetMode(ctx context.Context, mode string) error
	Submit(ctx context.Context) (*SubmitResponse, error)
	Session(ctx context.Context) (*SessionInfo, error)
	// View 当前视图，OAuth 回调结束后据此跳转前端
	View() string
}

// OAuthCallbacks 接收 Google 登录组件回调（由 auth.GoogleOAuthAdapter 实现）
type OAuthCallbacks interface {
	OnProviderSuccess(ctx context.Context, resp auth.ProviderResponse) (biz.NavigationTarget, error)
	OnProviderFailure(ctx context.Context, providerErr error) error
}
