package biz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AuthMode 表单当前模式（登录 / 注册）
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeSignup
)

func (m AuthMode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeSignup:
		return "signup"
	default:
		return fmt.Sprintf("AuthMode(%d)", int(m))
	}
}

// ParseAuthMode parses "login" or "signup" (case-insensitive).
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "login":
		return ModeLogin, nil
	case "signup":
		return ModeSignup, nil
	default:
		return ModeLogin, fmt.Errorf("unknown auth mode %q", s)
	}
}

// Operation identifies which path produced an authentication result.
type Operation string

const (
	OpLogin  Operation = "login"
	OpSignup Operation = "signup"
	OpGoogle Operation = "google"
)

// Operation returns the backend operation a submission in this mode performs.
func (m AuthMode) Operation() Operation {
	if m == ModeSignup {
		return OpSignup
	}
	return OpLogin
}

// Credentials 凭据，仅在一次提交中使用，不持久化
type Credentials struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidationOutcome 本地校验结果
type ValidationOutcome struct {
	Valid  bool
	Reason ErrorKind
}

// Navigation paths.
const (
	PathAuth    = "/auth"
	PathChat    = "/chat"
	PathProfile = "/profile"
)

// NavigationTarget is the view chosen after a submission. Navigated is false
// when the router stayed on the current view.
type NavigationTarget struct {
	Path      string
	Navigated bool
}

// UserSession 后端返回的用户会话
// 只能由成功的后端响应解码得到；未识别的资料字段保存在 Extra 中。
type UserSession struct {
	ID           string
	Email        string
	ProfileSetup bool
	FirstName    string
	LastName     string
	Image        string
	Color        int
	Extra        map[string]json.RawMessage
}

type userSessionJSON struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	ProfileSetup bool   `json:"profileSetup"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Image        string `json:"image,omitempty"`
	Color        int    `json:"color,omitempty"`
}

// UnmarshalJSON decodes the backend user object. id and profileSetup must
// have the right types; a profile field that does not fit its Go type is
// kept raw in Extra together with the unknown fields.
func (s *UserSession) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	var out UserSession
	if raw, ok := all["id"]; ok {
		if err := json.Unmarshal(raw, &out.ID); err != nil {
			return fmt.Errorf("user id: %w", err)
		}
	}
	if raw, ok := all["profileSetup"]; ok {
		if err := json.Unmarshal(raw, &out.ProfileSetup); err != nil {
			return fmt.Errorf("user profileSetup: %w", err)
		}
	}

	profile := map[string]any{
		"email":     &out.Email,
		"firstName": &out.FirstName,
		"lastName":  &out.LastName,
		"image":     &out.Image,
		"color":     &out.Color,
	}
	for k, v := range all {
		if k == "id" || k == "profileSetup" {
			continue
		}
		if dst, ok := profile[k]; ok && json.Unmarshal(v, dst) == nil {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}
	*s = out
	return nil
}

// MarshalJSON re-emits known and preserved fields.
func (s UserSession) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(userSessionJSON{
		ID:           s.ID,
		Email:        s.Email,
		ProfileSetup: s.ProfileSetup,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Image:        s.Image,
		Color:        s.Color,
	})
	if err != nil || len(s.Extra) == 0 {
		return known, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(s.Extra)+len(fields))
	for k, v := range s.Extra {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return json.Marshal(out)
}
