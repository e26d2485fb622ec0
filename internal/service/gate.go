package service

import (
	"context"
	"sync"

	"authgate/internal/api"
	"authgate/internal/biz"
)

// gateService 门禁服务实现，持有唯一的 FormState
type gateService struct {
	controller *biz.Controller
	store      biz.SessionStore
	ports      *HostPorts

	mu   sync.Mutex
	form *biz.FormState
}

// NewGateService 创建 GateService
func NewGateService(controller *biz.Controller, store biz.SessionStore, ports *HostPorts) api.GateService {
	return &gateService{
		controller: controller,
		store:      store,
		ports:      ports,
		form:       biz.NewFormState(),
	}
}

// State 返回表单与流程状态，同时取走未读通知
func (s *gateService) State(ctx context.Context) api.GateState {
	s.mu.Lock()
	mode, email := s.form.Mode, s.form.Email
	s.mu.Unlock()

	return api.GateState{
		Mode:          mode.String(),
		Email:         email,
		Phase:         s.controller.Phase().String(),
		View:          s.ports.View(),
		Notifications: s.ports.Drain(),
	}
}

// UpdateForm 整体替换表单字段；mode 为空时保持当前模式
func (s *gateService) UpdateForm(ctx context.Context, req *api.FormRequest) error {
	var (
		mode    biz.AuthMode
		hasMode = req.Mode != ""
	)
	if hasMode {
		m, err := biz.ParseAuthMode(req.Mode)
		if err != nil {
			return err
		}
		mode = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if hasMode {
		s.form.SetMode(mode)
	}
	s.form.SetEmail(req.Email)
	s.form.SetPassword(req.Password)
	s.form.SetConfirmPassword(req.ConfirmPassword)
	return nil
}

// SetMode 切换登录 / 注册，字段保留
func (s *gateService) SetMode(ctx context.Context, mode string) error {
	m, err := biz.ParseAuthMode(mode)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.form.SetMode(m)
	s.mu.Unlock()
	return nil
}

// Submit 以当前表单快照提交
func (s *gateService) Submit(ctx context.Context) (*api.SubmitResponse, error) {
	s.mu.Lock()
	snapshot := *s.form
	s.mu.Unlock()

	target, err := s.controller.Submit(ctx, &snapshot)
	if err != nil {
		return nil, err
	}
	return &api.SubmitResponse{View: target.Path, Navigated: target.Navigated}, nil
}

// Session 返回已提交的会话
func (s *gateService) Session(ctx context.Context) (*api.SessionInfo, error) {
	session, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &api.SessionInfo{
		ID:           session.ID,
		Email:        session.Email,
		ProfileSetup: session.ProfileSetup,
		FirstName:    session.FirstName,
		LastName:     session.LastName,
		Image:        session.Image,
		Color:        session.Color,
	}, nil
}

// View 当前视图
func (s *gateService) View() string {
	return s.ports.View()
}
