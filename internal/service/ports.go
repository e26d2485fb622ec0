package service

import (
	"log/slog"
	"sync"

	"authgate/internal/api"
	"authgate/internal/biz"
)

// maxPendingNotifications 未读通知上限，超出时丢弃最旧的
const maxPendingNotifications = 32

// HostPorts 宿主侧的通知与导航实现
// 通知缓存在内存中，由前端轮询 /gate 时取走；导航只记录当前视图。
type HostPorts struct {
	logger *slog.Logger

	mu      sync.Mutex
	pending []api.Notification
	view    string
}

// NewHostPorts 创建 HostPorts，初始视图为 /auth
func NewHostPorts(logger *slog.Logger) *HostPorts {
	if logger == nil {
		logger = slog.Default()
	}
	return &HostPorts{logger: logger, view: biz.PathAuth}
}

// Notify 实现 biz.Notifier
func (p *HostPorts) Notify(kind biz.NotifyKind, message string) {
	p.logger.Info("notify", "kind", kind, "message", message)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, api.Notification{Kind: string(kind), Message: message})
	if over := len(p.pending) - maxPendingNotifications; over > 0 {
		p.pending = append([]api.Notification(nil), p.pending[over:]...)
	}
}

// GoTo 实现 biz.Navigator
func (p *HostPorts) GoTo(path string) {
	p.mu.Lock()
	p.view = path
	p.mu.Unlock()
}

// View 返回当前视图
func (p *HostPorts) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Drain 取走所有未读通知
func (p *HostPorts) Drain() []api.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.pending
	p.pending = nil
	if out == nil {
		out = []api.Notification{}
	}
	return out
}
