package data

import (
	"context"
	"maps"
	"sync"

	"authgate/internal/biz"
)

// memorySessionStore 进程内会话存储
type memorySessionStore struct {
	mu      sync.RWMutex
	session *biz.UserSession
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore() biz.SessionStore {
	return &memorySessionStore{}
}

// Get 返回当前会话的副本
func (s *memorySessionStore) Get(ctx context.Context) (*biz.UserSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, biz.ErrSessionNotFound
	}
	return cloneSession(s.session), nil
}

// Set 整体替换当前会话
func (s *memorySessionStore) Set(ctx context.Context, session *biz.UserSession) error {
	cp := cloneSession(session)
	s.mu.Lock()
	s.session = cp
	s.mu.Unlock()
	return nil
}

func cloneSession(session *biz.UserSession) *biz.UserSession {
	cp := *session
	cp.Extra = maps.Clone(session.Extra)
	return &cp
}
