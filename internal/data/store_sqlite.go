package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"authgate/internal/biz"

	_ "modernc.org/sqlite"
)

// SQLiteSessionStore SQLite 实现的会话存储
// 宿主应用重启后仍能读到上次提交的会话；表里最多一行。
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore 创建 SQLite 会话存储
func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	// 确保目录存在
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS current_session (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			user_id TEXT NOT NULL,
			session_data TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create current_session table: %w", err)
	}

	return &SQLiteSessionStore{db: db}, nil
}

// Get 读取当前会话
func (s *SQLiteSessionStore) Get(ctx context.Context) (*biz.UserSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT session_data FROM current_session WHERE slot = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, biz.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	var session biz.UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Set 覆盖写入当前会话
func (s *SQLiteSessionStore) Set(ctx context.Context, session *biz.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO current_session (slot, user_id, session_data, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			user_id = excluded.user_id,
			session_data = excluded.session_data,
			updated_at = CURRENT_TIMESTAMP
	`, session.ID, string(data))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
