package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
)

// SaveSession stores session as the single active session.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session *model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}

	created := session.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	tokenType := session.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, token_type, user_name, user_email, created_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			token_type = excluded.token_type,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			created_at = excluded.created_at`,
		session.Token, tokenType, session.UserName, session.UserEmail, created.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the active session or common.ErrNoSession.
func (s *SQLiteStorage) GetSession(ctx context.Context) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var session model.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT token, token_type, user_name, user_email, created_at
		FROM sessions WHERE id = 1`).
		Scan(&session.Token, &session.TokenType, &session.UserName, &session.UserEmail, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes the active session. Deleting when none exists is not an error.
func (s *SQLiteStorage) DeleteSession(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
