package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawforum/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionStorage interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteOtherSessions(ctx context.Context, userID int64, keepID string) error
}

type postgresSessionStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionStorage(pool *pgxpool.Pool) SessionStorage {
	return &postgresSessionStorage{pool: pool}
}

func (s *postgresSessionStorage) CreateSession(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`

	_, err := s.pool.Exec(ctx, query, session.ID, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession возвращает только действующую сессию; истёкшая равна отсутствующей.
func (s *postgresSessionStorage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, user_id, expires_at FROM sessions WHERE id = $1 AND expires_at > $2`

	var session models.Session
	err := s.pool.QueryRow(ctx, query, id, time.Now()).Scan(&session.ID, &session.UserID, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

func (s *postgresSessionStorage) DeleteSession(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *postgresSessionStorage) DeleteOtherSessions(ctx context.Context, userID int64, keepID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1 AND id <> $2`, userID, keepID)
	if err != nil {
		return fmt.Errorf("failed to delete old sessions: %w", err)
	}
	return nil
}
