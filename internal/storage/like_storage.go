package storage

import (
	"context"
	"errors"
	"fmt"

	"pawforum/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeStorage interface {
	TogglePostLike(ctx context.Context, userID, postID int64) (int32, bool, error)
	ToggleReplyLike(ctx context.Context, userID, replyID int64) (int32, bool, error)
}

type postgresLikeStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresLikeStorage(pool *pgxpool.Pool) LikeStorage {
	return &postgresLikeStorage{pool: pool}
}

func (s *postgresLikeStorage) TogglePostLike(ctx context.Context, userID, postID int64) (int32, bool, error) {
	return s.toggle(ctx, userID, postID,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)`,
		`DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`,
		`INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2)`,
		`UPDATE posts SET like_count = like_count + $1 WHERE id = $2 RETURNING like_count`,
	)
}

func (s *postgresLikeStorage) ToggleReplyLike(ctx context.Context, userID, replyID int64) (int32, bool, error) {
	return s.toggle(ctx, userID, replyID,
		`SELECT EXISTS(SELECT 1 FROM reply_likes WHERE user_id = $1 AND reply_id = $2)`,
		`DELETE FROM reply_likes WHERE user_id = $1 AND reply_id = $2`,
		`INSERT INTO reply_likes (user_id, reply_id) VALUES ($1, $2)`,
		`UPDATE replies SET like_count = like_count + $1 WHERE id = $2 RETURNING like_count`,
	)
}

// toggle снимает или ставит лайк и в той же транзакции корректирует
// денормализованный счётчик. Конкурентный двойной INSERT упирается в
// уникальный индекс пары и откатывается целиком.
func (s *postgresLikeStorage) toggle(ctx context.Context, userID, targetID int64, existsQuery, deleteQuery, insertQuery, countQuery string) (int32, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction for like toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	var liked bool
	if err := tx.QueryRow(ctx, existsQuery, userID, targetID).Scan(&liked); err != nil {
		return 0, false, fmt.Errorf("failed to check existing like: %w", err)
	}

	delta := 1
	if liked {
		if _, err := tx.Exec(ctx, deleteQuery, userID, targetID); err != nil {
			return 0, false, fmt.Errorf("failed to delete like: %w", err)
		}
		delta = -1
	} else {
		if _, err := tx.Exec(ctx, insertQuery, userID, targetID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return 0, false, models.ErrNotFound
			}
			return 0, false, fmt.Errorf("failed to insert like: %w", err)
		}
	}

	var count int32
	if err := tx.QueryRow(ctx, countQuery, delta, targetID).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, models.ErrNotFound
		}
		return 0, false, fmt.Errorf("failed to update like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, fmt.Errorf("failed to commit like toggle: %w", err)
	}

	return count, !liked, nil
}
