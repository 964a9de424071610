package storage

import (
	"context"
	"errors"
	"fmt"

	"pawforum/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReplyStorage interface {
	CreateReply(ctx context.Context, reply *models.Reply) (*models.Reply, error)
	GetReplyByID(ctx context.Context, id int64) (*models.Reply, error)
	GetPostReplies(ctx context.Context, postID int64) ([]models.Reply, error)
	DeleteReply(ctx context.Context, id int64) error
}

type postgresReplyStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresReplyStorage(pool *pgxpool.Pool) ReplyStorage {
	return &postgresReplyStorage{pool: pool}
}

// CreateReply проверяет внутри транзакции, что родительский ответ принадлежит
// тому же посту, и только потом вставляет строку.
func (s *postgresReplyStorage) CreateReply(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var postExists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, reply.PostID).Scan(&postExists)
	if err != nil {
		return nil, fmt.Errorf("failed to check post existence: %w", err)
	}
	if !postExists {
		return nil, models.ErrNotFound
	}

	if reply.ParentID != nil {
		var parentPostID int64
		err = tx.QueryRow(ctx, `SELECT post_id FROM replies WHERE id = $1`, *reply.ParentID).Scan(&parentPostID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.ErrNotFound
			}
			return nil, fmt.Errorf("failed to check parent reply: %w", err)
		}
		if parentPostID != reply.PostID {
			return nil, models.ErrParentMismatch
		}
	}

	query := `
        INSERT INTO replies (post_id, author, parent_reply_id, content)
        VALUES ($1, $2, $3, $4)
        RETURNING id, like_count, created`

	created := *reply
	err = tx.QueryRow(ctx, query, reply.PostID, reply.Author, reply.ParentID, reply.Content).
		Scan(&created.ID, &created.LikeCount, &created.Created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reply: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reply creation: %w", err)
	}

	return &created, nil
}

func (s *postgresReplyStorage) GetReplyByID(ctx context.Context, id int64) (*models.Reply, error) {
	query := `
        SELECT id, post_id, author, parent_reply_id, content, like_count, created
        FROM replies
        WHERE id = $1`

	var reply models.Reply
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&reply.ID, &reply.PostID, &reply.Author, &reply.ParentID,
		&reply.Content, &reply.LikeCount, &reply.Created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reply by ID: %w", err)
	}
	return &reply, nil
}

// GetPostReplies возвращает все ответы поста в порядке создания; дерево из
// плоского списка собирает сервисный слой.
func (s *postgresReplyStorage) GetPostReplies(ctx context.Context, postID int64) ([]models.Reply, error) {
	query := `
        SELECT id, post_id, author, parent_reply_id, content, like_count, created
        FROM replies
        WHERE post_id = $1
        ORDER BY created ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies for post %d: %w", postID, err)
	}
	defer rows.Close()

	replies := make([]models.Reply, 0)
	for rows.Next() {
		var reply models.Reply
		err := rows.Scan(
			&reply.ID, &reply.PostID, &reply.Author, &reply.ParentID,
			&reply.Content, &reply.LikeCount, &reply.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reply row: %w", err)
		}
		replies = append(replies, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over reply rows: %w", err)
	}

	return replies, nil
}

// DeleteReply удаляет ответ; дочернее поддерево и лайки уходят по каскадным
// внешним ключам.
func (s *postgresReplyStorage) DeleteReply(ctx context.Context, id int64) error {
	commandTag, err := s.pool.Exec(ctx, `DELETE FROM replies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reply %d: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
