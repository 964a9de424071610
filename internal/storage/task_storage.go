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

type TaskStorage interface {
	GetTaskByPostID(ctx context.Context, postID int64) (*models.Task, error)
	CloseTask(ctx context.Context, postID int64) (*models.Task, error)
	AddWaitingListEntry(ctx context.Context, entry *models.WaitingListEntry) error
	GetWaitingList(ctx context.Context, taskID int64) ([]models.WaitingListEntry, error)
}

type postgresTaskStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresTaskStorage(pool *pgxpool.Pool) TaskStorage {
	return &postgresTaskStorage{pool: pool}
}

func (s *postgresTaskStorage) GetTaskByPostID(ctx context.Context, postID int64) (*models.Task, error) {
	query := `SELECT post_id, status, assigned_to FROM tasks WHERE post_id = $1`

	var task models.Task
	err := s.pool.QueryRow(ctx, query, postID).Scan(&task.PostID, &task.Status, &task.AssignedTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task for post %d: %w", postID, err)
	}
	return &task, nil
}

func (s *postgresTaskStorage) CloseTask(ctx context.Context, postID int64) (*models.Task, error) {
	query := `
        UPDATE tasks
        SET status = $1
        WHERE post_id = $2
        RETURNING post_id, status, assigned_to`

	var task models.Task
	err := s.pool.QueryRow(ctx, query, models.TaskStatusClosed, postID).
		Scan(&task.PostID, &task.Status, &task.AssignedTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to close task %d: %w", postID, err)
	}
	return &task, nil
}

// AddWaitingListEntry полагается на уникальный индекс (task_id, user_id):
// повторная заявка определяется по нарушению ограничения, а не по
// предварительной проверке.
func (s *postgresTaskStorage) AddWaitingListEntry(ctx context.Context, entry *models.WaitingListEntry) error {
	query := `
        INSERT INTO waiting_list (task_id, user_id, message)
        VALUES ($1, $2, $3)
        RETURNING applied_at`

	err := s.pool.QueryRow(ctx, query, entry.TaskID, entry.UserID, entry.Message).Scan(&entry.AppliedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return models.ErrAlreadyApplied
			}
			if pgErr.Code == "23503" {
				return models.ErrNotFound
			}
		}
		return fmt.Errorf("failed to insert waiting list entry: %w", err)
	}
	return nil
}

func (s *postgresTaskStorage) GetWaitingList(ctx context.Context, taskID int64) ([]models.WaitingListEntry, error) {
	query := `
        SELECT w.task_id, w.user_id, u.username, w.message, w.applied_at
        FROM waiting_list w
        JOIN users u ON u.id = w.user_id
        WHERE w.task_id = $1
        ORDER BY w.applied_at ASC`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query waiting list for task %d: %w", taskID, err)
	}
	defer rows.Close()

	entries := make([]models.WaitingListEntry, 0)
	for rows.Next() {
		var entry models.WaitingListEntry
		err := rows.Scan(&entry.TaskID, &entry.UserID, &entry.Username, &entry.Message, &entry.AppliedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waiting list row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over waiting list rows: %w", err)
	}

	return entries, nil
}
