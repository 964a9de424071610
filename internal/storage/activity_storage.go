package storage

import (
	"context"
	"fmt"

	"pawforum/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityStorage interface {
	Record(ctx context.Context, activity *models.Activity) error
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

type postgresActivityStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresActivityStorage(pool *pgxpool.Pool) ActivityStorage {
	return &postgresActivityStorage{pool: pool}
}

func (s *postgresActivityStorage) Record(ctx context.Context, activity *models.Activity) error {
	query := `
        INSERT INTO activities (user_id, action, target_user_id)
        VALUES ($1, $2, $3)
        RETURNING id, created`

	err := s.pool.QueryRow(ctx, query, activity.UserID, activity.Action, activity.TargetUserID).
		Scan(&activity.ID, &activity.Created)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (s *postgresActivityStorage) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	query := `
        SELECT id, user_id, action, target_user_id, created
        FROM activities
        ORDER BY created DESC, id DESC
        LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities := make([]models.Activity, 0)
	for rows.Next() {
		var activity models.Activity
		err := rows.Scan(&activity.ID, &activity.UserID, &activity.Action, &activity.TargetUserID, &activity.Created)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over activity rows: %w", err)
	}

	return activities, nil
}
