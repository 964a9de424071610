package service

import (
	"context"
	"fmt"

	"pawforum/internal/models"
	"pawforum/internal/storage"
)

const defaultActivityLimit = 50

type ActivityService interface {
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

type activityServiceImpl struct {
	activityStorage storage.ActivityStorage
}

func NewActivityService(as storage.ActivityStorage) ActivityService {
	return &activityServiceImpl{activityStorage: as}
}

func (s *activityServiceImpl) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	activities, err := s.activityStorage.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activities: %w", err)
	}
	return activities, nil
}
