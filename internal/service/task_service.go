package service

import (
	"context"
	"errors"
	"fmt"

	"pawforum/internal/models"
	"pawforum/internal/storage"
)

type TaskService interface {
	Apply(ctx context.Context, applicantID, taskID int64, message string) (*models.WaitingListEntry, error)
	Close(ctx context.Context, requesterID, taskID int64) (*models.Task, error)
	Applicants(ctx context.Context, taskID int64) ([]models.WaitingListEntry, error)
}

type taskServiceImpl struct {
	taskStorage     storage.TaskStorage
	postStorage     storage.PostStorage
	activityStorage storage.ActivityStorage
}

func NewTaskService(ts storage.TaskStorage, ps storage.PostStorage, as storage.ActivityStorage) TaskService {
	return &taskServiceImpl{
		taskStorage:     ts,
		postStorage:     ps,
		activityStorage: as,
	}
}

// Apply ставит пользователя в список ожидания открытой задачи. Повторная
// заявка того же пользователя отклоняется.
func (s *taskServiceImpl) Apply(ctx context.Context, applicantID, taskID int64, message string) (*models.WaitingListEntry, error) {
	task, err := s.taskStorage.GetTaskByPostID(ctx, taskID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to check task existence: %w", err)
	}
	if task.Status == models.TaskStatusClosed {
		return nil, models.ErrTaskClosed
	}

	entry := &models.WaitingListEntry{
		TaskID:  taskID,
		UserID:  applicantID,
		Message: message,
	}
	if err := s.taskStorage.AddWaitingListEntry(ctx, entry); err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyApplied):
			return nil, models.ErrAlreadyApplied
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		default:
			return nil, fmt.Errorf("failed to save waiting list entry: %w", err)
		}
	}

	var target *int64
	if post, err := s.postStorage.GetPostByID(ctx, taskID); err == nil {
		target = &post.CreatedBy
	}
	recordActivity(ctx, s.activityStorage, applicantID, "applied to a task from", target)

	return entry, nil
}

// Close закрывает задачу. Разрешено только автору поста; переоткрытие не
// поддерживается.
func (s *taskServiceImpl) Close(ctx context.Context, requesterID, taskID int64) (*models.Task, error) {
	post, err := s.postStorage.GetPostByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post for task %d: %w", taskID, err)
	}

	if post.CreatedBy != requesterID {
		return nil, models.ErrNotOwner
	}

	task, err := s.taskStorage.CloseTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to close task %d: %w", taskID, err)
	}

	recordActivity(ctx, s.activityStorage, requesterID, "closed a task", nil)

	return task, nil
}

func (s *taskServiceImpl) Applicants(ctx context.Context, taskID int64) ([]models.WaitingListEntry, error) {
	if _, err := s.taskStorage.GetTaskByPostID(ctx, taskID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to check task existence: %w", err)
	}

	entries, err := s.taskStorage.GetWaitingList(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get waiting list: %w", err)
	}
	return entries, nil
}
