package service

import (
	"context"
	"errors"
	"fmt"

	"pawforum/internal/models"
	"pawforum/internal/storage"
)

type ReplyService interface {
	CreateReply(ctx context.Context, authorID, postID int64, content string, parentID *int64) (*models.Reply, error)
	DeleteReply(ctx context.Context, requesterID, replyID int64) error
}

type replyServiceImpl struct {
	replyStorage    storage.ReplyStorage
	postStorage     storage.PostStorage
	activityStorage storage.ActivityStorage
}

func NewReplyService(rs storage.ReplyStorage, ps storage.PostStorage, as storage.ActivityStorage) ReplyService {
	return &replyServiceImpl{
		replyStorage:    rs,
		postStorage:     ps,
		activityStorage: as,
	}
}

func (s *replyServiceImpl) CreateReply(ctx context.Context, authorID, postID int64, content string, parentID *int64) (*models.Reply, error) {
	reply, err := models.NewReply(authorID, postID, content, parentID)
	if err != nil {
		return nil, err
	}

	created, err := s.replyStorage.CreateReply(ctx, reply)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		case errors.Is(err, models.ErrParentMismatch):
			return nil, models.ErrParentMismatch
		default:
			return nil, fmt.Errorf("failed to save new reply: %w", err)
		}
	}

	// Автору поста сообщаем, кто ему ответил.
	var target *int64
	if post, err := s.postStorage.GetPostByID(ctx, postID); err == nil && post.CreatedBy != authorID {
		target = &post.CreatedBy
	}
	recordActivity(ctx, s.activityStorage, authorID, "replied to a post from", target)

	return created, nil
}

func (s *replyServiceImpl) DeleteReply(ctx context.Context, requesterID, replyID int64) error {
	reply, err := s.replyStorage.GetReplyByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to get reply for deletion: %w", err)
	}

	if reply.Author != requesterID {
		return models.ErrNotOwner
	}

	if err := s.replyStorage.DeleteReply(ctx, replyID); err != nil {
		return fmt.Errorf("failed to delete reply %d: %w", replyID, err)
	}

	recordActivity(ctx, s.activityStorage, requesterID, "deleted a reply", nil)

	return nil
}
