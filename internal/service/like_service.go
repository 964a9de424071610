package service

import (
	"context"
	"errors"
	"fmt"

	"pawforum/internal/models"
	"pawforum/internal/storage"
)

// LikeResult описывает состояние лайков цели после переключения.
type LikeResult struct {
	LikeCount int32 `json:"like_count"`
	Liked     bool  `json:"liked"`
}

type LikeService interface {
	TogglePostLike(ctx context.Context, userID, postID int64) (*LikeResult, error)
	ToggleReplyLike(ctx context.Context, userID, replyID int64) (*LikeResult, error)
}

type likeServiceImpl struct {
	likeStorage     storage.LikeStorage
	postStorage     storage.PostStorage
	replyStorage    storage.ReplyStorage
	activityStorage storage.ActivityStorage
}

func NewLikeService(ls storage.LikeStorage, ps storage.PostStorage, rs storage.ReplyStorage, as storage.ActivityStorage) LikeService {
	return &likeServiceImpl{
		likeStorage:     ls,
		postStorage:     ps,
		replyStorage:    rs,
		activityStorage: as,
	}
}

func (s *likeServiceImpl) TogglePostLike(ctx context.Context, userID, postID int64) (*LikeResult, error) {
	post, err := s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post for like toggle: %w", err)
	}

	count, liked, err := s.likeStorage.TogglePostLike(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to toggle post like: %w", err)
	}

	action := "liked a post from"
	if !liked {
		action = "unliked a post from"
	}
	recordActivity(ctx, s.activityStorage, userID, action, &post.CreatedBy)

	return &LikeResult{LikeCount: count, Liked: liked}, nil
}

func (s *likeServiceImpl) ToggleReplyLike(ctx context.Context, userID, replyID int64) (*LikeResult, error) {
	reply, err := s.replyStorage.GetReplyByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reply for like toggle: %w", err)
	}

	count, liked, err := s.likeStorage.ToggleReplyLike(ctx, userID, replyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to toggle reply like: %w", err)
	}

	action := "liked a reply from"
	if !liked {
		action = "unliked a reply from"
	}
	recordActivity(ctx, s.activityStorage, userID, action, &reply.Author)

	return &LikeResult{LikeCount: count, Liked: liked}, nil
}
