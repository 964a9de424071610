package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"pawforum/internal/models"
	"pawforum/internal/storage"
	"pawforum/internal/upload"
)

type CreatePostInput struct {
	Title    string
	Content  string
	Category string
	IsTask   bool

	// ImageName/ImageData describe an optional upload; an empty name means
	// no image was attached.
	ImageName string
	ImageData io.Reader
}

type PostService interface {
	CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*models.Post, error)
	GetPostDetails(ctx context.Context, id int64) (*models.PostDetails, error)
	ListPosts(ctx context.Context, category string) ([]models.Post, error)
	DeletePost(ctx context.Context, requesterID, postID int64) error
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

type postServiceImpl struct {
	postStorage     storage.PostStorage
	replyStorage    storage.ReplyStorage
	taskStorage     storage.TaskStorage
	activityStorage storage.ActivityStorage
	uploads         upload.Store
}

func NewPostService(ps storage.PostStorage, rs storage.ReplyStorage, ts storage.TaskStorage, as storage.ActivityStorage, uploads upload.Store) PostService {
	return &postServiceImpl{
		postStorage:     ps,
		replyStorage:    rs,
		taskStorage:     ts,
		activityStorage: as,
		uploads:         uploads,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*models.Post, error) {
	post, err := models.NewPost(authorID, input.Title, input.Content, input.Category, input.IsTask)
	if err != nil {
		return nil, err
	}

	if input.ImageName != "" {
		ref, err := s.uploads.Save(input.ImageName, input.ImageData)
		if err != nil {
			if errors.Is(err, upload.ErrUnsupportedType) {
				return nil, fmt.Errorf("%w: %s", models.ErrValidation, err)
			}
			return nil, fmt.Errorf("failed to store post image: %w", err)
		}
		post.Image = ref
	}

	created, err := s.postStorage.CreatePost(ctx, post)
	if err != nil {
		// Пост не записан — подчищаем уже сохранённую картинку.
		if post.Image != "" {
			if rmErr := s.uploads.Remove(post.Image); rmErr != nil {
				log.Printf("failed to remove orphaned upload %s: %v", post.Image, rmErr)
			}
		}
		return nil, fmt.Errorf("failed to save new post: %w", err)
	}

	recordActivity(ctx, s.activityStorage, authorID, "created a post", nil)

	return created, nil
}

func (s *postServiceImpl) GetPostDetails(ctx context.Context, id int64) (*models.PostDetails, error) {
	post, err := s.postStorage.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	replies, err := s.replyStorage.GetPostReplies(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post replies: %w", err)
	}

	details := &models.PostDetails{
		Post:    post,
		Replies: buildReplyTree(replies),
	}

	if post.IsTask {
		task, err := s.taskStorage.GetTaskByPostID(ctx, id)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to get task for post %d: %w", id, err)
		}
		if task != nil {
			details.Task = task
			entries, err := s.taskStorage.GetWaitingList(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to get waiting list for post %d: %w", id, err)
			}
			details.WaitingList = entries
		}
	}

	return details, nil
}

func (s *postServiceImpl) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	posts, err := s.postStorage.ListPosts(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *postServiceImpl) DeletePost(ctx context.Context, requesterID, postID int64) error {
	post, err := s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to get post for deletion: %w", err)
	}

	if post.CreatedBy != requesterID {
		return models.ErrNotOwner
	}

	if err := s.postStorage.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", postID, err)
	}

	if post.Image != "" {
		if err := s.uploads.Remove(post.Image); err != nil {
			log.Printf("failed to remove image %s of deleted post %d: %v", post.Image, postID, err)
		}
	}

	recordActivity(ctx, s.activityStorage, requesterID, "deleted a post", nil)

	return nil
}

// Search ищет по заголовку, тексту и имени автора без учёта регистра. Пустой
// запрос означает пустую выдачу, а не все посты.
func (s *postServiceImpl) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if query == "" {
		return []models.SearchResult{}, nil
	}

	posts, err := s.postStorage.SearchPosts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}

	results := make([]models.SearchResult, 0, len(posts))
	for _, post := range posts {
		results = append(results, models.SearchResult{
			ID:       post.ID,
			Title:    post.Title,
			Snippet:  snippet(post.Content, query),
			Author:   post.Author,
			Category: post.Category,
			IsTask:   post.IsTask,
		})
	}

	return results, nil
}
