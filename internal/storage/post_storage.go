package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pawforum/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostStorage interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context, category string) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type postgresPostStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresPostStorage(pool *pgxpool.Pool) PostStorage {
	return &postgresPostStorage{pool: pool}
}

// CreatePost вставляет пост и, если он помечен как задача, строку задачи с тем
// же id в одной транзакции.
func (s *postgresPostStorage) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO posts (title, content, category, is_task, created_by, image)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, like_count, created`

	created := *post
	err = tx.QueryRow(ctx, query,
		post.Title, post.Content, post.Category, post.IsTask, post.CreatedBy, post.Image,
	).Scan(&created.ID, &created.LikeCount, &created.Created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	if post.IsTask {
		_, err = tx.Exec(ctx, `INSERT INTO tasks (post_id, status) VALUES ($1, $2)`,
			created.ID, models.TaskStatusOpen)
		if err != nil {
			return nil, fmt.Errorf("failed to insert task for post %d: %w", created.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit post creation: %w", err)
	}

	return &created, nil
}

const postColumns = `p.id, p.title, p.content, p.category, p.is_task, p.like_count, p.created_by, u.username, p.image, p.created`

func scanPost(row pgx.Row, post *models.Post) error {
	return row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Category,
		&post.IsTask,
		&post.LikeCount,
		&post.CreatedBy,
		&post.Author,
		&post.Image,
		&post.Created,
	)
}

func (s *postgresPostStorage) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `
        SELECT ` + postColumns + `
        FROM posts p
        JOIN users u ON u.id = p.created_by
        WHERE p.id = $1`

	post := &models.Post{}
	err := scanPost(s.pool.QueryRow(ctx, query, id), post)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}
	return post, nil
}

func (s *postgresPostStorage) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	var (
		queryBuilder strings.Builder
		args         []interface{}
	)

	queryBuilder.WriteString(`
        SELECT ` + postColumns + `
        FROM posts p
        JOIN users u ON u.id = p.created_by`)

	if category != "" {
		queryBuilder.WriteString(` WHERE p.category = $1`)
		args = append(args, category)
	}
	queryBuilder.WriteString(` ORDER BY p.created DESC`)

	rows, err := s.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over post rows: %w", err)
	}

	return posts, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (s *postgresPostStorage) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	pattern := "%" + escapeLike(query) + "%"

	sqlQuery := `
        SELECT ` + postColumns + `
        FROM posts p
        JOIN users u ON u.id = p.created_by
        WHERE p.title ILIKE $1 OR p.content ILIKE $1 OR u.username ILIKE $1
        ORDER BY p.created DESC`

	rows, err := s.pool.Query(ctx, sqlQuery, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over search rows: %w", err)
	}

	return posts, nil
}

// DeletePost удаляет пост; ответы, лайки, задача и список ожидания уходят по
// каскадным внешним ключам внутри того же оператора.
func (s *postgresPostStorage) DeletePost(ctx context.Context, id int64) error {
	commandTag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
