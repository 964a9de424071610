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

type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type postgresUserStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStorage(pool *pgxpool.Pool) UserStorage {
	return &postgresUserStorage{pool: pool}
}

const userColumns = `id, username, email, password_hash, phone, gender, postcode, pet_type, avatar, joined_at`

func scanUser(row pgx.Row, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Gender,
		&user.Postcode,
		&user.PetType,
		&user.Avatar,
		&user.JoinedAt,
	)
}

func (p *postgresUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
        INSERT INTO users (username, email, password_hash, phone, gender, postcode, pet_type, avatar)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, joined_at
    `

	err := p.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.Phone, user.Gender, user.Postcode, user.PetType, user.Avatar,
	).Scan(&user.ID, &user.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrUserConflict
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return nil
}

func (p *postgresUserStorage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := scanUser(p.pool.QueryRow(ctx, query, id), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при запросе пользователя по id: %w", err)
	}

	return &user, nil
}

func (p *postgresUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	err := scanUser(p.pool.QueryRow(ctx, query, username), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при запросе пользователя по username: %w", err)
	}

	return &user, nil
}

func (p *postgresUserStorage) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	query := `
        UPDATE users
        SET email = $1, phone = $2, gender = $3, postcode = $4, pet_type = $5, avatar = $6
        WHERE id = $7
        RETURNING ` + userColumns

	var updated models.User
	err := scanUser(p.pool.QueryRow(ctx, query,
		user.Email, user.Phone, user.Gender, user.Postcode, user.PetType, user.Avatar, user.ID,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrUserConflict
		}

		return nil, fmt.Errorf("ошибка при обновлении пользователя в БД: %w", err)
	}

	return &updated, nil
}

func (p *postgresUserStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY joined_at DESC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}
