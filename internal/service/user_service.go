package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"pawforum/internal/models"
	"pawforum/internal/storage"
	"pawforum/internal/upload"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Gender   string
	Postcode string
	PetType  string
	Avatar   string
}

type ProfileUpdate struct {
	Email    string
	Phone    string
	Gender   string
	Postcode string
	PetType  string

	// AvatarName/AvatarData describe an optional avatar upload; an empty
	// name means the avatar is left as is.
	AvatarName string
	AvatarData io.Reader
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, *models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, updates ProfileUpdate) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type userServiceImpl struct {
	userStorage     storage.UserStorage
	sessionStorage  storage.SessionStorage
	activityStorage storage.ActivityStorage
	uploads         upload.Store
	sessionTTL      time.Duration
}

func NewUserService(us storage.UserStorage, ss storage.SessionStorage, as storage.ActivityStorage, uploads upload.Store, sessionTTL time.Duration) UserService {
	return &userServiceImpl{
		userStorage:     us,
		sessionStorage:  ss,
		activityStorage: as,
		uploads:         uploads,
		sessionTTL:      sessionTTL,
	}
}

// recordActivity пишет строку журнала по принципу best effort: неудача
// логируется и не отменяет родительскую операцию.
func recordActivity(ctx context.Context, as storage.ActivityStorage, userID int64, action string, targetUserID *int64) {
	activity := &models.Activity{
		UserID:       userID,
		Action:       action,
		TargetUserID: targetUserID,
	}
	if err := as.Record(ctx, activity); err != nil {
		log.Printf("failed to record activity %q for user %d: %v", action, userID, err)
	}
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *userServiceImpl) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := models.ValidateRegistration(input.Username, input.Email, input.Password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	newUser := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Gender:       input.Gender,
		Postcode:     input.Postcode,
		PetType:      input.PetType,
		Avatar:       input.Avatar,
	}

	// Уникальность username/email подтверждает ограничение в БД при вставке,
	// а не предварительный SELECT.
	if err := s.userStorage.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, models.ErrUserConflict) {
			return nil, models.ErrUserConflict
		}
		return nil, fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	recordActivity(ctx, s.activityStorage, newUser.ID, "signed up", nil)

	return newUser, nil
}

// Login отдаёт одну и ту же ошибку для неизвестного username и неверного
// пароля, чтобы не раскрывать, какие имена заняты.
func (s *userServiceImpl) Login(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	user, err := s.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.ErrBadCredentials
		}
		return nil, nil, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}

	if !verifyPassword(user.PasswordHash, password) {
		return nil, nil, models.ErrBadCredentials
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionStorage.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("ошибка при создании сессии: %w", err)
	}

	if err := s.sessionStorage.DeleteOtherSessions(ctx, user.ID, session.ID); err != nil {
		log.Printf("failed to delete old sessions for user %d: %v", user.ID, err)
	}

	return user, session, nil
}

func (s *userServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionStorage.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("ошибка при удалении сессии: %w", err)
	}
	return nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userStorage.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя из хранилища: %w", err)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, updates ProfileUpdate) (*models.User, error) {
	existingUser, err := s.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при поиске пользователя для обновления: %w", err)
	}

	if updates.Email != "" && updates.Email != existingUser.Email {
		if err := models.ValidateEmail(updates.Email); err != nil {
			return nil, err
		}
		existingUser.Email = updates.Email
	}
	if updates.Phone != "" {
		existingUser.Phone = updates.Phone
	}
	if updates.Gender != "" {
		existingUser.Gender = updates.Gender
	}
	if updates.Postcode != "" {
		existingUser.Postcode = updates.Postcode
	}
	if updates.PetType != "" {
		existingUser.PetType = updates.PetType
	}

	oldAvatar, newAvatar := "", ""
	if updates.AvatarName != "" {
		ref, err := s.uploads.Save(updates.AvatarName, updates.AvatarData)
		if err != nil {
			if errors.Is(err, upload.ErrUnsupportedType) {
				return nil, fmt.Errorf("%w: %s", models.ErrValidation, err)
			}
			return nil, fmt.Errorf("failed to store avatar: %w", err)
		}
		oldAvatar = existingUser.Avatar
		newAvatar = ref
		existingUser.Avatar = ref
	}

	updatedUser, err := s.userStorage.UpdateUser(ctx, *existingUser)
	if err != nil {
		if newAvatar != "" {
			if rmErr := s.uploads.Remove(newAvatar); rmErr != nil {
				log.Printf("failed to remove orphaned avatar %s: %v", newAvatar, rmErr)
			}
		}
		if errors.Is(err, models.ErrUserConflict) {
			return nil, models.ErrUserConflict
		}
		return nil, fmt.Errorf("ошибка при обновлении пользователя в хранилище: %w", err)
	}

	if oldAvatar != "" {
		if err := s.uploads.Remove(oldAvatar); err != nil {
			log.Printf("failed to remove replaced avatar %s: %v", oldAvatar, err)
		}
	}

	recordActivity(ctx, s.activityStorage, userID, "updated profile", nil)

	return updatedUser, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userStorage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	return users, nil
}
