package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxTitleLen = 200

// NewPost проверяет входные данные и собирает пост. Валидация вынесена в
// фабрику: сама структура собирается без ошибок.
func NewPost(createdBy int64, title, content, category string, isTask bool) (*Post, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < 1 || n > maxTitleLen {
		return nil, fmt.Errorf("%w: title must be between 1 and %d characters", ErrValidation, maxTitleLen)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	return &Post{
		Title:     title,
		Content:   content,
		Category:  strings.TrimSpace(category),
		IsTask:    isTask,
		CreatedBy: createdBy,
	}, nil
}

func NewReply(author, postID int64, content string, parentID *int64) (*Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", ErrValidation)
	}

	return &Reply{
		PostID:   postID,
		Author:   author,
		ParentID: parentID,
		Content:  content,
	}, nil
}

// ValidateRegistration проверяет обязательные поля регистрации. Формат email
// проверяется грубо: "@" и точка в домене, остальное решит письмо с
// подтверждением.
func ValidateRegistration(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username must not be blank", ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password must not be blank", ErrValidation)
	}
	return ValidateEmail(email)
}

func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	return nil
}
