package config

import (
	"errors"
	"net"
	"os"
	"strconv"
	"time"
)

// Config собирает настройки приложения из переменных окружения.
type Config struct {
	Addr        string
	DatabaseDSN string
	UploadDir   string
	SessionTTL  time.Duration
}

func NewServerAddress() (string, error) {
	host := os.Getenv("HTTP_HOST")
	if len(host) == 0 {
		return "", errors.New("HTTP_HOST не найден в окружении")
	}

	port := os.Getenv("HTTP_PORT")
	if len(port) == 0 {
		return "", errors.New("HTTP_PORT не найден в окружении")
	}

	return net.JoinHostPort(host, port), nil
}

// FromEnv читает конфигурацию приложения. Обязательны адрес сервера и PG_DSN,
// для остальных значений есть значения по умолчанию.
func FromEnv() (*Config, error) {
	addr, err := NewServerAddress()
	if err != nil {
		return nil, err
	}

	dsn := os.Getenv("PG_DSN")
	if len(dsn) == 0 {
		return nil, errors.New("PG_DSN не найден в окружении")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if len(uploadDir) == 0 {
		uploadDir = "uploads"
	}

	sessionTTL := 24 * time.Hour
	if ttlStr := os.Getenv("SESSION_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil || hours <= 0 {
			return nil, errors.New("SESSION_TTL_HOURS должен быть положительным числом")
		}
		sessionTTL = time.Duration(hours) * time.Hour
	}

	return &Config{
		Addr:        addr,
		DatabaseDSN: dsn,
		UploadDir:   uploadDir,
		SessionTTL:  sessionTTL,
	}, nil
}
