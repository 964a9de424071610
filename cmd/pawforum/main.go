package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"pawforum/config"
	"pawforum/internal/api"
	"pawforum/internal/migrations"
	"pawforum/internal/routes"
	"pawforum/internal/seed"
	"pawforum/internal/service"
	"pawforum/internal/storage"
	"pawforum/internal/upload"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pawforum",
	Short: "Paw Forum community server",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		dbPool, err := config.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("ошибка подключения к базе данных: %w", err)
		}
		defer dbPool.Close()

		uploads, err := upload.NewFileSystemStore(cfg.UploadDir)
		if err != nil {
			return fmt.Errorf("ошибка инициализации хранилища загрузок: %w", err)
		}

		userStorage := storage.NewPostgresUserStorage(dbPool)
		sessionStorage := storage.NewPostgresSessionStorage(dbPool)
		postStorage := storage.NewPostgresPostStorage(dbPool)
		replyStorage := storage.NewPostgresReplyStorage(dbPool)
		taskStorage := storage.NewPostgresTaskStorage(dbPool)
		likeStorage := storage.NewPostgresLikeStorage(dbPool)
		activityStorage := storage.NewPostgresActivityStorage(dbPool)

		userService := service.NewUserService(userStorage, sessionStorage, activityStorage, uploads, cfg.SessionTTL)
		postService := service.NewPostService(postStorage, replyStorage, taskStorage, activityStorage, uploads)
		replyService := service.NewReplyService(replyStorage, postStorage, activityStorage)
		taskService := service.NewTaskService(taskStorage, postStorage, activityStorage)
		likeService := service.NewLikeService(likeStorage, postStorage, replyStorage, activityStorage)
		activityService := service.NewActivityService(activityStorage)

		handlers := routes.Handlers{
			User:     api.NewUserHandler(userService),
			Post:     api.NewPostHandler(postService),
			Reply:    api.NewReplyHandler(replyService),
			Like:     api.NewLikeHandler(likeService),
			Task:     api.NewTaskHandler(taskService),
			Activity: api.NewActivityHandler(activityService),
		}

		router := routes.InitRoutes(handlers, sessionStorage, cfg.UploadDir)

		fmt.Printf("Запуск HTTP-сервера на адресе: %s\n", cfg.Addr)
		return router.Run(cfg.Addr)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("ошибка подключения к базе данных: %w", err)
		}
		defer db.Close()

		if err := migrations.Up(db); err != nil {
			return err
		}
		fmt.Println("Миграции применены")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with demonstration data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		dbPool, err := config.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("ошибка подключения к базе данных: %w", err)
		}
		defer dbPool.Close()

		uploads, err := upload.NewFileSystemStore(cfg.UploadDir)
		if err != nil {
			return fmt.Errorf("ошибка инициализации хранилища загрузок: %w", err)
		}

		userStorage := storage.NewPostgresUserStorage(dbPool)
		sessionStorage := storage.NewPostgresSessionStorage(dbPool)
		postStorage := storage.NewPostgresPostStorage(dbPool)
		replyStorage := storage.NewPostgresReplyStorage(dbPool)
		taskStorage := storage.NewPostgresTaskStorage(dbPool)
		likeStorage := storage.NewPostgresLikeStorage(dbPool)
		activityStorage := storage.NewPostgresActivityStorage(dbPool)

		userService := service.NewUserService(userStorage, sessionStorage, activityStorage, uploads, cfg.SessionTTL)
		postService := service.NewPostService(postStorage, replyStorage, taskStorage, activityStorage, uploads)
		replyService := service.NewReplyService(replyStorage, postStorage, activityStorage)
		taskService := service.NewTaskService(taskStorage, postStorage, activityStorage)
		likeService := service.NewLikeService(likeStorage, postStorage, replyStorage, activityStorage)

		if err := seed.Run(ctx, userService, postService, replyService, likeService, taskService); err != nil {
			return err
		}
		fmt.Println("Демо-данные загружены")
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Файл .env не найден, используем переменные окружения")
	}
	return config.FromEnv()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}
