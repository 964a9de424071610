package routes

import (
	"time"

	"pawforum/internal/api"
	"pawforum/internal/middleware"
	"pawforum/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User     *api.UserHandler
	Post     *api.PostHandler
	Reply    *api.ReplyHandler
	Like     *api.LikeHandler
	Task     *api.TaskHandler
	Activity *api.ActivityHandler
}

func InitRoutes(h Handlers, sessions storage.SessionStorage, uploadDir string) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", h.Post.ListPosts)
	router.GET("/search", h.Post.Search)
	router.GET("/users", h.User.ListUsers)

	router.POST("/signup", h.User.Signup)
	router.POST("/login", h.User.Login)
	router.GET("/logout", h.User.Logout)

	router.Static("/uploads", uploadDir)

	auth := router.Group("/", middleware.Auth(sessions))
	{
		auth.GET("/profile", h.User.GetProfile)
		auth.POST("/profile", h.User.UpdateProfile)

		auth.POST("/post_create", h.Post.CreatePost)
		auth.GET("/post/:id", h.Post.GetPostDetails)
		auth.POST("/delete_post/:id", h.Post.DeletePost)

		auth.POST("/reply/:id", h.Reply.CreateReply)
		auth.POST("/delete_reply/:id", h.Reply.DeleteReply)

		auth.POST("/like_post/:id", h.Like.TogglePostLike)
		auth.POST("/like_reply/:id", h.Like.ToggleReplyLike)

		auth.POST("/apply_task/:id", h.Task.Apply)
		auth.POST("/close_task/:id", h.Task.Close)
		auth.GET("/task_applicants/:id", h.Task.Applicants)

		auth.GET("/activity", h.Activity.Recent)
	}

	return router
}
