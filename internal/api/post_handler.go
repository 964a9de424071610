package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"pawforum/internal/middleware"
	"pawforum/internal/models"
	"pawforum/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{postService: s}
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	category := c.Query("category")

	posts, err := h.postService.ListPosts(c.Request.Context(), category)
	if err != nil {
		log.Printf("Error listing posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CreatePost принимает multipart-форму: title, content, category, is_task и
// необязательный файл image.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := middleware.UserID(c)

	isTask, _ := strconv.ParseBool(c.DefaultPostForm("is_task", "false"))
	input := service.CreatePostInput{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Category: c.PostForm("category"),
		IsTask:   isTask,
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			log.Printf("Error opening image upload: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image upload"})
			return
		}
		defer f.Close()
		input.ImageName = fileHeader.Filename
		input.ImageData = f
	}

	post, err := h.postService.CreatePost(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Printf("Error creating post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetPostDetails(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID"})
		return
	}

	details, err := h.postService.GetPostDetails(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Can't find post with id #%d", postID)})
			return
		}
		log.Printf("Error getting post details for ID %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid post ID"})
		return
	}

	userID := middleware.UserID(c)

	err = h.postService.DeletePost(c.Request.Context(), userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Post not found"})
		case errors.Is(err, models.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only the author can delete a post"})
		default:
			log.Printf("Error deleting post %d: %v", postID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("query")

	results, err := h.postService.Search(c.Request.Context(), query)
	if err != nil {
		log.Printf("Error searching posts for %q: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, results)
}
