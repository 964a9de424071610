package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"pawforum/internal/middleware"
	"pawforum/internal/models"
	"pawforum/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(s service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: s}
}

func (h *LikeHandler) TogglePostLike(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	result, err := h.likeService.TogglePostLike(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error toggling like for post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *LikeHandler) ToggleReplyLike(c *gin.Context) {
	replyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply ID"})
		return
	}

	result, err := h.likeService.ToggleReplyLike(c.Request.Context(), middleware.UserID(c), replyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reply not found"})
			return
		}
		log.Printf("Error toggling like for reply %d: %v", replyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
