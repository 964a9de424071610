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

type ReplyHandler struct {
	replyService service.ReplyService
}

func NewReplyHandler(s service.ReplyService) *ReplyHandler {
	return &ReplyHandler{replyService: s}
}

type createReplyRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent,omitempty"`
}

func (h *ReplyHandler) CreateReply(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID"})
		return
	}

	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	userID := middleware.UserID(c)

	reply, err := h.replyService.CreateReply(c.Request.Context(), userID, postID, req.Content, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, models.ErrParentMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Parent reply belongs to another post"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Post or parent reply not found"})
		default:
			log.Printf("Error creating reply for post %d: %v", postID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (h *ReplyHandler) DeleteReply(c *gin.Context) {
	replyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid reply ID"})
		return
	}

	userID := middleware.UserID(c)

	err = h.replyService.DeleteReply(c.Request.Context(), userID, replyID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reply not found"})
		case errors.Is(err, models.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only the author can delete a reply"})
		default:
			log.Printf("Error deleting reply %d: %v", replyID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
