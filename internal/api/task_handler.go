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

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: s}
}

type applyRequest struct {
	Message string `json:"message"`
}

func (h *TaskHandler) Apply(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	// Тело с сопроводительным сообщением необязательно.
	var req applyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
	}

	entry, err := h.taskService.Apply(c.Request.Context(), middleware.UserID(c), taskID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		case errors.Is(err, models.ErrTaskClosed):
			c.JSON(http.StatusConflict, gin.H{"message": "Task is already closed"})
		case errors.Is(err, models.ErrAlreadyApplied):
			c.JSON(http.StatusConflict, gin.H{"message": "Already applied to this task"})
		default:
			log.Printf("Error applying to task %d: %v", taskID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *TaskHandler) Close(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	task, err := h.taskService.Close(c.Request.Context(), middleware.UserID(c), taskID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		case errors.Is(err, models.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "Only the task creator can close it"})
		default:
			log.Printf("Error closing task %d: %v", taskID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Applicants(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	entries, err := h.taskService.Applicants(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
			return
		}
		log.Printf("Error listing applicants for task %d: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
