package api

import (
	"log"
	"net/http"
	"strconv"

	"pawforum/internal/service"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(s service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: s}
}

func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid 'limit' parameter"})
			return
		}
		limit = parsed
	}

	activities, err := h.activityService.Recent(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Error getting activity feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, activities)
}
