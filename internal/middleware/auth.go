package middleware

import (
	"net/http"

	"pawforum/internal/storage"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// Auth резолвит cookie session_id в идентификатор пользователя и кладёт его
// в контекст запроса. Без действующей сессии запрос обрывается с 401.
func Auth(sessions storage.SessionStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		session, err := sessions.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session is invalid or expired"})
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// UserID возвращает идентификатор пользователя, положенный Auth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
