package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"pawforum/internal/middleware"
	"pawforum/internal/models"
	"pawforum/internal/service"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "session_id"

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{userService: s}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Postcode string `json:"postcode"`
	PetType  string `json:"petType"`
	Avatar   string `json:"avatar"`
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Postcode: req.Postcode,
		PetType:  req.PetType,
		Avatar:   req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, models.ErrUserConflict):
			c.JSON(http.StatusConflict, gin.H{"message": "Username or email already taken"})
		default:
			log.Printf("Error registering user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, session, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
			return
		}
		log.Printf("Error logging in user %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(SessionCookie, session.ID, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(SessionCookie)
	if err == nil && sessionID != "" {
		if err := h.userService.Logout(c.Request.Context(), sessionID); err != nil {
			log.Printf("Error deleting session: %v", err)
		}
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("Error getting profile for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile принимает multipart-форму: текстовые поля профиля и
// необязательный файл avatar.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	updates := service.ProfileUpdate{
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
		Gender:   c.PostForm("gender"),
		Postcode: c.PostForm("postcode"),
		PetType:  c.PostForm("pet_type"),
	}

	if fileHeader, err := c.FormFile("avatar"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			log.Printf("Error opening avatar upload: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid avatar upload"})
			return
		}
		defer f.Close()
		updates.AvatarName = fileHeader.Filename
		updates.AvatarData = f
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, updates)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, models.ErrUserConflict):
			c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			log.Printf("Error updating profile for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, users)
}
