package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-management-service/internal/usecase/auth"
)

// AuthUsecase defines the auth operations the handler depends on.
type AuthUsecase interface {
	Register(ctx context.Context, in auth.RegisterRequest) (*auth.AuthResponse, error)
	Login(ctx context.Context, in auth.LoginRequest) (*auth.AuthResponse, error)
}

// AuthHandler handles HTTP requests for registration, login, and logout
type AuthHandler struct {
	uc  AuthUsecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc AuthUsecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		log: log,
	}
}

// CredentialsRequest represents the HTTP request body for register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /users
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	resp, err := h.uc.Register(c.Request.Context(), auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email": resp.Email,
		"token": resp.Token,
	})
}

// Login handles POST /users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email": resp.Email,
		"token": resp.Token,
	})
}

// Logout handles POST /users/logout. Bearer credentials are stateless, so
// logout is an acknowledgement; the client discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully."})
}
