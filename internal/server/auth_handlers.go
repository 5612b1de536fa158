package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventbuddy/backend/internal/auth"
)

type registerRequest struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new account and returns a session token.
func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	req.Login = strings.TrimSpace(req.Login)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Login == "" || req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "login and display_name are required",
		})
		return
	}

	user, err := s.authenticator.Register(c.Request.Context(), req.Login, req.DisplayName, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "login", req.Login, "error", err)
		switch {
		case errors.Is(err, auth.ErrLoginExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict", Message: err.Error()})
		case errors.Is(err, auth.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		default:
			writeError(c, err)
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("User registered", "login", user.Login)
	c.JSON(http.StatusCreated, authResponse{User: toUserResponse(user), Token: token})
}

// Login authenticates a user and returns a session token.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := s.authenticator.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		slog.Warn("Login failed", "login", req.Login)
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: auth.ErrInvalidCredentials.Error(),
		})
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("User logged in", "login", user.Login)
	c.JSON(http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}
