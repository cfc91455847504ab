package handlers

import (
	"context"
	"errors"
	"net/http"

	"employee-portal/internal/metrics"
	"employee-portal/internal/services"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
}

type AuthHandler struct {
	authService Authenticator
}

func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindAndValidate(c, &req) {
		metrics.LoginsTotal.WithLabelValues("invalid_request").Inc()
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		outcome := "error"
		if errors.Is(err, services.ErrInvalidCredentials) {
			outcome = "invalid_credentials"
		}
		metrics.LoginsTotal.WithLabelValues(outcome).Inc()
		_ = c.Error(err)
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, LoginResponse{
		Token: result.Token,
		ID:    result.ID,
	})
}
