package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psyscore/internal/service"
)

// AuthHandler emite tokens de acceso para clientes de la API.
type AuthHandler struct {
	logger  *zap.Logger
	clients *service.ClientAuthenticator
	jwtServ *service.JWTService
}

func NewAuthHandler(logger *zap.Logger, clients *service.ClientAuthenticator, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		clients: clients,
		jwtServ: jwtServ,
	}
}

// Token maneja POST /auth/token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req struct {
		ClientID     string `json:"client_id" binding:"required"`
		ClientSecret string `json:"client_secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid token request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.jwtServ == nil || !h.clients.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "client auth not configured"})
		return
	}
	if err := h.clients.Authenticate(req.ClientID, req.ClientSecret); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("client auth failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not authenticate"})
		return
	}

	token, err := h.jwtServ.GenerateAccessToken(req.ClientID)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
