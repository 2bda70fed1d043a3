package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/siws/core"
	"github.com/layer-3/siws/ports"
	"github.com/layer-3/siws/service"
)

// AuthHandlers contains HTTP handlers for the SIWS endpoints
type AuthHandlers struct {
	authService *service.AuthService
	identity    ports.IdentityStore
	sessions    ports.SessionTransport
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, identity ports.IdentityStore, sessions ports.SessionTransport) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		identity:    identity,
		sessions:    sessions,
	}
}

// Start handles the challenge-issuance request
func (h *AuthHandlers) Start(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	out, err := h.authService.Start(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, core.ErrMalformedAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":     out.Nonce,
		"domain":    out.Domain,
		"uri":       out.URI,
		"statement": out.Statement,
	})
}

// Verify handles the signature-verification request
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Address   string `json:"address"`
		Message   string `json:"message"`
		Signature string `json:"signature"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.authService.Verify(c.Request.Context(), req.Address, req.Message, req.Signature)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMsg := "Authentication failed"

		// Map specific errors to appropriate status codes
		switch {
		case errors.Is(err, core.ErrMalformedAddress):
			statusCode = http.StatusBadRequest
			errorMsg = "Invalid address"
		case errors.Is(err, core.ErrMalformedMessage):
			statusCode = http.StatusBadRequest
			errorMsg = "Message contains no nonce"
		case errors.Is(err, core.ErrNonceInvalidOrExpired):
			statusCode = http.StatusBadRequest
			errorMsg = "Nonce is invalid or expired"
		case errors.Is(err, core.ErrDomainMismatch):
			statusCode = http.StatusBadRequest
			errorMsg = "Message is bound to a different domain"
		case errors.Is(err, core.ErrInvalidSignature):
			statusCode = http.StatusUnauthorized
			errorMsg = "Invalid signature"
		}

		c.JSON(statusCode, gin.H{"error": errorMsg})
		return
	}

	if err := h.sessions.AttachSession(c.Writer, result.Session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": result.UserID,
		"session": gin.H{
			"id":         result.Session.ID,
			"token":      result.Session.Token,
			"expires_at": result.Session.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// Me returns information about the authenticated user
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	user, err := h.identity.FindUserByID(c.Request.Context(), userID.(string))
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"verified":   user.Verified,
		"created_at": user.CreatedAt.UTC().Format(time.RFC3339),
	})
}
