// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/domain/session"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
	"github.com/your-org/grocery-storefront/internal/pkg/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	store      *memstore.Store
	jwtManager *auth.JWTManager
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store *memstore.Store, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		store:      store,
		jwtManager: auth.NewJWTManager(cfg),
		logger:     logger,
	}
}

type loginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *session.Identity `json:"user"`
	Token string            `json:"token"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req session.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// admins are seeded, never self-registered
	req.Role = session.RoleUser

	user, err := h.store.CreateUser(req)
	if err != nil {
		failWith(c, err)
		return
	}

	h.issue(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.store.Authenticate(req.Phone, req.Password)
	if err != nil {
		failWith(c, err)
		return
	}

	h.issue(c, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) issue(c *gin.Context, status int, message string, user *session.Identity) {
	token, err := h.jwtManager.GenerateAccessToken(user.ID, user.Phone, string(user.Role))
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign access token")
		fail(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respond(c, status, message, authResponse{User: user, Token: token})
}
