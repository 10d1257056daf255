// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
	"github.com/your-org/grocery-storefront/internal/interfaces/http/middleware"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
}

// failWith maps store errors onto HTTP statuses
func failWith(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, memstore.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, memstore.ErrPhoneTaken):
		status = http.StatusConflict
	case errors.Is(err, memstore.ErrUserNotFound),
		errors.Is(err, memstore.ErrProductNotFound),
		errors.Is(err, memstore.ErrAddressNotFound),
		errors.Is(err, memstore.ErrItemNotInCart),
		errors.Is(err, memstore.ErrOrderNotFound):
		status = http.StatusNotFound
	}
	_ = c.Error(err)
	fail(c, status, err.Error())
}

// ownsUser rejects requests that name a user other than the token's
func ownsUser(c *gin.Context, userID string) bool {
	tokenUser, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return false
	}
	if userID != tokenUser {
		fail(c, http.StatusForbidden, "Access denied")
		return false
	}
	return true
}
