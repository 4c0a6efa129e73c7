package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seorap-app/seorap-backend/internal/service"
)

// Handlers bundles all HTTP handlers.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Drawer      *DrawerHandler
	Invitation  *InvitationHandler
	JoinRequest *JoinRequestHandler
}

// NewHandlers creates handlers over the service layer.
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:        &AuthHandler{auth: services.Auth},
		User:        &UserHandler{users: services.User},
		Drawer:      &DrawerHandler{drawers: services.Drawer},
		Invitation:  &InvitationHandler{invitations: services.Invitation},
		JoinRequest: &JoinRequestHandler{requests: services.JoinRequest},
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// respondError maps service sentinel errors to HTTP statuses. Anything
// unmapped is logged and surfaced as an opaque 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotMember),
		errors.Is(err, service.ErrOwnerCannotLeave):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrInvitationInvalid),
		errors.Is(err, service.ErrInvitationExhausted):
		status, message = http.StatusConflict, err.Error()
	default:
		log.Printf("[API] ❌ unhandled error: %v", err)
	}

	c.JSON(status, gin.H{"success": false, "status": status, "message": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"status":  http.StatusBadRequest,
		"message": message,
	})
}
