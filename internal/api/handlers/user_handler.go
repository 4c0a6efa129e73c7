package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seorap-app/seorap-backend/internal/api/middleware"
	"github.com/seorap-app/seorap-backend/internal/models"
	"github.com/seorap-app/seorap-backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToUserResponse(user))
}

// PUT /api/users/me
func (h *UserHandler) Update(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Update(c.Request.Context(), middleware.GetUserID(c), req.DisplayName, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToUserResponse(user))
}
