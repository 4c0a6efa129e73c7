package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/seorap-app/seorap-backend/internal/api/middleware"
	"github.com/seorap-app/seorap-backend/internal/models"
	"github.com/seorap-app/seorap-backend/internal/service"
)

type DrawerHandler struct {
	drawers *service.DrawerService
}

// POST /api/drawers
func (h *DrawerHandler) Create(c *gin.Context) {
	var req models.CreateDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	drawer, err := h.drawers.Create(c.Request.Context(), middleware.GetUserID(c),
		req.Name, req.Description, req.ImageURL, req.ThumbnailURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, models.ToDrawerResponse(drawer))
}

// GET /api/drawers/search?q=&limit=&offset=
func (h *DrawerHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	drawers, err := h.drawers.Search(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToDrawerResponses(drawers))
}

// GET /api/drawers/my
func (h *DrawerHandler) My(c *gin.Context) {
	views, err := h.drawers.MyDrawers(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToMyDrawerResponses(views))
}

// GET /api/drawers/:id
func (h *DrawerHandler) Get(c *gin.Context) {
	drawer, err := h.drawers.Get(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToDrawerResponse(drawer))
}

// GET /api/drawers/:id/members
func (h *DrawerHandler) Members(c *gin.Context) {
	members, err := h.drawers.Members(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToMemberResponses(members))
}

// PATCH /api/drawers/:id/info
func (h *DrawerHandler) UpdateInfo(c *gin.Context) {
	var req models.UpdateDrawerInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	drawer, err := h.drawers.UpdateInfo(c.Request.Context(), c.Param("id"), middleware.GetUserID(c),
		req.Name, req.Description, req.ImageURL, req.ThumbnailURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToDrawerResponse(drawer))
}

// GET /api/drawers/:id/settings
func (h *DrawerHandler) Settings(c *gin.Context) {
	settings, err := h.drawers.Settings(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToDrawerSettingsResponse(settings))
}

// PATCH /api/drawers/:id/settings
func (h *DrawerHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateDrawerSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	settings, err := h.drawers.UpdateSettings(c.Request.Context(), c.Param("id"), middleware.GetUserID(c),
		req.IsPublic, req.IsSearchable, req.RequireApproval)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToDrawerSettingsResponse(settings))
}

// PATCH /api/drawers/:id/master
func (h *DrawerHandler) TransferMaster(c *gin.Context) {
	var req models.TransferMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.drawers.TransferMaster(c.Request.Context(), c.Param("id"), middleware.GetUserID(c), req.NewOwnerID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "ownership transferred")
}

// POST /api/drawers/:id/leave
func (h *DrawerHandler) Leave(c *gin.Context) {
	if err := h.drawers.Leave(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "left drawer")
}

// DELETE /api/drawers/:id/users
func (h *DrawerHandler) Kick(c *gin.Context) {
	var req models.KickMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.drawers.Kick(c.Request.Context(), c.Param("id"), middleware.GetUserID(c), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "member removed")
}

// PATCH /api/drawers/:id/users/:userId
func (h *DrawerHandler) UpdateMemberRole(c *gin.Context) {
	var req models.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.drawers.UpdateMemberRole(c.Request.Context(), c.Param("id"), middleware.GetUserID(c),
		c.Param("userId"), req.Role); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "role updated")
}

// DELETE /api/drawers/:id
func (h *DrawerHandler) Delete(c *gin.Context) {
	if err := h.drawers.Delete(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "drawer deleted")
}
