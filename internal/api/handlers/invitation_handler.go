package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seorap-app/seorap-backend/internal/api/middleware"
	"github.com/seorap-app/seorap-backend/internal/models"
	"github.com/seorap-app/seorap-backend/internal/service"
)

type InvitationHandler struct {
	invitations *service.InvitationService
}

// POST /api/drawers/:id/invitations
func (h *InvitationHandler) Issue(c *gin.Context) {
	// Body is optional; defaults apply when it is absent.
	var req models.IssueInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}

	inv, err := h.invitations.Issue(c.Request.Context(), c.Param("id"), middleware.GetUserID(c),
		req.EffectiveMaxUses(), time.Duration(req.TTLDays)*24*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, models.ToInvitationResponse(inv))
}

// GET /api/drawers/invitations/:code (public)
func (h *InvitationHandler) Preview(c *gin.Context) {
	preview, err := h.invitations.Preview(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToInvitationPreviewResponse(preview))
}

// POST /api/drawers/join
func (h *InvitationHandler) Redeem(c *gin.Context) {
	var req models.RedeemInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	membership, err := h.invitations.Redeem(c.Request.Context(), req.InvitationCode, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, models.ToMembershipResponse(membership))
}
