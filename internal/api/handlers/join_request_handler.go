package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/seorap-app/seorap-backend/internal/api/middleware"
	"github.com/seorap-app/seorap-backend/internal/models"
	"github.com/seorap-app/seorap-backend/internal/service"
)

type JoinRequestHandler struct {
	requests *service.JoinRequestService
}

// POST /api/drawers/:id/requests
func (h *JoinRequestHandler) Request(c *gin.Context) {
	outcome, err := h.requests.Request(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.JoinResultResponse{Joined: outcome.Joined}
	if outcome.Membership != nil {
		m := models.ToMembershipResponse(outcome.Membership)
		resp.Membership = &m
	}
	if outcome.Request != nil {
		r := models.ToJoinRequestResponse(outcome.Request)
		resp.Request = &r
	}
	respondCreated(c, resp)
}

// GET /api/drawers/:id/requests
func (h *JoinRequestHandler) ListPending(c *gin.Context) {
	requests, err := h.requests.ListPending(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToJoinRequestResponses(requests))
}

// PATCH /api/drawers/:id/requests/:requestId (approve)
func (h *JoinRequestHandler) Approve(c *gin.Context) {
	membership, err := h.requests.Approve(c.Request.Context(), c.Param("id"), c.Param("requestId"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, models.ToMembershipResponse(membership))
}

// DELETE /api/drawers/:id/requests/:requestId (reject)
func (h *JoinRequestHandler) Reject(c *gin.Context) {
	if err := h.requests.Reject(c.Request.Context(), c.Param("id"), c.Param("requestId"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "request rejected")
}
