package models

import (
	"time"

	"github.com/seorap-app/seorap-backend/internal/repository"
)

type IssueInvitationRequest struct {
	MaxUses   *int `json:"maxUses"`
	Unlimited bool `json:"unlimited"`
	TTLDays   int  `json:"ttlDays"`
}

// EffectiveMaxUses resolves the request to a use cap: nil for unlimited,
// defaulting to a single use when nothing was specified.
func (r IssueInvitationRequest) EffectiveMaxUses() *int {
	if r.Unlimited {
		return nil
	}
	if r.MaxUses == nil {
		one := 1
		return &one
	}
	return r.MaxUses
}

type RedeemInvitationRequest struct {
	InvitationCode string `json:"invitationCode" binding:"required"`
}

type InvitationResponse struct {
	InvitationCode string    `json:"invitationCode"`
	MaxUses        *int      `json:"maxUses"`
	UsesCount      int       `json:"usesCount"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func ToInvitationResponse(inv *repository.Invitation) InvitationResponse {
	return InvitationResponse{
		InvitationCode: inv.Token,
		MaxUses:        inv.MaxUses,
		UsesCount:      inv.UsesCount,
		ExpiresAt:      inv.ExpiresAt,
	}
}

type InvitationPreviewResponse struct {
	DrawerName        string    `json:"drawerName"`
	DrawerDescription *string   `json:"drawerDescription"`
	DrawerImageURL    *string   `json:"drawerImageUrl"`
	MemberCount       int       `json:"memberCount"`
	InviterName       string    `json:"inviterName"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

func ToInvitationPreviewResponse(p *repository.InvitationPreview) InvitationPreviewResponse {
	return InvitationPreviewResponse{
		DrawerName:        p.DrawerName,
		DrawerDescription: p.DrawerDescription,
		DrawerImageURL:    p.DrawerImageURL,
		MemberCount:       p.DrawerMemberCount,
		InviterName:       p.InviterName,
		ExpiresAt:         p.ExpiresAt,
	}
}
