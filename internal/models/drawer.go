package models

import (
	"time"

	"github.com/seorap-app/seorap-backend/internal/repository"
	"github.com/seorap-app/seorap-backend/internal/types"
)

type CreateDrawerRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

type UpdateDrawerInfoRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

type UpdateDrawerSettingsRequest struct {
	IsPublic        *bool `json:"isPublic"`
	IsSearchable    *bool `json:"isSearchable"`
	RequireApproval *bool `json:"requireApproval"`
}

type TransferMasterRequest struct {
	NewOwnerID string `json:"newOwnerId" binding:"required"`
}

type KickMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type UpdateMemberRoleRequest struct {
	Role types.Role `json:"role"`
}

type DrawerResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	ImageURL       *string    `json:"imageUrl"`
	ThumbnailURL   *string    `json:"thumbnailUrl"`
	MemberCount    int        `json:"memberCount"`
	LastActivityAt *time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func ToDrawerResponse(d *repository.Drawer) DrawerResponse {
	return DrawerResponse{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		ImageURL:       d.ImageURL,
		ThumbnailURL:   d.ThumbnailURL,
		MemberCount:    d.MemberCount,
		LastActivityAt: d.LastActivityAt,
		CreatedAt:      d.CreatedAt,
	}
}

func ToDrawerResponses(drawers []*repository.Drawer) []DrawerResponse {
	out := make([]DrawerResponse, 0, len(drawers))
	for _, d := range drawers {
		out = append(out, ToDrawerResponse(d))
	}
	return out
}

type MyDrawerResponse struct {
	DrawerResponse
	Role              types.Role `json:"role"`
	NotificationLevel int        `json:"notificationLevel"`
	JoinedAt          time.Time  `json:"joinedAt"`
}

func ToMyDrawerResponses(views []*repository.DrawerMembershipView) []MyDrawerResponse {
	out := make([]MyDrawerResponse, 0, len(views))
	for _, v := range views {
		out = append(out, MyDrawerResponse{
			DrawerResponse:    ToDrawerResponse(&v.Drawer),
			Role:              v.Role,
			NotificationLevel: v.NotificationLevel,
			JoinedAt:          v.JoinedAt,
		})
	}
	return out
}

type DrawerSettingsResponse struct {
	IsPublic        bool `json:"isPublic"`
	IsSearchable    bool `json:"isSearchable"`
	RequireApproval bool `json:"requireApproval"`
}

func ToDrawerSettingsResponse(s *repository.DrawerSettings) DrawerSettingsResponse {
	return DrawerSettingsResponse{
		IsPublic:        s.IsPublic,
		IsSearchable:    s.IsSearchable,
		RequireApproval: s.RequireApproval,
	}
}

type MemberResponse struct {
	UserID            string     `json:"userId"`
	Role              types.Role `json:"role"`
	NotificationLevel int        `json:"notificationLevel"`
	Nickname          *string    `json:"nickname"`
	JoinedAt          time.Time  `json:"joinedAt"`
	DisplayName       string     `json:"displayName"`
	UserCode          string     `json:"userCode"`
	ImageURL          *string    `json:"imageUrl"`
}

func ToMemberResponses(members []*repository.Membership) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		resp := MemberResponse{
			UserID:            m.UserID,
			Role:              m.Role,
			NotificationLevel: m.NotificationLevel,
			Nickname:          m.Nickname,
			JoinedAt:          m.JoinedAt,
		}
		if m.User != nil {
			resp.DisplayName = m.User.DisplayName
			resp.UserCode = m.User.UserCode
			resp.ImageURL = m.User.ImageURL
		}
		out = append(out, resp)
	}
	return out
}

type MembershipResponse struct {
	DrawerID string     `json:"drawerId"`
	UserID   string     `json:"userId"`
	Role     types.Role `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

func ToMembershipResponse(m *repository.Membership) MembershipResponse {
	return MembershipResponse{
		DrawerID: m.DrawerID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}
