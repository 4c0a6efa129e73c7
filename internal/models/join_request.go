package models

import (
	"time"

	"github.com/seorap-app/seorap-backend/internal/repository"
	"github.com/seorap-app/seorap-backend/internal/types"
)

type JoinRequestResponse struct {
	ID          string                  `json:"id"`
	DrawerID    string                  `json:"drawerId"`
	UserID      string                  `json:"userId"`
	Status      types.JoinRequestStatus `json:"status"`
	CreatedAt   time.Time               `json:"createdAt"`
	DisplayName string                  `json:"displayName,omitempty"`
	UserCode    string                  `json:"userCode,omitempty"`
	ImageURL    *string                 `json:"imageUrl,omitempty"`
}

func ToJoinRequestResponse(req *repository.JoinRequest) JoinRequestResponse {
	resp := JoinRequestResponse{
		ID:        req.ID,
		DrawerID:  req.DrawerID,
		UserID:    req.UserID,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}
	if req.User != nil {
		resp.DisplayName = req.User.DisplayName
		resp.UserCode = req.User.UserCode
		resp.ImageURL = req.User.ImageURL
	}
	return resp
}

func ToJoinRequestResponses(reqs []*repository.JoinRequest) []JoinRequestResponse {
	out := make([]JoinRequestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, ToJoinRequestResponse(req))
	}
	return out
}

// JoinResultResponse is returned by the join endpoint; exactly one of
// membership or request is set.
type JoinResultResponse struct {
	Joined     bool                 `json:"joined"`
	Membership *MembershipResponse  `json:"membership,omitempty"`
	Request    *JoinRequestResponse `json:"request,omitempty"`
}
