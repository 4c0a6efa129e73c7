package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/seorap-app/seorap-backend/internal/repository"
	"github.com/seorap-app/seorap-backend/internal/types"
)

// stalePendingAge is how long a request may sit Pending before the daily
// sweep rejects it.
const stalePendingAge = 30 * 24 * time.Hour

// JoinRequestService handles the approval-gated join workflow.
type JoinRequestService struct {
	repos *repository.Repositories
	tx    repository.TxManager
}

func NewJoinRequestService(deps ServiceDeps) *JoinRequestService {
	return &JoinRequestService{repos: deps.Repos, tx: deps.Tx}
}

// JoinOutcome tells the caller whether they became a member immediately or a
// request now awaits approval.
type JoinOutcome struct {
	Joined     bool
	Membership *repository.Membership
	Request    *repository.JoinRequest
}

// Request asks to join a public drawer. When the drawer requires approval a
// Pending request is recorded; otherwise the caller joins immediately.
func (s *JoinRequestService) Request(ctx context.Context, drawerID, userID string) (*JoinOutcome, error) {
	outcome := &JoinOutcome{}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		settings, err := r.DrawerRepo.FindSettings(ctx, drawerID)
		if err != nil {
			return err
		}
		if settings == nil {
			return ErrNotFound
		}
		// A drawer that is neither public nor approval-gated cannot be
		// joined from outside; invitations are the only way in.
		if !settings.IsPublic && !settings.RequireApproval {
			return ErrForbidden
		}

		existing, err := r.MemberRepo.Find(ctx, drawerID, userID)
		if err != nil {
			return err
		}
		if existing.Active() {
			return ErrConflict
		}

		if settings.RequireApproval {
			req := &repository.JoinRequest{
				ID:       uuid.New().String(),
				DrawerID: drawerID,
				UserID:   userID,
			}
			if err := r.JoinRequestRepo.Create(ctx, req); err != nil {
				return err
			}
			outcome.Request = req
			return nil
		}

		membership, err := r.MemberRepo.Upsert(ctx, drawerID, userID, nil)
		if err != nil {
			return err
		}
		if err := r.DrawerRepo.IncrementMemberCount(ctx, drawerID); err != nil {
			return err
		}
		if err := r.DrawerRepo.TouchActivity(ctx, drawerID); err != nil {
			return err
		}
		outcome.Joined = true
		outcome.Membership = membership
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// Approve turns a Pending request into a membership. Owner only. Approving
// anything but a Pending request fails with Conflict.
func (s *JoinRequestService) Approve(ctx context.Context, drawerID, requestID, approverID string) (*repository.Membership, error) {
	var membership *repository.Membership

	err := s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, approverID, isOwner); err != nil {
			return err
		}

		req, err := r.JoinRequestRepo.FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil || req.DrawerID != drawerID {
			return ErrNotFound
		}

		moved, err := r.JoinRequestRepo.UpdateStatusFrom(ctx, requestID, types.RequestPending, types.RequestApproved)
		if err != nil {
			return err
		}
		if !moved {
			return ErrConflict
		}

		membership, err = r.MemberRepo.Upsert(ctx, drawerID, req.UserID, nil)
		if err != nil {
			return err
		}
		if err := r.DrawerRepo.IncrementMemberCount(ctx, drawerID); err != nil {
			return err
		}
		return r.DrawerRepo.TouchActivity(ctx, drawerID)
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Reject marks a Pending request rejected. Owner only.
func (s *JoinRequestService) Reject(ctx context.Context, drawerID, requestID, rejecterID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, rejecterID, isOwner); err != nil {
			return err
		}

		req, err := r.JoinRequestRepo.FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil || req.DrawerID != drawerID {
			return ErrNotFound
		}

		moved, err := r.JoinRequestRepo.UpdateStatusFrom(ctx, requestID, types.RequestPending, types.RequestRejected)
		if err != nil {
			return err
		}
		if !moved {
			return ErrConflict
		}
		return nil
	})
}

// ListPending lists Pending requests for a drawer. Owner only.
func (s *JoinRequestService) ListPending(ctx context.Context, drawerID, userID string) ([]*repository.JoinRequest, error) {
	if _, err := requireRole(ctx, s.repos.MemberRepo, drawerID, userID, isOwner); err != nil {
		return nil, err
	}
	return s.repos.JoinRequestRepo.FindPendingByDrawer(ctx, drawerID)
}

// SweepStale rejects requests stuck Pending past the cutoff. Called from the
// scheduler.
func (s *JoinRequestService) SweepStale(ctx context.Context) (int, error) {
	return s.repos.JoinRequestRepo.RejectStalePending(ctx, stalePendingAge)
}
