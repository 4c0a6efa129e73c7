package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/seorap-app/seorap-backend/internal/config"
	"github.com/seorap-app/seorap-backend/internal/repository"
)

// InvitationService issues, previews and redeems invitation tokens.
type InvitationService struct {
	cfg   *config.Config
	repos *repository.Repositories
	tx    repository.TxManager
}

func NewInvitationService(deps ServiceDeps) *InvitationService {
	return &InvitationService{cfg: deps.Config, repos: deps.Repos, tx: deps.Tx}
}

// Issue creates an invitation for a drawer. Owner only. A nil maxUses means
// unlimited; zero or negative maxUses is rejected. A zero ttl falls back to
// the configured default.
func (s *InvitationService) Issue(ctx context.Context, drawerID, userID string, maxUses *int, ttl time.Duration) (*repository.Invitation, error) {
	if maxUses != nil && *maxUses <= 0 {
		return nil, ErrInvalidInput
	}
	if ttl <= 0 {
		ttl = s.cfg.InvitationExpiry
	}

	if _, err := requireRole(ctx, s.repos.MemberRepo, drawerID, userID, isOwner); err != nil {
		return nil, err
	}

	drawer, err := s.repos.DrawerRepo.FindByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if drawer == nil {
		return nil, ErrNotFound
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, err
	}

	inv := &repository.Invitation{
		ID:        uuid.New().String(),
		DrawerID:  drawerID,
		InviterID: userID,
		Token:     token,
		MaxUses:   maxUses,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.repos.InvitationRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Preview returns the public view of a valid invitation, for the landing
// page shown before joining. Invalid tokens read as not found so the token
// namespace is not probeable.
func (s *InvitationService) Preview(ctx context.Context, token string) (*repository.InvitationPreview, error) {
	preview, err := s.repos.InvitationRepo.FindValidByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if preview == nil {
		return nil, ErrNotFound
	}
	return preview, nil
}

// Redeem joins the caller to the invitation's drawer. The whole sequence is
// one transaction: validate, reject active members, upsert the membership,
// bump the counter, then consume a use. The conditional consume is what
// serializes racing redemptions of a nearly-exhausted token.
func (s *InvitationService) Redeem(ctx context.Context, token, userID string) (*repository.Membership, error) {
	var membership *repository.Membership

	err := s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		inv, err := r.InvitationRepo.FindValidByToken(ctx, token)
		if err != nil {
			return err
		}
		if inv == nil {
			return ErrInvitationInvalid
		}

		existing, err := r.MemberRepo.Find(ctx, inv.DrawerID, userID)
		if err != nil {
			return err
		}
		if existing.Active() {
			return ErrConflict
		}

		membership, err = r.MemberRepo.Upsert(ctx, inv.DrawerID, userID, nil)
		if err != nil {
			return err
		}
		if err := r.DrawerRepo.IncrementMemberCount(ctx, inv.DrawerID); err != nil {
			return err
		}

		consumed, err := r.InvitationRepo.ConsumeUse(ctx, token)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrInvitationExhausted
		}
		return r.DrawerRepo.TouchActivity(ctx, inv.DrawerID)
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// PurgeExpired deletes expired invitations. Called from the scheduler.
func (s *InvitationService) PurgeExpired(ctx context.Context) (int, error) {
	return s.repos.InvitationRepo.DeleteExpired(ctx)
}

// generateInvitationToken returns 64 hex chars of cryptographic randomness.
func generateInvitationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
