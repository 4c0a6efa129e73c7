package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seorap-app/seorap-backend/internal/db"
	"github.com/seorap-app/seorap-backend/internal/repository"
	"github.com/seorap-app/seorap-backend/internal/types"
)

const (
	searchCacheTTL     = 30 * time.Second
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// DrawerService handles the drawer lifecycle and membership administration.
type DrawerService struct {
	repos *repository.Repositories
	tx    repository.TxManager
	cache *db.RedisDB
}

func NewDrawerService(deps ServiceDeps) *DrawerService {
	return &DrawerService{repos: deps.Repos, tx: deps.Tx, cache: deps.Cache}
}

// Create makes a drawer with default settings and the creator as Owner, all
// in one transaction. member_count starts at 1 for the creator's row.
func (s *DrawerService) Create(ctx context.Context, userID, name string, description, imageURL, thumbnailURL *string) (*repository.Drawer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	drawer := &repository.Drawer{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  description,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if err := r.DrawerRepo.Create(ctx, drawer); err != nil {
			return err
		}
		if err := r.DrawerRepo.CreateSettings(ctx, drawer.ID); err != nil {
			return err
		}
		owner := types.RoleOwner
		_, err := r.MemberRepo.Upsert(ctx, drawer.ID, userID, &owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return drawer, nil
}

// Search finds public drawers by keyword. Results are cached briefly.
func (s *DrawerService) Search(ctx context.Context, keyword string, limit, offset int) ([]*repository.Drawer, error) {
	keyword = strings.TrimSpace(keyword)
	if len([]rune(keyword)) < 2 {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	cacheKey := fmt.Sprintf("drawer:search:%s:%d:%d", keyword, limit, offset)
	if cached := s.cache.Get(ctx, cacheKey); cached != "" {
		var drawers []*repository.Drawer
		if err := json.Unmarshal([]byte(cached), &drawers); err == nil {
			return drawers, nil
		}
	}

	drawers, err := s.repos.DrawerRepo.Search(ctx, keyword, limit, offset)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(drawers); err == nil {
		s.cache.Set(ctx, cacheKey, string(payload), searchCacheTTL)
	}
	return drawers, nil
}

// MyDrawers lists the caller's drawers with their membership details.
func (s *DrawerService) MyDrawers(ctx context.Context, userID string) ([]*repository.DrawerMembershipView, error) {
	return s.repos.DrawerRepo.FindByUserID(ctx, userID)
}

// Get returns one drawer; callers must be members.
func (s *DrawerService) Get(ctx context.Context, drawerID, userID string) (*repository.Drawer, error) {
	if _, err := requireRole(ctx, s.repos.MemberRepo, drawerID, userID, func(types.Role) bool { return true }); err != nil {
		return nil, err
	}
	drawer, err := s.repos.DrawerRepo.FindByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if drawer == nil {
		return nil, ErrNotFound
	}
	return drawer, nil
}

// Members lists active members. Any member may list them.
func (s *DrawerService) Members(ctx context.Context, drawerID, userID string) ([]*repository.Membership, error) {
	if _, err := requireRole(ctx, s.repos.MemberRepo, drawerID, userID, func(types.Role) bool { return true }); err != nil {
		return nil, err
	}
	return s.repos.MemberRepo.FindMembers(ctx, drawerID)
}

// UpdateInfo partially updates name/description/images. Admin or above.
func (s *DrawerService) UpdateInfo(ctx context.Context, drawerID, userID string, name, description, imageURL, thumbnailURL *string) (*repository.Drawer, error) {
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, ErrInvalidInput
	}

	var drawer *repository.Drawer
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, userID, atLeastAdmin); err != nil {
			return err
		}

		updated, err := r.DrawerRepo.UpdateInfo(ctx, drawerID, name, description, imageURL, thumbnailURL)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrNotFound
		}
		drawer = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drawer, nil
}

// Settings returns the drawer settings. Any member may read them.
func (s *DrawerService) Settings(ctx context.Context, drawerID, userID string) (*repository.DrawerSettings, error) {
	if _, err := requireRole(ctx, s.repos.MemberRepo, drawerID, userID, func(types.Role) bool { return true }); err != nil {
		return nil, err
	}
	settings, err := s.repos.DrawerRepo.FindSettings(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ErrNotFound
	}
	return settings, nil
}

// UpdateSettings partially updates visibility flags. Owner only.
func (s *DrawerService) UpdateSettings(ctx context.Context, drawerID, userID string, isPublic, isSearchable, requireApproval *bool) (*repository.DrawerSettings, error) {
	var settings *repository.DrawerSettings
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, userID, isOwner); err != nil {
			return err
		}

		updated, err := r.DrawerRepo.UpdateSettings(ctx, drawerID, isPublic, isSearchable, requireApproval)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrNotFound
		}
		settings = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Delete soft-deletes a drawer. Owner only.
func (s *DrawerService) Delete(ctx context.Context, drawerID, userID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, userID, isOwner); err != nil {
			return err
		}
		return r.DrawerRepo.SoftDelete(ctx, drawerID)
	})
}

// TransferMaster moves ownership to another active member. The old owner
// becomes Admin. The owner count is verified before commit.
func (s *DrawerService) TransferMaster(ctx context.Context, drawerID, userID, newOwnerID string) error {
	if userID == newOwnerID {
		return ErrInvalidInput
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, userID, isOwner); err != nil {
			return err
		}

		candidate, err := r.MemberRepo.Find(ctx, drawerID, newOwnerID)
		if err != nil {
			return err
		}
		if !candidate.Active() {
			return ErrNotFound
		}

		if _, err := r.MemberRepo.UpdateRole(ctx, drawerID, newOwnerID, types.RoleOwner); err != nil {
			return err
		}
		if _, err := r.MemberRepo.UpdateRole(ctx, drawerID, userID, types.RoleAdmin); err != nil {
			return err
		}

		owners, err := r.MemberRepo.CountActiveOwners(ctx, drawerID)
		if err != nil {
			return err
		}
		if owners != 1 {
			log.Printf("[Drawer] ⚠️ transfer aborted, owner count %d in drawer %s", owners, drawerID)
			return ErrConflict
		}
		return r.DrawerRepo.TouchActivity(ctx, drawerID)
	})
}

// Leave removes the caller from the drawer. Owners must transfer first.
func (s *DrawerService) Leave(ctx context.Context, drawerID, userID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		m, err := r.MemberRepo.Find(ctx, drawerID, userID)
		if err != nil {
			return err
		}
		if !m.Active() {
			return ErrNotMember
		}
		if m.Role == types.RoleOwner {
			return ErrOwnerCannotLeave
		}

		removed, err := r.MemberRepo.SoftRemove(ctx, drawerID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotMember
		}
		if err := r.DrawerRepo.DecrementMemberCount(ctx, drawerID); err != nil {
			return err
		}
		return r.DrawerRepo.TouchActivity(ctx, drawerID)
	})
}

// Kick removes another member. Owner only; the owner cannot kick themselves.
func (s *DrawerService) Kick(ctx context.Context, drawerID, userID, targetID string) error {
	if userID == targetID {
		return ErrInvalidInput
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, userID, isOwner); err != nil {
			return err
		}

		removed, err := r.MemberRepo.SoftRemove(ctx, drawerID, targetID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotFound
		}
		if err := r.DrawerRepo.DecrementMemberCount(ctx, drawerID); err != nil {
			return err
		}
		return r.DrawerRepo.TouchActivity(ctx, drawerID)
	})
}

// UpdateMemberRole changes another member's role. Owner only. Owner rank is
// assigned through TransferMaster, never here.
func (s *DrawerService) UpdateMemberRole(ctx context.Context, drawerID, userID, targetID string, role types.Role) error {
	if !role.Valid() || role == types.RoleOwner {
		return ErrInvalidInput
	}
	if userID == targetID {
		return ErrInvalidInput
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repositories) error {
		if _, err := requireRole(ctx, r.MemberRepo, drawerID, userID, isOwner); err != nil {
			return err
		}

		updated, err := r.MemberRepo.UpdateRole(ctx, drawerID, targetID, role)
		if err != nil {
			return err
		}
		if !updated {
			return ErrNotFound
		}
		return nil
	})
}
