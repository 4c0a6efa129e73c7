package service

import (
	"context"

	"github.com/seorap-app/seorap-backend/internal/repository"
	"github.com/seorap-app/seorap-backend/internal/types"
)

// requireRole loads the caller's membership and checks it against allow.
// Returns ErrNotMember when there is no active membership row and
// ErrForbidden when the role does not pass. Mutating sequences call this with
// tx-scoped repositories so the check and the write see the same snapshot.
func requireRole(ctx context.Context, members repository.MemberRepository, drawerID, userID string, allow func(types.Role) bool) (*repository.Membership, error) {
	m, err := members.Find(ctx, drawerID, userID)
	if err != nil {
		return nil, err
	}
	if !m.Active() {
		return nil, ErrNotMember
	}
	if !allow(m.Role) {
		return nil, ErrForbidden
	}
	return m, nil
}

func isOwner(r types.Role) bool {
	return r == types.RoleOwner
}

func atLeastAdmin(r types.Role) bool {
	return r.AtLeast(types.RoleAdmin)
}
