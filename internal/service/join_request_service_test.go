package service

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/seorap-app/seorap-backend/internal/types"
)

// newApprovalDrawer makes a public drawer that gates joins behind approval.
func newApprovalDrawer(t *testing.T, s *Services, owner string) string {
	t.Helper()
	is := is.New(t)
	ctx := context.Background()

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	yes := true
	_, err = s.Drawer.UpdateSettings(ctx, drawer.ID, owner, &yes, nil, &yes)
	is.NoErr(err)
	return drawer.ID
}

func TestJoinPrivateApprovalGatedDrawer(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	// Private but approval-gated: requests are accepted and sit Pending.
	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	yes := true
	_, err = s.Drawer.UpdateSettings(ctx, drawer.ID, owner, nil, nil, &yes)
	is.NoErr(err)

	outcome, err := s.JoinRequest.Request(ctx, drawer.ID, joiner)
	is.NoErr(err)
	is.True(!outcome.Joined)
	is.Equal(outcome.Request.Status, types.RequestPending)

	membership, err := s.JoinRequest.Approve(ctx, drawer.ID, outcome.Request.ID, owner)
	is.NoErr(err)
	is.Equal(membership.UserID, joiner)
}

func TestJoinPrivateDrawerForbidden(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)

	_, err = s.JoinRequest.Request(ctx, drawer.ID, joiner)
	is.Equal(err, ErrForbidden)

	_, err = s.JoinRequest.Request(ctx, "no-such-drawer", joiner)
	is.Equal(err, ErrNotFound)
}

func TestJoinPublicDrawerImmediately(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	yes := true
	_, err = s.Drawer.UpdateSettings(ctx, drawer.ID, owner, &yes, nil, nil)
	is.NoErr(err)

	outcome, err := s.JoinRequest.Request(ctx, drawer.ID, joiner)
	is.NoErr(err)
	is.True(outcome.Joined)
	is.Equal(outcome.Membership.Role, types.RoleMember)

	current, err := s.Drawer.Get(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 2)

	// Already a member.
	_, err = s.JoinRequest.Request(ctx, drawer.ID, joiner)
	is.Equal(err, ErrConflict)
}

func TestJoinWithApprovalGate(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawerID := newApprovalDrawer(t, s, owner)

	outcome, err := s.JoinRequest.Request(ctx, drawerID, joiner)
	is.NoErr(err)
	is.True(!outcome.Joined)
	is.Equal(outcome.Request.Status, types.RequestPending)

	// Not a member yet.
	current, err := s.Drawer.Get(ctx, drawerID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 1)
}

func TestApproveJoinRequest(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawerID := newApprovalDrawer(t, s, owner)

	outcome, err := s.JoinRequest.Request(ctx, drawerID, joiner)
	is.NoErr(err)

	// Only the owner may approve.
	_, err = s.JoinRequest.Approve(ctx, drawerID, outcome.Request.ID, joiner)
	is.Equal(err, ErrNotMember)

	membership, err := s.JoinRequest.Approve(ctx, drawerID, outcome.Request.ID, owner)
	is.NoErr(err)
	is.Equal(membership.UserID, joiner)

	current, err := s.Drawer.Get(ctx, drawerID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 2)

	// Approving an already approved request conflicts.
	_, err = s.JoinRequest.Approve(ctx, drawerID, outcome.Request.ID, owner)
	is.Equal(err, ErrConflict)
}

func TestRejectJoinRequest(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawerID := newApprovalDrawer(t, s, owner)

	outcome, err := s.JoinRequest.Request(ctx, drawerID, joiner)
	is.NoErr(err)

	is.NoErr(s.JoinRequest.Reject(ctx, drawerID, outcome.Request.ID, owner))

	// Rejection is terminal: no approval afterwards.
	_, err = s.JoinRequest.Approve(ctx, drawerID, outcome.Request.ID, owner)
	is.Equal(err, ErrConflict)

	// No membership was created.
	current, err := s.Drawer.Get(ctx, drawerID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 1)
}

func TestApproveUnknownRequest(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")

	drawerID := newApprovalDrawer(t, s, owner)

	_, err := s.JoinRequest.Approve(ctx, drawerID, "no-such-request", owner)
	is.Equal(err, ErrNotFound)
}

func TestApproveRequestFromAnotherDrawer(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	other := newTestUser(t, s, "Other", "other@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawerA := newApprovalDrawer(t, s, owner)
	drawerB := newApprovalDrawer(t, s, other)

	outcome, err := s.JoinRequest.Request(ctx, drawerA, joiner)
	is.NoErr(err)

	// A request cannot be approved through a different drawer.
	_, err = s.JoinRequest.Approve(ctx, drawerB, outcome.Request.ID, other)
	is.Equal(err, ErrNotFound)
}

func TestListPendingOwnerOnly(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawerID := newApprovalDrawer(t, s, owner)

	_, err := s.JoinRequest.Request(ctx, drawerID, joiner)
	is.NoErr(err)

	_, err = s.JoinRequest.ListPending(ctx, drawerID, joiner)
	is.Equal(err, ErrNotMember)

	pending, err := s.JoinRequest.ListPending(ctx, drawerID, owner)
	is.NoErr(err)
	is.Equal(len(pending), 1)
	is.Equal(pending[0].UserID, joiner)
	is.Equal(pending[0].User.DisplayName, "Joiner")

	// Approval drains the pending list.
	_, err = s.JoinRequest.Approve(ctx, drawerID, pending[0].ID, owner)
	is.NoErr(err)

	pending, err = s.JoinRequest.ListPending(ctx, drawerID, owner)
	is.NoErr(err)
	is.Equal(len(pending), 0)
}
