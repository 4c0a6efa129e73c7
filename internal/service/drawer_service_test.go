package service

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/seorap-app/seorap-backend/internal/types"
)

func TestCreateDrawer(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	is.Equal(drawer.MemberCount, 1) // creator is the only member

	views, err := s.Drawer.MyDrawers(ctx, owner)
	is.NoErr(err)
	is.Equal(len(views), 1)
	is.Equal(views[0].Role, types.RoleOwner)

	settings, err := s.Drawer.Settings(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.True(!settings.IsPublic) // drawers start private

	_, err = s.Drawer.Create(ctx, owner, "   ", nil, nil, nil)
	is.Equal(err, ErrInvalidInput)
}

func TestSearchValidation(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.Drawer.Search(ctx, "a", 0, 0)
	is.Equal(err, ErrInvalidInput)

	_, err = s.Drawer.Search(ctx, "  x  ", 0, 0)
	is.Equal(err, ErrInvalidInput)
}

func TestSearchFindsPublicDrawersOnly(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")

	pub, err := s.Drawer.Create(ctx, owner, "Go study circle", nil, nil, nil)
	is.NoErr(err)
	yes := true
	_, err = s.Drawer.UpdateSettings(ctx, pub.ID, owner, &yes, &yes, nil)
	is.NoErr(err)

	_, err = s.Drawer.Create(ctx, owner, "Go secret club", nil, nil, nil)
	is.NoErr(err)

	results, err := s.Drawer.Search(ctx, "Go", 0, 0)
	is.NoErr(err)
	is.Equal(len(results), 1)
	is.Equal(results[0].ID, pub.ID)
}

func TestUpdateInfoRequiresAdmin(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")
	stranger := newTestUser(t, s, "Stranger", "stranger@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	name := "Renamed"
	_, err = s.Drawer.UpdateInfo(ctx, drawer.ID, member, &name, nil, nil, nil)
	is.Equal(err, ErrForbidden)

	_, err = s.Drawer.UpdateInfo(ctx, drawer.ID, stranger, &name, nil, nil, nil)
	is.Equal(err, ErrNotMember)

	updated, err := s.Drawer.UpdateInfo(ctx, drawer.ID, owner, &name, nil, nil, nil)
	is.NoErr(err)
	is.Equal(updated.Name, "Renamed")
}

func TestUpdateInfoSeesFreshRank(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	// The guard reads the membership row at write time, so a demotion is
	// effective on the very next call.
	is.NoErr(s.Drawer.UpdateMemberRole(ctx, drawer.ID, owner, member, types.RoleAdmin))

	name := "Renamed"
	_, err = s.Drawer.UpdateInfo(ctx, drawer.ID, member, &name, nil, nil, nil)
	is.NoErr(err)

	is.NoErr(s.Drawer.UpdateMemberRole(ctx, drawer.ID, owner, member, types.RoleMember))

	_, err = s.Drawer.UpdateInfo(ctx, drawer.ID, member, &name, nil, nil, nil)
	is.Equal(err, ErrForbidden)

	yes := true
	_, err = s.Drawer.UpdateSettings(ctx, drawer.ID, member, &yes, nil, nil)
	is.Equal(err, ErrForbidden)
}

func TestUpdateSettingsOwnerOnly(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	// Even after promotion to admin, settings stay owner-only.
	is.NoErr(s.Drawer.UpdateMemberRole(ctx, drawer.ID, owner, member, types.RoleAdmin))

	yes := true
	_, err = s.Drawer.UpdateSettings(ctx, drawer.ID, member, &yes, nil, nil)
	is.Equal(err, ErrForbidden)

	settings, err := s.Drawer.UpdateSettings(ctx, drawer.ID, owner, &yes, nil, nil)
	is.NoErr(err)
	is.True(settings.IsPublic)
}

func TestOwnerCannotLeave(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)

	err = s.Drawer.Leave(ctx, drawer.ID, owner)
	is.Equal(err, ErrOwnerCannotLeave)
}

func TestLeaveDecrementsCount(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	current, err := s.Drawer.Get(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 2)

	is.NoErr(s.Drawer.Leave(ctx, drawer.ID, member))

	current, err = s.Drawer.Get(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 1)

	// Leaving twice is not possible.
	err = s.Drawer.Leave(ctx, drawer.ID, member)
	is.Equal(err, ErrNotMember)
}

func TestKick(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	// Non-owner cannot kick.
	err = s.Drawer.Kick(ctx, drawer.ID, member, owner)
	is.Equal(err, ErrForbidden)

	is.NoErr(s.Drawer.Kick(ctx, drawer.ID, owner, member))

	current, err := s.Drawer.Get(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 1)

	// Kicking again finds no active row.
	err = s.Drawer.Kick(ctx, drawer.ID, owner, member)
	is.Equal(err, ErrNotFound)
}

func TestTransferMaster(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	is.NoErr(s.Drawer.TransferMaster(ctx, drawer.ID, owner, member))

	views, err := s.Drawer.MyDrawers(ctx, member)
	is.NoErr(err)
	is.Equal(views[0].Role, types.RoleOwner)

	views, err = s.Drawer.MyDrawers(ctx, owner)
	is.NoErr(err)
	is.Equal(views[0].Role, types.RoleAdmin) // old owner demoted

	// The old owner no longer holds the rank to transfer.
	err = s.Drawer.TransferMaster(ctx, drawer.ID, owner, member)
	is.Equal(err, ErrForbidden)

	// After the transfer the old owner may leave.
	is.NoErr(s.Drawer.Leave(ctx, drawer.ID, owner))
}

func TestTransferMasterToNonMember(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	stranger := newTestUser(t, s, "Stranger", "stranger@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)

	err = s.Drawer.TransferMaster(ctx, drawer.ID, owner, stranger)
	is.Equal(err, ErrNotFound)

	err = s.Drawer.TransferMaster(ctx, drawer.ID, owner, owner)
	is.Equal(err, ErrInvalidInput)
}

func TestUpdateMemberRole(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	is.NoErr(s.Drawer.UpdateMemberRole(ctx, drawer.ID, owner, member, types.RoleModerator))

	views, err := s.Drawer.MyDrawers(ctx, member)
	is.NoErr(err)
	is.Equal(views[0].Role, types.RoleModerator)

	// Owner rank is only reachable through transfer.
	err = s.Drawer.UpdateMemberRole(ctx, drawer.ID, owner, member, types.RoleOwner)
	is.Equal(err, ErrInvalidInput)

	err = s.Drawer.UpdateMemberRole(ctx, drawer.ID, owner, member, types.Role(7))
	is.Equal(err, ErrInvalidInput)
}

func TestDeleteDrawer(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	err = s.Drawer.Delete(ctx, drawer.ID, member)
	is.Equal(err, ErrForbidden)

	is.NoErr(s.Drawer.Delete(ctx, drawer.ID, owner))

	_, err = s.Drawer.Get(ctx, drawer.ID, owner)
	is.Equal(err, ErrNotFound)
}

// joinAsMember opens the drawer and auto-joins the user through the public
// join path.
func joinAsMember(t *testing.T, s *Services, drawerID, userID string) {
	t.Helper()
	is := is.New(t)
	ctx := context.Background()

	settings, err := s.Drawer.Settings(ctx, drawerID, findOwner(t, s, drawerID))
	is.NoErr(err)

	ownerID := findOwner(t, s, drawerID)
	if !settings.IsPublic {
		yes := true
		_, err = s.Drawer.UpdateSettings(ctx, drawerID, ownerID, &yes, nil, nil)
		is.NoErr(err)
	}

	outcome, err := s.JoinRequest.Request(ctx, drawerID, userID)
	is.NoErr(err)
	is.True(outcome.Joined)
}

// findOwner returns the id of the drawer's active owner.
func findOwner(t *testing.T, s *Services, drawerID string) string {
	t.Helper()
	members, err := s.Drawer.repos.MemberRepo.FindMembers(context.Background(), drawerID)
	if err != nil {
		t.Fatalf("find members: %v", err)
	}
	for _, m := range members {
		if m.Role == types.RoleOwner {
			return m.UserID
		}
	}
	t.Fatal("no owner found")
	return ""
}
