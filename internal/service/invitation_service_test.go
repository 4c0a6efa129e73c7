package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestIssueInvitationOwnerOnly(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	member := newTestUser(t, s, "Member", "member@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, member)

	_, err = s.Invitation.Issue(ctx, drawer.ID, member, nil, 0)
	is.Equal(err, ErrForbidden)

	inv, err := s.Invitation.Issue(ctx, drawer.ID, owner, nil, 0)
	is.NoErr(err)
	is.Equal(len(inv.Token), 64) // 32 random bytes, hex encoded
	is.True(inv.ExpiresAt.After(time.Now().Add(29 * 24 * time.Hour)))

	zero := 0
	_, err = s.Invitation.Issue(ctx, drawer.ID, owner, &zero, 0)
	is.Equal(err, ErrInvalidInput)
}

func TestPreviewInvitation(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)

	inv, err := s.Invitation.Issue(ctx, drawer.ID, owner, nil, 0)
	is.NoErr(err)

	preview, err := s.Invitation.Preview(ctx, inv.Token)
	is.NoErr(err)
	is.Equal(preview.DrawerName, "Study Group")
	is.Equal(preview.InviterName, "Owner")

	_, err = s.Invitation.Preview(ctx, "no-such-token")
	is.Equal(err, ErrNotFound)
}

func TestRedeemInvitation(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)

	inv, err := s.Invitation.Issue(ctx, drawer.ID, owner, nil, 0)
	is.NoErr(err)

	membership, err := s.Invitation.Redeem(ctx, inv.Token, joiner)
	is.NoErr(err)
	is.Equal(membership.DrawerID, drawer.ID)

	current, err := s.Drawer.Get(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 2)

	// Active members cannot redeem again.
	_, err = s.Invitation.Redeem(ctx, inv.Token, joiner)
	is.Equal(err, ErrConflict)

	_, err = s.Invitation.Redeem(ctx, "no-such-token", joiner)
	is.Equal(err, ErrInvitationInvalid)
}

func TestRedeemRevivesMembership(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")
	joiner := newTestUser(t, s, "Joiner", "joiner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)
	joinAsMember(t, s, drawer.ID, joiner)

	// Promote, leave, rejoin: the revived row keeps its old role.
	is.NoErr(s.Drawer.UpdateMemberRole(ctx, drawer.ID, owner, joiner, 2))
	is.NoErr(s.Drawer.Leave(ctx, drawer.ID, joiner))

	inv, err := s.Invitation.Issue(ctx, drawer.ID, owner, nil, 0)
	is.NoErr(err)
	membership, err := s.Invitation.Redeem(ctx, inv.Token, joiner)
	is.NoErr(err)
	is.Equal(int(membership.Role), 2)

	current, err := s.Drawer.Get(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 2)
}

func TestConcurrentRedemptionOfSingleUseToken(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)

	one := 1
	inv, err := s.Invitation.Issue(ctx, drawer.ID, owner, &one, 0)
	is.NoErr(err)

	const n = 8
	userIDs := make([]string, n)
	for i := 0; i < n; i++ {
		userIDs[i] = newTestUser(t, s, "User", string(rune('a'+i))+"@example.com")
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Invitation.Redeem(ctx, inv.Token, userIDs[i])
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			is.True(err == ErrInvitationExhausted || err == ErrInvitationInvalid)
		}
	}
	is.Equal(succeeded, 1) // exactly one redemption wins

	current, err := s.Drawer.Get(ctx, drawer.ID, owner)
	is.NoErr(err)
	is.Equal(current.MemberCount, 2)
}

func TestPurgeExpired(t *testing.T) {
	is := is.New(t)
	s := newTestServices(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "Owner", "owner@example.com")

	drawer, err := s.Drawer.Create(ctx, owner, "Study Group", nil, nil, nil)
	is.NoErr(err)

	_, err = s.Invitation.Issue(ctx, drawer.ID, owner, nil, time.Millisecond)
	is.NoErr(err)
	_, err = s.Invitation.Issue(ctx, drawer.ID, owner, nil, time.Hour)
	is.NoErr(err)

	time.Sleep(5 * time.Millisecond)

	purged, err := s.Invitation.PurgeExpired(ctx)
	is.NoErr(err)
	is.Equal(purged, 1)
}
