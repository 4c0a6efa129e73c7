package types

import (
	"testing"

	"github.com/matryer/is"
)

func TestRoleRanking(t *testing.T) {
	is := is.New(t)

	is.True(RoleOwner.AtLeast(RoleAdmin))     // owner outranks admin
	is.True(RoleOwner.AtLeast(RoleOwner))     // rank is inclusive
	is.True(RoleAdmin.AtLeast(RoleModerator)) // admin outranks moderator
	is.True(!RoleMember.AtLeast(RoleAdmin))   // member does not outrank admin
	is.True(!RoleModerator.AtLeast(RoleOwner))
}

func TestRoleValid(t *testing.T) {
	is := is.New(t)

	for _, r := range ValidRoles {
		is.True(r.Valid())
	}
	is.True(!Role(-1).Valid())
	is.True(!Role(4).Valid())
}

func TestJoinRequestStatusValid(t *testing.T) {
	is := is.New(t)

	is.True(RequestPending.Valid())
	is.True(RequestApproved.Valid())
	is.True(RequestRejected.Valid())
	is.True(!JoinRequestStatus(3).Valid())
}
