package types

// Role is a drawer member role. The wire format is a small integer where a
// lower value means a higher privilege; Owner is always 0.
type Role int

const (
	RoleOwner Role = iota
	RoleAdmin
	RoleModerator
	RoleMember
)

// Valid role values for validation
var ValidRoles = []Role{RoleOwner, RoleAdmin, RoleModerator, RoleMember}

func (r Role) Valid() bool {
	return r >= RoleOwner && r <= RoleMember
}

// AtLeast reports whether r carries at least the privilege of required.
// The rank order is total: Owner < Admin < Moderator < Member.
func (r Role) AtLeast(required Role) bool {
	return r <= required
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleMember:
		return "member"
	}
	return "unknown"
}

// JoinRequestStatus is the join request lifecycle state. Approved and
// Rejected are terminal; there is no transition out of either.
type JoinRequestStatus int

const (
	RequestPending JoinRequestStatus = iota
	RequestApproved
	RequestRejected
)

func (s JoinRequestStatus) Valid() bool {
	return s >= RequestPending && s <= RequestRejected
}

func (s JoinRequestStatus) String() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestApproved:
		return "approved"
	case RequestRejected:
		return "rejected"
	}
	return "unknown"
}

// Membership notification levels
const (
	NotifyNone    = 0
	NotifyDefault = 1
	NotifyAll     = 2
)
