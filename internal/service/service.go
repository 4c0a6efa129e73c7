package service

import (
	"errors"

	"github.com/seorap-app/seorap-backend/internal/config"
	"github.com/seorap-app/seorap-backend/internal/db"
	"github.com/seorap-app/seorap-backend/internal/repository"
)

// Sentinel errors. Handlers map these to HTTP statuses; anything else is an
// opaque 500.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("insufficient permissions")
	ErrNotMember           = errors.New("not a member of this drawer")
	ErrConflict            = errors.New("conflicting state")
	ErrInvitationInvalid   = errors.New("invitation is invalid or expired")
	ErrInvitationExhausted = errors.New("invitation has no uses left")
	ErrOwnerCannotLeave    = errors.New("owner must transfer ownership before leaving")
)

// ServiceDeps carries everything services need.
type ServiceDeps struct {
	Config *config.Config
	Repos  *repository.Repositories
	Tx     repository.TxManager
	Cache  *db.RedisDB
}

// Services bundles all application services.
type Services struct {
	Auth        *AuthService
	User        *UserService
	Drawer      *DrawerService
	Invitation  *InvitationService
	JoinRequest *JoinRequestService
}

// NewServices wires all services from shared dependencies.
func NewServices(deps ServiceDeps) *Services {
	return &Services{
		Auth:        NewAuthService(deps),
		User:        NewUserService(deps),
		Drawer:      NewDrawerService(deps),
		Invitation:  NewInvitationService(deps),
		JoinRequest: NewJoinRequestService(deps),
	}
}
