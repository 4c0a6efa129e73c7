package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/seorap-app/seorap-backend/internal/types"
)

// ============================================
// Membership Model
// ============================================

// Membership is one user's row in a drawer. Rows are soft-deleted on leave
// or kick and revived by Upsert so the (drawer_id, user_id) identity is
// stable across rejoin cycles.
type Membership struct {
	DrawerID          string
	UserID            string
	Role              types.Role
	NotificationLevel int
	Nickname          *string
	JoinedAt          time.Time
	DeletedAt         *time.Time

	// Populated by FindMembers.
	User *User
}

// Active reports whether the row currently counts toward member_count.
func (m *Membership) Active() bool {
	return m != nil && m.DeletedAt == nil
}

// ============================================
// Member Repository Interface
// ============================================

type MemberRepository interface {
	// Upsert inserts a membership row or revives a soft-deleted one. A nil
	// role means RoleMember on insert and keep-current-role on revival.
	Upsert(ctx context.Context, drawerID, userID string, role *types.Role) (*Membership, error)
	// Find returns the row whether active or soft-deleted, nil if none exists.
	Find(ctx context.Context, drawerID, userID string) (*Membership, error)
	FindMembers(ctx context.Context, drawerID string) ([]*Membership, error)
	// UpdateRole reports whether an active row was updated.
	UpdateRole(ctx context.Context, drawerID, userID string, role types.Role) (bool, error)
	// SoftRemove reports whether an active row was removed.
	SoftRemove(ctx context.Context, drawerID, userID string) (bool, error)
	CountActiveOwners(ctx context.Context, drawerID string) (int, error)
}

// ============================================
// PostgreSQL Member Repository
// ============================================

type pgMemberRepository struct {
	db DBTX
}

func (r *pgMemberRepository) Upsert(ctx context.Context, drawerID, userID string, role *types.Role) (*Membership, error) {
	query := `
		INSERT INTO drawer_users (drawer_id, user_id, role, notification_level)
		VALUES ($1, $2, COALESCE($3, 3), 1)
		ON CONFLICT (drawer_id, user_id) DO UPDATE
		SET deleted_at = NULL,
		    role = COALESCE($3, drawer_users.role),
		    updated_at = NOW()
		RETURNING drawer_id, user_id, role, notification_level, nickname_in_drawer, joined_at, deleted_at
	`
	m := &Membership{}
	err := r.db.QueryRow(ctx, query, drawerID, userID, role).Scan(
		&m.DrawerID, &m.UserID, &m.Role, &m.NotificationLevel, &m.Nickname, &m.JoinedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMemberRepository) Find(ctx context.Context, drawerID, userID string) (*Membership, error) {
	query := `
		SELECT drawer_id, user_id, role, notification_level, nickname_in_drawer, joined_at, deleted_at
		FROM drawer_users WHERE drawer_id = $1 AND user_id = $2
	`
	m := &Membership{}
	err := r.db.QueryRow(ctx, query, drawerID, userID).Scan(
		&m.DrawerID, &m.UserID, &m.Role, &m.NotificationLevel, &m.Nickname, &m.JoinedAt, &m.DeletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMemberRepository) FindMembers(ctx context.Context, drawerID string) ([]*Membership, error) {
	query := `
		SELECT du.drawer_id, du.user_id, du.role, du.notification_level,
		       du.nickname_in_drawer, du.joined_at, du.deleted_at,
		       u.id, u.email, u.display_name, u.user_code, u.image_url
		FROM drawer_users du
		JOIN users u ON u.id = du.user_id
		WHERE du.drawer_id = $1 AND du.deleted_at IS NULL
		ORDER BY du.role ASC, du.joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, drawerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Membership
	for rows.Next() {
		m := &Membership{User: &User{}}
		if err := rows.Scan(
			&m.DrawerID, &m.UserID, &m.Role, &m.NotificationLevel,
			&m.Nickname, &m.JoinedAt, &m.DeletedAt,
			&m.User.ID, &m.User.Email, &m.User.DisplayName, &m.User.UserCode, &m.User.ImageURL,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (r *pgMemberRepository) UpdateRole(ctx context.Context, drawerID, userID string, role types.Role) (bool, error) {
	query := `
		UPDATE drawer_users SET role = $3, updated_at = NOW()
		WHERE drawer_id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, drawerID, userID, role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgMemberRepository) SoftRemove(ctx context.Context, drawerID, userID string) (bool, error) {
	query := `
		UPDATE drawer_users SET deleted_at = NOW(), updated_at = NOW()
		WHERE drawer_id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, drawerID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgMemberRepository) CountActiveOwners(ctx context.Context, drawerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM drawer_users
		WHERE drawer_id = $1 AND role = 0 AND deleted_at IS NULL
	`
	var count int
	if err := r.db.QueryRow(ctx, query, drawerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
