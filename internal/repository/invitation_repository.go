package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// ============================================
// Invitation Models
// ============================================

type Invitation struct {
	ID        string
	DrawerID  string
	InviterID string
	Token     string
	MaxUses   *int // nil means unlimited
	UsesCount int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// InvitationPreview is the public view of a valid invitation, shown before
// the viewer authenticates or joins.
type InvitationPreview struct {
	Invitation
	DrawerName         string
	DrawerDescription  *string
	DrawerImageURL     *string
	DrawerThumbnailURL *string
	DrawerMemberCount  int
	InviterName        string
}

// ============================================
// Invitation Repository Interface
// ============================================

type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	// FindValidByToken returns nil when the token does not exist, is expired,
	// is exhausted, or its drawer is deleted.
	FindValidByToken(ctx context.Context, token string) (*InvitationPreview, error)
	// ConsumeUse atomically increments uses_count, reporting false when the
	// invitation is no longer valid. This is the linearization point for
	// concurrent redemptions.
	ConsumeUse(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context) (int, error)
}

// ============================================
// PostgreSQL Invitation Repository
// ============================================

type pgInvitationRepository struct {
	db DBTX
}

func (r *pgInvitationRepository) Create(ctx context.Context, inv *Invitation) error {
	query := `
		INSERT INTO drawer_invitations (id, drawer_id, inviter_id, token, max_uses, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uses_count, created_at
	`
	return r.db.QueryRow(ctx, query,
		inv.ID, inv.DrawerID, inv.InviterID, inv.Token, inv.MaxUses, inv.ExpiresAt,
	).Scan(&inv.UsesCount, &inv.CreatedAt)
}

func (r *pgInvitationRepository) FindValidByToken(ctx context.Context, token string) (*InvitationPreview, error) {
	query := `
		SELECT i.id, i.drawer_id, i.inviter_id, i.token, i.max_uses, i.uses_count,
		       i.expires_at, i.created_at,
		       d.name, d.description, d.image_url, d.thumbnail_url, d.member_count,
		       u.display_name
		FROM drawer_invitations i
		JOIN drawers d ON d.id = i.drawer_id AND d.deleted_at IS NULL
		JOIN users u ON u.id = i.inviter_id
		WHERE i.token = $1
		  AND i.expires_at > NOW()
		  AND (i.max_uses IS NULL OR i.uses_count < i.max_uses)
	`
	p := &InvitationPreview{}
	err := r.db.QueryRow(ctx, query, token).Scan(
		&p.ID, &p.DrawerID, &p.InviterID, &p.Token, &p.MaxUses, &p.UsesCount,
		&p.ExpiresAt, &p.CreatedAt,
		&p.DrawerName, &p.DrawerDescription, &p.DrawerImageURL, &p.DrawerThumbnailURL, &p.DrawerMemberCount,
		&p.InviterName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgInvitationRepository) ConsumeUse(ctx context.Context, token string) (bool, error) {
	// Validity is re-checked in the WHERE clause so two racing redemptions
	// of a one-use token cannot both pass.
	query := `
		UPDATE drawer_invitations SET uses_count = uses_count + 1
		WHERE token = $1
		  AND expires_at > NOW()
		  AND (max_uses IS NULL OR uses_count < max_uses)
	`
	tag, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgInvitationRepository) DeleteExpired(ctx context.Context) (int, error) {
	query := `DELETE FROM drawer_invitations WHERE expires_at <= NOW()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
