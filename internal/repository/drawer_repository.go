package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/seorap-app/seorap-backend/internal/types"
)

// ============================================
// Drawer Models
// ============================================

// Drawer is a shared group space. member_count is denormalized and must
// always equal the number of active membership rows; every mutation of one
// side happens in the same transaction as the other.
type Drawer struct {
	ID             string
	Name           string
	Description    *string
	ImageURL       *string
	ThumbnailURL   *string
	MemberCount    int
	LastActivityAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// DrawerSettings is 1:1 with a drawer and created in the same transaction.
type DrawerSettings struct {
	DrawerID        string
	IsPublic        bool
	IsSearchable    bool
	RequireApproval bool
	UpdatedAt       time.Time
}

// DrawerMembershipView is a drawer joined with the caller's own membership
// row, used by the my-drawers listing.
type DrawerMembershipView struct {
	Drawer
	Role              types.Role
	NotificationLevel int
	JoinedAt          time.Time
}

// ============================================
// Drawer Repository Interface
// ============================================

type DrawerRepository interface {
	Create(ctx context.Context, drawer *Drawer) error
	FindByID(ctx context.Context, id string) (*Drawer, error)
	Search(ctx context.Context, keyword string, limit, offset int) ([]*Drawer, error)
	FindByUserID(ctx context.Context, userID string) ([]*DrawerMembershipView, error)
	UpdateInfo(ctx context.Context, id string, name, description, imageURL, thumbnailURL *string) (*Drawer, error)
	SoftDelete(ctx context.Context, id string) error
	IncrementMemberCount(ctx context.Context, id string) error
	DecrementMemberCount(ctx context.Context, id string) error
	TouchActivity(ctx context.Context, id string) error

	// Settings
	CreateSettings(ctx context.Context, drawerID string) error
	FindSettings(ctx context.Context, drawerID string) (*DrawerSettings, error)
	UpdateSettings(ctx context.Context, drawerID string, isPublic, isSearchable, requireApproval *bool) (*DrawerSettings, error)
}

// ============================================
// PostgreSQL Drawer Repository
// ============================================

type pgDrawerRepository struct {
	db DBTX
}

func (r *pgDrawerRepository) Create(ctx context.Context, drawer *Drawer) error {
	// The creator becomes the first member, so the counter starts at 1.
	query := `
		INSERT INTO drawers (id, name, description, image_url, thumbnail_url, member_count)
		VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING member_count, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		drawer.ID, drawer.Name, drawer.Description, drawer.ImageURL, drawer.ThumbnailURL,
	).Scan(&drawer.MemberCount, &drawer.CreatedAt, &drawer.UpdatedAt)
}

func (r *pgDrawerRepository) FindByID(ctx context.Context, id string) (*Drawer, error) {
	query := `
		SELECT id, name, description, image_url, thumbnail_url, member_count,
		       last_activity_at, created_at, updated_at, deleted_at
		FROM drawers WHERE id = $1 AND deleted_at IS NULL
	`
	d := &Drawer{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.ImageURL, &d.ThumbnailURL, &d.MemberCount,
		&d.LastActivityAt, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *pgDrawerRepository) Search(ctx context.Context, keyword string, limit, offset int) ([]*Drawer, error) {
	query := `
		SELECT d.id, d.name, d.description, d.image_url, d.thumbnail_url, d.member_count,
		       d.last_activity_at, d.created_at, d.updated_at, d.deleted_at
		FROM drawers d
		JOIN drawer_settings s ON s.drawer_id = d.id
		WHERE (d.name ILIKE $1 OR d.description ILIKE $1)
		  AND d.deleted_at IS NULL
		  AND s.is_public
		ORDER BY d.last_activity_at DESC NULLS LAST
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, "%"+keyword+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drawers []*Drawer
	for rows.Next() {
		d := &Drawer{}
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Description, &d.ImageURL, &d.ThumbnailURL, &d.MemberCount,
			&d.LastActivityAt, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
		); err != nil {
			return nil, err
		}
		drawers = append(drawers, d)
	}
	return drawers, nil
}

func (r *pgDrawerRepository) FindByUserID(ctx context.Context, userID string) ([]*DrawerMembershipView, error) {
	query := `
		SELECT d.id, d.name, d.description, d.image_url, d.thumbnail_url, d.member_count,
		       d.last_activity_at, d.created_at, d.updated_at,
		       du.role, du.notification_level, du.joined_at
		FROM drawer_users du
		JOIN drawers d ON du.drawer_id = d.id
		WHERE du.user_id = $1 AND du.deleted_at IS NULL AND d.deleted_at IS NULL
		ORDER BY d.last_activity_at DESC NULLS LAST
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*DrawerMembershipView
	for rows.Next() {
		v := &DrawerMembershipView{}
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Description, &v.ImageURL, &v.ThumbnailURL, &v.MemberCount,
			&v.LastActivityAt, &v.CreatedAt, &v.UpdatedAt,
			&v.Role, &v.NotificationLevel, &v.JoinedAt,
		); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (r *pgDrawerRepository) UpdateInfo(ctx context.Context, id string, name, description, imageURL, thumbnailURL *string) (*Drawer, error) {
	// Partial update: NULL arguments keep the stored value.
	query := `
		UPDATE drawers
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    image_url = COALESCE($4, image_url),
		    thumbnail_url = COALESCE($5, thumbnail_url),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, name, description, image_url, thumbnail_url, member_count,
		          last_activity_at, created_at, updated_at, deleted_at
	`
	d := &Drawer{}
	err := r.db.QueryRow(ctx, query, id, name, description, imageURL, thumbnailURL).Scan(
		&d.ID, &d.Name, &d.Description, &d.ImageURL, &d.ThumbnailURL, &d.MemberCount,
		&d.LastActivityAt, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *pgDrawerRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE drawers SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *pgDrawerRepository) IncrementMemberCount(ctx context.Context, id string) error {
	query := `
		UPDATE drawers SET member_count = member_count + 1, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *pgDrawerRepository) DecrementMemberCount(ctx context.Context, id string) error {
	// Floors at zero.
	query := `
		UPDATE drawers SET member_count = GREATEST(member_count - 1, 0), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *pgDrawerRepository) TouchActivity(ctx context.Context, id string) error {
	query := `
		UPDATE drawers SET last_activity_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *pgDrawerRepository) CreateSettings(ctx context.Context, drawerID string) error {
	// Defaults: private, unlisted, no approval gate.
	query := `
		INSERT INTO drawer_settings (drawer_id, is_public, is_searchable, require_approval)
		VALUES ($1, false, false, false)
	`
	_, err := r.db.Exec(ctx, query, drawerID)
	return err
}

func (r *pgDrawerRepository) FindSettings(ctx context.Context, drawerID string) (*DrawerSettings, error) {
	query := `
		SELECT s.drawer_id, s.is_public, s.is_searchable, s.require_approval, s.updated_at
		FROM drawer_settings s
		JOIN drawers d ON d.id = s.drawer_id
		WHERE s.drawer_id = $1 AND d.deleted_at IS NULL
	`
	s := &DrawerSettings{}
	err := r.db.QueryRow(ctx, query, drawerID).Scan(
		&s.DrawerID, &s.IsPublic, &s.IsSearchable, &s.RequireApproval, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgDrawerRepository) UpdateSettings(ctx context.Context, drawerID string, isPublic, isSearchable, requireApproval *bool) (*DrawerSettings, error) {
	query := `
		UPDATE drawer_settings
		SET is_public = COALESCE($2, is_public),
		    is_searchable = COALESCE($3, is_searchable),
		    require_approval = COALESCE($4, require_approval),
		    updated_at = NOW()
		WHERE drawer_id = $1
		RETURNING drawer_id, is_public, is_searchable, require_approval, updated_at
	`
	s := &DrawerSettings{}
	err := r.db.QueryRow(ctx, query, drawerID, isPublic, isSearchable, requireApproval).Scan(
		&s.DrawerID, &s.IsPublic, &s.IsSearchable, &s.RequireApproval, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
