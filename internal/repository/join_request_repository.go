package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/seorap-app/seorap-backend/internal/types"
)

// ============================================
// Join Request Model
// ============================================

type JoinRequest struct {
	ID        string
	DrawerID  string
	UserID    string
	Status    types.JoinRequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated by FindPendingByDrawer.
	User *User
}

// ============================================
// Join Request Repository Interface
// ============================================

type JoinRequestRepository interface {
	Create(ctx context.Context, req *JoinRequest) error
	FindByID(ctx context.Context, id string) (*JoinRequest, error)
	FindPendingByDrawer(ctx context.Context, drawerID string) ([]*JoinRequest, error)
	// UpdateStatusFrom moves a request from one status to another, reporting
	// false when the request is not currently in the expected status. This is
	// what keeps Approved and Rejected terminal.
	UpdateStatusFrom(ctx context.Context, id string, from, to types.JoinRequestStatus) (bool, error)
	// RejectStalePending rejects requests that have sat Pending longer than
	// olderThan, returning how many were swept.
	RejectStalePending(ctx context.Context, olderThan time.Duration) (int, error)
}

// ============================================
// PostgreSQL Join Request Repository
// ============================================

type pgJoinRequestRepository struct {
	db DBTX
}

func (r *pgJoinRequestRepository) Create(ctx context.Context, req *JoinRequest) error {
	query := `
		INSERT INTO drawer_join_requests (id, drawer_id, user_id, status)
		VALUES ($1, $2, $3, 0)
		RETURNING status, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, req.ID, req.DrawerID, req.UserID).
		Scan(&req.Status, &req.CreatedAt, &req.UpdatedAt)
}

func (r *pgJoinRequestRepository) FindByID(ctx context.Context, id string) (*JoinRequest, error) {
	query := `
		SELECT id, drawer_id, user_id, status, created_at, updated_at
		FROM drawer_join_requests WHERE id = $1
	`
	req := &JoinRequest{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.DrawerID, &req.UserID, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *pgJoinRequestRepository) FindPendingByDrawer(ctx context.Context, drawerID string) ([]*JoinRequest, error) {
	query := `
		SELECT jr.id, jr.drawer_id, jr.user_id, jr.status, jr.created_at, jr.updated_at,
		       u.id, u.email, u.display_name, u.user_code, u.image_url
		FROM drawer_join_requests jr
		JOIN users u ON u.id = jr.user_id
		WHERE jr.drawer_id = $1 AND jr.status = 0
		ORDER BY jr.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, drawerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*JoinRequest
	for rows.Next() {
		req := &JoinRequest{User: &User{}}
		if err := rows.Scan(
			&req.ID, &req.DrawerID, &req.UserID, &req.Status, &req.CreatedAt, &req.UpdatedAt,
			&req.User.ID, &req.User.Email, &req.User.DisplayName, &req.User.UserCode, &req.User.ImageURL,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (r *pgJoinRequestRepository) UpdateStatusFrom(ctx context.Context, id string, from, to types.JoinRequestStatus) (bool, error) {
	query := `
		UPDATE drawer_join_requests SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgJoinRequestRepository) RejectStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	query := `
		UPDATE drawer_join_requests SET status = 2, updated_at = NOW()
		WHERE status = 0 AND created_at < $1
	`
	tag, err := r.db.Exec(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
