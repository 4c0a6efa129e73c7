// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Query executor abstraction
// ============================================

// DBTX is the capability every repository queries through. Both
// *pgxpool.Pool and pgx.Tx implement it, so the same repository code runs
// against the pool for plain reads and against an in-flight transaction for
// multi-step mutations.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxManager runs a function inside one atomic transaction. The function
// receives a repository set bound to that transaction; any error rolls the
// whole sequence back before it is returned.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error
}

type pgTxManager struct {
	pool *pgxpool.Pool
}

// NewPgTxManager creates a transaction manager backed by a pgx pool.
func NewPgTxManager(pool *pgxpool.Pool) TxManager {
	return &pgTxManager{pool: pool}
}

func (m *pgTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, newPgRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ============================================
// Models / Entities
// ============================================

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	UserCode    string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ============================================
// Repository Interfaces
// ============================================

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error
}

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo        UserRepository
	DrawerRepo      DrawerRepository
	MemberRepo      MemberRepository
	InvitationRepo  InvitationRepository
	JoinRequestRepo JoinRequestRepository
}

// NewPgRepositories creates PostgreSQL-backed repositories reading through
// the pool.
func NewPgRepositories(pool *pgxpool.Pool) *Repositories {
	return newPgRepositories(pool)
}

func newPgRepositories(db DBTX) *Repositories {
	return &Repositories{
		UserRepo:        &pgUserRepository{db: db},
		DrawerRepo:      &pgDrawerRepository{db: db},
		MemberRepo:      &pgMemberRepository{db: db},
		InvitationRepo:  &pgInvitationRepository{db: db},
		JoinRequestRepo: &pgJoinRequestRepository{db: db},
	}
}

// ============================================
// PostgreSQL User Repository
// ============================================

type pgUserRepository struct {
	db DBTX
}

func (r *pgUserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password, display_name, user_code, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Email, user.Password, user.DisplayName, user.UserCode, user.ImageURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, password, display_name, user_code, image_url, created_at, updated_at
		FROM users WHERE id = $1
	`
	user := &User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Password, &user.DisplayName, &user.UserCode,
		&user.ImageURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password, display_name, user_code, image_url, created_at, updated_at
		FROM users WHERE LOWER(email) = LOWER($1)
	`
	user := &User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.DisplayName, &user.UserCode,
		&user.ImageURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET display_name = $2, image_url = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.DisplayName, user.ImageURL)
	return err
}

func (r *pgUserRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, token.Token, token.UserID, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
}

func (r *pgUserRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	query := `
		SELECT id, token, user_id, expires_at, created_at
		FROM refresh_tokens WHERE token = $1
	`
	rt := &RefreshToken{}
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *pgUserRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	_, err := r.db.Exec(ctx, query, token)
	return err
}

func (r *pgUserRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
