package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/seorap-app/seorap-backend/internal/types"
)

// In-memory repositories. Used when no DATABASE_URL is configured and by the
// service tests. Each repository copies entities on the way in and out so
// callers never share a map-backed pointer.

// NewRepositories creates in-memory repositories. The cross-links below stand
// in for the SQL joins of the Postgres implementations.
func NewRepositories() *Repositories {
	users := newInMemoryUserRepository()
	members := newInMemoryMemberRepository()
	drawers := newInMemoryDrawerRepository()
	invitations := newInMemoryInvitationRepository()
	joinRequests := newInMemoryJoinRequestRepository()

	members.users = users
	drawers.members = members
	invitations.drawers = drawers
	invitations.users = users
	joinRequests.users = users

	return &Repositories{
		UserRepo:        users,
		DrawerRepo:      drawers,
		MemberRepo:      members,
		InvitationRepo:  invitations,
		JoinRequestRepo: joinRequests,
	}
}

// memoryTxManager serializes transactional sequences with one mutex. There is
// no rollback; sequences are short and the serialization is what the
// concurrency-sensitive paths (invitation redemption, master transfer) need.
type memoryTxManager struct {
	mu    sync.Mutex
	repos *Repositories
}

// NewMemoryTxManager creates a TxManager over in-memory repositories.
func NewMemoryTxManager(repos *Repositories) TxManager {
	return &memoryTxManager{repos: repos}
}

func (m *memoryTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.repos)
}

// ============================================
// In-Memory User Repository
// ============================================

type inMemoryUserRepository struct {
	mu            sync.RWMutex
	users         map[string]*User
	refreshTokens map[string]*RefreshToken
}

func newInMemoryUserRepository() *inMemoryUserRepository {
	return &inMemoryUserRepository{
		users:         make(map[string]*User),
		refreshTokens: make(map[string]*RefreshToken),
	}
}

func (r *inMemoryUserRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *inMemoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *inMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return nil
	}
	existing.DisplayName = user.DisplayName
	existing.ImageURL = user.ImageURL
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryUserRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	token.CreatedAt = time.Now()
	cp := *token
	r.refreshTokens[token.Token] = &cp
	return nil
}

func (r *inMemoryUserRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.refreshTokens[token]
	if !ok {
		return nil, nil
	}
	cp := *rt
	return &cp, nil
}

func (r *inMemoryUserRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refreshTokens, token)
	return nil
}

func (r *inMemoryUserRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, rt := range r.refreshTokens {
		if rt.UserID == userID {
			delete(r.refreshTokens, token)
		}
	}
	return nil
}

// ============================================
// In-Memory Drawer Repository
// ============================================

type inMemoryDrawerRepository struct {
	mu       sync.RWMutex
	drawers  map[string]*Drawer
	settings map[string]*DrawerSettings

	// Shared with the member repository so cross-entity reads work the way
	// the SQL joins do.
	members *inMemoryMemberRepository
}

func newInMemoryDrawerRepository() *inMemoryDrawerRepository {
	return &inMemoryDrawerRepository{
		drawers:  make(map[string]*Drawer),
		settings: make(map[string]*DrawerSettings),
	}
}

func (r *inMemoryDrawerRepository) Create(ctx context.Context, drawer *Drawer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if drawer.ID == "" {
		drawer.ID = uuid.New().String()
	}
	now := time.Now()
	drawer.MemberCount = 1
	drawer.CreatedAt = now
	drawer.UpdatedAt = now
	cp := *drawer
	r.drawers[drawer.ID] = &cp
	return nil
}

func (r *inMemoryDrawerRepository) FindByID(ctx context.Context, id string) (*Drawer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drawers[id]
	if !ok || d.DeletedAt != nil {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *inMemoryDrawerRepository) Search(ctx context.Context, keyword string, limit, offset int) ([]*Drawer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kw := strings.ToLower(keyword)
	var matches []*Drawer
	for _, d := range r.drawers {
		if d.DeletedAt != nil {
			continue
		}
		s, ok := r.settings[d.ID]
		if !ok || !s.IsPublic {
			continue
		}
		desc := ""
		if d.Description != nil {
			desc = *d.Description
		}
		if strings.Contains(strings.ToLower(d.Name), kw) || strings.Contains(strings.ToLower(desc), kw) {
			cp := *d
			matches = append(matches, &cp)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i].LastActivityAt, matches[j].LastActivityAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *inMemoryDrawerRepository) FindByUserID(ctx context.Context, userID string) ([]*DrawerMembershipView, error) {
	if r.members == nil {
		return nil, nil
	}
	memberships := r.members.findByUser(userID)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var views []*DrawerMembershipView
	for _, m := range memberships {
		d, ok := r.drawers[m.DrawerID]
		if !ok || d.DeletedAt != nil {
			continue
		}
		views = append(views, &DrawerMembershipView{
			Drawer:            *d,
			Role:              m.Role,
			NotificationLevel: m.NotificationLevel,
			JoinedAt:          m.JoinedAt,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i].LastActivityAt, views[j].LastActivityAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	return views, nil
}

func (r *inMemoryDrawerRepository) UpdateInfo(ctx context.Context, id string, name, description, imageURL, thumbnailURL *string) (*Drawer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drawers[id]
	if !ok || d.DeletedAt != nil {
		return nil, nil
	}
	if name != nil {
		d.Name = *name
	}
	if description != nil {
		d.Description = description
	}
	if imageURL != nil {
		d.ImageURL = imageURL
	}
	if thumbnailURL != nil {
		d.ThumbnailURL = thumbnailURL
	}
	d.UpdatedAt = time.Now()
	cp := *d
	return &cp, nil
}

func (r *inMemoryDrawerRepository) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drawers[id]
	if !ok || d.DeletedAt != nil {
		return nil
	}
	now := time.Now()
	d.DeletedAt = &now
	d.UpdatedAt = now
	return nil
}

func (r *inMemoryDrawerRepository) IncrementMemberCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drawers[id]; ok {
		d.MemberCount++
		d.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryDrawerRepository) DecrementMemberCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drawers[id]; ok {
		if d.MemberCount > 0 {
			d.MemberCount--
		}
		d.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryDrawerRepository) TouchActivity(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drawers[id]; ok {
		now := time.Now()
		d.LastActivityAt = &now
		d.UpdatedAt = now
	}
	return nil
}

func (r *inMemoryDrawerRepository) CreateSettings(ctx context.Context, drawerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[drawerID] = &DrawerSettings{
		DrawerID:  drawerID,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *inMemoryDrawerRepository) FindSettings(ctx context.Context, drawerID string) (*DrawerSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drawers[drawerID]
	if !ok || d.DeletedAt != nil {
		return nil, nil
	}
	s, ok := r.settings[drawerID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *inMemoryDrawerRepository) UpdateSettings(ctx context.Context, drawerID string, isPublic, isSearchable, requireApproval *bool) (*DrawerSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[drawerID]
	if !ok {
		return nil, nil
	}
	if isPublic != nil {
		s.IsPublic = *isPublic
	}
	if isSearchable != nil {
		s.IsSearchable = *isSearchable
	}
	if requireApproval != nil {
		s.RequireApproval = *requireApproval
	}
	s.UpdatedAt = time.Now()
	cp := *s
	return &cp, nil
}

// ============================================
// In-Memory Member Repository
// ============================================

type memberKey struct {
	drawerID string
	userID   string
}

type inMemoryMemberRepository struct {
	mu      sync.RWMutex
	members map[memberKey]*Membership

	users *inMemoryUserRepository
}

func newInMemoryMemberRepository() *inMemoryMemberRepository {
	return &inMemoryMemberRepository{members: make(map[memberKey]*Membership)}
}

func (r *inMemoryMemberRepository) Upsert(ctx context.Context, drawerID, userID string, role *types.Role) (*Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memberKey{drawerID, userID}
	if m, ok := r.members[key]; ok {
		m.DeletedAt = nil
		if role != nil {
			m.Role = *role
		}
		cp := *m
		return &cp, nil
	}
	m := &Membership{
		DrawerID:          drawerID,
		UserID:            userID,
		Role:              types.RoleMember,
		NotificationLevel: types.NotifyDefault,
		JoinedAt:          time.Now(),
	}
	if role != nil {
		m.Role = *role
	}
	r.members[key] = m
	cp := *m
	return &cp, nil
}

func (r *inMemoryMemberRepository) Find(ctx context.Context, drawerID, userID string) (*Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[memberKey{drawerID, userID}]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *inMemoryMemberRepository) FindMembers(ctx context.Context, drawerID string) ([]*Membership, error) {
	r.mu.RLock()
	var members []*Membership
	for _, m := range r.members {
		if m.DrawerID == drawerID && m.DeletedAt == nil {
			cp := *m
			members = append(members, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		if members[i].Role != members[j].Role {
			return members[i].Role < members[j].Role
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	if r.users != nil {
		for _, m := range members {
			u, _ := r.users.FindByID(ctx, m.UserID)
			m.User = u
		}
	}
	return members, nil
}

func (r *inMemoryMemberRepository) UpdateRole(ctx context.Context, drawerID, userID string, role types.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberKey{drawerID, userID}]
	if !ok || m.DeletedAt != nil {
		return false, nil
	}
	m.Role = role
	return true, nil
}

func (r *inMemoryMemberRepository) SoftRemove(ctx context.Context, drawerID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[memberKey{drawerID, userID}]
	if !ok || m.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	m.DeletedAt = &now
	return true, nil
}

func (r *inMemoryMemberRepository) CountActiveOwners(ctx context.Context, drawerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, m := range r.members {
		if m.DrawerID == drawerID && m.Role == types.RoleOwner && m.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *inMemoryMemberRepository) findByUser(userID string) []*Membership {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var memberships []*Membership
	for _, m := range r.members {
		if m.UserID == userID && m.DeletedAt == nil {
			cp := *m
			memberships = append(memberships, &cp)
		}
	}
	return memberships
}

// ============================================
// In-Memory Invitation Repository
// ============================================

type inMemoryInvitationRepository struct {
	mu          sync.RWMutex
	invitations map[string]*Invitation // keyed by token

	drawers *inMemoryDrawerRepository
	users   *inMemoryUserRepository
}

func newInMemoryInvitationRepository() *inMemoryInvitationRepository {
	return &inMemoryInvitationRepository{invitations: make(map[string]*Invitation)}
}

func (r *inMemoryInvitationRepository) Create(ctx context.Context, inv *Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.CreatedAt = time.Now()
	cp := *inv
	r.invitations[inv.Token] = &cp
	return nil
}

func (r *inMemoryInvitationRepository) valid(inv *Invitation) bool {
	if !inv.ExpiresAt.After(time.Now()) {
		return false
	}
	return inv.MaxUses == nil || inv.UsesCount < *inv.MaxUses
}

func (r *inMemoryInvitationRepository) FindValidByToken(ctx context.Context, token string) (*InvitationPreview, error) {
	r.mu.RLock()
	inv, ok := r.invitations[token]
	if !ok || !r.valid(inv) {
		r.mu.RUnlock()
		return nil, nil
	}
	cp := *inv
	r.mu.RUnlock()

	p := &InvitationPreview{Invitation: cp}
	if r.drawers != nil {
		d, _ := r.drawers.FindByID(ctx, cp.DrawerID)
		if d == nil {
			return nil, nil
		}
		p.DrawerName = d.Name
		p.DrawerDescription = d.Description
		p.DrawerImageURL = d.ImageURL
		p.DrawerThumbnailURL = d.ThumbnailURL
		p.DrawerMemberCount = d.MemberCount
	}
	if r.users != nil {
		u, _ := r.users.FindByID(ctx, cp.InviterID)
		if u != nil {
			p.InviterName = u.DisplayName
		}
	}
	return p, nil
}

func (r *inMemoryInvitationRepository) ConsumeUse(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[token]
	if !ok || !r.valid(inv) {
		return false, nil
	}
	inv.UsesCount++
	return true, nil
}

func (r *inMemoryInvitationRepository) DeleteExpired(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	now := time.Now()
	for token, inv := range r.invitations {
		if !inv.ExpiresAt.After(now) {
			delete(r.invitations, token)
			count++
		}
	}
	return count, nil
}

// ============================================
// In-Memory Join Request Repository
// ============================================

type inMemoryJoinRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*JoinRequest

	users *inMemoryUserRepository
}

func newInMemoryJoinRequestRepository() *inMemoryJoinRequestRepository {
	return &inMemoryJoinRequestRepository{requests: make(map[string]*JoinRequest)}
}

func (r *inMemoryJoinRequestRepository) Create(ctx context.Context, req *JoinRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now()
	req.Status = types.RequestPending
	req.CreatedAt = now
	req.UpdatedAt = now
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *inMemoryJoinRequestRepository) FindByID(ctx context.Context, id string) (*JoinRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *inMemoryJoinRequestRepository) FindPendingByDrawer(ctx context.Context, drawerID string) ([]*JoinRequest, error) {
	r.mu.RLock()
	var requests []*JoinRequest
	for _, req := range r.requests {
		if req.DrawerID == drawerID && req.Status == types.RequestPending {
			cp := *req
			requests = append(requests, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
	if r.users != nil {
		for _, req := range requests {
			u, _ := r.users.FindByID(ctx, req.UserID)
			req.User = u
		}
	}
	return requests, nil
}

func (r *inMemoryJoinRequestRepository) UpdateStatusFrom(ctx context.Context, id string, from, to types.JoinRequestStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	return true, nil
}

func (r *inMemoryJoinRequestRepository) RejectStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	count := 0
	for _, req := range r.requests {
		if req.Status == types.RequestPending && req.CreatedAt.Before(cutoff) {
			req.Status = types.RequestRejected
			req.UpdatedAt = time.Now()
			count++
		}
	}
	return count, nil
}
