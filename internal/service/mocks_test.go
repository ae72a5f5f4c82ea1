package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/repository"
	"github.com/eventure/eventure-api/internal/utils"
)

// fakeTransactor runs fn without a real transaction. The in-memory
// repositories ignore the tx argument.
type fakeTransactor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeTransactor) Transaction(_ context.Context, fn func(tx *sql.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// MockUserRepository is an in-memory repository.UserRepository
type MockUserRepository struct {
	users   map[uint64]*models.User
	byEmail map[string]*models.User
	nextID  uint64

	// CreateErr is returned by Create when set.
	CreateErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[uint64]*models.User),
		byEmail: make(map[string]*models.User),
		nextID:  1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return utils.NewDuplicateError("Email already in use", "email")
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", email)
	}
	return user, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *MockUserRepository) LockByEmailTx(ctx context.Context, _ *sql.Tx, email string) (*models.User, error) {
	return m.GetByEmail(ctx, email)
}

func (m *MockUserRepository) UpdatePasswordTx(ctx context.Context, _ *sql.Tx, id uint64, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// MockPasswordResetRepository is an in-memory repository.PasswordResetRepository
type MockPasswordResetRepository struct {
	codes  []*models.PasswordResetCode
	nextID uint64
}

func NewMockPasswordResetRepository() *MockPasswordResetRepository {
	return &MockPasswordResetRepository{nextID: 1}
}

func (m *MockPasswordResetRepository) HasRecentActiveTx(_ context.Context, _ *sql.Tx, userID uint64, since, now time.Time) (bool, error) {
	for _, code := range m.codes {
		if code.UserID == userID && code.IsActive(now) && code.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPasswordResetRepository) CreateTx(_ context.Context, _ *sql.Tx, code *models.PasswordResetCode) error {
	code.ID = m.nextID
	m.nextID++
	m.codes = append(m.codes, code)
	return nil
}

func (m *MockPasswordResetRepository) FindLatestActive(_ context.Context, userID uint64, now time.Time) (*models.PasswordResetCode, error) {
	var active []*models.PasswordResetCode
	for _, code := range m.codes {
		if code.UserID == userID && code.IsActive(now) {
			active = append(active, code)
		}
	}
	if len(active) == 0 {
		return nil, repository.ErrNoActiveCode
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].ID > active[j].ID
		}
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	copied := *active[0]
	return &copied, nil
}

func (m *MockPasswordResetRepository) LockByIDTx(_ context.Context, _ *sql.Tx, id uint64) (*models.PasswordResetCode, error) {
	for _, code := range m.codes {
		if code.ID == id {
			copied := *code
			return &copied, nil
		}
	}
	return nil, repository.ErrNoActiveCode
}

func (m *MockPasswordResetRepository) MarkUsedTx(_ context.Context, _ *sql.Tx, id uint64, usedAt time.Time) error {
	for _, code := range m.codes {
		if code.ID == id && !code.UsedAt.Valid {
			code.UsedAt = sql.NullTime{Time: usedAt, Valid: true}
			return nil
		}
	}
	return repository.ErrNoActiveCode
}

// recordingMailer keeps every message it is asked to send
type recordingMailer struct {
	sent []MailMessage
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg MailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) Mode() string { return "fallback" }

// lastCode extracts the code from the most recent reset email
func (r *recordingMailer) lastCode() string {
	if len(r.sent) == 0 {
		return ""
	}
	body := r.sent[len(r.sent)-1].PlainText
	const marker = "code is "
	idx := strings.Index(body, marker)
	if idx < 0 {
		return ""
	}
	return body[idx+len(marker) : idx+len(marker)+6]
}

// fakeClock is a settable clock
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	ListPublicFunc    func(ctx context.Context, filter models.EventFilter, center *models.GeoPoint, radiusMeters float64) ([]*models.Event, error)
	GetPublicByIDFunc func(ctx context.Context, id uint64) (*models.Event, error)
	CreateFunc        func(ctx context.Context, event *models.Event) error
	ListByCreatorFunc func(ctx context.Context, creatorID uint64) ([]*models.Event, error)
	ListForAdminFunc  func(ctx context.Context) ([]*models.AdminEvent, error)
	ExistsFunc        func(ctx context.Context, id uint64) (bool, error)
	UpdateStatusFunc  func(ctx context.Context, id uint64, status string) error
	DeleteFunc        func(ctx context.Context, id uint64) error
}

func (m *MockEventRepository) ListPublic(ctx context.Context, filter models.EventFilter, center *models.GeoPoint, radiusMeters float64) ([]*models.Event, error) {
	return m.ListPublicFunc(ctx, filter, center, radiusMeters)
}

func (m *MockEventRepository) GetPublicByID(ctx context.Context, id uint64) (*models.Event, error) {
	return m.GetPublicByIDFunc(ctx, id)
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	return m.CreateFunc(ctx, event)
}

func (m *MockEventRepository) ListByCreator(ctx context.Context, creatorID uint64) ([]*models.Event, error) {
	return m.ListByCreatorFunc(ctx, creatorID)
}

func (m *MockEventRepository) ListForAdmin(ctx context.Context) ([]*models.AdminEvent, error) {
	return m.ListForAdminFunc(ctx)
}

func (m *MockEventRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	return m.ExistsFunc(ctx, id)
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uint64) error {
	return m.DeleteFunc(ctx, id)
}

// MockZipRepository is a mock implementation of repository.ZipRepository
type MockZipRepository struct {
	LookupFunc func(ctx context.Context, zip string) (*models.ZipLocation, error)
}

func (m *MockZipRepository) Lookup(ctx context.Context, zip string) (*models.ZipLocation, error) {
	return m.LookupFunc(ctx, zip)
}

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	Users, Events, Pending int64
	Popular                models.CategoryCount
	Err                    error
}

func (m *MockStatsRepository) CountUsers(context.Context) (int64, error) { return m.Users, m.Err }

func (m *MockStatsRepository) CountEvents(context.Context) (int64, error) { return m.Events, m.Err }

func (m *MockStatsRepository) CountEventsByStatus(_ context.Context, status string) (int64, error) {
	if status != "pending" {
		return 0, errors.New("unexpected status")
	}
	return m.Pending, m.Err
}

func (m *MockStatsRepository) PopularCategory(context.Context) (models.CategoryCount, error) {
	return m.Popular, m.Err
}

// hookTransactor runs before ahead of every transaction
type hookTransactor struct {
	before func()
	inner  *fakeTransactor
}

func (h *hookTransactor) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	h.before()
	return h.inner.Transaction(ctx, fn)
}
