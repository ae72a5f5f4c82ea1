package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/models"
	"github.com/eventure/eventure-api/internal/service"
	"github.com/eventure/eventure-api/internal/utils"
)

// MockAuthService implements AuthServiceInterface
type MockAuthService struct {
	RegisterUserFunc     func(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	AuthenticateUserFunc func(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
}

func (m *MockAuthService) RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, req)
	}
	return &models.User{ID: 1, Email: req.Email, FirstName: req.FirstName, LastName: req.LastName, Role: "user"}, nil
}

func (m *MockAuthService) AuthenticateUser(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	if m.AuthenticateUserFunc != nil {
		return m.AuthenticateUserFunc(ctx, req)
	}
	return nil, utils.NewInvalidCredentialsError()
}

// MockPasswordResetService implements PasswordResetServiceInterface
type MockPasswordResetService struct {
	ForgotPasswordFunc  func(ctx context.Context, email string) error
	VerifyResetCodeFunc func(ctx context.Context, email, code string) error
	ResetPasswordFunc   func(ctx context.Context, req *models.ResetPasswordRequest) error

	forgotCalls int
}

func (m *MockPasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	m.forgotCalls++
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockPasswordResetService) VerifyResetCode(ctx context.Context, email, code string) error {
	if m.VerifyResetCodeFunc != nil {
		return m.VerifyResetCodeFunc(ctx, email, code)
	}
	return nil
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, req)
	}
	return nil
}

// MockEventService implements EventServiceInterface
type MockEventService struct {
	ListPublicFunc func(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	GetPublicFunc  func(ctx context.Context, id uint64) (*models.Event, error)
	CreateFunc     func(ctx context.Context, creatorID uint64, req *models.CreateEventRequest) (*models.Event, error)
	ListMineFunc   func(ctx context.Context, creatorID uint64) ([]*models.Event, error)
}

func (m *MockEventService) ListPublic(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockEventService) GetPublic(ctx context.Context, id uint64) (*models.Event, error) {
	if m.GetPublicFunc != nil {
		return m.GetPublicFunc(ctx, id)
	}
	return nil, utils.NewNotFoundMessage("Event not found")
}

func (m *MockEventService) Create(ctx context.Context, creatorID uint64, req *models.CreateEventRequest) (*models.Event, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, creatorID, req)
	}
	return &models.Event{ID: 1, Title: req.Title, CreatedBy: creatorID, Status: "pending"}, nil
}

func (m *MockEventService) ListMine(ctx context.Context, creatorID uint64) ([]*models.Event, error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, creatorID)
	}
	return nil, nil
}

// MockAdminService is a testify mock of AdminServiceInterface
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminStats), args.Error(1)
}

func (m *MockAdminService) ListEvents(ctx context.Context) ([]*models.AdminEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdminEvent), args.Error(1)
}

func (m *MockAdminService) Approve(ctx context.Context, adminID, eventID uint64) error {
	return m.Called(ctx, adminID, eventID).Error(0)
}

func (m *MockAdminService) Decline(ctx context.Context, adminID, eventID uint64) error {
	return m.Called(ctx, adminID, eventID).Error(0)
}

func (m *MockAdminService) Delete(ctx context.Context, adminID, eventID uint64) error {
	return m.Called(ctx, adminID, eventID).Error(0)
}

// MockMailer records what it was asked to send
type MockMailer struct {
	ModeName string
	Err      error
	Sent     []service.MailMessage
}

func (m *MockMailer) Send(_ context.Context, msg service.MailMessage) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MockMailer) Mode() string {
	return m.ModeName
}

// MockHealthChecker implements database.HealthChecker
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(context.Context) error {
	return m.Err
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withPrincipal(req *http.Request, id uint64, role string) *http.Request {
	principal := &auth.Principal{
		ID:        id,
		Email:     "organizer@example.com",
		Role:      role,
		FirstName: "Olive",
		LastName:  "Organizer",
	}
	return req.WithContext(auth.WithPrincipal(req.Context(), principal))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}
