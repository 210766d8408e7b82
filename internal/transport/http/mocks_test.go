package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/services"
	"whatsflow/internal/sorter"
	"whatsflow/internal/table"
	"whatsflow/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return RegisterErrors(apierrors.NewErrorHandler(testLogger(), false))
}

// MockSubmissionService is a mock for SubmissionService
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, form services.ContactForm) (*domain.Submission, error) {
	args := m.Called(ctx, form)
	sub, _ := args.Get(0).(*domain.Submission)
	return sub, args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context) ([]domain.Submission, error) {
	args := m.Called(ctx)
	subs, _ := args.Get(0).([]domain.Submission)
	return subs, args.Error(1)
}

func (m *MockSubmissionService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	args := m.Called(ctx)
	dash, _ := args.Get(0).(*domain.Dashboard)
	return dash, args.Error(1)
}

func (m *MockSubmissionService) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockTableService is a mock for TableService
type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) Snapshot(ctx context.Context) (*table.Table, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).(*table.Table)
	return t, args.Error(1)
}

func (m *MockTableService) Sort(ctx context.Context, headerID string) (sorter.Direction, *table.Table, error) {
	args := m.Called(ctx, headerID)
	t, _ := args.Get(1).(*table.Table)
	return args.Get(0).(sorter.Direction), t, args.Error(2)
}

func (m *MockTableService) ExportCSV(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockExportService is a mock for ExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, format string) (*services.ExportFile, error) {
	args := m.Called(ctx, format)
	file, _ := args.Get(0).(*services.ExportFile)
	return file, args.Error(1)
}

// MockPricingService is a mock for PricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) List(ctx context.Context) ([]domain.PricingPlan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]domain.PricingPlan)
	return plans, args.Error(1)
}

func (m *MockPricingService) Update(ctx context.Context, id int64, basePrice float64, discountPercent int) (*domain.PricingPlan, error) {
	args := m.Called(ctx, id, basePrice, discountPercent)
	plan, _ := args.Get(0).(*domain.PricingPlan)
	return plan, args.Error(1)
}

// MockAuthService is a mock for AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*services.Session)
	return session, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) {
	m.Called(ctx, token)
}

func (m *MockAuthService) ChangeEmail(ctx context.Context, user *domain.User, newEmail, currentPassword string) error {
	args := m.Called(ctx, user, newEmail, currentPassword)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword, confirmPassword string) error {
	args := m.Called(ctx, user, currentPassword, newPassword, confirmPassword)
	return args.Error(0)
}

// MockHealthService is a mock for HealthService
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	args := m.Called()
	return args.Get(0).(map[string]interface{})
}
