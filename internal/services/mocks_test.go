package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"whatsflow/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// MockSubmissionStore is a mock for SubmissionStore
type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionStore) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	args := m.Called(ctx)
	subs, _ := args.Get(0).([]domain.Submission)
	return subs, args.Error(1)
}

func (m *MockSubmissionStore) RecentSubmissions(ctx context.Context, n int) ([]domain.Submission, error) {
	args := m.Called(ctx, n)
	subs, _ := args.Get(0).([]domain.Submission)
	return subs, args.Error(1)
}

func (m *MockSubmissionStore) UpdateSubmissionStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSubmissionStore) SubmissionStats(ctx context.Context) (domain.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DashboardStats), args.Error(1)
}

// MockPlanStore is a mock for PlanStore
type MockPlanStore struct {
	mock.Mock
}

func (m *MockPlanStore) ListPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	args := m.Called(ctx)
	plans, _ := args.Get(0).([]domain.PricingPlan)
	return plans, args.Error(1)
}

func (m *MockPlanStore) GetPlan(ctx context.Context, id int64) (*domain.PricingPlan, error) {
	args := m.Called(ctx, id)
	plan, _ := args.Get(0).(*domain.PricingPlan)
	return plan, args.Error(1)
}

func (m *MockPlanStore) SavePlan(ctx context.Context, plan *domain.PricingPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// MockNotifier is a mock for Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewSubmission(ctx context.Context, sub domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
