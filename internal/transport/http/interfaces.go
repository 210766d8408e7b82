package http

import (
	"context"

	"whatsflow/internal/services"
	"whatsflow/internal/sorter"
	"whatsflow/internal/table"
	"whatsflow/pkg/contracts/domain"
)

// SubmissionService is the submission workflow used by the handlers.
type SubmissionService interface {
	Submit(ctx context.Context, form services.ContactForm) (*domain.Submission, error)
	List(ctx context.Context) ([]domain.Submission, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// TableService is the live admin table.
type TableService interface {
	Snapshot(ctx context.Context) (*table.Table, error)
	Sort(ctx context.Context, headerID string) (sorter.Direction, *table.Table, error)
	ExportCSV(ctx context.Context) (string, error)
}

// ExportService renders submission downloads.
type ExportService interface {
	Export(ctx context.Context, format string) (*services.ExportFile, error)
}

// PricingService manages pricing plans.
type PricingService interface {
	List(ctx context.Context) ([]domain.PricingPlan, error)
	Update(ctx context.Context, id int64, basePrice float64, discountPercent int) (*domain.PricingPlan, error)
}

// AuthService handles admin sessions and account settings.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Logout(ctx context.Context, token string)
	ChangeEmail(ctx context.Context, user *domain.User, newEmail, currentPassword string) error
	ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword, confirmPassword string) error
}

// HealthService reports service health.
type HealthService interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
