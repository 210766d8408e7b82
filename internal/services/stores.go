package services

import (
	"context"

	"whatsflow/pkg/contracts/domain"
)

// SubmissionStore persists contact form submissions.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *domain.Submission) error
	ListSubmissions(ctx context.Context) ([]domain.Submission, error)
	RecentSubmissions(ctx context.Context, n int) ([]domain.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status string) error
	SubmissionStats(ctx context.Context) (domain.DashboardStats, error)
}

// PlanStore persists pricing plans.
type PlanStore interface {
	ListPlans(ctx context.Context) ([]domain.PricingPlan, error)
	GetPlan(ctx context.Context, id int64) (*domain.PricingPlan, error)
	SavePlan(ctx context.Context, plan *domain.PricingPlan) error
}

// UserStore persists admin accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateUserEmail(ctx context.Context, id int64, email string) error
	UpdateUserPassword(ctx context.Context, id int64, hash string) error
}
