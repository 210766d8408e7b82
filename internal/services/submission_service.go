package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"whatsflow/internal/infrastructure"
	"whatsflow/pkg/contracts/domain"
)

// recentLimit is the number of submissions shown on the dashboard.
const recentLimit = 5

// ContactForm is the public contact form payload.
type ContactForm struct {
	FullName       string `json:"full_name" form:"full_name" validate:"required,max=100"`
	BusinessName   string `json:"business_name" form:"business_name" validate:"required,max=100"`
	Email          string `json:"email" form:"email" validate:"required,email,max=120"`
	WhatsAppNumber string `json:"whatsapp_number" form:"whatsapp_number" validate:"required,max=20"`
	Country        string `json:"country" form:"country" validate:"required,max=50"`
	Message        string `json:"message" form:"message" validate:"max=2000"`
	PlanSelected   string `json:"plan_selected" form:"plan_selected" validate:"required,oneof=Starter Pro Business"`
}

func (f ContactForm) trimmed() ContactForm {
	return ContactForm{
		FullName:       strings.TrimSpace(f.FullName),
		BusinessName:   strings.TrimSpace(f.BusinessName),
		Email:          strings.TrimSpace(f.Email),
		WhatsAppNumber: strings.TrimSpace(f.WhatsAppNumber),
		Country:        strings.TrimSpace(f.Country),
		Message:        strings.TrimSpace(f.Message),
		PlanSelected:   strings.TrimSpace(f.PlanSelected),
	}
}

// SubmissionService handles contact form submissions and their admin workflow.
type SubmissionService struct {
	store    SubmissionStore
	notifier Notifier
	metrics  *infrastructure.BusinessMetrics
	validate *validator.Validate
	logger   *slog.Logger

	onChange []func(context.Context)
}

// NewSubmissionService creates a submission service.
func NewSubmissionService(store SubmissionStore, notifier Notifier, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionService{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		validate: newValidator(),
		logger:   logger.With(slog.String("component", "submission_service")),
	}
}

// OnChange registers fn to run after a submission is created or updated.
func (s *SubmissionService) OnChange(fn func(context.Context)) {
	s.onChange = append(s.onChange, fn)
}

func (s *SubmissionService) changed(ctx context.Context) {
	for _, fn := range s.onChange {
		fn(ctx)
	}
}

// Submit validates and stores a contact form, then notifies the admin.
// A failed notification is logged and does not fail the submission.
func (s *SubmissionService) Submit(ctx context.Context, form ContactForm) (*domain.Submission, error) {
	form = form.trimmed()
	if err := s.validate.StructCtx(ctx, form); err != nil {
		return nil, err
	}

	sub := &domain.Submission{
		FullName:       form.FullName,
		BusinessName:   form.BusinessName,
		Email:          form.Email,
		WhatsAppNumber: form.WhatsAppNumber,
		Country:        form.Country,
		Message:        form.Message,
		PlanSelected:   form.PlanSelected,
		Status:         domain.StatusPending,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "Submission failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.metrics.RecordSubmission(ctx, sub.PlanSelected)
	s.logger.InfoContext(ctx, "Submission received",
		slog.Int64("submission_id", sub.ID),
		slog.String("plan", sub.PlanSelected))

	if s.notifier != nil {
		if err := s.notifier.NotifyNewSubmission(ctx, *sub); err != nil {
			s.logger.WarnContext(ctx, "Email sending failed",
				slog.Int64("submission_id", sub.ID),
				slog.String("error", err.Error()))
		}
	}

	s.changed(ctx)
	return sub, nil
}

// List returns all submissions, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]domain.Submission, error) {
	subs, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// Dashboard returns the counters and the most recent submissions.
func (s *SubmissionService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	stats, err := s.store.SubmissionStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	recent, err := s.store.RecentSubmissions(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent submissions: %w", err)
	}
	return &domain.Dashboard{Stats: stats, Recent: recent}, nil
}

// UpdateStatus sets the status of a submission.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id int64, status string) error {
	status = strings.TrimSpace(status)
	if !domain.ValidStatus(status) {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}
	if err := s.store.UpdateSubmissionStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Submission status updated",
		slog.Int64("submission_id", id),
		slog.String("status", status))
	s.changed(ctx)
	return nil
}
