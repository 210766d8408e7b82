package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"whatsflow/pkg/contracts/domain"
)

const submissionColumns = `id, full_name, business_name, email, whatsapp_number,
	country, message, plan_selected, status, created_at`

// CreateSubmission inserts sub, filling in ID, Status and CreatedAt.
func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	if sub.Status == "" {
		sub.Status = domain.StatusPending
	}
	created := s.now().UTC()

	res, err := s.db.ExecContext(ctx, `INSERT INTO submissions
		(full_name, business_name, email, whatsapp_number, country, message, plan_selected, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.FullName, sub.BusinessName, sub.Email, sub.WhatsAppNumber,
		sub.Country, sub.Message, sub.PlanSelected, sub.Status, formatTime(created))
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read submission id: %w", err)
	}
	sub.ID = id
	sub.CreatedAt = created
	return nil
}

// ListSubmissions returns every submission, newest first.
func (s *Store) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	return s.querySubmissions(ctx, `SELECT `+submissionColumns+`
		FROM submissions ORDER BY created_at DESC, id DESC`)
}

// RecentSubmissions returns the n newest submissions.
func (s *Store) RecentSubmissions(ctx context.Context, n int) ([]domain.Submission, error) {
	return s.querySubmissions(ctx, `SELECT `+submissionColumns+`
		FROM submissions ORDER BY created_at DESC, id DESC LIMIT ?`, n)
}

// GetSubmission returns the submission with the given id.
func (s *Store) GetSubmission(ctx context.Context, id int64) (*domain.Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubmissionStatus sets the status of one submission.
func (s *Store) UpdateSubmissionStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE submissions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("submission %d: %w", id, ErrNotFound)
	}
	return nil
}

// SubmissionStats counts submissions overall and per status.
func (s *Store) SubmissionStats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := s.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM submissions`,
		domain.StatusPending, domain.StatusContacted,
	).Scan(&stats.Total, &stats.Pending, &stats.Contacted)
	if err != nil {
		return stats, fmt.Errorf("failed to count submissions: %w", err)
	}
	return stats, nil
}

func (s *Store) querySubmissions(ctx context.Context, query string, args ...any) ([]domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	subs := []domain.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return subs, nil
}

func scanSubmission(row scanner) (*domain.Submission, error) {
	var (
		sub     domain.Submission
		created string
	)
	err := row.Scan(&sub.ID, &sub.FullName, &sub.BusinessName, &sub.Email,
		&sub.WhatsAppNumber, &sub.Country, &sub.Message, &sub.PlanSelected,
		&sub.Status, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}
	if sub.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &sub, nil
}
