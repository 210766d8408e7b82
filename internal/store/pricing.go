package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"whatsflow/pkg/contracts/domain"
)

const planColumns = `id, plan_name, base_price, current_price, discount_percent,
	features, is_featured, checkout_url, updated_at`

// ListPlans returns all pricing plans ordered by id.
func (s *Store) ListPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+planColumns+` FROM pricing_plans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.PricingPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pricing plans: %w", err)
	}
	return plans, nil
}

// GetPlan returns the plan with the given id.
func (s *Store) GetPlan(ctx context.Context, id int64) (*domain.PricingPlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM pricing_plans WHERE id = ?`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pricing plan %d: %w", id, ErrNotFound)
	}
	return plan, err
}

// SavePlan inserts plan when its ID is zero and updates it otherwise.
func (s *Store) SavePlan(ctx context.Context, plan *domain.PricingPlan) error {
	features, err := json.Marshal(nonNil(plan.Features))
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	if plan.UpdatedAt.IsZero() {
		plan.UpdatedAt = s.now().UTC()
	}

	if plan.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO pricing_plans
			(plan_name, base_price, current_price, discount_percent, features, is_featured, checkout_url, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			plan.PlanName, plan.BasePrice, plan.CurrentPrice, plan.DiscountPercent,
			string(features), plan.IsFeatured, plan.CheckoutURL, formatTime(plan.UpdatedAt))
		if err != nil {
			if isConstraint(err) {
				return fmt.Errorf("pricing plan %q: %w", plan.PlanName, ErrDuplicate)
			}
			return fmt.Errorf("failed to insert pricing plan: %w", err)
		}
		if plan.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read pricing plan id: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE pricing_plans SET
			plan_name = ?, base_price = ?, current_price = ?, discount_percent = ?,
			features = ?, is_featured = ?, checkout_url = ?, updated_at = ?
		WHERE id = ?`,
		plan.PlanName, plan.BasePrice, plan.CurrentPrice, plan.DiscountPercent,
		string(features), plan.IsFeatured, plan.CheckoutURL, formatTime(plan.UpdatedAt), plan.ID)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("pricing plan %q: %w", plan.PlanName, ErrDuplicate)
		}
		return fmt.Errorf("failed to update pricing plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pricing plan %d: %w", plan.ID, ErrNotFound)
	}
	return nil
}

// SeedDefaultPlans inserts the default plans when the table is empty and
// reports how many were inserted.
func (s *Store) SeedDefaultPlans(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pricing_plans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pricing plans: %w", err)
	}
	if count > 0 {
		s.logger.Info("Pricing plans already present, skipping seed", slog.Int("count", count))
		return 0, nil
	}

	defaults := domain.DefaultPricingPlans()
	for i := range defaults {
		if err := s.SavePlan(ctx, &defaults[i]); err != nil {
			return i, err
		}
	}
	s.logger.Info("Seeded default pricing plans", slog.Int("count", len(defaults)))
	return len(defaults), nil
}

func scanPlan(row scanner) (*domain.PricingPlan, error) {
	var (
		plan     domain.PricingPlan
		features string
		updated  string
	)
	err := row.Scan(&plan.ID, &plan.PlanName, &plan.BasePrice, &plan.CurrentPrice,
		&plan.DiscountPercent, &features, &plan.IsFeatured, &plan.CheckoutURL, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan pricing plan: %w", err)
	}
	if err := json.Unmarshal([]byte(features), &plan.Features); err != nil {
		return nil, fmt.Errorf("invalid features for plan %d: %w", plan.ID, err)
	}
	if plan.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &plan, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
