package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"whatsflow/pkg/contracts/domain"
)

// PricingService manages the plans shown on the pricing page.
type PricingService struct {
	store  PlanStore
	now    func() time.Time
	logger *slog.Logger
}

// NewPricingService creates a pricing service.
func NewPricingService(store PlanStore, logger *slog.Logger) *PricingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PricingService{
		store:  store,
		now:    time.Now,
		logger: logger.With(slog.String("component", "pricing_service")),
	}
}

// List returns all plans in display order.
func (s *PricingService) List(ctx context.Context) ([]domain.PricingPlan, error) {
	plans, err := s.store.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// Update sets a plan's base price and discount and recomputes its current price.
func (s *PricingService) Update(ctx context.Context, id int64, basePrice float64, discountPercent int) (*domain.PricingPlan, error) {
	if basePrice < 0 || math.IsNaN(basePrice) || math.IsInf(basePrice, 0) {
		return nil, fmt.Errorf("%v: %w", basePrice, ErrInvalidPrice)
	}

	plan, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	plan.BasePrice = basePrice
	plan.ApplyDiscount(discountPercent, s.now().UTC())

	if err := s.store.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Pricing plan updated",
		slog.String("plan", plan.PlanName),
		slog.Float64("base_price", plan.BasePrice),
		slog.Int("discount_percent", plan.DiscountPercent),
		slog.Float64("current_price", plan.CurrentPrice))
	return plan, nil
}
