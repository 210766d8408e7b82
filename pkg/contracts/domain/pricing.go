package domain

import (
	"time"
)

// PricingPlan is a subscription tier shown on the pricing page.
type PricingPlan struct {
	ID              int64     `json:"id" db:"id"`
	PlanName        string    `json:"plan_name" db:"plan_name"`
	BasePrice       float64   `json:"base_price" db:"base_price"`
	CurrentPrice    float64   `json:"current_price" db:"current_price"`
	DiscountPercent int       `json:"discount_percent" db:"discount_percent"`
	Features        []string  `json:"features" db:"features"`
	IsFeatured      bool      `json:"is_featured" db:"is_featured"`
	CheckoutURL     string    `json:"checkout_url,omitempty" db:"checkout_url"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ApplyDiscount clamps percent to 0..100 and recomputes CurrentPrice from BasePrice.
func (p *PricingPlan) ApplyDiscount(percent int, now time.Time) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.DiscountPercent = percent
	p.CurrentPrice = p.BasePrice * (1 - float64(percent)/100)
	p.UpdatedAt = now
}

// DefaultPricingPlans returns the plans seeded into an empty database.
func DefaultPricingPlans() []PricingPlan {
	return []PricingPlan{
		{
			PlanName:     "Starter",
			BasePrice:    62,
			CurrentPrice: 62,
			Features: []string{
				"Basic AI WhatsApp automation",
				"Auto-replies",
				"Basic lead capture",
				"Email support",
				"1 Connected Number",
			},
			CheckoutURL: "https://chariow.com/checkout/placeholder-starter",
		},
		{
			PlanName:     "Pro",
			BasePrice:    125,
			CurrentPrice: 125,
			Features: []string{
				"Everything in Starter",
				"Lead qualification",
				"Appointment scheduling",
				"Multi-agent support",
				"Priority support",
			},
			IsFeatured:  true,
			CheckoutURL: "https://chariow.com/checkout/placeholder-pro",
		},
		{
			PlanName:     "Business",
			BasePrice:    499,
			CurrentPrice: 499,
			Features: []string{
				"Everything in Pro",
				"Full funnel setup",
				"Custom tone training",
				"Unlimited contacts",
				"Dedicated account rep",
			},
			CheckoutURL: "https://chariow.com/checkout/placeholder-business",
		},
	}
}
