package domain

import (
	"time"
)

// Submission statuses tracked by the admin panel.
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusConverted = "converted"
)

// SubmissionStatuses lists every status an admin may assign.
var SubmissionStatuses = []string{StatusPending, StatusContacted, StatusConverted}

// Submission is a contact form entry left by a prospective client.
type Submission struct {
	ID             int64     `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name" validate:"required,max=100"`
	BusinessName   string    `json:"business_name" db:"business_name" validate:"required,max=100"`
	Email          string    `json:"email" db:"email" validate:"required,email,max=120"`
	WhatsAppNumber string    `json:"whatsapp_number" db:"whatsapp_number" validate:"required,max=20"`
	Country        string    `json:"country" db:"country" validate:"required,max=50"`
	Message        string    `json:"message" db:"message"`
	PlanSelected   string    `json:"plan_selected" db:"plan_selected" validate:"required,max=20"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ValidStatus reports whether s is one of SubmissionStatuses.
func ValidStatus(s string) bool {
	for _, status := range SubmissionStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// DashboardStats holds the counters shown on the admin dashboard.
type DashboardStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Contacted int `json:"contacted"`
}

// Dashboard is the admin landing view.
type Dashboard struct {
	Stats  DashboardStats `json:"stats"`
	Recent []Submission   `json:"recent"`
}
