// Package services implements the business logic of the WhatsFlow admin
// service. It sits between the HTTP handlers and the SQLite store so that
// business rules stay in one place and can be tested with mocked stores.
//
// # Services
//
//	SubmissionService  contact form intake, dashboard, status workflow
//	TableService       live admin submissions table with column sorting
//	ExportService      csv, json and excel downloads of all submissions
//	PricingService     plan listing and discount updates
//	AuthService        bcrypt logins, in-memory sessions, account settings
//	HealthService      liveness and readiness checks
//
// # Common Service Pattern
//
// Services take their store through a narrow interface and an injected
// logger tagged with the service name:
//
//	func NewPricingService(store PlanStore, logger *slog.Logger) *PricingService {
//	    return &PricingService{
//	        store:  store,
//	        logger: logger.With(slog.String("component", "pricing_service")),
//	    }
//	}
//
// Errors are wrapped with fmt.Errorf and %w. Callers match the sentinels in
// errors.go and the store's ErrNotFound and ErrDuplicate with errors.Is.
//
// # Table refresh
//
// TableService keeps the table the admin is looking at, together with its
// sort state. Wire it to SubmissionService.OnChange so new or updated
// submissions show up in the current sort order:
//
//	submissions.OnChange(table.RefreshQuietly)
package services
