// Package http implements the HTTP handlers for the WhatsFlow service.
// Handlers stay thin: they decode and validate requests, call a service
// through the interfaces in interfaces.go and render the result.
//
// # Route Groups
//
//	PublicHandler     GET /api/pricing, POST /api/contact
//	AuthHandler       POST /api/admin/login, POST /api/admin/logout, settings
//	AdminHandler      dashboard, submissions, status updates, exports, pricing
//	TableHandler      table snapshot, header sort, CSV download, posted tables
//	HealthHandler     liveness, readiness and version
//	ClientLogHandler  POST /api/client-log
//
// # Errors
//
// Every failure goes through the shared errors.ErrorHandler and is rendered
// as an RFC 7807 problem document. RegisterErrors maps the domain sentinels
// of the store, table, sorter and services packages to their HTTP status.
package http
