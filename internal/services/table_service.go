package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"whatsflow/internal/exporter"
	"whatsflow/internal/infrastructure"
	"whatsflow/internal/sorter"
	"whatsflow/internal/table"
	"whatsflow/pkg/contracts/domain"
)

// Submission table column keys. They double as header IDs so sort state
// survives a refresh.
const (
	ColumnDate     = "date"
	ColumnName     = "name"
	ColumnBusiness = "business"
	ColumnEmail    = "email"
	ColumnWhatsApp = "whatsapp"
	ColumnCountry  = "country"
	ColumnPlan     = "plan"
	ColumnMessage  = "message"
	ColumnStatus   = "status"
)

// SubmissionHeaders are the admin table headers in column order.
var SubmissionHeaders = []table.Header{
	{ID: ColumnDate, Label: "Date"},
	{ID: ColumnName, Label: "Name"},
	{ID: ColumnBusiness, Label: "Business"},
	{ID: ColumnEmail, Label: "Email"},
	{ID: ColumnWhatsApp, Label: "WhatsApp"},
	{ID: ColumnCountry, Label: "Country"},
	{ID: ColumnPlan, Label: "Plan"},
	{ID: ColumnMessage, Label: "Message"},
	{ID: ColumnStatus, Label: "Status"},
}

// SubmissionRow renders a submission as admin table cells.
func SubmissionRow(sub domain.Submission) []string {
	return []string{
		exporter.FormatDateTime(sub.CreatedAt),
		sub.FullName,
		sub.BusinessName,
		sub.Email,
		sub.WhatsAppNumber,
		sub.Country,
		sub.PlanSelected,
		sub.Message,
		sub.Status,
	}
}

// SubmissionsTable builds the admin table for subs.
func SubmissionsTable(subs []domain.Submission) *table.Table {
	rows := make([][]string, len(subs))
	for i, sub := range subs {
		rows[i] = SubmissionRow(sub)
	}
	return &table.Table{
		Headers: append([]table.Header(nil), SubmissionHeaders...),
		Rows:    rows,
	}
}

// TableService owns the live admin submissions table and its sort state.
type TableService struct {
	store   SubmissionStore
	sorter  *sorter.Controller
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger

	mu         sync.Mutex
	table      *table.Table
	lastHeader string
}

// NewTableService creates a table service. The table is loaded on first use.
func NewTableService(store SubmissionStore, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *TableService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableService{
		store:   store,
		sorter:  sorter.NewController(),
		metrics: metrics,
		logger:  logger.With(slog.String("component", "table_service")),
	}
}

// Refresh reloads the table from the store and re-applies the last sort.
func (s *TableService) Refresh(ctx context.Context) error {
	subs, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load submissions table: %w", err)
	}
	t := SubmissionsTable(subs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastHeader != "" {
		if dir, ok := s.sorter.Direction(s.lastHeader); ok {
			sorter.SortRows(t.Rows, t.ColumnIndex(s.lastHeader), dir == sorter.Ascending)
		}
	}
	s.table = t

	s.logger.DebugContext(ctx, "Submissions table refreshed", slog.Int("rows", len(t.Rows)))
	return nil
}

// RefreshQuietly refreshes and logs any failure. It fits SubmissionService.OnChange.
func (s *TableService) RefreshQuietly(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "Table refresh failed", slog.String("error", err.Error()))
	}
}

func (s *TableService) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.table != nil
	s.mu.Unlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Snapshot returns a copy of the current table.
func (s *TableService) Snapshot(ctx context.Context) (*table.Table, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Clone(), nil
}

// Sort toggles the direction of headerID and reorders the live table.
// It returns the new direction and a copy of the sorted table.
func (s *TableService) Sort(ctx context.Context, headerID string) (sorter.Direction, *table.Table, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dir, err := s.sorter.Sort(s.table, headerID)
	if err != nil {
		return "", nil, fmt.Errorf("%q: %w", headerID, err)
	}
	s.lastHeader = headerID

	s.metrics.RecordTableSort(ctx, headerID, string(dir))
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"table.sort.header":    headerID,
		"table.sort.direction": string(dir),
		"table.rows":           len(s.table.Rows),
	})
	s.logger.InfoContext(ctx, "Table sorted",
		slog.String("header", headerID),
		slog.String("direction", string(dir)))
	return dir, s.table.Clone(), nil
}

// Direction reports the stored direction for headerID.
func (s *TableService) Direction(headerID string) (sorter.Direction, bool) {
	return s.sorter.Direction(headerID)
}

// Reset drops all sort state. The next refresh shows store order again.
func (s *TableService) Reset() {
	s.mu.Lock()
	s.sorter.Reset()
	s.lastHeader = ""
	s.mu.Unlock()
}

// ExportCSV encodes the table as currently displayed.
func (s *TableService) ExportCSV(ctx context.Context) (string, error) {
	t, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	s.metrics.RecordTableExport(ctx, "table_csv", len(t.Rows))
	return exporter.EncodeCSV(t), nil
}
