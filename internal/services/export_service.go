package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"whatsflow/internal/exporter"
	"whatsflow/internal/infrastructure"
	"whatsflow/pkg/contracts/domain"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
	FormatWord  = "word"
)

// ExportFile is a finished export ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// submissionRecord is the JSON shape of an exported submission.
type submissionRecord struct {
	Date     string `json:"date"`
	Name     string `json:"name"`
	Business string `json:"business"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Country  string `json:"country"`
	Plan     string `json:"plan"`
	Message  string `json:"message"`
	Status   string `json:"status"`
}

// ExportService exports every submission in a downloadable format.
type ExportService struct {
	store      SubmissionStore
	metrics    *infrastructure.BusinessMetrics
	archiveDir string
	now        func() time.Time
	logger     *slog.Logger
}

// NewExportService creates an export service. When archiveDir is not empty
// each export is also written there.
func NewExportService(store SubmissionStore, metrics *infrastructure.BusinessMetrics, archiveDir string, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		store:      store,
		metrics:    metrics,
		archiveDir: archiveDir,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "export_service")),
	}
}

// Export renders all submissions, newest first, in format.
func (s *ExportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatCSV, FormatJSON, FormatExcel:
	case FormatPDF, FormatWord:
		return nil, fmt.Errorf("%s export is not available: %w", format, ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}

	subs, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	headers := make([]string, len(SubmissionHeaders))
	for i, h := range SubmissionHeaders {
		headers[i] = h.Label
	}
	records := make([][]string, len(subs))
	for i, sub := range subs {
		records[i] = SubmissionRow(sub)
	}

	file := &ExportFile{Rows: len(subs)}
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		file.Filename = "submissions.csv"
		file.ContentType = "text/csv; charset=utf-8"
		err = exporter.Encode(&buf, exporter.WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
	case FormatJSON:
		file.Filename = "submissions.json"
		file.ContentType = "application/json"
		err = encodeJSON(&buf, subs)
	case FormatExcel:
		file.Filename = "submissions.xlsx"
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = exporter.NewExcelWriter("Submissions").Write(&buf, headers, records)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to export %s: %w", format, err)
	}
	file.Data = buf.Bytes()

	if s.archiveDir != "" {
		if err := s.archive(format, file, headers, records); err != nil {
			s.logger.WarnContext(ctx, "Failed to archive export",
				slog.String("file", file.Filename),
				slog.String("error", err.Error()))
		}
	}

	s.metrics.RecordTableExport(ctx, format, file.Rows)
	infrastructure.AddSpanEvent(ctx, "submissions.exported", map[string]interface{}{
		"format": format,
		"rows":   file.Rows,
		"bytes":  len(file.Data),
	})
	s.logger.InfoContext(ctx, "Submissions exported",
		slog.String("format", format),
		slog.Int("rows", file.Rows),
		slog.Int("bytes", len(file.Data)))
	return file, nil
}

func (s *ExportService) archive(format string, file *ExportFile, headers []string, records [][]string) error {
	dir := filepath.Join(s.archiveDir, exporter.FormatDate(s.now()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, file.Filename)
	switch format {
	case FormatCSV:
		_, err := exporter.NewCSVWriter(dir).WriteSimpleCSV(file.Filename, headers, records)
		return err
	case FormatExcel:
		return exporter.NewExcelWriter("Submissions").SaveAs(path, headers, records)
	default:
		return os.WriteFile(path, file.Data, 0644)
	}
}

func encodeJSON(buf *bytes.Buffer, subs []domain.Submission) error {
	data := make([]submissionRecord, len(subs))
	for i, sub := range subs {
		data[i] = submissionRecord{
			Date:     exporter.FormatDateTime(sub.CreatedAt),
			Name:     sub.FullName,
			Business: sub.BusinessName,
			Email:    sub.Email,
			WhatsApp: sub.WhatsAppNumber,
			Country:  sub.Country,
			Plan:     sub.PlanSelected,
			Message:  sub.Message,
			Status:   sub.Status,
		}
	}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "    ")
	return enc.Encode(data)
}
