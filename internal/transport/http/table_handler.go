package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/exporter"
	"whatsflow/internal/infrastructure"
	"whatsflow/internal/sorter"
	"whatsflow/internal/table"
)

// TableHandler serves the admin table widget and the stateless table tools.
// A missing table or an unknown header leaves the table as it was.
type TableHandler struct {
	tables       TableService
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTableHandler creates the table handler.
func NewTableHandler(tables TableService, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TableHandler {
	return &TableHandler{
		tables:       tables,
		metrics:      metrics,
		logger:       logger.With(slog.String("handler", "table")),
		errorHandler: errorHandler,
	}
}

// SortResponse is the result of a sort click.
type SortResponse struct {
	Sorted    bool             `json:"sorted"`
	HeaderID  string           `json:"header_id"`
	Direction sorter.Direction `json:"direction,omitempty"`
	Table     *table.Table     `json:"table"`
}

// SortRequest asks for a one-off sort of a client supplied table.
type SortRequest struct {
	Table    *table.Table     `json:"table"`
	HeaderID string           `json:"header_id"`
	Previous sorter.Direction `json:"previous"`
}

// AdminRoutes mounts the live table routes.
func (h *TableHandler) AdminRoutes(r chi.Router) {
	r.Get("/table", h.Table)
	r.Get("/table.html", h.TableHTML)
	r.Post("/table/sort/{headerID}", h.Sort)
	r.Get("/table/export.csv", h.ExportCSV)
}

// ToolRoutes mounts the stateless table routes.
func (h *TableHandler) ToolRoutes(r chi.Router) {
	r.Post("/export", h.ExportPosted)
	r.Post("/sort", h.SortPosted)
}

// Table handles GET /api/admin/table
func (h *TableHandler) Table(w http.ResponseWriter, r *http.Request) {
	t, err := h.tables.Snapshot(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, t)
}

// TableHTML handles GET /api/admin/table.html
func (h *TableHandler) TableHTML(w http.ResponseWriter, r *http.Request) {
	t, err := h.tables.Snapshot(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := table.RenderHTML(w, t); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to render table", slog.String("error", err.Error()))
	}
}

// Sort handles POST /api/admin/table/sort/{headerID}
func (h *TableHandler) Sort(w http.ResponseWriter, r *http.Request) {
	headerID := chi.URLParam(r, "headerID")

	dir, t, err := h.tables.Sort(r.Context(), headerID)
	if errors.Is(err, sorter.ErrUnknownHeader) {
		h.logger.DebugContext(r.Context(), "Sort ignored for unknown header", slog.String("header", headerID))
		t, err = h.tables.Snapshot(r.Context())
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		render.JSON(w, r, SortResponse{HeaderID: headerID, Table: t})
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, SortResponse{Sorted: true, HeaderID: headerID, Direction: dir, Table: t})
}

// ExportCSV handles GET /api/admin/table/export.csv
func (h *TableHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := h.tables.ExportCSV(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := exporter.ServeCSV(w, body); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write table csv", slog.String("error", err.Error()))
	}
}

// ExportPosted handles POST /api/table/export. The body is either a JSON
// table or an HTML page holding an .admin-table. No table means 204.
func (h *TableHandler) ExportPosted(w http.ResponseWriter, r *http.Request) {
	var t *table.Table
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/html") {
		parsed, err := table.ParseHTML(r.Body, table.DefaultClass)
		if err != nil && !errors.Is(err, table.ErrTableNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		t = parsed
	} else if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if t != nil {
		h.metrics.RecordTableExport(r.Context(), "table_csv", len(t.Rows))
	}
	if err := exporter.WriteDownload(w, t); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write table csv", slog.String("error", err.Error()))
	}
}

// SortPosted handles POST /api/table/sort
func (h *TableHandler) SortPosted(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if req.Table == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	dir, err := sorter.Toggle(req.Table, req.HeaderID, req.Previous)
	if err != nil {
		render.JSON(w, r, SortResponse{HeaderID: req.HeaderID, Direction: req.Previous, Table: req.Table})
		return
	}

	h.metrics.RecordTableSort(r.Context(), req.HeaderID, string(dir))
	render.JSON(w, r, SortResponse{Sorted: true, HeaderID: req.HeaderID, Direction: dir, Table: req.Table})
}
