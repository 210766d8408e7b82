package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/exporter"
	"whatsflow/internal/store"
)

// AdminHandler serves the admin dashboard API.
type AdminHandler struct {
	submissions  SubmissionService
	exports      ExportService
	pricing      PricingService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(submissions SubmissionService, exports ExportService, pricing PricingService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AdminHandler {
	return &AdminHandler{
		submissions:  submissions,
		exports:      exports,
		pricing:      pricing,
		logger:       logger.With(slog.String("handler", "admin")),
		errorHandler: errorHandler,
	}
}

// StatusRequest sets a submission status.
type StatusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

// PricingRequest updates a plan price.
type PricingRequest struct {
	BasePrice       *float64 `json:"base_price" form:"base_price" validate:"required,gte=0"`
	DiscountPercent int      `json:"discount_percent" form:"discount_percent" validate:"gte=0,lte=100"`
}

// Routes mounts the admin routes on r.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/submissions", h.Submissions)
	r.Post("/submissions/{id}/status", h.UpdateStatus)
	r.Get("/export/{format}", h.Export)
	r.Get("/pricing", h.Pricing)
	r.Post("/pricing/{id}", h.UpdatePricing)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierrors.ErrValidation("id", "must be a positive integer")
	}
	return id, nil
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.submissions.Dashboard(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dash)
}

// Submissions handles GET /api/admin/submissions
func (h *AdminHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"submissions": subs,
		"count":       len(subs),
	})
}

// UpdateStatus handles POST /api/admin/submissions/{id}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var req StatusRequest
	if err := bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := h.submissions.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("Submission"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"id":      id,
		"status":  req.Status,
		"message": "Status updated to " + req.Status,
	})
}

// Export handles GET /api/admin/export/{format}
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.exports.Export(r.Context(), chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	exporter.SetAttachmentHeaders(w, file.ContentType, file.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write export",
			slog.String("file", file.Filename),
			slog.String("error", err.Error()))
	}
}

// Pricing handles GET /api/admin/pricing
func (h *AdminHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	plans, err := h.pricing.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"plans": plans})
}

// UpdatePricing handles POST /api/admin/pricing/{id}
func (h *AdminHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var req PricingRequest
	if err := bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	plan, err := h.pricing.Update(r.Context(), id, *req.BasePrice, req.DiscountPercent)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, plan)
}
