package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/services"
)

// PublicHandler serves the unauthenticated site API.
type PublicHandler struct {
	submissions  SubmissionService
	pricing      PricingService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPublicHandler creates the public handler.
func NewPublicHandler(submissions SubmissionService, pricing PricingService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PublicHandler {
	return &PublicHandler{
		submissions:  submissions,
		pricing:      pricing,
		logger:       logger.With(slog.String("handler", "public")),
		errorHandler: errorHandler,
	}
}

// Routes mounts GET /pricing and POST /contact.
func (h *PublicHandler) Routes(r chi.Router) {
	r.Get("/pricing", h.Pricing)
	r.Post("/contact", h.Contact)
}

// Pricing handles GET /api/pricing
func (h *PublicHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	plans, err := h.pricing.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"plans": plans})
}

// Contact handles POST /api/contact. The body may be JSON or a form post.
func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var form services.ContactForm
	if err := decode(r, &form); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	sub, err := h.submissions.Submit(r.Context(), form)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"id":      sub.ID,
		"status":  sub.Status,
		"message": "Thank you! We will contact you on WhatsApp shortly.",
	})
}
