package http

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/services"
	"whatsflow/internal/sorter"
	"whatsflow/internal/store"
	"whatsflow/internal/table"
)

// ErrForbidden is reported for authenticated users without admin rights.
var ErrForbidden = apierrors.New(http.StatusForbidden, "FORBIDDEN", "Admin privileges required")

// RegisterErrors maps the domain sentinels to API errors.
func RegisterErrors(h *apierrors.ErrorHandler) *apierrors.ErrorHandler {
	return h.
		Register(store.ErrNotFound, apierrors.ErrNotFound).
		Register(store.ErrDuplicate, apierrors.ErrConflict).
		Register(table.ErrTableNotFound, apierrors.ErrTableNotFound).
		Register(sorter.ErrUnknownHeader, apierrors.ErrUnknownHeader).
		Register(services.ErrUnsupportedFormat, apierrors.ErrUnsupportedFormat).
		Register(services.ErrInvalidStatus, apierrors.ErrInvalidParameter).
		Register(services.ErrInvalidPrice, apierrors.ErrInvalidParameter).
		Register(services.ErrInvalidEmail, apierrors.ErrValidationFailed).
		Register(services.ErrPasswordTooShort, apierrors.ErrValidationFailed).
		Register(services.ErrPasswordMismatch, apierrors.ErrValidationFailed).
		Register(services.ErrEmailTaken, apierrors.ErrConflict).
		Register(services.ErrInvalidCredentials, apierrors.ErrInvalidCredentials).
		Register(services.ErrSessionExpired, apierrors.ErrUnauthorized).
		Register(services.ErrNotAdmin, ErrForbidden)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON or form encoded body into v.
func decode(r *http.Request, v interface{}) error {
	if err := render.Decode(r, v); err != nil {
		return apierrors.InvalidRequestWithError(err)
	}
	return nil
}

// bind decodes the body into v and validates it.
func bind(r *http.Request, v interface{}) error {
	if err := decode(r, v); err != nil {
		return err
	}
	return validate.Struct(v)
}
