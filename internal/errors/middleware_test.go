package errors

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_LogsFailedRequestsSanitized(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	body := `{"email":"admin@whatsflow.test","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, float64(401), entry["status"])
	assert.NotContains(t, entry["request_body"], "hunter22")
	assert.Contains(t, entry["request_body"], "[REDACTED]")
}

func TestErrorMiddleware_RecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSanitizeRequestBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"redacts password fields", `{"new_password":"x","confirm_password":"x"}`, `{"confirm_password":"[REDACTED]","new_password":"[REDACTED]"}`},
		{"keeps other fields", `{"email":"a@b.c"}`, `{"email":"a@b.c"}`},
		{"drops non-json", "password=hunter22", "[non-json body omitted]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeRequestBody(tt.body))
		})
	}
}
