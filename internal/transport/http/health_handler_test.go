package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whatsflow/internal/services"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(m *MockHealthService)
		call           func(h *HealthHandler) http.HandlerFunc
		expectedStatus int
		expectedField  string
		expectedValue  interface{}
	}{
		{
			name: "liveness",
			setup: func(m *MockHealthService) {
				m.On("HealthCheck", mock.Anything).Return(services.HealthStatus{Status: "ok", Timestamp: time.Now()})
			},
			call:           func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ok",
		},
		{
			name: "ready",
			setup: func(m *MockHealthService) {
				m.On("ReadinessCheck", mock.Anything).Return(services.HealthStatus{Status: "ready"})
			},
			call:           func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ready",
		},
		{
			name: "not ready",
			setup: func(m *MockHealthService) {
				m.On("ReadinessCheck", mock.Anything).Return(services.HealthStatus{
					Status: "not_ready",
					Services: map[string]services.ServiceHealth{
						"database": {Status: "unhealthy", Message: "database is locked"},
					},
				})
			},
			call:           func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusServiceUnavailable,
			expectedField:  "status",
			expectedValue:  "not_ready",
		},
		{
			name: "version",
			setup: func(m *MockHealthService) {
				m.On("Version").Return(map[string]interface{}{"version": "v1.2.0"})
			},
			call:           func(h *HealthHandler) http.HandlerFunc { return h.Version },
			expectedStatus: http.StatusOK,
			expectedField:  "version",
			expectedValue:  "v1.2.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockHealthService{}
			tt.setup(svc)
			h := NewHealthHandler(svc, testLogger())

			rec := httptest.NewRecorder()
			tt.call(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedValue, body[tt.expectedField])
			svc.AssertExpectations(t)
		})
	}
}
