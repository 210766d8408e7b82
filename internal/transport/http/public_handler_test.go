package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whatsflow/internal/services"
	"whatsflow/pkg/contracts/domain"
)

func newPublicRouter(subs *MockSubmissionService, pricing *MockPricingService) chi.Router {
	r := chi.NewRouter()
	NewPublicHandler(subs, pricing, testLogger(), testErrorHandler()).Routes(r)
	return r
}

func TestPublicHandler_Pricing(t *testing.T) {
	subs := &MockSubmissionService{}
	pricing := &MockPricingService{}
	pricing.On("List", mock.Anything).Return([]domain.PricingPlan{
		{ID: 1, PlanName: "Starter", BasePrice: 29, CurrentPrice: 29},
		{ID: 2, PlanName: "Pro", BasePrice: 79, CurrentPrice: 59.25, DiscountPercent: 25},
	}, nil)

	rec := httptest.NewRecorder()
	newPublicRouter(subs, pricing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pricing", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Plans []domain.PricingPlan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Plans, 2)
	assert.Equal(t, 59.25, body.Plans[1].CurrentPrice)
}

func TestPublicHandler_Contact(t *testing.T) {
	form := services.ContactForm{
		FullName:       "Layla Hassan",
		BusinessName:   "Layla Bakery",
		Email:          "layla@example.com",
		WhatsAppNumber: "+9647700000000",
		Country:        "Iraq",
		PlanSelected:   "Pro",
	}

	tests := []struct {
		name           string
		contentType    string
		body           func() string
		setup          func(m *MockSubmissionService)
		expectedStatus int
	}{
		{
			name:        "json body",
			contentType: "application/json",
			body: func() string {
				b, _ := json.Marshal(form)
				return string(b)
			},
			setup: func(m *MockSubmissionService) {
				m.On("Submit", mock.Anything, form).
					Return(&domain.Submission{ID: 7, Status: domain.StatusPending}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "form post",
			contentType: "application/x-www-form-urlencoded",
			body: func() string {
				v := url.Values{}
				v.Set("full_name", form.FullName)
				v.Set("business_name", form.BusinessName)
				v.Set("email", form.Email)
				v.Set("whatsapp_number", form.WhatsAppNumber)
				v.Set("country", form.Country)
				v.Set("plan_selected", form.PlanSelected)
				return v.Encode()
			},
			setup: func(m *MockSubmissionService) {
				m.On("Submit", mock.Anything, form).
					Return(&domain.Submission{ID: 8, Status: domain.StatusPending}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed json",
			contentType:    "application/json",
			body:           func() string { return `{"full_name":` },
			setup:          func(m *MockSubmissionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "validation failure",
			contentType: "application/json",
			body:        func() string { return `{"full_name":"x"}` },
			setup: func(m *MockSubmissionService) {
				m.On("Submit", mock.Anything, mock.Anything).
					Return(nil, validate.Struct(services.ContactForm{FullName: "x"}))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "store failure",
			contentType: "application/json",
			body: func() string {
				b, _ := json.Marshal(form)
				return string(b)
			},
			setup: func(m *MockSubmissionService) {
				m.On("Submit", mock.Anything, form).Return(nil, errors.New("disk full"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := &MockSubmissionService{}
			tt.setup(subs)

			req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(tt.body()))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			newPublicRouter(subs, &MockPricingService{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusCreated {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, domain.StatusPending, body["status"])
				assert.NotEmpty(t, body["message"])
			}
			subs.AssertExpectations(t)
		})
	}
}
