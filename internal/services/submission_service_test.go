package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whatsflow/internal/shared/testutil"
	"whatsflow/internal/store"
	"whatsflow/pkg/contracts/domain"
)

func validForm() ContactForm {
	return ContactForm{
		FullName:       "Amina Yusuf",
		BusinessName:   "Yusuf Fabrics",
		Email:          "amina@example.com",
		WhatsAppNumber: "+2348012345678",
		Country:        "Nigeria",
		Message:        "Need help with replies",
		PlanSelected:   "Pro",
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	ctx := context.Background()
	st := new(MockSubmissionStore)
	notifier := new(MockNotifier)

	st.On("CreateSubmission", ctx, mock.AnythingOfType("*domain.Submission")).
		Run(func(args mock.Arguments) {
			sub := args.Get(1).(*domain.Submission)
			sub.ID = 42
			sub.CreatedAt = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
		}).
		Return(nil)
	notifier.On("NotifyNewSubmission", ctx, mock.MatchedBy(func(s domain.Submission) bool {
		return s.ID == 42
	})).Return(nil)

	svc := NewSubmissionService(st, notifier, nil, testLogger())
	changes := 0
	svc.OnChange(func(context.Context) { changes++ })

	form := validForm()
	form.FullName = "  Amina Yusuf  "
	sub, err := svc.Submit(ctx, form)
	require.NoError(t, err)

	assert.Equal(t, int64(42), sub.ID)
	assert.Equal(t, "Amina Yusuf", sub.FullName)
	assert.Equal(t, domain.StatusPending, sub.Status)
	assert.Equal(t, 1, changes)
	st.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmissionService_Submit_NotificationFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	st := new(MockSubmissionStore)
	notifier := new(MockNotifier)

	st.On("CreateSubmission", ctx, mock.Anything).Return(nil)
	notifier.On("NotifyNewSubmission", ctx, mock.Anything).Return(errors.New("smtp unavailable"))

	logger, logs := testutil.NewTestLogger(t)
	svc := NewSubmissionService(st, notifier, nil, logger)
	sub, err := svc.Submit(ctx, validForm())
	require.NoError(t, err)
	assert.NotNil(t, sub)
	notifier.AssertExpectations(t)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Email sending failed")
	assert.True(t, logs.HasAttr("component", "submission_service"))
	testutil.AssertNoErrors(t, logs)
}

func TestSubmissionService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ContactForm)
		field string
		tag   string
	}{
		{name: "missing name", edit: func(f *ContactForm) { f.FullName = "" }, field: "full_name", tag: "required"},
		{name: "blank business", edit: func(f *ContactForm) { f.BusinessName = "   " }, field: "business_name", tag: "required"},
		{name: "bad email", edit: func(f *ContactForm) { f.Email = "not-an-email" }, field: "email", tag: "email"},
		{name: "missing whatsapp", edit: func(f *ContactForm) { f.WhatsAppNumber = "" }, field: "whatsapp_number", tag: "required"},
		{name: "missing country", edit: func(f *ContactForm) { f.Country = "" }, field: "country", tag: "required"},
		{name: "unknown plan", edit: func(f *ContactForm) { f.PlanSelected = "Enterprise" }, field: "plan_selected", tag: "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(MockSubmissionStore)
			svc := NewSubmissionService(st, nil, nil, testLogger())

			form := validForm()
			tt.edit(&form)
			_, err := svc.Submit(context.Background(), form)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field())
			assert.Equal(t, tt.tag, verrs[0].Tag())
			st.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmissionService_Submit_MessageOptional(t *testing.T) {
	ctx := context.Background()
	st := new(MockSubmissionStore)
	st.On("CreateSubmission", ctx, mock.Anything).Return(nil)

	svc := NewSubmissionService(st, nil, nil, testLogger())
	form := validForm()
	form.Message = ""
	_, err := svc.Submit(ctx, form)
	assert.NoError(t, err)
}

func TestSubmissionService_Submit_StoreError(t *testing.T) {
	ctx := context.Background()
	st := new(MockSubmissionStore)
	notifier := new(MockNotifier)
	st.On("CreateSubmission", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := NewSubmissionService(st, notifier, nil, testLogger())
	_, err := svc.Submit(ctx, validForm())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	notifier.AssertNotCalled(t, "NotifyNewSubmission", mock.Anything, mock.Anything)
}

func TestSubmissionService_Dashboard(t *testing.T) {
	ctx := context.Background()
	st := new(MockSubmissionStore)
	stats := domain.DashboardStats{Total: 7, Pending: 4, Contacted: 2}
	recent := []domain.Submission{{ID: 7}, {ID: 6}}
	st.On("SubmissionStats", ctx).Return(stats, nil)
	st.On("RecentSubmissions", ctx, 5).Return(recent, nil)

	svc := NewSubmissionService(st, nil, nil, testLogger())
	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, dash.Stats)
	assert.Equal(t, recent, dash.Recent)
}

func TestSubmissionService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		storeErr error
		wantErr  error
	}{
		{name: "contacted", status: "contacted"},
		{name: "converted with spaces", status: " converted "},
		{name: "unknown status", status: "archived", wantErr: ErrInvalidStatus},
		{name: "empty status", status: "", wantErr: ErrInvalidStatus},
		{name: "missing submission", status: "pending", storeErr: store.ErrNotFound, wantErr: store.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := new(MockSubmissionStore)
			st.On("UpdateSubmissionStatus", ctx, int64(3), mock.Anything).Return(tt.storeErr)

			svc := NewSubmissionService(st, nil, nil, testLogger())
			changes := 0
			svc.OnChange(func(context.Context) { changes++ })

			err := svc.UpdateStatus(ctx, 3, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, changes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, changes)
		})
	}
}
