package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"whatsflow/internal/store"
	"whatsflow/pkg/contracts/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newAuthFixture(t *testing.T) (*AuthService, *store.Store, *fakeClock) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "auth.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewAuthService(st, time.Hour, nil, testLogger(),
		WithAuthClock(clock.Now),
		WithBcryptCost(bcrypt.MinCost))
	return svc, st, clock
}

func createAdmin(t *testing.T, svc *AuthService, email, password string) *domain.User {
	t.Helper()
	user, err := svc.CreateAdmin(context.Background(), email, password)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	createAdmin(t, svc, "Owner@WhatsFlow.test", "correct horse")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "owner@whatsflow.test", password: "correct horse"},
		{name: "email case ignored", email: "OWNER@whatsflow.test", password: "correct horse"},
		{name: "wrong password", email: "owner@whatsflow.test", password: "battery staple", wantErr: ErrInvalidCredentials},
		{name: "unknown user", email: "nobody@whatsflow.test", password: "correct horse", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, "owner@whatsflow.test", session.Email)
		})
	}
}

func TestAuthService_Login_RejectsNonAdmin(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newAuthFixture(t)
	hash, err := svc.HashPassword("long enough")
	require.NoError(t, err)
	require.NoError(t, st.CreateUser(ctx, &domain.User{Email: "staff@whatsflow.test", PasswordHash: hash}))

	_, err = svc.Login(ctx, "staff@whatsflow.test", "long enough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newAuthFixture(t)
	admin := createAdmin(t, svc, "owner@whatsflow.test", "correct horse")

	session, err := svc.Login(ctx, "owner@whatsflow.test", "correct horse")
	require.NoError(t, err)

	user, err := svc.ValidateSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)

	_, err = svc.ValidateSession(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionExpired)

	clock.t = clock.t.Add(time.Hour)
	_, err = svc.ValidateSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	session, err = svc.Login(ctx, "owner@whatsflow.test", "correct horse")
	require.NoError(t, err)
	svc.Logout(ctx, session.Token)
	_, err = svc.ValidateSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	svc.Logout(ctx, session.Token)
}

func TestAuthService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newAuthFixture(t)
	createAdmin(t, svc, "owner@whatsflow.test", "correct horse")

	_, err := svc.Login(ctx, "owner@whatsflow.test", "correct horse")
	require.NoError(t, err)
	clock.t = clock.t.Add(30 * time.Minute)
	fresh, err := svc.Login(ctx, "owner@whatsflow.test", "correct horse")
	require.NoError(t, err)

	clock.t = clock.t.Add(45 * time.Minute)
	assert.Equal(t, 1, svc.PurgeExpired())

	_, err = svc.ValidateSession(ctx, fresh.Token)
	assert.NoError(t, err)
}

func TestAuthService_ChangeEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture(t)
	admin := createAdmin(t, svc, "owner@whatsflow.test", "correct horse")
	createAdmin(t, svc, "taken@whatsflow.test", "correct horse")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "wrong password", email: "new@whatsflow.test", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "invalid email", email: "no-at-sign", password: "correct horse", wantErr: ErrInvalidEmail},
		{name: "email in use", email: "taken@whatsflow.test", password: "correct horse", wantErr: ErrEmailTaken},
		{name: "success", email: "new@whatsflow.test", password: "correct horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(ctx, admin.Email, "correct horse")
			require.NoError(t, err)

			err = svc.ChangeEmail(ctx, admin, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, err = svc.ValidateSession(ctx, session.Token)
				assert.NoError(t, err)
				return
			}
			require.NoError(t, err)

			_, err = svc.ValidateSession(ctx, session.Token)
			assert.ErrorIs(t, err, ErrSessionExpired)
			_, err = svc.Login(ctx, tt.email, "correct horse")
			assert.NoError(t, err)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture(t)
	admin := createAdmin(t, svc, "owner@whatsflow.test", "correct horse")

	tests := []struct {
		name    string
		current string
		next    string
		confirm string
		wantErr error
	}{
		{name: "wrong current", current: "nope", next: "new password", confirm: "new password", wantErr: ErrInvalidCredentials},
		{name: "too short", current: "correct horse", next: "short", confirm: "short", wantErr: ErrPasswordTooShort},
		{name: "mismatch", current: "correct horse", next: "new password", confirm: "new passw0rd", wantErr: ErrPasswordMismatch},
		{name: "success", current: "correct horse", next: "new password", confirm: "new password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(ctx, admin.Email, "correct horse")
			require.NoError(t, err)
			user, err := svc.ValidateSession(ctx, session.Token)
			require.NoError(t, err)

			err = svc.ChangePassword(ctx, user, tt.current, tt.next, tt.confirm)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			_, err = svc.ValidateSession(ctx, session.Token)
			assert.ErrorIs(t, err, ErrSessionExpired)
			_, err = svc.Login(ctx, admin.Email, "correct horse")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			_, err = svc.Login(ctx, admin.Email, "new password")
			assert.NoError(t, err)
		})
	}
}

func TestAuthService_CreateAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture(t)

	_, err := svc.CreateAdmin(ctx, "owner@whatsflow.test", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	user := createAdmin(t, svc, "owner@whatsflow.test", "correct horse")
	assert.True(t, user.IsAdmin)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = svc.CreateAdmin(ctx, "OWNER@whatsflow.test", "correct horse")
	assert.ErrorIs(t, err, ErrEmailTaken)

	require.NoError(t, svc.SetPassword(ctx, user.ID, "reset password"))
	_, err = svc.Login(ctx, "owner@whatsflow.test", "reset password")
	assert.NoError(t, err)

	found, err := svc.FindUser(ctx, "owner@whatsflow.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}
