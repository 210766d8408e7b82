package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"whatsflow/internal/infrastructure"
	"whatsflow/internal/store"
	"whatsflow/pkg/contracts/domain"
)

// MinPasswordLength is the shortest password an admin may set.
const MinPasswordLength = 8

// Session is an authenticated admin login.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService handles admin login, sessions and account settings.
// Sessions live in memory and are lost on restart.
type AuthService struct {
	users   UserStore
	ttl     time.Duration
	cost    int
	metrics *infrastructure.BusinessMetrics
	now     func() time.Time
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]Session
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithAuthClock sets the clock used for session expiry.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// NewAuthService creates an auth service whose sessions last ttl.
func NewAuthService(users UserStore, ttl time.Duration, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, opts ...AuthOption) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AuthService{
		users:    users,
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		metrics:  metrics,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "auth_service")),
		sessions: make(map[string]Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashPassword hashes password with bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Login checks the credentials of an admin and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.metrics.RecordLoginAttempt(ctx, false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !checkPassword(user, password) || !user.IsAdmin {
		s.metrics.RecordLoginAttempt(ctx, false)
		s.logger.WarnContext(ctx, "Admin login rejected", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	session := Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.metrics.RecordLoginAttempt(ctx, true)
	s.logger.InfoContext(ctx, "Admin logged in", slog.Int64("user_id", user.ID))
	return &session, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		s.logger.InfoContext(ctx, "Admin logged out", slog.Int64("user_id", session.UserID))
	}
}

// ValidateSession returns the admin owning token.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	if ok && !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionExpired
	}

	user, err := s.users.UserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.revokeUser(session.UserID)
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrNotAdmin
	}
	return user, nil
}

// PurgeExpired drops expired sessions and returns how many were removed.
func (s *AuthService) PurgeExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *AuthService) revokeUser(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	revoked := 0
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
			revoked++
		}
	}
	return revoked
}

// ChangeEmail moves the admin to a new login email and ends all their sessions.
func (s *AuthService) ChangeEmail(ctx context.Context, user *domain.User, newEmail, currentPassword string) error {
	if !checkPassword(user, currentPassword) {
		return ErrInvalidCredentials
	}

	newEmail = strings.TrimSpace(newEmail)
	addr, err := mail.ParseAddress(newEmail)
	if err != nil || addr.Address != newEmail {
		return fmt.Errorf("%q: %w", newEmail, ErrInvalidEmail)
	}

	if existing, err := s.users.UserByEmail(ctx, newEmail); err == nil && existing.ID != user.ID {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up email: %w", err)
	}

	if err := s.users.UpdateUserEmail(ctx, user.ID, newEmail); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrEmailTaken
		}
		return err
	}

	revoked := s.revokeUser(user.ID)
	s.logger.InfoContext(ctx, "Admin email changed",
		slog.Int64("user_id", user.ID),
		slog.Int("sessions_revoked", revoked))
	return nil
}

// ChangePassword sets a new password and ends all of the admin's sessions.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword, confirmPassword string) error {
	if !checkPassword(user, currentPassword) {
		return ErrInvalidCredentials
	}
	if err := ValidateNewPassword(newPassword, confirmPassword); err != nil {
		return err
	}
	if err := s.SetPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	revoked := s.revokeUser(user.ID)
	s.logger.InfoContext(ctx, "Admin password changed",
		slog.Int64("user_id", user.ID),
		slog.Int("sessions_revoked", revoked))
	return nil
}

// ValidateNewPassword checks length and confirmation of a new password.
func ValidateNewPassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// SetPassword stores a new password hash for the user.
func (s *AuthService) SetPassword(ctx context.Context, userID int64, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdateUserPassword(ctx, userID, hash)
}

// CreateAdmin creates an admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: strings.TrimSpace(email), PasswordHash: hash, IsAdmin: true}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "Admin user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email))
	return user, nil
}

// FindUser looks up a user by email.
func (s *AuthService) FindUser(ctx context.Context, email string) (*domain.User, error) {
	return s.users.UserByEmail(ctx, email)
}
