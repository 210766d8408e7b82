package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"whatsflow/internal/infrastructure"
	"whatsflow/pkg/contracts/domain"
)

type adminContextKey struct{}

// SessionValidator resolves a session token to the admin it belongs to.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*domain.User, error)
}

// SessionToken returns the session token carried by r, preferring the
// cookie over an "Authorization: Bearer" header.
func SessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAdmin rejects requests without a valid admin session and stores the
// admin in the request context.
func RequireAdmin(logger *slog.Logger, sessions SessionValidator, cookieName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := SessionToken(r, cookieName)
			if token == "" {
				logger.WarnContext(ctx, "missing admin session",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				ProblemFromStatus(http.StatusUnauthorized,
					"Admin login required",
					infrastructure.GetTraceID(ctx),
				).Render(w, r)
				return
			}

			user, err := sessions.ValidateSession(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "admin session rejected",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
				)
				ProblemFromStatus(http.StatusUnauthorized,
					"Session is invalid or has expired",
					infrastructure.GetTraceID(ctx),
				).Render(w, r)
				return
			}

			if !user.IsAdmin {
				ProblemFromStatus(http.StatusForbidden,
					"Admin privileges required",
					infrastructure.GetTraceID(ctx),
				).Render(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(ctx, user)))
		})
	}
}

// WithAdmin stores the authenticated admin in ctx.
func WithAdmin(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, adminContextKey{}, user)
}

// AdminFromContext returns the admin stored by RequireAdmin.
func AdminFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(adminContextKey{}).(*domain.User)
	return user, ok && user != nil
}
