package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"bhulekh/internal/domain"
	"bhulekh/pkg/requestcontext"
)

// SessionCookie is the client-held bearer. HttpOnly and SameSite keep it out
// of script reach; the server never derives identity from anything else.
const SessionCookie = "fra_session"

// SessionResolver maps an opaque token to its owning user. Implemented by the
// identity service.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.User, error)
}

// RequireSession authenticates the request from the session cookie and puts
// the actor into the request context. Authorization middleware and handlers
// run after it.
func RequireSession(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "authentication required")
				return
			}

			actor, err := resolver.Resolve(ctx, cookie.Value)
			if err != nil {
				logger.WarnContext(ctx, "session resolution failed",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}

// RequireRole rejects actors whose role is outside the endpoint's allow-set.
// It must run after RequireSession.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := requestcontext.Actor(r.Context())
			if !ok {
				unauthorized(w, "authentication required")
				return
			}
			if !slices.Contains(roles, actor.Role) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"insufficient permissions"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
