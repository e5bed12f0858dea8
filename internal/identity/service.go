// Package identity owns credential verification and the session lifecycle.
// Sessions are opaque bearer tokens resolved server-side on every request;
// validity is derived from the absolute expiry at check time, never stored.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

// Auditor records authorized mutations. Recording never fails the caller.
type Auditor interface {
	Record(ctx context.Context, actorID, action, resourceType, resourceID string, changes map[string]domain.FieldChange)
}

// Service implements authenticate/resolve/invalidate over the user and
// session stores.
type Service struct {
	users      UserStore
	sessions   SessionStore
	audit      Auditor
	sessionTTL time.Duration
}

func NewService(users UserStore, sessions SessionStore, audit Auditor, sessionTTL time.Duration) *Service {
	return &Service{users: users, sessions: sessions, audit: audit, sessionTTL: sessionTTL}
}

var errInvalidCredentials = apperrors.New(apperrors.CodeUnauthenticated, "invalid credentials")

// Authenticate verifies the credential and opens a session with a fixed
// validity window. Unknown usernames, wrong secrets and deactivated accounts
// all collapse into the same invalid-credentials error so responses don't
// reveal which one it was.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.Session, domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, domain.User{}, apperrors.New(apperrors.CodeValidation, "username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Session{}, domain.User{}, errInvalidCredentials
		}
		return domain.Session{}, domain.User{}, apperrors.Wrap(apperrors.CodeInternal, "login failed", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Session{}, domain.User{}, errInvalidCredentials
	}
	if !user.Active {
		return domain.Session{}, domain.User{}, errInvalidCredentials
	}

	now := requestcontext.Now(ctx)
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, domain.User{}, apperrors.Wrap(apperrors.CodeInternal, "login failed", err)
	}

	s.audit.Record(ctx, user.ID, "login", "session", session.ID, nil)
	return session, user, nil
}

// Resolve maps a bearer token to its owning user. It is read-only: expiry is
// checked, not enforced by deletion.
func (s *Service) Resolve(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.User{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid or expired session")
		}
		return domain.User{}, apperrors.Wrap(apperrors.CodeInternal, "session lookup failed", err)
	}
	if !session.Valid(requestcontext.Now(ctx)) {
		return domain.User{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid or expired session")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.User{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid or expired session")
		}
		return domain.User{}, apperrors.Wrap(apperrors.CodeInternal, "session lookup failed", err)
	}
	if !user.Active {
		return domain.User{}, apperrors.New(apperrors.CodeUnauthenticated, "account is inactive")
	}
	return user, nil
}

// Invalidate deletes the session behind the token. Calling it twice is fine;
// a token that no longer resolves is simply gone.
func (s *Service) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.CodeInternal, "logout failed", err)
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "logout failed", err)
	}
	s.audit.Record(ctx, session.UserID, "logout", "session", session.ID, nil)
	return nil
}

// HashPassword produces a bcrypt digest for seeding and account creation.
func HashPassword(password string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}
