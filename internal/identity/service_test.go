package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

type recordedAudit struct {
	ActorID    string
	Action     string
	Resource   string
	ResourceID string
}

type fakeAuditor struct {
	entries []recordedAudit
}

func (f *fakeAuditor) Record(_ context.Context, actorID, action, resourceType, resourceID string, _ map[string]domain.FieldChange) {
	f.entries = append(f.entries, recordedAudit{ActorID: actorID, Action: action, Resource: resourceType, ResourceID: resourceID})
}

func newTestService(t *testing.T) (*Service, *InMemoryUserStore, *fakeAuditor) {
	t.Helper()
	users := NewInMemoryUserStore()
	auditor := &fakeAuditor{}
	svc := NewService(users, NewInMemorySessionStore(), auditor, 24*time.Hour)
	return svc, users, auditor
}

func seedUser(t *testing.T, users *InMemoryUserStore, username, password string, active bool) domain.User {
	t.Helper()
	digest, err := HashPassword(password, 4)
	require.NoError(t, err)
	user := domain.User{
		ID:           "user-" + username,
		Username:     username,
		Email:        username + "@example.gov.in",
		PasswordHash: digest,
		Role:         domain.RoleDistrict,
		Active:       active,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAuthenticate_Success(t *testing.T) {
	svc, users, auditor := newTestService(t)
	user := seedUser(t, users, "district.officer", "district123", true)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	session, got, err := svc.Authenticate(ctx, "district.officer", "district123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, now.Add(24*time.Hour), session.ExpiresAt)

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, "login", auditor.entries[0].Action)
	assert.Equal(t, user.ID, auditor.entries[0].ActorID)
}

func TestAuthenticate_CollapsesFailureModes(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "known.user", "correct", true)
	seedUser(t, users, "inactive.user", "correct", false)

	cases := map[string]struct {
		username string
		password string
	}{
		"unknown username": {"nobody", "correct"},
		"wrong password":   {"known.user", "wrong"},
		"inactive account": {"inactive.user", "correct"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Authenticate(context.Background(), tc.username, tc.password)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))
			assert.Equal(t, "invalid credentials", apperrors.MessageOf(err))
		})
	}
}

func TestAuthenticate_NoLockout(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "district.officer", "district123", true)

	// repeated failures must not lock the account
	for i := 0; i < 3; i++ {
		_, _, err := svc.Authenticate(context.Background(), "district.officer", "wrong")
		require.Error(t, err)
	}
	_, _, err := svc.Authenticate(context.Background(), "district.officer", "district123")
	assert.NoError(t, err)
}

func TestAuthenticate_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Authenticate(context.Background(), "  ", "secret")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	_, _, err = svc.Authenticate(context.Background(), "user", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestResolve_ValidSession(t *testing.T) {
	svc, users, _ := newTestService(t)
	user := seedUser(t, users, "district.officer", "district123", true)

	session, _, err := svc.Authenticate(context.Background(), "district.officer", "district123")
	require.NoError(t, err)

	got, err := svc.Resolve(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestResolve_ExpiredSession(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "district.officer", "district123", true)

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session, _, err := svc.Authenticate(requestcontext.WithTime(context.Background(), issued), "district.officer", "district123")
	require.NoError(t, err)

	later := requestcontext.WithTime(context.Background(), issued.Add(24*time.Hour+time.Second))
	_, err = svc.Resolve(later, session.Token)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))
}

func TestResolve_DeactivatedAfterLogin(t *testing.T) {
	svc, users, _ := newTestService(t)
	user := seedUser(t, users, "district.officer", "district123", true)

	session, _, err := svc.Authenticate(context.Background(), "district.officer", "district123")
	require.NoError(t, err)

	require.NoError(t, users.SetActive(context.Background(), user.ID, false))
	_, err = svc.Resolve(context.Background(), session.Token)
	require.Error(t, err)
	assert.Equal(t, "account is inactive", apperrors.MessageOf(err))
}

func TestResolve_UnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Resolve(context.Background(), "not-a-token")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))
	_, err = svc.Resolve(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))
}

func TestInvalidate_Idempotent(t *testing.T) {
	svc, users, auditor := newTestService(t)
	seedUser(t, users, "district.officer", "district123", true)

	session, _, err := svc.Authenticate(context.Background(), "district.officer", "district123")
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(context.Background(), session.Token))
	require.NoError(t, svc.Invalidate(context.Background(), session.Token))

	_, err = svc.Resolve(context.Background(), session.Token)
	assert.Error(t, err)

	// one login, one logout; the second invalidate is a no-op
	require.Len(t, auditor.entries, 2)
	assert.Equal(t, "logout", auditor.entries[1].Action)
}
