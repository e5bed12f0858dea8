package identity

import (
	"context"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
)

// ErrNotFound keeps store-level misses consistent across implementations.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// Stores are interface-driven so domain logic stays testable and persistence
// can swap between in-memory and external implementations without rewiring
// business code.
type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	FindByToken(ctx context.Context, token string) (domain.Session, error)
	// DeleteByToken is idempotent: deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token string) error
}
