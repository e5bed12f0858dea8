package documents

import (
	"context"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
)

var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "document not found")

// Filter narrows document listings. Zero values match everything.
type Filter struct {
	ClaimID   string
	OCRStatus domain.OCRStatus
}

// Store persists documents including their binary content. Implementations do
// I/O only; state machine rules live in the service and pipeline.
type Store interface {
	Create(ctx context.Context, doc domain.Document) error
	FindByID(ctx context.Context, id string) (domain.Document, error)
	Update(ctx context.Context, doc domain.Document) error
	List(ctx context.Context, f Filter) ([]domain.Document, error)
	// ListPendingReview returns documents whose extraction completed but whose
	// review is still pending, oldest first.
	ListPendingReview(ctx context.Context) ([]domain.Document, error)
}
