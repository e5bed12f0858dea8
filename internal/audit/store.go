package audit

import (
	"context"

	"bhulekh/internal/domain"
)

// Query narrows the audit listing. Zero values mean no filter.
type Query struct {
	ResourceType string
	ResourceID   string
}

// Store is the append-only persistence for audit entries. Nothing updates or
// deletes; List returns newest first.
type Store interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	List(ctx context.Context, q Query) ([]domain.AuditEntry, error)
}
