// Package audit ties every authorized mutation to an immutable record.
package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"bhulekh/internal/domain"
	"bhulekh/internal/platform/metrics"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

// Recorder appends audit entries. A store failure never propagates to the
// caller: the mutation already happened, so failing the request would not
// undo it. Losses are logged and counted instead so they stay visible.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewRecorder(store Store, logger *slog.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{store: store, logger: logger, metrics: m}
}

// Record appends one entry for an authorized mutation, stamping it with the
// request's client metadata and time.
func (r *Recorder) Record(ctx context.Context, actorID, action, resourceType, resourceID string, changes map[string]domain.FieldChange) {
	entry := domain.AuditEntry{
		ID:           uuid.NewString(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changes,
		ClientIP:     requestcontext.ClientIP(ctx),
		UserAgent:    requestcontext.UserAgent(ctx),
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.ErrorContext(ctx, "audit entry dropped",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"request_id", requestcontext.RequestID(ctx),
		)
		if r.metrics != nil {
			r.metrics.AuditDropped.Inc()
		}
	}
}

// List returns entries newest first, optionally filtered by resource. Role
// enforcement (ministry/state) happens at the route.
func (r *Recorder) List(ctx context.Context, q Query) ([]domain.AuditEntry, error) {
	entries, err := r.store.List(ctx, q)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to fetch audit log", err)
	}
	return entries, nil
}
