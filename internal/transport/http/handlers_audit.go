package httptransport

import (
	"context"
	"net/http"

	"bhulekh/internal/audit"
	"bhulekh/internal/domain"
)

type AuditReader interface {
	List(ctx context.Context, q audit.Query) ([]domain.AuditEntry, error)
}

type AuditHandler struct {
	audit AuditReader
}

func NewAuditHandler(reader AuditReader) *AuditHandler {
	return &AuditHandler{audit: reader}
}

func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audit.List(r.Context(), audit.Query{
		ResourceType: r.URL.Query().Get("resourceType"),
		ResourceID:   r.URL.Query().Get("resourceId"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		out = append(out, map[string]any{
			"id":           entry.ID,
			"actorId":      entry.ActorID,
			"action":       entry.Action,
			"resourceType": entry.ResourceType,
			"resourceId":   entry.ResourceID,
			"changes":      entry.Changes,
			"clientIp":     entry.ClientIP,
			"userAgent":    entry.UserAgent,
			"createdAt":    entry.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out, "total": len(out)})
}
