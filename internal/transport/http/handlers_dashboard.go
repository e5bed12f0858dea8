package httptransport

import (
	"context"
	"net/http"

	"bhulekh/internal/claims"
	"bhulekh/internal/documents"
	"bhulekh/internal/domain"
)

type StatsService interface {
	Stats(ctx context.Context) (claims.Stats, error)
}

type DocumentLister interface {
	List(ctx context.Context, f documents.Filter) ([]domain.Document, error)
}

type DashboardHandler struct {
	claims StatsService
	docs   DocumentLister
}

func NewDashboardHandler(stats StatsService, docs DocumentLister) *DashboardHandler {
	return &DashboardHandler{claims: stats, docs: docs}
}

// HandleStats aggregates jurisdiction-filtered claim counts with pipeline
// counters for the dashboard.
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.claims.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	docs, err := h.docs.List(r.Context(), documents.Filter{})
	if err != nil {
		writeError(w, err)
		return
	}

	byOCRStatus := map[string]int{}
	for _, doc := range docs {
		byOCRStatus[string(doc.OCRStatus)]++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"claims": stats,
		"documents": map[string]any{
			"total":       len(docs),
			"byOcrStatus": byOCRStatus,
		},
	})
}
