package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bhulekh/internal/domain"
)

type RegionService interface {
	ListStates(ctx context.Context) ([]domain.State, error)
	StateByCode(ctx context.Context, code string) (domain.State, error)
	DistrictsByState(ctx context.Context, stateID int) ([]domain.District, error)
}

type RegionHandler struct {
	regions RegionService
}

func NewRegionHandler(service RegionService) *RegionHandler {
	return &RegionHandler{regions: service}
}

func (h *RegionHandler) HandleStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.regions.ListStates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(states))
	for _, state := range states {
		out = append(out, map[string]any{
			"id":       state.ID,
			"name":     state.Name,
			"code":     state.Code,
			"language": state.Language,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"states": out})
}

func (h *RegionHandler) HandleDistricts(w http.ResponseWriter, r *http.Request) {
	state, err := h.regions.StateByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	districts, err := h.regions.DistrictsByState(r.Context(), state.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(districts))
	for _, district := range districts {
		out = append(out, map[string]any{
			"id":      district.ID,
			"name":    district.Name,
			"stateId": district.StateID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state.Name, "districts": out})
}
