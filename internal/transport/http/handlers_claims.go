package httptransport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bhulekh/internal/claims"
	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

type ClaimService interface {
	Create(ctx context.Context, in claims.CreateInput) (domain.Claim, error)
	Get(ctx context.Context, id string) (domain.Claim, error)
	List(ctx context.Context) ([]domain.Claim, error)
	ApplyPatch(ctx context.Context, id string, patch claims.Patch) (domain.Claim, error)
	BulkAction(ctx context.Context, claimIDs []string, action domain.BulkClaimAction, reason string) (claims.BulkResult, error)
	Import(ctx context.Context, rows []claims.Row) (claims.ImportResult, error)
	Export(ctx context.Context) ([]domain.Claim, error)
}

type ClaimHandler struct {
	claims ClaimService
}

func NewClaimHandler(service ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: service}
}

type createClaimRequest struct {
	ClaimantName  string          `json:"claimantName"`
	Location      string          `json:"location"`
	District      string          `json:"district"`
	State         string          `json:"state"`
	AreaHectares  float64         `json:"areaHectares"`
	LandType      domain.LandType `json:"landType"`
	FamilyMembers *int            `json:"familyMembers"`
	Coordinates   map[string]any  `json:"coordinates"`
	Notes         string          `json:"notes"`
}

func (h *ClaimHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "invalid request body"))
		return
	}
	if req.LandType == "" {
		req.LandType = domain.LandIndividual
	}

	claim, err := h.claims.Create(r.Context(), claims.CreateInput{
		ClaimantName:  req.ClaimantName,
		Location:      req.Location,
		District:      req.District,
		State:         req.State,
		AreaHectares:  req.AreaHectares,
		LandType:      req.LandType,
		FamilyMembers: req.FamilyMembers,
		Coordinates:   req.Coordinates,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claimResponse(claim))
}

func (h *ClaimHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.claims.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, claim := range list {
		out = append(out, claimResponse(claim))
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": out, "total": len(out)})
}

func (h *ClaimHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claim, err := h.claims.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse(claim))
}

type patchClaimRequest struct {
	ClaimantName  *string             `json:"claimantName"`
	Location      *string             `json:"location"`
	District      *string             `json:"district"`
	State         *string             `json:"state"`
	AreaHectares  *float64            `json:"areaHectares"`
	LandType      *domain.LandType    `json:"landType"`
	Status        *domain.ClaimStatus `json:"status"`
	Notes         *string             `json:"notes"`
	FamilyMembers *int                `json:"familyMembers"`
}

func (h *ClaimHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req patchClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "invalid request body"))
		return
	}

	claim, err := h.claims.ApplyPatch(r.Context(), chi.URLParam(r, "id"), claims.Patch{
		ClaimantName:  req.ClaimantName,
		Location:      req.Location,
		District:      req.District,
		State:         req.State,
		AreaHectares:  req.AreaHectares,
		LandType:      req.LandType,
		Status:        req.Status,
		Notes:         req.Notes,
		FamilyMembers: req.FamilyMembers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse(claim))
}

type bulkActionRequest struct {
	ClaimIDs []string               `json:"claimIds"`
	Action   domain.BulkClaimAction `json:"action"`
	Reason   string                 `json:"reason"`
}

func (h *ClaimHandler) HandleBulkAction(w http.ResponseWriter, r *http.Request) {
	var req bulkActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "invalid request body"))
		return
	}

	result, err := h.claims.BulkAction(r.Context(), req.ClaimIDs, req.Action, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ClaimHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "invalid multipart form"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "file field is required"))
		return
	}
	defer file.Close()

	rows, err := claims.ReadRows(file)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.claims.Import(r.Context(), rows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ClaimHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	list, err := h.claims.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("fra_claims_export_%s.csv", requestcontext.Now(r.Context()).Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	// response is already committed once the header row goes out
	_ = claims.WriteCSV(w, list)
}

func claimResponse(c domain.Claim) map[string]any {
	out := map[string]any{
		"id":            c.ID,
		"claimId":       c.ClaimRef,
		"claimantName":  c.ClaimantName,
		"location":      c.Location,
		"district":      c.District,
		"state":         c.State,
		"areaHectares":  c.AreaHectares,
		"landType":      string(c.LandType),
		"status":        string(c.Status),
		"dateSubmitted": c.DateSubmitted,
		"dateProcessed": c.DateProcessed,
		"familyMembers": c.FamilyMembers,
		"coordinates":   c.Coordinates,
		"notes":         c.Notes,
		"createdAt":     c.CreatedAt,
		"updatedAt":     c.UpdatedAt,
	}
	if c.AssignedOfficer != nil {
		out["assignedOfficer"] = *c.AssignedOfficer
	}
	return out
}
