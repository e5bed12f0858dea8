// Package claims owns the claim lifecycle: submission, patching, bulk status
// transitions and jurisdiction-scoped reads. Every successful mutation emits
// exactly one audit entry.
package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bhulekh/internal/authz"
	"bhulekh/internal/domain"
	"bhulekh/internal/platform/metrics"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

// Auditor records authorized mutations. Recording never fails the caller.
type Auditor interface {
	Record(ctx context.Context, actorID, action, resourceType, resourceID string, changes map[string]domain.FieldChange)
}

// RegionReader resolves the state code used in claim references.
type RegionReader interface {
	StateByName(ctx context.Context, name string) (domain.State, error)
}

type Service struct {
	store   Store
	regions RegionReader
	scopes  *authz.Resolver
	audit   Auditor
	metrics *metrics.Metrics
}

func NewService(store Store, regions RegionReader, scopes *authz.Resolver, audit Auditor, m *metrics.Metrics) *Service {
	return &Service{store: store, regions: regions, scopes: scopes, audit: audit, metrics: m}
}

// CreateInput is a direct claim submission.
type CreateInput struct {
	ClaimantName  string
	Location      string
	District      string
	State         string
	AreaHectares  float64
	LandType      domain.LandType
	FamilyMembers *int
	Coordinates   map[string]any
	Notes         string
}

func (in CreateInput) validate() error {
	switch {
	case strings.TrimSpace(in.ClaimantName) == "":
		return apperrors.New(apperrors.CodeValidation, "claimant name is required")
	case strings.TrimSpace(in.Location) == "":
		return apperrors.New(apperrors.CodeValidation, "location is required")
	case strings.TrimSpace(in.District) == "":
		return apperrors.New(apperrors.CodeValidation, "district is required")
	case strings.TrimSpace(in.State) == "":
		return apperrors.New(apperrors.CodeValidation, "state is required")
	case in.AreaHectares < 0:
		return apperrors.New(apperrors.CodeValidation, "area must not be negative")
	case !domain.ValidLandType(in.LandType):
		return apperrors.New(apperrors.CodeValidation, "invalid land type")
	}
	return nil
}

// Create submits a new claim. The jurisdiction strings are stored as given;
// free-text imports mean they do not have to match reference data.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Claim, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return domain.Claim{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	if err := in.validate(); err != nil {
		return domain.Claim{}, err
	}

	now := requestcontext.Now(ctx)
	claim := domain.Claim{
		ID:            uuid.NewString(),
		ClaimRef:      s.newClaimRef(ctx, in.State),
		ClaimantName:  in.ClaimantName,
		Location:      in.Location,
		District:      in.District,
		State:         in.State,
		AreaHectares:  in.AreaHectares,
		LandType:      in.LandType,
		Status:        domain.ClaimPending,
		DateSubmitted: now,
		FamilyMembers: in.FamilyMembers,
		Coordinates:   in.Coordinates,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, claim); err != nil {
		return domain.Claim{}, apperrors.Wrap(apperrors.CodeInternal, "failed to create claim", err)
	}

	s.audit.Record(ctx, actor.ID, "create", "claim", claim.ID, map[string]domain.FieldChange{
		"claim_ref": {New: claim.ClaimRef},
	})
	if s.metrics != nil {
		s.metrics.ClaimsCreated.Inc()
	}
	return claim, nil
}

// Get returns one claim, applying the same jurisdiction filter as List. An
// out-of-scope claim reads as not found so existence does not leak across
// jurisdictions.
func (s *Service) Get(ctx context.Context, id string) (domain.Claim, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return domain.Claim{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	claim, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Claim{}, err
		}
		return domain.Claim{}, apperrors.Wrap(apperrors.CodeInternal, "failed to fetch claim", err)
	}
	scope, err := s.scopes.ScopeFor(ctx, actor)
	if err != nil {
		return domain.Claim{}, err
	}
	if !scope.AllowsClaim(claim) {
		return domain.Claim{}, ErrNotFound
	}
	return claim, nil
}

// List returns the claims inside the actor's jurisdiction.
func (s *Service) List(ctx context.Context) ([]domain.Claim, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	scope, err := s.scopes.ScopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	claims, err := s.store.List(ctx, FilterFromScope(scope))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to fetch claims", err)
	}
	return claims, nil
}

// Patch applies a partial update. Only fields whose value actually changed
// land in the audit diff; a no-op patch emits no audit entry.
type Patch struct {
	ClaimantName  *string
	Location      *string
	District      *string
	State         *string
	AreaHectares  *float64
	LandType      *domain.LandType
	Status        *domain.ClaimStatus
	Notes         *string
	FamilyMembers *int
}

func (s *Service) ApplyPatch(ctx context.Context, id string, patch Patch) (domain.Claim, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return domain.Claim{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}

	claim, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Claim{}, err
		}
		return domain.Claim{}, apperrors.Wrap(apperrors.CodeInternal, "failed to fetch claim", err)
	}

	if patch.LandType != nil && !domain.ValidLandType(*patch.LandType) {
		return domain.Claim{}, apperrors.New(apperrors.CodeValidation, "invalid land type")
	}
	if patch.Status != nil && !domain.ValidClaimStatus(*patch.Status) {
		return domain.Claim{}, apperrors.New(apperrors.CodeValidation, "invalid status")
	}

	changes := make(map[string]domain.FieldChange)
	applyString(changes, "claimant_name", &claim.ClaimantName, patch.ClaimantName)
	applyString(changes, "location", &claim.Location, patch.Location)
	applyString(changes, "district", &claim.District, patch.District)
	applyString(changes, "state", &claim.State, patch.State)
	applyString(changes, "notes", &claim.Notes, patch.Notes)
	if patch.AreaHectares != nil && *patch.AreaHectares != claim.AreaHectares {
		changes["area_hectares"] = domain.FieldChange{Old: claim.AreaHectares, New: *patch.AreaHectares}
		claim.AreaHectares = *patch.AreaHectares
	}
	if patch.LandType != nil && *patch.LandType != claim.LandType {
		changes["land_type"] = domain.FieldChange{Old: string(claim.LandType), New: string(*patch.LandType)}
		claim.LandType = *patch.LandType
	}
	if patch.Status != nil && *patch.Status != claim.Status {
		changes["status"] = domain.FieldChange{Old: string(claim.Status), New: string(*patch.Status)}
		claim.Status = *patch.Status
	}
	if patch.FamilyMembers != nil && !equalIntPtr(claim.FamilyMembers, patch.FamilyMembers) {
		changes["family_members"] = domain.FieldChange{Old: claim.FamilyMembers, New: *patch.FamilyMembers}
		claim.FamilyMembers = patch.FamilyMembers
	}

	if len(changes) == 0 {
		return claim, nil
	}

	claim.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, claim); err != nil {
		return domain.Claim{}, apperrors.Wrap(apperrors.CodeInternal, "failed to update claim", err)
	}
	s.audit.Record(ctx, actor.ID, "update", "claim", claim.ID, changes)
	return claim, nil
}

// BulkItemResult reports one successfully transitioned claim.
type BulkItemResult struct {
	ClaimID string `json:"claimId"`
	Status  string `json:"status"`
}

// BulkItemError reports one failed item. Failures never abort siblings.
type BulkItemError struct {
	ClaimID string `json:"claimId"`
	Error   string `json:"error"`
}

// BulkResult is the partial-success outcome of a bulk action.
type BulkResult struct {
	Results []BulkItemResult `json:"results"`
	Errors  []BulkItemError  `json:"errors"`
}

// BulkAction applies a status transition plus officer assignment to each
// claim independently. One item's failure is collected and the rest proceed;
// partial success is a first-class outcome. Each changed claim gets its own
// audit entry.
func (s *Service) BulkAction(ctx context.Context, claimIDs []string, action domain.BulkClaimAction, reason string) (BulkResult, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return BulkResult{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	if len(claimIDs) == 0 {
		return BulkResult{}, apperrors.New(apperrors.CodeValidation, "no claim IDs provided")
	}
	if !domain.ValidBulkClaimAction(action) {
		return BulkResult{}, apperrors.New(apperrors.CodeValidation, "invalid action")
	}

	now := requestcontext.Now(ctx)
	newStatus := action.StatusFor()
	result := BulkResult{Results: []BulkItemResult{}, Errors: []BulkItemError{}}

	for _, claimID := range claimIDs {
		claim, err := s.store.FindByID(ctx, claimID)
		if err != nil {
			result.Errors = append(result.Errors, BulkItemError{ClaimID: claimID, Error: itemErrorMessage(err)})
			s.countBulkRow("action", "error")
			continue
		}

		changes := map[string]domain.FieldChange{
			"status": {Old: string(claim.Status), New: string(newStatus)},
		}
		claim.Status = newStatus
		if action.Processes() {
			claim.DateProcessed = &now
		}
		if action == domain.BulkReject && reason != "" {
			changes["notes"] = domain.FieldChange{Old: claim.Notes, New: reason}
			claim.Notes = reason
		}
		officer := actor.ID
		claim.AssignedOfficer = &officer
		claim.UpdatedAt = now

		if err := s.store.Update(ctx, claim); err != nil {
			result.Errors = append(result.Errors, BulkItemError{ClaimID: claimID, Error: itemErrorMessage(err)})
			s.countBulkRow("action", "error")
			continue
		}

		s.audit.Record(ctx, actor.ID, fmt.Sprintf("bulk_%s_claim", action), "claim", claimID, changes)
		result.Results = append(result.Results, BulkItemResult{ClaimID: claimID, Status: "success"})
		s.countBulkRow("action", "success")
	}
	return result, nil
}

// Stats summarizes the claims inside the actor's jurisdiction for the
// dashboard.
type Stats struct {
	Total       int     `json:"totalClaims"`
	Pending     int     `json:"pendingClaims"`
	UnderReview int     `json:"underReviewClaims"`
	Approved    int     `json:"approvedClaims"`
	Rejected    int     `json:"rejectedClaims"`
	TotalArea   float64 `json:"totalArea"`
	AverageArea float64 `json:"averageClaimArea"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	claims, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	stats.Total = len(claims)
	for _, claim := range claims {
		switch claim.Status {
		case domain.ClaimPending:
			stats.Pending++
		case domain.ClaimUnderReview:
			stats.UnderReview++
		case domain.ClaimApproved:
			stats.Approved++
		case domain.ClaimRejected:
			stats.Rejected++
		}
		stats.TotalArea += claim.AreaHectares
	}
	if stats.Total > 0 {
		stats.AverageArea = stats.TotalArea / float64(stats.Total)
	}
	return stats, nil
}

// newClaimRef builds the human-readable reference: FRA-<code>-<year>-<8 hex>.
// Unknown states fall back to "XX" rather than failing the submission.
func (s *Service) newClaimRef(ctx context.Context, stateName string) string {
	code := "XX"
	if state, err := s.regions.StateByName(ctx, stateName); err == nil {
		code = state.Code
	}
	year := requestcontext.Now(ctx).Year()
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("FRA-%s-%d-%s", code, year, suffix)
}

func (s *Service) countBulkRow(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.BulkRows.WithLabelValues(operation, outcome).Inc()
	}
}

func itemErrorMessage(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "claim not found"
	}
	return "storage error"
}

func applyString(changes map[string]domain.FieldChange, field string, current *string, next *string) {
	if next == nil || *next == *current {
		return
	}
	changes[field] = domain.FieldChange{Old: *current, New: *next}
	*current = *next
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
