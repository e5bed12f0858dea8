package claims

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhulekh/internal/authz"
	"bhulekh/internal/domain"
	"bhulekh/internal/regions"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

type recordedAudit struct {
	ActorID    string
	Action     string
	Resource   string
	ResourceID string
	Changes    map[string]domain.FieldChange
}

type fakeAuditor struct {
	entries []recordedAudit
}

func (f *fakeAuditor) Record(_ context.Context, actorID, action, resourceType, resourceID string, changes map[string]domain.FieldChange) {
	f.entries = append(f.entries, recordedAudit{
		ActorID: actorID, Action: action, Resource: resourceType,
		ResourceID: resourceID, Changes: changes,
	})
}

func (f *fakeAuditor) forResource(id string) []recordedAudit {
	var out []recordedAudit
	for _, e := range f.entries {
		if e.ResourceID == id {
			out = append(out, e)
		}
	}
	return out
}

var (
	mpState        = 1
	mandlaDistrict = 1

	ministryActor = domain.User{ID: "u-ministry", Username: "ministry.admin", Role: domain.RoleMinistry, Active: true}
	stateActor    = domain.User{ID: "u-state", Username: "mp.admin", Role: domain.RoleState, StateID: &mpState, Active: true}
	districtActor = domain.User{ID: "u-district", Username: "district.officer", Role: domain.RoleDistrict, StateID: &mpState, DistrictID: &mandlaDistrict, Active: true}
)

func newTestService(t *testing.T) (*Service, *InMemoryStore, *fakeAuditor) {
	t.Helper()
	regionStore := regions.NewInMemoryStore()
	require.NoError(t, regions.Seed(context.Background(), regionStore))

	store := NewInMemoryStore()
	auditor := &fakeAuditor{}
	svc := NewService(store, regionStore, authz.NewResolver(regionStore), auditor, nil)
	return svc, store, auditor
}

func actorCtx(actor domain.User) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	return requestcontext.WithTime(ctx, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func mustCreate(t *testing.T, svc *Service, ctx context.Context, state, district string) domain.Claim {
	t.Helper()
	claim, err := svc.Create(ctx, CreateInput{
		ClaimantName: "Ram Singh",
		Location:     "Bichhiya",
		District:     district,
		State:        state,
		AreaHectares: 2.5,
		LandType:     domain.LandIndividual,
	})
	require.NoError(t, err)
	return claim
}

func TestCreate_AuditedExactlyOnce(t *testing.T) {
	svc, _, auditor := newTestService(t)

	claim := mustCreate(t, svc, actorCtx(ministryActor), "Madhya Pradesh", "Mandla")

	assert.Equal(t, domain.ClaimPending, claim.Status)
	require.Len(t, auditor.forResource(claim.ID), 1)
	assert.Equal(t, "create", auditor.forResource(claim.ID)[0].Action)
}

func TestCreate_ClaimRefFormat(t *testing.T) {
	svc, _, _ := newTestService(t)

	claim := mustCreate(t, svc, actorCtx(ministryActor), "Madhya Pradesh", "Mandla")
	assert.Regexp(t, regexp.MustCompile(`^FRA-MP-2025-[0-9A-F]{8}$`), claim.ClaimRef)

	// unknown states fall back to XX instead of failing
	unknown := mustCreate(t, svc, actorCtx(ministryActor), "Atlantis", "Nowhere")
	assert.Regexp(t, regexp.MustCompile(`^FRA-XX-2025-[0-9A-F]{8}$`), unknown.ClaimRef)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, auditor := newTestService(t)

	_, err := svc.Create(actorCtx(ministryActor), CreateInput{
		Location: "Bichhiya", District: "Mandla", State: "Madhya Pradesh",
		LandType: domain.LandIndividual,
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = svc.Create(actorCtx(ministryActor), CreateInput{
		ClaimantName: "Ram Singh", Location: "Bichhiya", District: "Mandla",
		State: "Madhya Pradesh", AreaHectares: -1, LandType: domain.LandIndividual,
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	assert.Empty(t, auditor.entries, "failed creates must not audit")
}

func TestList_DistrictScoping(t *testing.T) {
	svc, _, _ := newTestService(t)
	ministry := actorCtx(ministryActor)

	mustCreate(t, svc, ministry, "Madhya Pradesh", "Mandla")
	mustCreate(t, svc, ministry, "Madhya Pradesh", "Balaghat")
	mustCreate(t, svc, ministry, "Odisha", "Mayurbhanj")

	list, err := svc.List(actorCtx(districtActor))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mandla", list[0].District)

	all, err := svc.List(ministry)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestList_StateScoping(t *testing.T) {
	svc, _, _ := newTestService(t)
	ministry := actorCtx(ministryActor)

	mustCreate(t, svc, ministry, "Madhya Pradesh", "Mandla")
	mustCreate(t, svc, ministry, "Odisha", "Mayurbhanj")

	list, err := svc.List(actorCtx(stateActor))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Madhya Pradesh", list[0].State)
}

func TestGet_OutOfScopeReadsAsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	claim := mustCreate(t, svc, actorCtx(ministryActor), "Odisha", "Mayurbhanj")

	_, err := svc.Get(actorCtx(stateActor), claim.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	got, err := svc.Get(actorCtx(ministryActor), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, got.ID)
}

func TestApplyPatch_DiffOnlyChangedFields(t *testing.T) {
	svc, _, auditor := newTestService(t)
	ctx := actorCtx(ministryActor)

	claim := mustCreate(t, svc, ctx, "Madhya Pradesh", "Mandla")

	sameName := claim.ClaimantName
	newStatus := domain.ClaimUnderReview
	updated, err := svc.ApplyPatch(ctx, claim.ID, Patch{
		ClaimantName: &sameName,
		Status:       &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimUnderReview, updated.Status)

	entries := auditor.forResource(claim.ID)
	require.Len(t, entries, 2) // create + update
	changes := entries[1].Changes
	assert.Contains(t, changes, "status")
	assert.NotContains(t, changes, "claimant_name", "unchanged fields must not appear in the diff")
}

func TestApplyPatch_NoOpEmitsNoAudit(t *testing.T) {
	svc, _, auditor := newTestService(t)
	ctx := actorCtx(ministryActor)

	claim := mustCreate(t, svc, ctx, "Madhya Pradesh", "Mandla")
	before := len(auditor.entries)

	same := claim.ClaimantName
	_, err := svc.ApplyPatch(ctx, claim.ID, Patch{ClaimantName: &same})
	require.NoError(t, err)
	assert.Len(t, auditor.entries, before)
}

func TestApplyPatch_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := actorCtx(ministryActor)

	claim := mustCreate(t, svc, ctx, "Madhya Pradesh", "Mandla")
	bad := domain.ClaimStatus("archived")
	_, err := svc.ApplyPatch(ctx, claim.ID, Patch{Status: &bad})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestBulkAction_PerItemIsolation(t *testing.T) {
	svc, _, auditor := newTestService(t)
	ctx := actorCtx(districtActor)

	first := mustCreate(t, svc, ctx, "Madhya Pradesh", "Mandla")
	second := mustCreate(t, svc, ctx, "Madhya Pradesh", "Mandla")

	result, err := svc.BulkAction(ctx, []string{first.ID, "missing-id", second.ID}, domain.BulkApprove, "")
	require.NoError(t, err)

	assert.Len(t, result.Results, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "missing-id", result.Errors[0].ClaimID)
	assert.Equal(t, "claim not found", result.Errors[0].Error)

	approved, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimApproved, approved.Status)
	require.NotNil(t, approved.DateProcessed)
	require.NotNil(t, approved.AssignedOfficer)
	assert.Equal(t, districtActor.ID, *approved.AssignedOfficer)

	// one audit entry per transitioned claim, none for the failure
	assert.Len(t, auditor.forResource(first.ID), 2)  // create + bulk approve
	assert.Len(t, auditor.forResource(second.ID), 2) // create + bulk approve
	assert.Empty(t, auditor.forResource("missing-id"))
}

func TestBulkAction_RejectRecordsReason(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := actorCtx(districtActor)

	claim := mustCreate(t, svc, ctx, "Madhya Pradesh", "Mandla")
	_, err := svc.BulkAction(ctx, []string{claim.ID}, domain.BulkReject, "incomplete documentation")
	require.NoError(t, err)

	rejected, err := svc.Get(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimRejected, rejected.Status)
	assert.Equal(t, "incomplete documentation", rejected.Notes)
}

func TestBulkAction_DecidedClaimsStayMutable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := actorCtx(ministryActor)

	claim := mustCreate(t, svc, ctx, "Madhya Pradesh", "Mandla")
	_, err := svc.BulkAction(ctx, []string{claim.ID}, domain.BulkApprove, "")
	require.NoError(t, err)

	// approved is not terminal: a later bulk action may re-decide
	_, err = svc.BulkAction(ctx, []string{claim.ID}, domain.BulkUnderReview, "")
	require.NoError(t, err)

	got, err := svc.Get(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimUnderReview, got.Status)
}

func TestBulkAction_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := actorCtx(ministryActor)

	_, err := svc.BulkAction(ctx, nil, domain.BulkApprove, "")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = svc.BulkAction(ctx, []string{"some-id"}, domain.BulkClaimAction("delete"), "")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestStats_JurisdictionFiltered(t *testing.T) {
	svc, _, _ := newTestService(t)
	ministry := actorCtx(ministryActor)

	first := mustCreate(t, svc, ministry, "Madhya Pradesh", "Mandla")
	mustCreate(t, svc, ministry, "Madhya Pradesh", "Mandla")
	mustCreate(t, svc, ministry, "Odisha", "Mayurbhanj")

	_, err := svc.BulkAction(ministry, []string{first.ID}, domain.BulkApprove, "")
	require.NoError(t, err)

	stats, err := svc.Stats(actorCtx(stateActor))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.InDelta(t, 5.0, stats.TotalArea, 0.001)
	assert.InDelta(t, 2.5, stats.AverageArea, 0.001)
}
