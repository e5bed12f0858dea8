package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhulekh/internal/domain"
	"bhulekh/internal/regions"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	store := regions.NewInMemoryStore()
	require.NoError(t, regions.Seed(context.Background(), store))
	return NewResolver(store)
}

func TestScopeFor_Ministry(t *testing.T) {
	scope, err := testResolver(t).ScopeFor(context.Background(), domain.User{ID: "u1", Role: domain.RoleMinistry})
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, scope.Kind)
}

func TestScopeFor_StateResolvesName(t *testing.T) {
	mp := 1
	scope, err := testResolver(t).ScopeFor(context.Background(), domain.User{ID: "u1", Role: domain.RoleState, StateID: &mp})
	require.NoError(t, err)
	assert.Equal(t, ScopeState, scope.Kind)
	assert.Equal(t, "Madhya Pradesh", scope.State)
}

func TestScopeFor_DistrictResolvesName(t *testing.T) {
	mandla := 1
	scope, err := testResolver(t).ScopeFor(context.Background(), domain.User{ID: "u1", Role: domain.RoleDistrict, DistrictID: &mandla})
	require.NoError(t, err)
	assert.Equal(t, ScopeDistrict, scope.Kind)
	assert.Equal(t, "Mandla", scope.District)
}

func TestScopeFor_UnassignedRegionFallsBackToOfficer(t *testing.T) {
	resolver := testResolver(t)

	scope, err := resolver.ScopeFor(context.Background(), domain.User{ID: "u1", Role: domain.RoleState})
	require.NoError(t, err)
	assert.Equal(t, ScopeOfficer, scope.Kind)
	assert.Equal(t, "u1", scope.OfficerID)

	scope, err = resolver.ScopeFor(context.Background(), domain.User{ID: "u2", Role: domain.RoleVillage})
	require.NoError(t, err)
	assert.Equal(t, ScopeOfficer, scope.Kind)
}

func TestAllowsClaim(t *testing.T) {
	officer := "u-officer"
	claim := domain.Claim{State: "Madhya Pradesh", District: "Mandla", AssignedOfficer: &officer}

	assert.True(t, Scope{Kind: ScopeAll}.AllowsClaim(claim))
	assert.True(t, Scope{Kind: ScopeState, State: "Madhya Pradesh"}.AllowsClaim(claim))
	assert.False(t, Scope{Kind: ScopeState, State: "Odisha"}.AllowsClaim(claim))
	assert.True(t, Scope{Kind: ScopeDistrict, District: "Mandla"}.AllowsClaim(claim))
	assert.False(t, Scope{Kind: ScopeDistrict, District: "Balaghat"}.AllowsClaim(claim))
	assert.True(t, Scope{Kind: ScopeOfficer, OfficerID: officer}.AllowsClaim(claim))
	assert.False(t, Scope{Kind: ScopeOfficer, OfficerID: "someone-else"}.AllowsClaim(claim))

	unassigned := domain.Claim{State: "Madhya Pradesh", District: "Mandla"}
	assert.False(t, Scope{Kind: ScopeOfficer, OfficerID: officer}.AllowsClaim(unassigned))
}

func TestAllowsJurisdiction(t *testing.T) {
	assert.True(t, Scope{Kind: ScopeAll}.AllowsJurisdiction("Odisha", "Mayurbhanj"))
	assert.True(t, Scope{Kind: ScopeState, State: "Odisha"}.AllowsJurisdiction("Odisha", "Mayurbhanj"))
	assert.False(t, Scope{Kind: ScopeState, State: "Odisha"}.AllowsJurisdiction("Madhya Pradesh", "Mandla"))
	assert.True(t, Scope{Kind: ScopeDistrict, District: "Mandla"}.AllowsJurisdiction("Madhya Pradesh", "Mandla"))
	assert.False(t, Scope{Kind: ScopeOfficer, OfficerID: "u1"}.AllowsJurisdiction("Madhya Pradesh", "Mandla"))
}
