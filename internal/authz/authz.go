// Package authz maps (user, role, jurisdiction) onto what a request may see
// and touch. Role membership is enforced at the route; jurisdiction is a
// query-time filter produced here and applied by every claim read and bulk
// write, never a separate exception path.
package authz

import (
	"context"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
)

// RegionReader resolves jurisdiction reference data. Implemented by the
// regions store.
type RegionReader interface {
	StateByID(ctx context.Context, id int) (domain.State, error)
	DistrictByID(ctx context.Context, id int) (domain.District, error)
}

// ScopeKind enumerates the jurisdiction filter shapes.
type ScopeKind int

const (
	// ScopeAll sees everything (ministry).
	ScopeAll ScopeKind = iota
	// ScopeState filters by the claim's denormalized state name.
	ScopeState
	// ScopeDistrict filters by the claim's denormalized district name.
	ScopeDistrict
	// ScopeOfficer sees only claims assigned to the actor.
	ScopeOfficer
)

// Scope is the jurisdiction filter for one actor. Claims carry free-text
// state/district strings, so scoping compares names, not reference IDs.
type Scope struct {
	Kind      ScopeKind
	State     string
	District  string
	OfficerID string
}

// Resolver derives scopes from a user's role and assigned region.
type Resolver struct {
	regions RegionReader
}

func NewResolver(regions RegionReader) *Resolver {
	return &Resolver{regions: regions}
}

// ScopeFor computes the actor's jurisdiction filter. A state or district
// actor without an assigned region falls back to officer scope rather than
// seeing everything.
func (r *Resolver) ScopeFor(ctx context.Context, actor domain.User) (Scope, error) {
	switch actor.Role {
	case domain.RoleMinistry:
		return Scope{Kind: ScopeAll}, nil
	case domain.RoleState:
		if actor.StateID == nil {
			return Scope{Kind: ScopeOfficer, OfficerID: actor.ID}, nil
		}
		state, err := r.regions.StateByID(ctx, *actor.StateID)
		if err != nil {
			return Scope{}, apperrors.Wrap(apperrors.CodeInternal, "failed to resolve jurisdiction", err)
		}
		return Scope{Kind: ScopeState, State: state.Name}, nil
	case domain.RoleDistrict:
		if actor.DistrictID == nil {
			return Scope{Kind: ScopeOfficer, OfficerID: actor.ID}, nil
		}
		district, err := r.regions.DistrictByID(ctx, *actor.DistrictID)
		if err != nil {
			return Scope{}, apperrors.Wrap(apperrors.CodeInternal, "failed to resolve jurisdiction", err)
		}
		return Scope{Kind: ScopeDistrict, District: district.Name}, nil
	default:
		return Scope{Kind: ScopeOfficer, OfficerID: actor.ID}, nil
	}
}

// AllowsClaim reports whether a claim is inside the scope.
func (s Scope) AllowsClaim(claim domain.Claim) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeState:
		return claim.State == s.State
	case ScopeDistrict:
		return claim.District == s.District
	default:
		return claim.AssignedOfficer != nil && *claim.AssignedOfficer == s.OfficerID
	}
}

// AllowsJurisdiction reports whether a (state, district) pair from an import
// row is inside the scope. Officer scope cannot import outside itself and is
// treated as state/district-less: only ministry-wide rows pass, which for
// imports means nothing does unless the caller holds a broader role.
func (s Scope) AllowsJurisdiction(state, district string) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeState:
		return state == s.State
	case ScopeDistrict:
		return district == s.District
	default:
		return false
	}
}
