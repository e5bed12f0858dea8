package claims

import (
	"context"

	"bhulekh/internal/authz"
	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
)

var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "claim not found")

// Filter is the query-time jurisdiction restriction. Zero values mean no
// restriction on that axis; OfficerID wins when set.
type Filter struct {
	State     string
	District  string
	OfficerID string
}

// FilterFromScope translates an authorization scope into a store filter.
func FilterFromScope(scope authz.Scope) Filter {
	switch scope.Kind {
	case authz.ScopeState:
		return Filter{State: scope.State}
	case authz.ScopeDistrict:
		return Filter{District: scope.District}
	case authz.ScopeOfficer:
		return Filter{OfficerID: scope.OfficerID}
	default:
		return Filter{}
	}
}

// Store persists claims. Claims are never deleted; status and assignment
// mutate only through the lifecycle service.
type Store interface {
	Create(ctx context.Context, claim domain.Claim) error
	FindByID(ctx context.Context, id string) (domain.Claim, error)
	Update(ctx context.Context, claim domain.Claim) error
	List(ctx context.Context, f Filter) ([]domain.Claim, error)
}
