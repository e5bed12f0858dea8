// Package regions holds the administrative hierarchy reference data. It is
// seeded once and read-mostly: Authorization derives jurisdiction names from
// it and bulk import validates against it.
package regions

import (
	"context"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
)

var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

type Store interface {
	ListStates(ctx context.Context) ([]domain.State, error)
	StateByID(ctx context.Context, id int) (domain.State, error)
	StateByCode(ctx context.Context, code string) (domain.State, error)
	StateByName(ctx context.Context, name string) (domain.State, error)
	DistrictByID(ctx context.Context, id int) (domain.District, error)
	DistrictsByState(ctx context.Context, stateID int) ([]domain.District, error)
	SaveState(ctx context.Context, state domain.State) error
	SaveDistrict(ctx context.Context, district domain.District) error
}
