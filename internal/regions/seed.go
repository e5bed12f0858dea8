package regions

import (
	"context"
	"time"

	"bhulekh/internal/domain"
)

// Seed writes the bootstrap states and districts. Saves are idempotent, so
// running it against an already seeded store is harmless.
func Seed(ctx context.Context, store Store) error {
	now := time.Now()

	states := []domain.State{
		{ID: 1, Name: "Madhya Pradesh", Code: "MP", Language: "Hindi", CreatedAt: now},
		{ID: 2, Name: "Odisha", Code: "OR", Language: "Odia", CreatedAt: now},
		{ID: 3, Name: "Telangana", Code: "TG", Language: "Telugu", CreatedAt: now},
		{ID: 4, Name: "Tripura", Code: "TR", Language: "Bengali", CreatedAt: now},
		{ID: 5, Name: "Maharashtra", Code: "MH", Language: "Marathi", CreatedAt: now},
		{ID: 6, Name: "Gujarat", Code: "GJ", Language: "Gujarati", CreatedAt: now},
	}
	for _, state := range states {
		if err := store.SaveState(ctx, state); err != nil {
			return err
		}
	}

	districts := []domain.District{
		{ID: 1, Name: "Mandla", StateID: 1, CreatedAt: now},
		{ID: 2, Name: "Balaghat", StateID: 1, CreatedAt: now},
		{ID: 3, Name: "Mayurbhanj", StateID: 2, CreatedAt: now},
		{ID: 4, Name: "Keonjhar", StateID: 2, CreatedAt: now},
		{ID: 5, Name: "Adilabad", StateID: 3, CreatedAt: now},
		{ID: 6, Name: "Warangal", StateID: 3, CreatedAt: now},
	}
	for _, district := range districts {
		if err := store.SaveDistrict(ctx, district); err != nil {
			return err
		}
	}
	return nil
}
