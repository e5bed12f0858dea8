// Seeds reference data and demo users. Safe to re-run: existing usernames are
// skipped and region saves are idempotent.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"bhulekh/internal/domain"
	"bhulekh/internal/identity"
	"bhulekh/internal/platform/config"
	"bhulekh/internal/platform/logger"
	"bhulekh/internal/platform/postgres"
	"bhulekh/internal/regions"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.PostgresURL == "" {
		log.Error("BHULEKH_POSTGRES_URL is required for seeding")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	regionStore := regions.NewPostgresStore(db)
	if err := regions.Seed(ctx, regionStore); err != nil {
		log.Error("region seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("regions seeded")

	userStore := identity.NewPostgresUserStore(db)
	if err := seedUsers(ctx, userStore, cfg.BCryptCost); err != nil {
		log.Error("user seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("demo users seeded")
}

type demoUser struct {
	Username   string
	Password   string
	Email      string
	FullName   string
	Role       domain.Role
	StateID    *int
	DistrictID *int
}

func seedUsers(ctx context.Context, store identity.UserStore, bcryptCost int) error {
	madhyaPradesh, mandla := 1, 1
	users := []demoUser{
		{Username: "ministry.admin", Password: "admin123", Email: "admin@ministry.gov.in",
			FullName: "Ministry Administrator", Role: domain.RoleMinistry},
		{Username: "mp.admin", Password: "state123", Email: "admin@mp.gov.in",
			FullName: "MP State Admin", Role: domain.RoleState, StateID: &madhyaPradesh},
		{Username: "district.officer", Password: "district123", Email: "officer@mandla.gov.in",
			FullName: "Mandla District Officer", Role: domain.RoleDistrict,
			StateID: &madhyaPradesh, DistrictID: &mandla},
		{Username: "village.officer", Password: "village123", Email: "village@mandla.gov.in",
			FullName: "Village Officer", Role: domain.RoleVillage,
			StateID: &madhyaPradesh, DistrictID: &mandla},
	}

	now := time.Now()
	for _, u := range users {
		if _, err := store.FindByUsername(ctx, u.Username); err == nil {
			continue
		} else if !errors.Is(err, identity.ErrNotFound) {
			return err
		}

		digest, err := identity.HashPassword(u.Password, bcryptCost)
		if err != nil {
			return err
		}
		err = store.Create(ctx, domain.User{
			ID:           uuid.NewString(),
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: digest,
			FullName:     u.FullName,
			Role:         u.Role,
			StateID:      u.StateID,
			DistrictID:   u.DistrictID,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
