//go:build integration

package claims_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bhulekh/internal/claims"
	"bhulekh/internal/domain"
	"bhulekh/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *claims.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), "../../migrations/0001_init.sql")
	s.store = claims.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.postgres.DB.ExecContext(context.Background(),
		"TRUNCATE documents, claims, users RESTART IDENTITY CASCADE")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seedOfficer(id string) {
	_, err := s.postgres.DB.ExecContext(context.Background(),
		`INSERT INTO users (id, username, email, password_hash, role) VALUES ($1, $1, $1 || '@example.org', 'x', 'district')`,
		id)
	s.Require().NoError(err)
}

func newStoredClaim(state, district string) domain.Claim {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Claim{
		ID:            uuid.NewString(),
		ClaimRef:      "FRA-MP-2025-" + uuid.NewString()[:8],
		ClaimantName:  "Ram Singh",
		Location:      "Bichhiya",
		District:      district,
		State:         state,
		AreaHectares:  2.5,
		LandType:      domain.LandIndividual,
		Status:        domain.ClaimPending,
		DateSubmitted: now,
		Coordinates:   map[string]any{"lat": 22.6, "lng": 80.37},
		Notes:         "first survey",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFindByID() {
	ctx := context.Background()
	claim := newStoredClaim("Madhya Pradesh", "Mandla")
	members := 5
	claim.FamilyMembers = &members

	s.Require().NoError(s.store.Create(ctx, claim))

	got, err := s.store.FindByID(ctx, claim.ID)
	s.Require().NoError(err)
	s.Equal(claim.ClaimRef, got.ClaimRef)
	s.Equal(claim.ClaimantName, got.ClaimantName)
	s.Equal(claim.AreaHectares, got.AreaHectares)
	s.Equal(domain.ClaimPending, got.Status)
	s.Require().NotNil(got.FamilyMembers)
	s.Equal(5, *got.FamilyMembers)
	s.Equal(22.6, got.Coordinates["lat"])
	s.Nil(got.DateProcessed)
	s.Nil(got.AssignedOfficer)
}

func (s *PostgresStoreSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(context.Background(), uuid.NewString())
	s.ErrorIs(err, claims.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	claim := newStoredClaim("Madhya Pradesh", "Mandla")
	s.Require().NoError(s.store.Create(ctx, claim))

	officer := uuid.NewString()
	s.seedOfficer(officer)

	processed := time.Now().UTC().Truncate(time.Microsecond)
	claim.Status = domain.ClaimApproved
	claim.DateProcessed = &processed
	claim.AssignedOfficer = &officer
	claim.UpdatedAt = processed
	s.Require().NoError(s.store.Update(ctx, claim))

	got, err := s.store.FindByID(ctx, claim.ID)
	s.Require().NoError(err)
	s.Equal(domain.ClaimApproved, got.Status)
	s.Require().NotNil(got.DateProcessed)
	s.True(got.DateProcessed.Equal(processed))
	s.Require().NotNil(got.AssignedOfficer)
	s.Equal(officer, *got.AssignedOfficer)
}

func (s *PostgresStoreSuite) TestUpdate_NotFound() {
	err := s.store.Update(context.Background(), newStoredClaim("Madhya Pradesh", "Mandla"))
	s.ErrorIs(err, claims.ErrNotFound)
}

func (s *PostgresStoreSuite) TestList_Filters() {
	ctx := context.Background()
	officer := uuid.NewString()
	s.seedOfficer(officer)

	mandla := newStoredClaim("Madhya Pradesh", "Mandla")
	mandla.AssignedOfficer = &officer
	balaghat := newStoredClaim("Madhya Pradesh", "Balaghat")
	odisha := newStoredClaim("Odisha", "Mayurbhanj")
	for _, claim := range []domain.Claim{mandla, balaghat, odisha} {
		s.Require().NoError(s.store.Create(ctx, claim))
	}

	all, err := s.store.List(ctx, claims.Filter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	mp, err := s.store.List(ctx, claims.Filter{State: "Madhya Pradesh"})
	s.Require().NoError(err)
	s.Len(mp, 2)

	byDistrict, err := s.store.List(ctx, claims.Filter{District: "Mandla"})
	s.Require().NoError(err)
	s.Require().Len(byDistrict, 1)
	s.Equal(mandla.ID, byDistrict[0].ID)

	byOfficer, err := s.store.List(ctx, claims.Filter{OfficerID: officer})
	s.Require().NoError(err)
	s.Require().Len(byOfficer, 1)
	s.Equal(mandla.ID, byOfficer[0].ID)
}
