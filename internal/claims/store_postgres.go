package claims

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bhulekh/internal/domain"
)

// PostgresStore persists claims in PostgreSQL. Single-row updates are the
// unit of consistency; bulk operations iterate per item above this layer.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const claimColumns = `id, claim_ref, claimant_name, location, district, state, area_hectares,
	land_type, status, date_submitted, date_processed, assigned_officer,
	family_members, coordinates, notes, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, claim domain.Claim) error {
	coordinates, err := encodeCoordinates(claim.Coordinates)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = s.db.ExecContext(ctx, query,
		claim.ID,
		claim.ClaimRef,
		claim.ClaimantName,
		claim.Location,
		claim.District,
		claim.State,
		claim.AreaHectares,
		string(claim.LandType),
		string(claim.Status),
		claim.DateSubmitted,
		claim.DateProcessed,
		claim.AssignedOfficer,
		claim.FamilyMembers,
		coordinates,
		claim.Notes,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	claim, err := scanClaim(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Claim{}, ErrNotFound
		}
		return domain.Claim{}, err
	}
	return claim, nil
}

func (s *PostgresStore) Update(ctx context.Context, claim domain.Claim) error {
	coordinates, err := encodeCoordinates(claim.Coordinates)
	if err != nil {
		return err
	}
	query := `
		UPDATE claims SET
			claimant_name = $2, location = $3, district = $4, state = $5,
			area_hectares = $6, land_type = $7, status = $8, date_processed = $9,
			assigned_officer = $10, family_members = $11, coordinates = $12,
			notes = $13, updated_at = $14
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		claim.ID,
		claim.ClaimantName,
		claim.Location,
		claim.District,
		claim.State,
		claim.AreaHectares,
		string(claim.LandType),
		string(claim.Status),
		claim.DateProcessed,
		claim.AssignedOfficer,
		claim.FamilyMembers,
		coordinates,
		claim.Notes,
		claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]domain.Claim, error) {
	query := `
		SELECT ` + claimColumns + `
		FROM claims
		WHERE ($1 = '' OR state = $1)
		  AND ($2 = '' OR district = $2)
		  AND ($3 = '' OR assigned_officer = $3)
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, f.State, f.District, f.OfficerID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (domain.Claim, error) {
	var claim domain.Claim
	var landType, status string
	var notes sql.NullString
	var coordinates []byte
	err := row.Scan(
		&claim.ID,
		&claim.ClaimRef,
		&claim.ClaimantName,
		&claim.Location,
		&claim.District,
		&claim.State,
		&claim.AreaHectares,
		&landType,
		&status,
		&claim.DateSubmitted,
		&claim.DateProcessed,
		&claim.AssignedOfficer,
		&claim.FamilyMembers,
		&coordinates,
		&notes,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Claim{}, err
		}
		return domain.Claim{}, fmt.Errorf("scan claim: %w", err)
	}
	claim.LandType = domain.LandType(landType)
	claim.Status = domain.ClaimStatus(status)
	claim.Notes = notes.String
	if len(coordinates) > 0 {
		if err := json.Unmarshal(coordinates, &claim.Coordinates); err != nil {
			return domain.Claim{}, fmt.Errorf("decode coordinates: %w", err)
		}
	}
	return claim, nil
}

func encodeCoordinates(coordinates map[string]any) ([]byte, error) {
	if len(coordinates) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(coordinates)
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}
	return encoded, nil
}
