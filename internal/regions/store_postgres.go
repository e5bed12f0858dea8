package regions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bhulekh/internal/domain"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListStates(ctx context.Context) ([]domain.State, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, code, language, created_at FROM states ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	var states []domain.State
	for rows.Next() {
		var state domain.State
		if err := rows.Scan(&state.ID, &state.Name, &state.Code, &state.Language, &state.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	return states, nil
}

func (s *PostgresStore) StateByID(ctx context.Context, id int) (domain.State, error) {
	return scanState(s.db.QueryRowContext(ctx,
		`SELECT id, name, code, language, created_at FROM states WHERE id = $1`, id))
}

func (s *PostgresStore) StateByCode(ctx context.Context, code string) (domain.State, error) {
	return scanState(s.db.QueryRowContext(ctx,
		`SELECT id, name, code, language, created_at FROM states WHERE code = $1`, code))
}

func (s *PostgresStore) StateByName(ctx context.Context, name string) (domain.State, error) {
	return scanState(s.db.QueryRowContext(ctx,
		`SELECT id, name, code, language, created_at FROM states WHERE name = $1`, name))
}

func (s *PostgresStore) DistrictByID(ctx context.Context, id int) (domain.District, error) {
	var district domain.District
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, state_id, created_at FROM districts WHERE id = $1`, id).
		Scan(&district.ID, &district.Name, &district.StateID, &district.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.District{}, ErrNotFound
		}
		return domain.District{}, fmt.Errorf("find district: %w", err)
	}
	return district, nil
}

func (s *PostgresStore) DistrictsByState(ctx context.Context, stateID int) ([]domain.District, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, state_id, created_at FROM districts WHERE state_id = $1 ORDER BY id`, stateID)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	var districts []domain.District
	for rows.Next() {
		var district domain.District
		if err := rows.Scan(&district.ID, &district.Name, &district.StateID, &district.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		districts = append(districts, district)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	return districts, nil
}

func (s *PostgresStore) SaveState(ctx context.Context, state domain.State) error {
	query := `
		INSERT INTO states (id, name, code, language, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, state.ID, state.Name, state.Code, state.Language, state.CreatedAt); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveDistrict(ctx context.Context, district domain.District) error {
	query := `
		INSERT INTO districts (id, name, state_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, district.ID, district.Name, district.StateID, district.CreatedAt); err != nil {
		return fmt.Errorf("save district: %w", err)
	}
	return nil
}

func scanState(row *sql.Row) (domain.State, error) {
	var state domain.State
	err := row.Scan(&state.ID, &state.Name, &state.Code, &state.Language, &state.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.State{}, ErrNotFound
		}
		return domain.State{}, fmt.Errorf("find state: %w", err)
	}
	return state, nil
}
