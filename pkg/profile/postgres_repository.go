package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProfileRepository implements ProfileRepository on a pgx pool
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new PostgreSQL-based profile repository
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{
		pool: pool,
	}
}

const profileColumns = "id, email, full_name, role, created_at, updated_at"

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to scan profile: %w", err)
	}
	return p, nil
}

// GetProfile retrieves a profile by identity ID
func (r *PostgresProfileRepository) GetProfile(ctx context.Context, id uuid.UUID) (Profile, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = $1", id)
	return scanProfile(row)
}

// FindProfileByEmail retrieves a profile by email, case-insensitively
func (r *PostgresProfileRepository) FindProfileByEmail(ctx context.Context, email string) (Profile, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE lower(email) = lower($1)", email)
	return scanProfile(row)
}

// UpsertProfile inserts a profile or updates it on ID conflict
func (r *PostgresProfileRepository) UpsertProfile(ctx context.Context, params UpsertProfileParams) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    full_name = EXCLUDED.full_name,
		    role = EXCLUDED.role,
		    updated_at = now()
		RETURNING `+profileColumns,
		params.ID, params.Email, params.FullName, params.Role)
	p, err := scanProfile(row)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

// UpdateProfile edits an existing profile's display name and role. Empty
// fields keep their current value.
func (r *PostgresProfileRepository) UpdateProfile(ctx context.Context, params UpdateProfileParams) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET full_name = COALESCE(NULLIF($2, ''), full_name),
		    role = COALESCE(NULLIF($3, ''), role),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		params.ID, params.FullName, params.Role)
	return scanProfile(row)
}

// DeleteProfile removes a profile by identity ID
func (r *PostgresProfileRepository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM profiles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListProfiles returns all profiles ordered by creation time
func (r *PostgresProfileRepository) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
