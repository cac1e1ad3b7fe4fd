package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const jobProfileColumns = `id, position, name, required_skills, preferred_skills,
	experience_keywords, education_keywords, is_default, created_at`

// -----------------------------------------------------------------------------
// Job Profile Methods
// -----------------------------------------------------------------------------

// ListJobProfiles returns default profiles first, then user profiles in insertion order
func (db *DB) ListJobProfiles(ctx context.Context) ([]JobProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobProfileColumns+`
		 FROM job_profiles
		 ORDER BY is_default DESC, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job profiles: %w", err)
	}
	defer rows.Close()

	var profiles []JobProfile
	for rows.Next() {
		p, err := scanJobProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job profiles: %w", err)
	}
	return profiles, nil
}

// GetJobProfile retrieves a job profile by ID. Returns nil, nil when it does not exist.
func (db *DB) GetJobProfile(ctx context.Context, id string) (*JobProfile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobProfileColumns+` FROM job_profiles WHERE id = $1`, id)

	p, err := scanJobProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job profile: %w", err)
	}
	return &p, nil
}

// JobProfileNameExists reports whether a profile with this name exists, ignoring case
func (db *DB) JobProfileNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_profiles WHERE LOWER(name) = LOWER($1))`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check job profile name: %w", err)
	}
	return exists, nil
}

// InsertJobProfile stores a new user profile. A taken name yields ErrDuplicateName.
func (db *DB) InsertJobProfile(ctx context.Context, p *JobProfile) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_profiles (id, name, required_skills, preferred_skills,
		                           experience_keywords, education_keywords, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING position`,
		p.ID, p.Name, nonNil(p.RequiredSkills), nonNil(p.PreferredSkills),
		nonNil(p.ExperienceKeywords), nonNil(p.EducationKeywords), p.IsDefault, p.CreatedAt,
	).Scan(&p.Position)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to insert job profile: %w", err)
	}
	return nil
}

// UpsertDefaultJobProfile inserts or refreshes a seeded default profile, keeping
// its original position and creation time.
func (db *DB) UpsertDefaultJobProfile(ctx context.Context, p *JobProfile) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_profiles (id, name, required_skills, preferred_skills,
		                           experience_keywords, education_keywords, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     required_skills = EXCLUDED.required_skills,
		     preferred_skills = EXCLUDED.preferred_skills,
		     experience_keywords = EXCLUDED.experience_keywords,
		     education_keywords = EXCLUDED.education_keywords,
		     is_default = TRUE`,
		p.ID, p.Name, nonNil(p.RequiredSkills), nonNil(p.PreferredSkills),
		nonNil(p.ExperienceKeywords), nonNil(p.EducationKeywords), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert default job profile %s: %w", p.ID, err)
	}
	return nil
}

// DeleteUserJobProfile deletes a non-default profile. The row is locked while
// its default flag is checked, so a concurrent writer cannot slip in between.
func (db *DB) DeleteUserJobProfile(ctx context.Context, id string) (DeleteResult, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return DeleteResultNotFound, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var isDefault bool
	err = tx.QueryRow(ctx,
		`SELECT is_default FROM job_profiles WHERE id = $1 FOR UPDATE`, id,
	).Scan(&isDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeleteResultNotFound, nil
		}
		return DeleteResultNotFound, fmt.Errorf("failed to lock job profile: %w", err)
	}
	if isDefault {
		return DeleteResultDefault, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM job_profiles WHERE id = $1`, id); err != nil {
		return DeleteResultNotFound, fmt.Errorf("failed to delete job profile: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return DeleteResultNotFound, fmt.Errorf("failed to commit job profile delete: %w", err)
	}
	return DeleteResultDeleted, nil
}

func scanJobProfile(row pgx.Row) (JobProfile, error) {
	var p JobProfile
	err := row.Scan(&p.ID, &p.Position, &p.Name, &p.RequiredSkills, &p.PreferredSkills,
		&p.ExperienceKeywords, &p.EducationKeywords, &p.IsDefault, &p.CreatedAt)
	return p, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
