package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// PostgresRepository stores profiles in the job_profiles table.
type PostgresRepository struct {
	db *db.DB
}

// NewPostgresRepository wraps an open database.
func NewPostgresRepository(database *db.DB) *PostgresRepository {
	return &PostgresRepository{db: database}
}

func (r *PostgresRepository) ListProfiles(ctx context.Context) ([]types.JobProfile, error) {
	rows, err := r.db.ListJobProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.JobProfile, len(rows))
	for i := range rows {
		out[i] = fromRow(&rows[i])
	}
	return out, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (*types.JobProfile, error) {
	row, err := r.db.GetJobProfile(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	p := fromRow(row)
	return &p, nil
}

func (r *PostgresRepository) ProfileNameExists(ctx context.Context, name string) (bool, error) {
	return r.db.JobProfileNameExists(ctx, name)
}

func (r *PostgresRepository) InsertProfile(ctx context.Context, p types.JobProfile) error {
	err := r.db.InsertJobProfile(ctx, toRow(p))
	if errors.Is(err, db.ErrDuplicateName) {
		// Another process won the race for this name.
		return &ValidationError{Field: "name", Message: fmt.Sprintf("a job profile named %q already exists", p.Name)}
	}
	return err
}

func (r *PostgresRepository) UpsertDefaultProfile(ctx context.Context, p types.JobProfile) error {
	return r.db.UpsertDefaultJobProfile(ctx, toRow(p))
}

func (r *PostgresRepository) DeleteUserProfile(ctx context.Context, id string) (DeleteOutcome, error) {
	result, err := r.db.DeleteUserJobProfile(ctx, id)
	if err != nil {
		return DeleteNotFound, err
	}
	switch result {
	case db.DeleteResultDeleted:
		return Deleted, nil
	case db.DeleteResultDefault:
		return DeleteRefusedDefault, nil
	default:
		return DeleteNotFound, nil
	}
}

func fromRow(row *db.JobProfile) types.JobProfile {
	return types.JobProfile{
		ID:                 row.ID,
		Name:               row.Name,
		RequiredSkills:     nonNilList(row.RequiredSkills),
		PreferredSkills:    nonNilList(row.PreferredSkills),
		ExperienceKeywords: nonNilList(row.ExperienceKeywords),
		EducationKeywords:  nonNilList(row.EducationKeywords),
		IsDefault:          row.IsDefault,
		CreatedAt:          row.CreatedAt,
	}
}

func toRow(p types.JobProfile) *db.JobProfile {
	return &db.JobProfile{
		ID:                 p.ID,
		Name:               p.Name,
		RequiredSkills:     p.RequiredSkills,
		PreferredSkills:    p.PreferredSkills,
		ExperienceKeywords: p.ExperienceKeywords,
		EducationKeywords:  p.EducationKeywords,
		IsDefault:          p.IsDefault,
		CreatedAt:          p.CreatedAt,
	}
}

func nonNilList(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
