package db

import (
	"errors"
	"time"
)

// ErrDuplicateName is returned when a job profile name is already taken, ignoring case.
var ErrDuplicateName = errors.New("job profile name already exists")

// JobProfile is a row of the job_profiles table.
type JobProfile struct {
	ID                 string
	Position           int64
	Name               string
	RequiredSkills     []string
	PreferredSkills    []string
	ExperienceKeywords []string
	EducationKeywords  []string
	IsDefault          bool
	CreatedAt          time.Time
}

// DeleteResult reports what DeleteUserJobProfile found.
type DeleteResult int

const (
	DeleteResultDeleted DeleteResult = iota
	DeleteResultNotFound
	DeleteResultDefault
)
