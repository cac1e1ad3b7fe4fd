package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Bounds on a user-created profile.
const (
	MaxProfileNameLength = 120
	MaxProfileListLength = 100
	MaxProfileItemLength = 120
)

// CreateJobProfileRequest is the body of POST /api/job-profiles.
type CreateJobProfileRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	RequiredSkills     []string `json:"required_skills" validate:"max=100,dive,max=120"`
	PreferredSkills    []string `json:"preferred_skills" validate:"max=100,dive,max=120"`
	ExperienceKeywords []string `json:"experience_keywords" validate:"max=100,dive,max=120"`
	EducationKeywords  []string `json:"education_keywords" validate:"max=100,dive,max=120"`
}

// Normalize trims the name and cleans every list in place.
func (r *CreateJobProfileRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.RequiredSkills = CleanList(r.RequiredSkills)
	r.PreferredSkills = CleanList(r.PreferredSkills)
	r.ExperienceKeywords = CleanList(r.ExperienceKeywords)
	r.EducationKeywords = CleanList(r.EducationKeywords)
}

// Validate validates the CreateJobProfileRequest using the validator.
func (r *CreateJobProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Lists returns the request's requirement lists.
func (r *CreateJobProfileRequest) Lists() JobProfileLists {
	return JobProfileLists{
		RequiredSkills:     r.RequiredSkills,
		PreferredSkills:    r.PreferredSkills,
		ExperienceKeywords: r.ExperienceKeywords,
		EducationKeywords:  r.EducationKeywords,
	}
}

// CleanList trims entries, drops blanks and removes case-insensitive duplicates,
// keeping the first spelling. The result is never nil.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.Join(strings.Fields(item), " ")
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
