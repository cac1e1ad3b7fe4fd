// Package types provides type definitions for structured data used throughout the resume analyzer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// JobProfile is a named set of requirements a resume is scored against.
// Default profiles are seeded at startup and are read-only.
type JobProfile struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	RequiredSkills     []string  `json:"required_skills"`
	PreferredSkills    []string  `json:"preferred_skills"`
	ExperienceKeywords []string  `json:"experience_keywords"`
	EducationKeywords  []string  `json:"education_keywords"`
	IsDefault          bool      `json:"is_default"`
	CreatedAt          time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers cannot mutate stored slices.
func (p JobProfile) Clone() JobProfile {
	p.RequiredSkills = cloneStrings(p.RequiredSkills)
	p.PreferredSkills = cloneStrings(p.PreferredSkills)
	p.ExperienceKeywords = cloneStrings(p.ExperienceKeywords)
	p.EducationKeywords = cloneStrings(p.EducationKeywords)
	return p
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// JobProfileLists are the four requirement lists of a profile, without identity.
type JobProfileLists struct {
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	ExperienceKeywords []string `json:"experience_keywords"`
	EducationKeywords  []string `json:"education_keywords"`
}

// Empty reports whether every list is empty.
func (l JobProfileLists) Empty() bool {
	return len(l.RequiredSkills) == 0 && len(l.PreferredSkills) == 0 &&
		len(l.ExperienceKeywords) == 0 && len(l.EducationKeywords) == 0
}
