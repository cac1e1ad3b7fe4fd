package types

// MatchDetails is the per-category breakdown behind a match score.
type MatchDetails struct {
	RequiredSkillsMatch     int `json:"required_skills_match"`
	RequiredSkillsTotal     int `json:"required_skills_total"`
	PreferredSkillsMatch    int `json:"preferred_skills_match"`
	PreferredSkillsTotal    int `json:"preferred_skills_total"`
	ExperienceKeywordsMatch int `json:"experience_keywords_match"`
	ExperienceKeywordsTotal int `json:"experience_keywords_total"`
	EducationKeywordsMatch  int `json:"education_keywords_match"`
	EducationKeywordsTotal  int `json:"education_keywords_total"`

	RequiredScore   int `json:"required_score"`
	PreferredScore  int `json:"preferred_score"`
	ExperienceScore int `json:"experience_score"`
	EducationScore  int `json:"education_score"`

	MatchedRequiredSkills  []string `json:"matched_required_skills"`
	MissingRequiredSkills  []string `json:"missing_required_skills"`
	MatchedPreferredSkills []string `json:"matched_preferred_skills"`
}

// Narrative is the free text produced by the text-generation collaborator.
// Every field is present, possibly empty, when generation fails.
type Narrative struct {
	ResumeDescription string   `json:"resume_description"`
	GeneralThoughts   string   `json:"general_thoughts"`
	Summary           string   `json:"summary"`
	Education         []string `json:"education"`
	Recommendations   []string `json:"recommendations"`
}

// MatchResult is the response value of one analysis. It has no persisted identity.
type MatchResult struct {
	Filename        string        `json:"filename"`
	JobProfile      string        `json:"job_profile,omitempty"`
	MatchScore      *int          `json:"match_score,omitempty"`
	MatchDetails    *MatchDetails `json:"match_details,omitempty"`
	Skills          []string      `json:"skills"`
	ExperienceYears *float64      `json:"experience_years,omitempty"`
	ContactInfo     ContactInfo   `json:"contact_info"`
	WordCount       int           `json:"word_count"`
	CharacterCount  int           `json:"character_count"`

	ResumeDescription string   `json:"resume_description"`
	GeneralThoughts   string   `json:"general_thoughts"`
	Summary           string   `json:"summary"`
	Education         []string `json:"education"`
	Recommendations   []string `json:"recommendations"`
}
