package profiles

import "github.com/jonathan/resume-analyzer/internal/types"

// Default profile ids.
const (
	SoftwareEngineerID = "software_engineer"
	DataScientistID    = "data_scientist"
	MarketingManagerID = "marketing_manager"
)

// DefaultProfiles returns fresh copies of the seeded, read-only profiles.
func DefaultProfiles() []types.JobProfile {
	return []types.JobProfile{
		{
			ID:                 SoftwareEngineerID,
			Name:               "Software Engineer",
			RequiredSkills:     []string{"python", "java", "javascript", "react", "node.js", "sql", "git", "api", "database", "web development"},
			PreferredSkills:    []string{"docker", "kubernetes", "aws", "microservices", "agile", "scrum", "testing", "ci/cd"},
			ExperienceKeywords: []string{"developed", "built", "implemented", "designed", "created", "maintained", "optimized"},
			EducationKeywords:  []string{"computer science", "software engineering", "information technology", "programming"},
			IsDefault:          true,
		},
		{
			ID:                 DataScientistID,
			Name:               "Data Scientist",
			RequiredSkills:     []string{"python", "r", "machine learning", "statistics", "sql", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch"},
			PreferredSkills:    []string{"deep learning", "nlp", "computer vision", "big data", "spark", "hadoop", "tableau", "power bi"},
			ExperienceKeywords: []string{"analyzed", "modeled", "predicted", "visualized", "researched", "experimented"},
			EducationKeywords:  []string{"data science", "statistics", "mathematics", "computer science", "analytics"},
			IsDefault:          true,
		},
		{
			ID:                 MarketingManagerID,
			Name:               "Marketing Manager",
			RequiredSkills:     []string{"digital marketing", "seo", "social media", "content marketing", "analytics", "campaign management"},
			PreferredSkills:    []string{"google ads", "facebook ads", "email marketing", "crm", "marketing automation", "brand management"},
			ExperienceKeywords: []string{"managed", "launched", "increased", "improved", "coordinated", "strategized"},
			EducationKeywords:  []string{"marketing", "business administration", "communications", "advertising"},
			IsDefault:          true,
		},
	}
}
