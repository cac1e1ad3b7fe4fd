package signals

import (
	"regexp"
	"strconv"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// maxPlausibleYears bounds a single statement; larger values are ages or dates.
const maxPlausibleYears = 70

var (
	experiencePattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)\b`)
	notExperience     = regexp.MustCompile(`(?i)^[\s\-]*(?:old|ago)\b`)
)

// ExtractExperienceYears returns the largest "<n> years" / "<n> yrs" statement
// in text, optionally followed by "of experience". Ages ("years old") and
// relative dates ("years ago") are ignored. No statement yields an unspecified value.
func ExtractExperienceYears(text string) types.Years {
	best := -1.0

	for _, loc := range experiencePattern.FindAllStringSubmatchIndex(text, -1) {
		if notExperience.MatchString(text[loc[1]:]) {
			continue
		}
		n, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil || n > maxPlausibleYears {
			continue
		}
		if n > best {
			best = n
		}
	}

	if best < 0 {
		return types.Years{}
	}
	return types.YearsOf(best)
}
