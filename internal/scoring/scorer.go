// Package scoring computes a transparent weighted match score between the
// signals extracted from a resume and a job profile.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/signals"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// minContainmentLength is the shortest phrase allowed to match by containment,
// so "go" or "r" never match inside longer skill names.
const minContainmentLength = 3

// Weights are the share of each category in the composite score.
type Weights struct {
	Required   float64
	Preferred  float64
	Experience float64
	Education  float64
}

// DefaultWeights is the 40/20/20/20 policy.
var DefaultWeights = Weights{
	Required:   0.40,
	Preferred:  0.20,
	Experience: 0.20,
	Education:  0.20,
}

// Validate checks every weight is in [0,1] and that they sum to 1.
func (w Weights) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"required", w.Required},
		{"preferred", w.Preferred},
		{"experience", w.Experience},
		{"education", w.Education},
	} {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("weight %s must be between 0 and 1, got %v", c.name, c.value)
		}
	}
	if sum := w.Required + w.Preferred + w.Experience + w.Education; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}
	return nil
}

// Scorer is stateless apart from its immutable vocabulary and weights.
type Scorer struct {
	vocab   *signals.Vocabulary
	weights Weights
}

// NewScorer returns a Scorer. A nil vocabulary selects the embedded default.
func NewScorer(vocab *signals.Vocabulary, weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if vocab == nil {
		vocab = signals.DefaultVocabulary()
	}
	return &Scorer{vocab: vocab, weights: weights}, nil
}

// Weights returns the scorer's category weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the composite 0-100 score and its per-category breakdown.
// A category with no requirements scores 100.
func (s *Scorer) Score(extracted types.ExtractedProfile, profile types.JobProfile) (int, types.MatchDetails) {
	text := signals.NormalizeText(extracted.RawText)

	matchedRequired, missingRequired := s.matchSkills(profile.RequiredSkills, extracted.Skills, text)
	matchedPreferred, _ := s.matchSkills(profile.PreferredSkills, extracted.Skills, text)
	experienceHits := countPhrases(profile.ExperienceKeywords, text)
	educationHits := countPhrases(profile.EducationKeywords, text)

	d := types.MatchDetails{
		RequiredSkillsMatch:     len(matchedRequired),
		RequiredSkillsTotal:     len(profile.RequiredSkills),
		PreferredSkillsMatch:    len(matchedPreferred),
		PreferredSkillsTotal:    len(profile.PreferredSkills),
		ExperienceKeywordsMatch: experienceHits,
		ExperienceKeywordsTotal: len(profile.ExperienceKeywords),
		EducationKeywordsMatch:  educationHits,
		EducationKeywordsTotal:  len(profile.EducationKeywords),

		MatchedRequiredSkills:  matchedRequired,
		MissingRequiredSkills:  missingRequired,
		MatchedPreferredSkills: matchedPreferred,
	}
	d.RequiredScore = CategoryScore(d.RequiredSkillsMatch, d.RequiredSkillsTotal)
	d.PreferredScore = CategoryScore(d.PreferredSkillsMatch, d.PreferredSkillsTotal)
	d.ExperienceScore = CategoryScore(d.ExperienceKeywordsMatch, d.ExperienceKeywordsTotal)
	d.EducationScore = CategoryScore(d.EducationKeywordsMatch, d.EducationKeywordsTotal)

	composite := s.weights.Required*float64(d.RequiredScore) +
		s.weights.Preferred*float64(d.PreferredScore) +
		s.weights.Experience*float64(d.ExperienceScore) +
		s.weights.Education*float64(d.EducationScore)

	return clamp(roundHalfUp(composite)), d
}

// CategoryScore is round(100*matched/total) clamped to [0,100], or 100 when total is 0.
func CategoryScore(matched, total int) int {
	if total <= 0 {
		return 100
	}
	// Integer round-half-up of 100*matched/total.
	return clamp((200*matched + total) / (2 * total))
}

// matchSkills splits wanted into the entries found among the extracted skills
// (or, for skills outside the vocabulary, in the text) and those missing.
func (s *Scorer) matchSkills(wanted, extracted []string, text string) (matched, missing []string) {
	matched = []string{}
	missing = []string{}

	for _, w := range wanted {
		if s.skillPresent(w, extracted, text) {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}
	return matched, missing
}

func (s *Scorer) skillPresent(wanted string, extracted []string, text string) bool {
	canonical, known := s.vocab.Canonical(wanted)
	wantedNorm := signals.NormalizeText(wanted)
	if wantedNorm == "" {
		return false
	}

	for _, have := range extracted {
		if strings.EqualFold(strings.TrimSpace(wanted), have) {
			return true
		}
		if known {
			if haveCanonical, ok := s.vocab.Canonical(have); ok && haveCanonical == canonical {
				return true
			}
		}
		if containsEitherWay(wantedNorm, signals.NormalizeText(have)) {
			return true
		}
	}

	// Skills the vocabulary does not know can only be found in the text itself.
	return !known && signals.ContainsPhrase(text, wantedNorm)
}

func containsEitherWay(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}
	if len(shorter) < minContainmentLength {
		return shorter == longer
	}
	return signals.ContainsPhrase(longer, shorter)
}

func countPhrases(phrases []string, text string) int {
	n := 0
	for _, p := range phrases {
		if signals.ContainsPhrase(text, signals.NormalizeText(p)) {
			n++
		}
	}
	return n
}

func roundHalfUp(x float64) int {
	// The epsilon absorbs binary representation error in weights such as 0.2.
	return int(math.Floor(x + 0.5 + 1e-9))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
