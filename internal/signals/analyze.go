// Package signals derives structured facts from resume text: contact details,
// skills drawn from a curated vocabulary, and stated years of experience.
// Everything here is a pure function of its input and the vocabulary.
package signals

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Analyzer extracts an ExtractedProfile from raw text using a fixed vocabulary.
type Analyzer struct {
	vocab *Vocabulary
}

// NewAnalyzer returns an Analyzer. A nil vocabulary selects the embedded default.
func NewAnalyzer(vocab *Vocabulary) *Analyzer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Analyzer{vocab: vocab}
}

// Vocabulary returns the vocabulary the analyzer matches against.
func (a *Analyzer) Vocabulary() *Vocabulary {
	return a.vocab
}

// Analyze derives signals from rawText. The same text always yields the same profile.
func (a *Analyzer) Analyze(rawText string) types.ExtractedProfile {
	return types.ExtractedProfile{
		RawText:         rawText,
		Skills:          a.vocab.Find(rawText),
		ExperienceYears: ExtractExperienceYears(rawText),
		ContactInfo:     ExtractContactInfo(rawText),
		WordCount:       len(strings.Fields(rawText)),
		CharacterCount:  utf8.RuneCountInString(rawText),
	}
}
