// Package observability provides Prometheus metrics for the service and
// formatted analysis output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes human-readable analysis output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %s%s │\n", wrapped, strings.Repeat(" ", boxWidth-4-utf8.RuneCountInString(wrapped)))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobProfile outputs the lists of one job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", profile.ID))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.Name))
	if profile.IsDefault {
		sb.WriteString("Default:  yes\n")
	}
	sb.WriteString("\n")
	writeList(&sb, "Required skills", profile.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred skills", profile.PreferredSkills, maxItemsToShow)
	writeList(&sb, "Experience keywords", profile.ExperienceKeywords, maxItemsToShow)
	writeList(&sb, "Education keywords", profile.EducationKeywords, maxItemsToShow)

	p.printBox("JOB PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobProfiles outputs one line per profile.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobProfiles(profiles []types.JobProfile) {
	if len(profiles) == 0 {
		fmt.Fprintln(p.out, "No job profiles.")
		return
	}
	for _, profile := range profiles {
		marker := " "
		if profile.IsDefault {
			marker = "*"
		}
		fmt.Fprintf(p.out, "%s %-38s %s (%d required skills)\n",
			marker, profile.ID, profile.Name, len(profile.RequiredSkills))
	}
}

// PrintMatchResult outputs the signals, score breakdown and narrative of an analysis.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s\n", result.Filename))
	sb.WriteString(fmt.Sprintf("Words:      %d (%d characters)\n", result.WordCount, result.CharacterCount))
	if result.ExperienceYears != nil {
		sb.WriteString(fmt.Sprintf("Experience: %s years\n", strconv.FormatFloat(*result.ExperienceYears, 'f', -1, 64)))
	} else {
		sb.WriteString("Experience: not stated\n")
	}
	sb.WriteString("\n")
	writeList(&sb, "Skills", result.Skills, 12)
	writeList(&sb, "Emails", result.ContactInfo.Emails, maxItemsToShow)
	writeList(&sb, "Phones", result.ContactInfo.Phones, maxItemsToShow)
	writeList(&sb, "LinkedIn", result.ContactInfo.LinkedIn, maxItemsToShow)
	p.printBox("RESUME SIGNALS", strings.TrimSuffix(sb.String(), "\n"))

	if result.MatchScore != nil && result.MatchDetails != nil {
		p.printScore(result.JobProfile, *result.MatchScore, result.MatchDetails)
	}

	if result.Summary != "" || result.ResumeDescription != "" || result.GeneralThoughts != "" {
		sb.Reset()
		for _, section := range []struct{ title, text string }{
			{"Summary", result.Summary},
			{"Description", result.ResumeDescription},
			{"Thoughts", result.GeneralThoughts},
		} {
			if section.text != "" {
				sb.WriteString(section.title + ":\n" + section.text + "\n\n")
			}
		}
		writeList(&sb, "Education", result.Education, maxItemsToShow)
		writeList(&sb, "Recommendations", result.Recommendations, maxItemsToShow)
		p.printBox("NARRATIVE", strings.TrimSuffix(sb.String(), "\n"))
	}
}

func (p *Printer) printScore(profileName string, score int, d *types.MatchDetails) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Profile:  %s\n", profileName))
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n\n", score))
	sb.WriteString(fmt.Sprintf("Required skills     %2d/%-2d  %3d\n", d.RequiredSkillsMatch, d.RequiredSkillsTotal, d.RequiredScore))
	sb.WriteString(fmt.Sprintf("Preferred skills    %2d/%-2d  %3d\n", d.PreferredSkillsMatch, d.PreferredSkillsTotal, d.PreferredScore))
	sb.WriteString(fmt.Sprintf("Experience keywords %2d/%-2d  %3d\n", d.ExperienceKeywordsMatch, d.ExperienceKeywordsTotal, d.ExperienceScore))
	sb.WriteString(fmt.Sprintf("Education keywords  %2d/%-2d  %3d\n", d.EducationKeywordsMatch, d.EducationKeywordsTotal, d.EducationScore))
	if len(d.MissingRequiredSkills) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Missing required", d.MissingRequiredSkills, maxItemsToShow)
	}
	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// wrap splits line into chunks of at most width runes, breaking on spaces when possible.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	runes := []rune(line)
	for len(runes) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimRight(string(runes[:cut]), " "))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
