package types

// ContactInfo holds contact details found in resume text, each in first-seen order.
type ContactInfo struct {
	Emails   []string `json:"emails"`
	Phones   []string `json:"phones"`
	LinkedIn []string `json:"linkedin"`
}

// Years is a count of years of experience that may be absent.
// The zero value is "unspecified", which is distinct from a stated 0.
type Years struct {
	value     float64
	specified bool
}

// YearsOf returns a specified Years value.
func YearsOf(v float64) Years {
	if v < 0 {
		v = 0
	}
	return Years{value: v, specified: true}
}

// Value returns the number of years and whether a statement was found.
func (y Years) Value() (float64, bool) {
	return y.value, y.specified
}

// Specified reports whether the text stated a number of years.
func (y Years) Specified() bool {
	return y.specified
}

// Ptr returns nil when unspecified, for JSON fields that are omitted when absent.
func (y Years) Ptr() *float64 {
	if !y.specified {
		return nil
	}
	v := y.value
	return &v
}

// ExtractedProfile holds the structured signals derived from one resume's text.
type ExtractedProfile struct {
	RawText         string
	Skills          []string
	ExperienceYears Years
	ContactInfo     ContactInfo
	WordCount       int
	CharacterCount  int
}
