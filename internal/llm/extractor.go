package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based structured output.
type ExtractionSchema struct {
	Name         string        // Schema name (e.g., "ResumeNarrative")
	Description  string        // System prompt preamble describing the task
	Fields       []SchemaField // Expected output fields
	Instructions []string      // Extra rules; defaults to extraction rules when empty
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "\"string\"", "[\"string\"]"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

var defaultInstructions = []string{
	"Extract information directly from the text, do not invent or summarize.",
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	instructions := schema.Instructions
	if len(instructions) == 0 {
		instructions = defaultInstructions
	}
	sb.WriteString("IMPORTANT:\n")
	for _, line := range instructions {
		sb.WriteString("- ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ResumeNarrativeSchema describes the qualitative resume evaluation: prose
// description, overall assessment, short summary, education and advice.
func ResumeNarrativeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeNarrative",
		Description: `You are an experienced technical recruiter reviewing a resume.
Write a qualitative evaluation of the candidate. Numeric scoring has already been done
and is provided for context only; do not produce scores of your own.`,
		Fields: []SchemaField{
			{
				Name:        "resume_description",
				Type:        "\"string\"",
				Description: "What the resume contains: career progression, key achievements, education background, notable projects",
				Required:    true,
			},
			{
				Name:        "general_thoughts",
				Type:        "\"string\"",
				Description: "Overall evaluation of formatting, content quality, completeness, presentation, strengths and gaps",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "Two or three sentence summary of the candidate's profile",
				Required:    true,
			},
			{
				Name:        "education",
				Type:        "[\"string\"]",
				Description: "Educational qualifications found in the resume, one per entry",
				Required:    true,
			},
			{
				Name:        "recommendations",
				Type:        "[\"string\"]",
				Description: "Specific, actionable recommendations to improve the resume",
				Required:    true,
			},
		},
		Instructions: []string{
			"Base every statement on the resume text; do not invent employers, dates or degrees.",
			"When a job profile is given, relate strengths and gaps to it.",
			"Use an empty list when the resume lists no education.",
		},
	}
}

// JobProfileListsSchema describes the skill and keyword lists suggested for a
// job profile created with only a name.
func JobProfileListsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobProfileLists",
		Description: `You are a hiring manager defining a job profile. Given a job role, list the skills and keywords a matching resume would contain.`,
		Fields: []SchemaField{
			{
				Name:        "required_skills",
				Type:        "[\"string\"]",
				Description: "8-12 essential technical and professional skills for this role",
				Required:    true,
			},
			{
				Name:        "preferred_skills",
				Type:        "[\"string\"]",
				Description: "6-10 additional skills that would be beneficial",
				Required:    true,
			},
			{
				Name:        "experience_keywords",
				Type:        "[\"string\"]",
				Description: "6-8 action verbs commonly found in resumes for this role",
				Required:    true,
			},
			{
				Name:        "education_keywords",
				Type:        "[\"string\"]",
				Description: "4-6 educational backgrounds or fields relevant to this role",
				Required:    true,
			},
		},
		Instructions: []string{
			"Focus on current industry standards and requirements.",
			"Make skills specific and relevant to the role.",
			"Use lowercase for consistency.",
		},
	}
}
