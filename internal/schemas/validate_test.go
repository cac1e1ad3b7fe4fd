package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Narrative(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name: "complete narrative",
			document: `{"resume_description": "Backend engineer", "general_thoughts": "Clear layout",
				"summary": "Strong candidate", "education": ["B.S. Computer Science"], "recommendations": []}`,
		},
		{
			name:      "missing summary",
			document:  `{"resume_description": "", "general_thoughts": "", "education": [], "recommendations": []}`,
			wantError: true,
		},
		{
			name: "education is not a list",
			document: `{"resume_description": "", "general_thoughts": "", "summary": "",
				"education": "B.S.", "recommendations": []}`,
			wantError: true,
		},
		{
			name: "numeric recommendation",
			document: `{"resume_description": "", "general_thoughts": "", "summary": "",
				"education": [], "recommendations": [1]}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Narrative, tt.document)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, Narrative, validationErr.Schema)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidate_ProfileLists(t *testing.T) {
	valid := `{"required_skills": ["swift"], "preferred_skills": [], "experience_keywords": ["shipped"], "education_keywords": []}`
	assert.NoError(t, Validate(ProfileLists, valid))

	err := Validate(ProfileLists, `{"required_skills": [{"name": "swift"}]}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(Narrative, `{"summary": `)
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr), "decode failures are not schema violations")
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("resume_plan", `{}`)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "unknown schema")
}

func TestGet_EmbeddedSchemas(t *testing.T) {
	for _, name := range []string{Narrative, ProfileLists} {
		raw, err := Get(name)
		require.NoError(t, err)
		assert.Contains(t, raw, `"required"`)

		var validationErr *ValidationError
		assert.ErrorAs(t, ValidateJSONString(raw, `{}`), &validationErr, "empty object lacks required fields in %s", name)
	}
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")

	err.Schema = Narrative
	assert.Contains(t, err.Error(), "narrative validation failed")
}
