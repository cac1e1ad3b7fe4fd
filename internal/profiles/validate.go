package profiles

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/types"
)

var jsonFieldNames = map[string]string{
	"Name":               "name",
	"RequiredSkills":     "required_skills",
	"PreferredSkills":    "preferred_skills",
	"ExperienceKeywords": "experience_keywords",
	"EducationKeywords":  "education_keywords",
}

// validateRequest normalizes req and reports the first failing field as a ValidationError.
func validateRequest(req *types.CreateJobProfileRequest) error {
	req.Normalize()

	err := req.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	return fieldError(fieldErrs[0])
}

func fieldError(fe validator.FieldError) *ValidationError {
	// List elements are reported as "RequiredSkills[3]".
	structField, _, _ := strings.Cut(fe.StructField(), "[")
	field := jsonFieldNames[structField]
	if field == "" {
		field = fe.Field()
	}

	switch {
	case fe.Tag() == "required":
		return &ValidationError{Field: field, Message: "must not be empty"}
	case fe.Tag() == "max" && structField == "Name":
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", types.MaxProfileNameLength)}
	case fe.Tag() == "max" && fe.Kind() == reflect.Slice:
		return &ValidationError{Field: field, Message: fmt.Sprintf("must have at most %d entries", types.MaxProfileListLength)}
	case fe.Tag() == "max":
		return &ValidationError{Field: field, Message: fmt.Sprintf("entries must be at most %d characters", types.MaxProfileItemLength)}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("failed %s check", fe.Tag())}
	}
}
