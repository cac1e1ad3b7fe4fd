package profiles

import "fmt"

// ValidationError is returned when a profile's fields are unacceptable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid job profile: %s", e.Message)
}

// NotFoundError is returned for an unknown profile id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("job profile %q not found", e.ID)
}

// ForbiddenOperationError is returned when an operation targets a default profile.
type ForbiddenOperationError struct {
	ID        string
	Operation string
}

func (e *ForbiddenOperationError) Error() string {
	return fmt.Sprintf("cannot %s default job profile %q", e.Operation, e.ID)
}
