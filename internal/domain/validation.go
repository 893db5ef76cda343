package domain

import "strings"

// FieldViolation reports a single violated request field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field of a movement request,
// not just the first one.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Field + ": " + v.Message
	}

	return strings.Join(msgs, "; ")
}
