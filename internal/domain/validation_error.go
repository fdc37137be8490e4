package domain

import "strings"

// ValidationError describes a single failed constraint of a payment record.
// Path is empty for record-level errors.
type ValidationError struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Field joins the path segments with "." for flat keying
func (e ValidationError) Field() string {
	return strings.Join(e.Path, ".")
}

func (e ValidationError) String() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return e.Field() + ": " + e.Message
}
