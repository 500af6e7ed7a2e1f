package domain

import "fmt"

// ValidationError reports a request payload that would be rejected by the
// Notion API. Payloads failing validation are never sent over the wire.
type ValidationError struct {
	// Field names the offending property, block, or argument.
	Field string
	// Reason is a human-readable description of what is wrong.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
