package domain

import (
	"fmt"
	"strings"
)

// ID is a normalized Notion resource identifier: 32 lowercase hex
// characters with no hyphens. Two identifiers refer to the same resource
// iff their normalized forms are equal, so ID values compare with ==.
type ID string

const idLength = 32

// ParseID accepts an identifier in either the hyphenated UI form
// (8-4-4-4-12) or the bare API form and normalizes it. Normalization is
// pure; it is applied once, at the boundary, before an identifier is used.
func ParseID(raw string) (ID, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != idLength {
		return "", &ValidationError{Field: "id", Reason: fmt.Sprintf("identifier %q is not 32 hex characters", raw)}
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", &ValidationError{Field: "id", Reason: fmt.Sprintf("identifier %q contains non-hex character %q", raw, r)}
		}
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }

// Hyphenated returns the UI form (8-4-4-4-12) of the identifier.
func (id ID) Hyphenated() string {
	s := string(id)
	if len(s) != idLength {
		return s
	}
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
}
