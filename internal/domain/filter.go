package domain

import (
	"encoding/json"
	"fmt"
)

// Filter is an immutable query filter expression: either a leaf
// predicate on a named property or an and/or compound of sub-filters.
// Build one with the constructors below; a Filter is never mutated after
// construction.
type Filter struct {
	and []Filter
	or  []Filter

	property  string
	typeKey   string // "title", "rich_text", "number", "date", "select", "status", "checkbox"
	condition string
	value     any
}

func leaf(property, typeKey, condition string, value any) Filter {
	return Filter{property: property, typeKey: typeKey, condition: condition, value: value}
}

// And combines filters so all must match.
func And(filters ...Filter) Filter { return Filter{and: filters} }

// Or combines filters so any may match.
func Or(filters ...Filter) Filter { return Filter{or: filters} }

// TitleContains matches pages whose title contains query.
func TitleContains(query string) Filter {
	return leaf("", "title", "contains", query)
}

// TextContains matches a rich text property that contains query.
func TextContains(property, query string) Filter {
	return leaf(property, "rich_text", "contains", query)
}

// TextEquals matches a rich text property equal to value.
func TextEquals(property, value string) Filter {
	return leaf(property, "rich_text", "equals", value)
}

// SelectEquals matches a select property with the given option name.
func SelectEquals(property, name string) Filter {
	return leaf(property, "select", "equals", name)
}

// StatusEquals matches a status property with the given option name.
func StatusEquals(property, name string) Filter {
	return leaf(property, "status", "equals", name)
}

// CheckboxEquals matches a checkbox property.
func CheckboxEquals(property string, checked bool) Filter {
	return leaf(property, "checkbox", "equals", checked)
}

// NumberCondition builds a number predicate; condition is one of the
// Notion number conditions (equals, greater_than, less_than, ...).
func NumberCondition(property, condition string, value float64) Filter {
	return leaf(property, "number", condition, value)
}

// DateCondition builds a date predicate; condition is one of the Notion
// date conditions (before, after, equals, on_or_before, ...). value is
// an ISO-8601 date string.
func DateCondition(property, condition, value string) Filter {
	return leaf(property, "date", condition, value)
}

// DateIsEmpty matches a date property with no value. empty selects
// between is_empty and is_not_empty.
func DateIsEmpty(property string, empty bool) Filter {
	cond := "is_empty"
	if !empty {
		cond = "is_not_empty"
	}
	return leaf(property, "date", cond, true)
}

// IsZero reports whether the filter holds no expression at all. A zero
// Filter means "no filter" and must not be serialized.
func (f Filter) IsZero() bool {
	return len(f.and) == 0 && len(f.or) == 0 && f.typeKey == ""
}

// MarshalJSON serializes the tree to the Notion query filter form.
func (f Filter) MarshalJSON() ([]byte, error) {
	switch {
	case len(f.and) > 0:
		return json.Marshal(map[string]any{"and": f.and})
	case len(f.or) > 0:
		return json.Marshal(map[string]any{"or": f.or})
	case f.typeKey != "":
		obj := map[string]any{f.typeKey: map[string]any{f.condition: f.value}}
		if f.property != "" {
			obj["property"] = f.property
		}
		return json.Marshal(obj)
	default:
		return nil, &ValidationError{Field: "filter", Reason: "empty filter expression"}
	}
}

// SortDirection orders query results.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// Sort is one sort key for a database query. When several sorts are
// supplied the first is the primary key.
type Sort struct {
	Property  string        `json:"property"`
	Direction SortDirection `json:"direction"`
}

// NewSort builds a sort spec, defaulting the direction to ascending.
func NewSort(property string, direction SortDirection) (Sort, error) {
	if property == "" {
		return Sort{}, &ValidationError{Field: "sorts", Reason: "sort property cannot be empty"}
	}
	if direction == "" {
		direction = Ascending
	}
	if direction != Ascending && direction != Descending {
		return Sort{}, &ValidationError{Field: "sorts", Reason: fmt.Sprintf("direction must be %q or %q", Ascending, Descending)}
	}
	return Sort{Property: property, Direction: direction}, nil
}

var filterTypeKeys = map[string]bool{
	"title":     true,
	"rich_text": true,
	"select":    true,
	"status":    true,
	"checkbox":  true,
	"number":    true,
	"date":      true,
}

// Condition builds a leaf predicate from caller-supplied parts, for
// filters arriving over the tool boundary rather than built in code.
func Condition(property, typeKey, condition string, value any) (Filter, error) {
	if !filterTypeKeys[typeKey] {
		return Filter{}, &ValidationError{Field: "filter", Reason: fmt.Sprintf("unknown filter type %q", typeKey)}
	}
	if condition == "" {
		return Filter{}, &ValidationError{Field: "filter", Reason: "condition cannot be empty"}
	}
	if property == "" && typeKey != "title" {
		return Filter{}, &ValidationError{Field: "filter", Reason: "property is required for " + typeKey + " filters"}
	}
	return leaf(property, typeKey, condition, value), nil
}

// SearchFilter builds the filter used for content search: a property
// contains filter when a property is named, otherwise a title full-text
// filter.
func SearchFilter(query, property string) Filter {
	if property != "" {
		return TextContains(property, query)
	}
	return TitleContains(query)
}
