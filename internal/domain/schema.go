package domain

import (
	"encoding/json"
	"fmt"
)

// SelectOption is one allowed value of a select, multi-select, or status
// property.
type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// PropertyDef defines one column of a database schema for database
// creation or update.
type PropertyDef struct {
	Kind PropertyKind
	// Options applies to select, multi_select, and status kinds.
	Options []SelectOption
	// NumberFormat applies to number kinds ("number", "percent", ...).
	NumberFormat string
	// Expression applies to formula kinds.
	Expression string
}

// Schema is a named property schema for a database, keyed by property
// name.
type Schema map[string]PropertyDef

// Helpers for the common column kinds.

func TitleDef() PropertyDef    { return PropertyDef{Kind: KindTitle} }
func RichTextDef() PropertyDef { return PropertyDef{Kind: KindRichText} }
func DateDef() PropertyDef     { return PropertyDef{Kind: KindDate} }
func CheckboxDef() PropertyDef { return PropertyDef{Kind: KindCheckbox} }
func NumberDef(format string) PropertyDef {
	return PropertyDef{Kind: KindNumber, NumberFormat: format}
}
func SelectDef(options ...string) PropertyDef {
	return PropertyDef{Kind: KindSelect, Options: namedOptions(options)}
}
func MultiSelectDef(options ...string) PropertyDef {
	return PropertyDef{Kind: KindMultiSelect, Options: namedOptions(options)}
}

func namedOptions(names []string) []SelectOption {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectOption{Name: n})
	}
	return opts
}

// Validate checks that every kind is recognized, option names are
// non-empty, and the schema declares exactly one title property (a
// Notion requirement for database creation).
func (s Schema) Validate() error {
	titles := 0
	for name, def := range s {
		if name == "" {
			return &ValidationError{Field: "properties", Reason: "property name cannot be empty"}
		}
		if !def.Kind.Known() {
			return &ValidationError{Field: name, Reason: fmt.Sprintf("unknown property kind %q", def.Kind)}
		}
		if def.Kind == KindTitle {
			titles++
		}
		for _, opt := range def.Options {
			if opt.Name == "" {
				return &ValidationError{Field: name, Reason: "option name cannot be empty"}
			}
		}
	}
	if titles != 1 {
		return &ValidationError{Field: "properties", Reason: fmt.Sprintf("schema must declare exactly one title property, found %d", titles)}
	}
	return nil
}

// MarshalJSON emits the kind-keyed definition form Notion expects, e.g.
// {"select":{"options":[{"name":"High"}]}} or {"title":{}}.
func (d PropertyDef) MarshalJSON() ([]byte, error) {
	var body any
	switch d.Kind {
	case KindSelect, KindMultiSelect, KindStatus:
		opts := d.Options
		if opts == nil {
			opts = []SelectOption{}
		}
		body = map[string]any{"options": opts}
	case KindNumber:
		if d.NumberFormat != "" {
			body = map[string]any{"format": d.NumberFormat}
		} else {
			body = map[string]any{}
		}
	case KindFormula:
		body = map[string]any{"expression": d.Expression}
	default:
		body = map[string]any{}
	}
	return json.Marshal(map[string]any{string(d.Kind): body})
}

// PropertyDescriptor is a database column as reported by the API: its
// stable id, display name, and type tag.
type PropertyDescriptor struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type PropertyKind `json:"type"`
}

// DatabaseSchema is the property schema of an existing database, keyed
// by property name.
type DatabaseSchema map[string]PropertyDescriptor

// ValidateProperties checks an outbound property map against this
// schema: every supplied property must exist in the schema and carry a
// value of the column's kind.
func (s DatabaseSchema) ValidateProperties(props Properties) error {
	for name, v := range props {
		desc, ok := s[name]
		if !ok {
			return &ValidationError{Field: name, Reason: "property does not exist in the database schema"}
		}
		if v.Kind != desc.Type {
			return &ValidationError{Field: name, Reason: fmt.Sprintf("value kind %q does not match schema kind %q", v.Kind, desc.Type)}
		}
	}
	return nil
}
