package domain

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// PropertyKind enumerates the closed set of Notion property types this
// bridge understands. Unknown kinds fail validation at the boundary
// instead of passing through untyped.
type PropertyKind string

const (
	KindTitle       PropertyKind = "title"
	KindRichText    PropertyKind = "rich_text"
	KindSelect      PropertyKind = "select"
	KindMultiSelect PropertyKind = "multi_select"
	KindStatus      PropertyKind = "status"
	KindDate        PropertyKind = "date"
	KindNumber      PropertyKind = "number"
	KindCheckbox    PropertyKind = "checkbox"
	KindURL         PropertyKind = "url"
	KindFormula     PropertyKind = "formula"
	KindRelation    PropertyKind = "relation"
	KindPeople      PropertyKind = "people"
	KindRollup      PropertyKind = "rollup"
)

var knownKinds = map[PropertyKind]bool{
	KindTitle: true, KindRichText: true, KindSelect: true,
	KindMultiSelect: true, KindStatus: true, KindDate: true,
	KindNumber: true, KindCheckbox: true, KindURL: true,
	KindFormula: true, KindRelation: true, KindPeople: true,
	KindRollup: true,
}

// Known reports whether k is one of the recognized property kinds.
func (k PropertyKind) Known() bool { return knownKinds[k] }

// DateValue is a Notion date property value: a start date with an
// optional end for ranges. DateOnly controls whether the value is emitted
// as a bare date or a full timestamp.
type DateValue struct {
	Start    time.Time
	End      *time.Time
	DateOnly bool
}

func (d DateValue) format(t time.Time) string {
	if d.DateOnly {
		return t.Format("2006-01-02")
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	obj := map[string]any{"start": d.format(d.Start)}
	if d.End != nil {
		obj["end"] = d.format(*d.End)
	}
	return json.Marshal(obj)
}

// ParseDateValue accepts an ISO-8601 date or datetime and keeps the
// distinction, so a bare date is not promoted to midnight UTC.
func ParseDateValue(s string) (DateValue, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateValue{Start: t, DateOnly: true}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateValue{Start: t}, nil
	}
	return DateValue{}, &ValidationError{
		Field:  "date",
		Reason: fmt.Sprintf("%q is not an ISO-8601 date or datetime", s),
	}
}

// PropertyValue is a tagged union over the property kinds that can be
// written to a page. Exactly the field matching Kind is consulted; the
// rest are ignored.
type PropertyValue struct {
	Kind        PropertyKind
	Title       []RichText
	RichText    []RichText
	Select      string
	MultiSelect []string
	Status      string
	Date        *DateValue
	Number      *float64
	Checkbox    *bool
	URL         string
	Relation    []ID
}

// Constructors for the common value kinds.

func TitleValue(content string) PropertyValue {
	return PropertyValue{Kind: KindTitle, Title: []RichText{Text(content)}}
}

func RichTextValue(content string) PropertyValue {
	return PropertyValue{Kind: KindRichText, RichText: []RichText{Text(content)}}
}

func SelectValue(name string) PropertyValue {
	return PropertyValue{Kind: KindSelect, Select: name}
}

func MultiSelectValue(names ...string) PropertyValue {
	return PropertyValue{Kind: KindMultiSelect, MultiSelect: names}
}

func StatusValue(name string) PropertyValue {
	return PropertyValue{Kind: KindStatus, Status: name}
}

func DateValueOf(d DateValue) PropertyValue {
	return PropertyValue{Kind: KindDate, Date: &d}
}

func NumberValue(n float64) PropertyValue {
	return PropertyValue{Kind: KindNumber, Number: &n}
}

func CheckboxValue(b bool) PropertyValue {
	return PropertyValue{Kind: KindCheckbox, Checkbox: &b}
}

func URLValue(u string) PropertyValue {
	return PropertyValue{Kind: KindURL, URL: u}
}

// Validate checks the value against its declared kind. The name is used
// for error reporting only.
func (v PropertyValue) Validate(name string) error {
	if !v.Kind.Known() {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("unknown property kind %q", v.Kind)}
	}
	switch v.Kind {
	case KindTitle:
		if len(v.Title) == 0 {
			return &ValidationError{Field: name, Reason: "title requires at least one text segment"}
		}
		total := 0
		for _, rt := range v.Title {
			total += utf8.RuneCountInString(rt.Content)
		}
		if total > MaxTitleLength {
			return &ValidationError{Field: name, Reason: fmt.Sprintf("title exceeds maximum of %d characters", MaxTitleLength)}
		}
		return ValidateRichText(v.Title)
	case KindRichText:
		return ValidateRichText(v.RichText)
	case KindMultiSelect:
		for _, n := range v.MultiSelect {
			if n == "" {
				return &ValidationError{Field: name, Reason: "multi_select option name cannot be empty"}
			}
		}
	case KindURL:
		if v.URL != "" {
			if _, err := NormalizeURL(v.URL); err != nil {
				return &ValidationError{Field: name, Reason: err.Error()}
			}
		}
	case KindFormula, KindRollup:
		return &ValidationError{Field: name, Reason: fmt.Sprintf("%s properties are computed and cannot be written", v.Kind)}
	}
	return nil
}

// MarshalJSON emits the kind-keyed wire form, e.g. {"select":{"name":"High"}}.
// An empty select, status, or URL is emitted as null rather than an empty
// string: the API rejects "" leaf values, so absence clears the property.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, 1)
	switch v.Kind {
	case KindTitle:
		obj["title"] = v.Title
	case KindRichText:
		obj["rich_text"] = v.RichText
	case KindSelect:
		if v.Select == "" {
			obj["select"] = nil
		} else {
			obj["select"] = map[string]any{"name": v.Select}
		}
	case KindMultiSelect:
		opts := make([]map[string]any, 0, len(v.MultiSelect))
		for _, n := range v.MultiSelect {
			opts = append(opts, map[string]any{"name": n})
		}
		obj["multi_select"] = opts
	case KindStatus:
		if v.Status == "" {
			obj["status"] = nil
		} else {
			obj["status"] = map[string]any{"name": v.Status}
		}
	case KindDate:
		if v.Date == nil {
			obj["date"] = nil
		} else {
			obj["date"] = v.Date
		}
	case KindNumber:
		obj["number"] = v.Number
	case KindCheckbox:
		obj["checkbox"] = v.Checkbox
	case KindURL:
		if v.URL == "" {
			obj["url"] = nil
		} else {
			u, err := NormalizeURL(v.URL)
			if err != nil {
				return nil, err
			}
			obj["url"] = u
		}
	case KindRelation:
		refs := make([]map[string]any, 0, len(v.Relation))
		for _, id := range v.Relation {
			refs = append(refs, map[string]any{"id": id.String()})
		}
		obj["relation"] = refs
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown property kind %q", v.Kind)}
	}
	return json.Marshal(obj)
}

// Properties is an outbound page property map, keyed by property name.
type Properties map[string]PropertyValue

// Validate checks every value and guarantees no empty-string leaf
// survives to the wire.
func (p Properties) Validate() error {
	for name, v := range p {
		if name == "" {
			return &ValidationError{Field: "properties", Reason: "property name cannot be empty"}
		}
		if err := v.Validate(name); err != nil {
			return err
		}
	}
	return nil
}
