package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// UnmarshalJSON normalizes identifiers on decode so every ID held in
// memory is in the unhyphenated form.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*id = ""
		return nil
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Parent is a non-owning reference to the containing resource. Only the
// identifier is held; the parent object itself is resolved by a later
// fetch when needed.
type Parent struct {
	Type       string `json:"type"`
	PageID     ID     `json:"page_id,omitempty"`
	DatabaseID ID     `json:"database_id,omitempty"`
	BlockID    ID     `json:"block_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// User is a Notion user reference.
type User struct {
	Object string `json:"object"`
	ID     ID     `json:"id"`
	Type   string `json:"type,omitempty"`
	Name   string `json:"name,omitempty"`
}

// PropertyItem is one decoded property value on a fetched page. Writable
// kinds are coerced into Value; Raw always retains the kind-keyed payload
// as received, which is the only representation for computed kinds
// (formula, rollup, people).
type PropertyItem struct {
	ID    string
	Kind  PropertyKind
	Value PropertyValue
	Raw   json.RawMessage
}

// inbound rich text carries more fields than we emit; only the ones the
// domain model keeps are decoded.
type richTextWire struct {
	Type string `json:"type"`
	Text struct {
		Content string `json:"content"`
		Link    *struct {
			URL string `json:"url"`
		} `json:"link"`
	} `json:"text"`
	PlainText   string       `json:"plain_text"`
	Annotations *Annotations `json:"annotations"`
}

func decodeRichText(raw json.RawMessage) ([]RichText, error) {
	// Page properties carry an array; the property item endpoint streams
	// one segment per item.
	var wires []richTextWire
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		raw = trimmed
		var single richTextWire
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		wires = []richTextWire{single}
	} else if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, err
	}
	out := make([]RichText, 0, len(wires))
	for _, w := range wires {
		rt := RichText{Content: w.Text.Content}
		if rt.Content == "" {
			rt.Content = w.PlainText
		}
		if w.Text.Link != nil {
			rt.Link = w.Text.Link.URL
		}
		if w.Annotations != nil {
			rt.Annotations = *w.Annotations
		}
		out = append(out, rt)
	}
	return out, nil
}

// UnmarshalJSON decodes the kind-keyed wire form. An unrecognized type
// tag is a contract drift and fails with a ValidationError rather than
// passing through untyped.
func (p *PropertyItem) UnmarshalJSON(data []byte) error {
	var head struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	kind := PropertyKind(head.Type)
	if !kind.Known() {
		return &ValidationError{Field: head.ID, Reason: fmt.Sprintf("unrecognized property type %q in response", head.Type)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw := fields[head.Type]

	p.ID = head.ID
	p.Kind = kind
	p.Raw = raw
	p.Value = PropertyValue{Kind: kind}

	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var err error
	switch kind {
	case KindTitle:
		p.Value.Title, err = decodeRichText(raw)
	case KindRichText:
		p.Value.RichText, err = decodeRichText(raw)
	case KindSelect, KindStatus:
		var opt SelectOption
		if err = json.Unmarshal(raw, &opt); err == nil {
			if kind == KindSelect {
				p.Value.Select = opt.Name
			} else {
				p.Value.Status = opt.Name
			}
		}
	case KindMultiSelect:
		var opts []SelectOption
		if err = json.Unmarshal(raw, &opts); err == nil {
			for _, o := range opts {
				p.Value.MultiSelect = append(p.Value.MultiSelect, o.Name)
			}
		}
	case KindNumber:
		var n float64
		if err = json.Unmarshal(raw, &n); err == nil {
			p.Value.Number = &n
		}
	case KindCheckbox:
		var b bool
		if err = json.Unmarshal(raw, &b); err == nil {
			p.Value.Checkbox = &b
		}
	case KindURL:
		var u string
		if err = json.Unmarshal(raw, &u); err == nil {
			p.Value.URL = u
		}
	case KindDate:
		var dv struct {
			Start string `json:"start"`
			End   string `json:"end"`
		}
		if err = json.Unmarshal(raw, &dv); err == nil && dv.Start != "" {
			start, perr := parseNotionTime(dv.Start)
			if perr != nil {
				return perr
			}
			d := DateValue{Start: start, DateOnly: len(dv.Start) == len("2006-01-02")}
			if dv.End != "" {
				end, perr := parseNotionTime(dv.End)
				if perr != nil {
					return perr
				}
				d.End = &end
			}
			p.Value.Date = &d
		}
	}
	return err
}

func parseNotionTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("unparseable timestamp %q", s)}
}

// PlainTitle extracts the page title from a decoded property map.
func PlainTitle(props map[string]PropertyItem) string {
	for _, item := range props {
		if item.Kind == KindTitle {
			return PlainText(item.Value.Title)
		}
	}
	return ""
}

// Page is a fetched page object. It is a transient representation
// reconstructed on every fetch; nothing is persisted locally.
type Page struct {
	Object         string                  `json:"object"`
	ID             ID                      `json:"id"`
	CreatedTime    time.Time               `json:"created_time"`
	LastEditedTime time.Time               `json:"last_edited_time"`
	Archived       bool                    `json:"archived"`
	URL            string                  `json:"url"`
	Parent         Parent                  `json:"parent"`
	Properties     map[string]PropertyItem `json:"properties"`
}

// Database is a fetched database object.
type Database struct {
	Object         string          `json:"object"`
	ID             ID              `json:"id"`
	CreatedTime    time.Time       `json:"created_time"`
	LastEditedTime time.Time       `json:"last_edited_time"`
	Archived       bool            `json:"archived"`
	URL            string          `json:"url"`
	Parent         Parent          `json:"parent"`
	Title          json.RawMessage `json:"title"`
	Properties     DatabaseSchema  `json:"properties"`
}

// PlainTitle extracts the plain text of the database title.
func (d *Database) PlainTitle() string {
	rts, err := decodeRichText(d.Title)
	if err != nil {
		return ""
	}
	return PlainText(rts)
}

// BlockObject is a fetched block. Content holds the type-keyed payload
// as received; the bridge does not re-model every block kind on read.
type BlockObject struct {
	Object         string          `json:"object"`
	ID             ID              `json:"id"`
	Type           string          `json:"type"`
	CreatedTime    time.Time       `json:"created_time"`
	LastEditedTime time.Time       `json:"last_edited_time"`
	HasChildren    bool            `json:"has_children"`
	Archived       bool            `json:"archived"`
	Parent         Parent          `json:"parent"`
	Content        json.RawMessage `json:"-"`
}

func (b *BlockObject) UnmarshalJSON(data []byte) error {
	type alias BlockObject
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = BlockObject(a)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	b.Content = fields[b.Type]
	return nil
}

// List is the paginated response envelope shared by every listing
// endpoint: an ordered results sequence plus the continuation cursor.
type List struct {
	Object     string            `json:"object"`
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
	Type       string            `json:"type"`
}

// expectObject checks the response discriminant. A mismatch indicates
// API contract drift and is surfaced, not ignored.
func expectObject(data []byte, want string) error {
	var head struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return &ValidationError{Field: "object", Reason: fmt.Sprintf("response is not valid JSON: %v", err)}
	}
	if head.Object != want {
		return &ValidationError{Field: "object", Reason: fmt.Sprintf("expected object %q, got %q", want, head.Object)}
	}
	return nil
}

// DecodePage validates the object discriminant and decodes a page.
func DecodePage(data []byte) (*Page, error) {
	if err := expectObject(data, "page"); err != nil {
		return nil, err
	}
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeDatabase validates the object discriminant and decodes a
// database.
func DecodeDatabase(data []byte) (*Database, error) {
	if err := expectObject(data, "database"); err != nil {
		return nil, err
	}
	var d Database
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DecodeBlock validates the object discriminant and decodes a block.
func DecodeBlock(data []byte) (*BlockObject, error) {
	if err := expectObject(data, "block"); err != nil {
		return nil, err
	}
	var b BlockObject
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DecodeList validates the envelope discriminant and decodes a paginated
// list.
func DecodeList(data []byte) (*List, error) {
	if err := expectObject(data, "list"); err != nil {
		return nil, err
	}
	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DecodeUser validates the object discriminant and decodes a user.
func DecodeUser(data []byte) (*User, error) {
	if err := expectObject(data, "user"); err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
