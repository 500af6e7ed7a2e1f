package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Text length limits enforced by the Notion API.
const (
	MaxTextLength  = 2000
	MaxTitleLength = 100
)

var validColors = map[string]bool{
	"default": true, "gray": true, "brown": true, "orange": true,
	"yellow": true, "green": true, "blue": true, "purple": true,
	"pink": true, "red": true,
}

// Annotations are the text styling flags Notion supports on a rich text
// segment. The zero value means unstyled.
type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

func (a Annotations) isZero() bool {
	return a == Annotations{}
}

// RichText is one segment of Notion rich text content. Link, when set,
// must be a well-formed http(s) URL; it is normalized to a canonical form
// before being sent.
type RichText struct {
	Content     string
	Link        string
	Annotations Annotations
}

// Text builds a plain rich text segment.
func Text(content string) RichText { return RichText{Content: content} }

// LinkText builds a rich text segment whose content links to url.
func LinkText(content, url string) RichText { return RichText{Content: content, Link: url} }

// Validate checks the segment against the shape the API accepts: content
// non-empty and within length limits, link well-formed, color recognized.
func (rt RichText) Validate() error {
	if strings.TrimSpace(rt.Content) == "" {
		return &ValidationError{Field: "rich_text", Reason: "content cannot be empty"}
	}
	if utf8.RuneCountInString(rt.Content) > MaxTextLength {
		return &ValidationError{Field: "rich_text", Reason: fmt.Sprintf("content exceeds maximum of %d characters", MaxTextLength)}
	}
	if rt.Link != "" {
		if _, err := NormalizeURL(rt.Link); err != nil {
			return err
		}
	}
	if c := rt.Annotations.Color; c != "" {
		base := strings.TrimSuffix(c, "_background")
		if !validColors[base] {
			return &ValidationError{Field: "rich_text.annotations.color", Reason: fmt.Sprintf("unknown color %q", c)}
		}
	}
	return nil
}

// MarshalJSON emits the Notion wire form:
//
//	{"type":"text","text":{"content":...,"link":{"url":...}},"annotations":{...}}
//
// The link URL is emitted in its normalized form.
func (rt RichText) MarshalJSON() ([]byte, error) {
	text := map[string]any{"content": rt.Content}
	if rt.Link != "" {
		u, err := NormalizeURL(rt.Link)
		if err != nil {
			return nil, err
		}
		text["link"] = map[string]any{"url": u}
	}
	obj := map[string]any{
		"type": "text",
		"text": text,
	}
	if !rt.Annotations.isZero() {
		obj["annotations"] = rt.Annotations
	}
	return json.Marshal(obj)
}

// ValidateRichText validates every segment of a rich text array.
func ValidateRichText(rts []RichText) error {
	for _, rt := range rts {
		if err := rt.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PlainText concatenates the content of the segments, separated by spaces.
func PlainText(rts []RichText) string {
	parts := make([]string, 0, len(rts))
	for _, rt := range rts {
		if rt.Content != "" {
			parts = append(parts, rt.Content)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeURL validates that raw is a well-formed absolute http(s) URL
// and returns its canonical form: the path loses any trailing slash so
// equivalent links compare equal.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", &ValidationError{Field: "link.url", Reason: fmt.Sprintf("malformed URL %q: %v", raw, err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &ValidationError{Field: "link.url", Reason: fmt.Sprintf("URL %q must be absolute http or https", raw)}
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}
