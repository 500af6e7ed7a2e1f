package mcptool

import (
	"time"

	"github.com/nonsignal007/notion-mcp/internal/adapter/outbound/notionapi"
	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// Result shaping. Tool output is a compact summary of the Notion object,
// not the raw API payload.

func pageSummary(p *domain.Page) map[string]any {
	out := map[string]any{
		"object":           "page",
		"id":               p.ID.String(),
		"title":            domain.PlainTitle(p.Properties),
		"archived":         p.Archived,
		"url":              p.URL,
		"created_time":     p.CreatedTime.Format(time.RFC3339),
		"last_edited_time": p.LastEditedTime.Format(time.RFC3339),
	}
	props := map[string]any{}
	for name, item := range p.Properties {
		props[name] = propertySummary(item)
	}
	out["properties"] = props
	return out
}

func propertySummary(item domain.PropertyItem) any {
	v := item.Value
	switch item.Kind {
	case domain.KindTitle:
		return domain.PlainText(v.Title)
	case domain.KindRichText:
		return domain.PlainText(v.RichText)
	case domain.KindSelect:
		return v.Select
	case domain.KindStatus:
		return v.Status
	case domain.KindMultiSelect:
		return v.MultiSelect
	case domain.KindNumber:
		if v.Number != nil {
			return *v.Number
		}
	case domain.KindCheckbox:
		if v.Checkbox != nil {
			return *v.Checkbox
		}
	case domain.KindURL:
		return v.URL
	case domain.KindDate:
		if v.Date != nil {
			if v.Date.DateOnly {
				return v.Date.Start.Format("2006-01-02")
			}
			return v.Date.Start.Format(time.RFC3339)
		}
	}
	return nil
}

func databaseSummary(db *domain.Database) map[string]any {
	schema := map[string]any{}
	for name, desc := range db.Properties {
		schema[name] = string(desc.Type)
	}
	return map[string]any{
		"object":     "database",
		"id":         db.ID.String(),
		"title":      db.PlainTitle(),
		"archived":   db.Archived,
		"url":        db.URL,
		"properties": schema,
	}
}

func blockSummary(b *domain.BlockObject) map[string]any {
	return map[string]any{
		"object":       "block",
		"id":           b.ID.String(),
		"type":         b.Type,
		"has_children": b.HasChildren,
		"archived":     b.Archived,
	}
}

func pageList(pages []*domain.Page) []map[string]any {
	out := make([]map[string]any, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageSummary(p))
	}
	return out
}

func searchResultSummary(r notionapi.SearchResult) map[string]any {
	if r.Database != nil {
		return databaseSummary(r.Database)
	}
	return pageSummary(r.Page)
}
