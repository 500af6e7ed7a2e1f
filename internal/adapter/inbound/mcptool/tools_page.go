package mcptool

import (
	"context"
	"fmt"

	"github.com/nonsignal007/notion-mcp/internal/adapter/outbound/notionapi"
	"github.com/nonsignal007/notion-mcp/internal/domain"
)

func (s *Server) pageSpecs() []toolSpec {
	propertiesDef := map[string]any{
		"type":        "object",
		"description": "Property values keyed by property name. Value shape follows the column type: string for title, rich_text, select, status, url, and date; number for number; boolean for checkbox; array of strings for multi_select.",
	}

	return []toolSpec{
		{
			name:        "create_page",
			description: "Create a page under a parent page or in a database. Database properties are checked against the database schema before anything is sent.",
			schema: objectSchema(map[string]any{
				"parent_page_id":     strProp("Parent page. Mutually exclusive with parent_database_id."),
				"parent_database_id": strProp("Parent database. Mutually exclusive with parent_page_id."),
				"title":              strProp("Page title. Required for a page parent; for a database parent it fills the title column."),
				"properties":         propertiesDef,
				"markdown":           strProp("Optional markdown body appended as content blocks."),
			}, nil),
			handle: s.handleCreatePage,
		},
		{
			name:        "get_page",
			description: "Retrieve a page with its property values.",
			schema: objectSchema(map[string]any{
				"page_id": strProp("Page to fetch."),
			}, []string{"page_id"}),
			handle: s.handleGetPage,
		},
		{
			name:        "update_page",
			description: "Update a page's property values. Values are coerced against the parent database schema.",
			schema: objectSchema(map[string]any{
				"page_id":    strProp("Page to update."),
				"properties": propertiesDef,
			}, []string{"page_id", "properties"}),
			handle: s.handleUpdatePage,
		},
		{
			name:        "archive_page",
			description: "Move a page to the trash.",
			schema: objectSchema(map[string]any{
				"page_id": strProp("Page to archive."),
			}, []string{"page_id"}),
			handle: s.handleArchivePage,
		},
		{
			name:        "restore_page",
			description: "Restore an archived page.",
			schema: objectSchema(map[string]any{
				"page_id": strProp("Page to restore."),
			}, []string{"page_id"}),
			handle: s.handleRestorePage,
		},
		{
			name:        "get_page_property",
			description: "Read one property of a page by property id, draining pagination for long values.",
			schema: objectSchema(map[string]any{
				"page_id":     strProp("Page that owns the property."),
				"property_id": strProp("Property id from the page's property metadata."),
				"page_size":   intProp("Items per request, at most 100."),
			}, []string{"page_id", "property_id"}),
			handle: s.handleGetPageProperty,
		},
		{
			name:        "search",
			description: "Search pages and databases shared with the integration.",
			schema: objectSchema(map[string]any{
				"query":        strProp("Full-text query. Empty lists everything."),
				"object":       enumProp("Restrict results to one object type.", "page", "database"),
				"sort_latest":  boolProp("Order by last edited time, newest first."),
				"page_size":    intProp("Results per page, at most 100."),
				"start_cursor": strProp("Cursor from a previous call."),
			}, nil),
			handle: s.handleSearch,
		},
	}
}

// valueForKind coerces a JSON argument value to a property value of the
// column's kind.
func valueForKind(name string, kind domain.PropertyKind, value any) (domain.PropertyValue, error) {
	wrongType := func(want string) error {
		return &domain.ValidationError{Field: name, Reason: fmt.Sprintf("%s column expects a %s value", kind, want)}
	}
	switch kind {
	case domain.KindTitle:
		s, ok := value.(string)
		if !ok {
			return domain.PropertyValue{}, wrongType("string")
		}
		return domain.TitleValue(s), nil
	case domain.KindRichText:
		s, ok := value.(string)
		if !ok {
			return domain.PropertyValue{}, wrongType("string")
		}
		return domain.RichTextValue(s), nil
	case domain.KindSelect:
		s, ok := value.(string)
		if !ok {
			return domain.PropertyValue{}, wrongType("string")
		}
		return domain.SelectValue(s), nil
	case domain.KindStatus:
		s, ok := value.(string)
		if !ok {
			return domain.PropertyValue{}, wrongType("string")
		}
		return domain.StatusValue(s), nil
	case domain.KindMultiSelect:
		raw, ok := value.([]any)
		if !ok {
			return domain.PropertyValue{}, wrongType("string array")
		}
		names := make([]string, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				return domain.PropertyValue{}, wrongType("string array")
			}
			names = append(names, s)
		}
		return domain.MultiSelectValue(names...), nil
	case domain.KindNumber:
		n, ok := value.(float64)
		if !ok {
			return domain.PropertyValue{}, wrongType("number")
		}
		return domain.NumberValue(n), nil
	case domain.KindCheckbox:
		b, ok := value.(bool)
		if !ok {
			return domain.PropertyValue{}, wrongType("boolean")
		}
		return domain.CheckboxValue(b), nil
	case domain.KindURL:
		s, ok := value.(string)
		if !ok {
			return domain.PropertyValue{}, wrongType("string")
		}
		return domain.URLValue(s), nil
	case domain.KindDate:
		s, ok := value.(string)
		if !ok {
			return domain.PropertyValue{}, wrongType("string")
		}
		d, err := domain.ParseDateValue(s)
		if err != nil {
			return domain.PropertyValue{}, &domain.ValidationError{Field: name, Reason: err.Error()}
		}
		return domain.DateValueOf(d), nil
	default:
		return domain.PropertyValue{}, &domain.ValidationError{Field: name, Reason: fmt.Sprintf("%s columns cannot be written through this tool", kind)}
	}
}

// propertiesForSchema coerces the raw argument map against a database
// schema.
func propertiesForSchema(raw map[string]any, schema domain.DatabaseSchema) (domain.Properties, error) {
	props := domain.Properties{}
	for name, value := range raw {
		desc, ok := schema[name]
		if !ok {
			return nil, &domain.ValidationError{Field: name, Reason: "property does not exist in the database schema"}
		}
		v, err := valueForKind(name, desc.Type, value)
		if err != nil {
			return nil, err
		}
		props[name] = v
	}
	return props, nil
}

func (s *Server) handleCreatePage(ctx context.Context, args map[string]any) (any, error) {
	pageParent := argString(args, "parent_page_id")
	dbParent := argString(args, "parent_database_id")
	title := argString(args, "title")
	rawProps, _ := args["properties"].(map[string]any)

	var req notionapi.CreatePageRequest
	switch {
	case pageParent != "" && dbParent != "":
		return nil, &domain.ValidationError{Field: "parent", Reason: "parent_page_id and parent_database_id are mutually exclusive"}
	case pageParent != "":
		id, err := domain.ParseID(pageParent)
		if err != nil {
			return nil, err
		}
		if title == "" {
			return nil, &domain.ValidationError{Field: "title", Reason: "required for a page parent"}
		}
		req = notionapi.CreatePageRequest{
			Parent:     notionapi.ParentRef{PageID: id},
			Properties: domain.Properties{"title": domain.TitleValue(title)},
		}
	case dbParent != "":
		id, err := domain.ParseID(dbParent)
		if err != nil {
			return nil, err
		}
		db, err := s.api.GetDatabase(ctx, id)
		if err != nil {
			return nil, err
		}
		props, err := propertiesForSchema(rawProps, db.Properties)
		if err != nil {
			return nil, err
		}
		if title != "" {
			for name, desc := range db.Properties {
				if desc.Type == domain.KindTitle {
					props[name] = domain.TitleValue(title)
					break
				}
			}
		}
		req = notionapi.CreatePageRequest{
			Parent:     notionapi.ParentRef{DatabaseID: id},
			Properties: props,
		}
	default:
		return nil, &domain.ValidationError{Field: "parent", Reason: "either parent_page_id or parent_database_id is required"}
	}

	if md := argString(args, "markdown"); md != "" {
		blocks, err := domain.ParseMarkdown(md)
		if err != nil {
			return nil, err
		}
		req.Children = blocks
	}

	page, err := s.api.CreatePage(ctx, req)
	if err != nil {
		return nil, err
	}
	return pageSummary(page), nil
}

func (s *Server) handleGetPage(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "page_id")
	if err != nil {
		return nil, err
	}
	page, err := s.api.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	return pageSummary(page), nil
}

func (s *Server) handleUpdatePage(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "page_id")
	if err != nil {
		return nil, err
	}
	rawProps, _ := args["properties"].(map[string]any)
	if len(rawProps) == 0 {
		return nil, &domain.ValidationError{Field: "properties", Reason: "must not be empty"}
	}

	page, err := s.api.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.Parent.DatabaseID == "" {
		return nil, &domain.ValidationError{Field: "page_id", Reason: "page is not in a database; only database pages have updatable properties"}
	}
	db, err := s.api.GetDatabase(ctx, page.Parent.DatabaseID)
	if err != nil {
		return nil, err
	}
	props, err := propertiesForSchema(rawProps, db.Properties)
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdatePage(ctx, id, props, nil)
	if err != nil {
		return nil, err
	}
	return pageSummary(updated), nil
}

func (s *Server) handleArchivePage(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "page_id")
	if err != nil {
		return nil, err
	}
	page, err := s.api.ArchivePage(ctx, id)
	if err != nil {
		return nil, err
	}
	return pageSummary(page), nil
}

func (s *Server) handleRestorePage(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "page_id")
	if err != nil {
		return nil, err
	}
	page, err := s.api.RestorePage(ctx, id)
	if err != nil {
		return nil, err
	}
	return pageSummary(page), nil
}

func (s *Server) handleGetPageProperty(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "page_id")
	if err != nil {
		return nil, err
	}
	items, err := s.api.GetPropertyItem(ctx, id, argString(args, "property_id"), argInt(args, "page_size"))
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, propertySummary(item))
	}
	return map[string]any{"values": values, "count": len(values)}, nil
}

func (s *Server) handleSearch(ctx context.Context, args map[string]any) (any, error) {
	page, err := s.api.Search(ctx, notionapi.SearchRequest{
		Query:       argString(args, "query"),
		Object:      argString(args, "object"),
		SortLatest:  argBool(args, "sort_latest"),
		StartCursor: argString(args, "start_cursor"),
		PageSize:    argInt(args, "page_size"),
	})
	if err != nil {
		return nil, err
	}
	results := make([]map[string]any, 0, len(page.Results))
	for _, r := range page.Results {
		results = append(results, searchResultSummary(r))
	}
	return map[string]any{
		"results":     results,
		"count":       len(results),
		"has_more":    page.HasMore,
		"next_cursor": page.NextCursor,
	}, nil
}
