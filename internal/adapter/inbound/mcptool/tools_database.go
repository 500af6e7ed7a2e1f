package mcptool

import (
	"context"

	"github.com/nonsignal007/notion-mcp/internal/adapter/outbound/notionapi"
	"github.com/nonsignal007/notion-mcp/internal/domain"
)

func (s *Server) databaseSpecs() []toolSpec {
	propertyDef := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": enumProp("Property type.",
				"title", "rich_text", "select", "multi_select", "date", "number", "checkbox", "url"),
			"options": strArrayProp("Option names for select and multi_select properties."),
		},
		"required":             []string{"type"},
		"additionalProperties": false,
	}
	filterDef := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"property":  strProp("Property name; may be omitted for title filters."),
			"type":      enumProp("Value type of the property.", "title", "rich_text", "select", "status", "checkbox", "number", "date"),
			"condition": strProp("Condition, e.g. equals, contains, before, greater_than."),
			"value":     map[string]any{"description": "Value to compare against."},
		},
		"required":             []string{"type", "condition"},
		"additionalProperties": false,
	}
	sortDef := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"property":  strProp("Property to sort by."),
			"direction": enumProp("Sort direction.", "ascending", "descending"),
		},
		"required":             []string{"property"},
		"additionalProperties": false,
	}

	return []toolSpec{
		{
			name:        "create_database",
			description: "Create a database under a parent page. A title property named Name is added when the schema has none.",
			schema: objectSchema(map[string]any{
				"parent_page_id": strProp("Page that will contain the database."),
				"title":          strProp("Database title."),
				"properties": map[string]any{
					"type":                 "object",
					"description":          "Property schema, keyed by property name.",
					"additionalProperties": propertyDef,
				},
			}, []string{"parent_page_id", "title"}),
			handle: s.handleCreateDatabase,
		},
		{
			name:        "get_database_info",
			description: "Retrieve a database's title and property schema.",
			schema: objectSchema(map[string]any{
				"database_id": strProp("Database to inspect."),
			}, []string{"database_id"}),
			handle: s.handleGetDatabaseInfo,
		},
		{
			name:        "list_databases",
			description: "List every database shared with the integration.",
			schema:      objectSchema(nil, nil),
			handle:      s.handleListDatabases,
		},
		{
			name:        "query_database",
			description: "Query database rows with optional filters (combined with AND), sorts, and pagination.",
			schema: objectSchema(map[string]any{
				"database_id":  strProp("Database to query."),
				"filters":      map[string]any{"type": "array", "description": "Filter conditions, all of which must match.", "items": filterDef},
				"sorts":        map[string]any{"type": "array", "description": "Sort keys, first is primary.", "items": sortDef},
				"page_size":    intProp("Rows per page, at most 100."),
				"start_cursor": strProp("Cursor from a previous call."),
			}, []string{"database_id"}),
			handle: s.handleQueryDatabase,
		},
		{
			name:        "update_database",
			description: "Update a database's title or archived state.",
			schema: objectSchema(map[string]any{
				"database_id": strProp("Database to update."),
				"title":       strProp("New title."),
				"archived":    boolProp("Archive or restore the database."),
			}, []string{"database_id"}),
			handle: s.handleUpdateDatabase,
		},
	}
}

// schemaFromArgs converts the tool-facing property map into a schema,
// supplying a default title property when the caller gave none.
func schemaFromArgs(raw map[string]any) (domain.Schema, error) {
	schema := domain.Schema{}
	for name, defRaw := range raw {
		def, ok := defRaw.(map[string]any)
		if !ok {
			return nil, &domain.ValidationError{Field: name, Reason: "property definition must be an object"}
		}
		kind := domain.PropertyKind(argString(def, "type"))
		options := argStrings(def, "options")
		switch kind {
		case domain.KindTitle:
			schema[name] = domain.TitleDef()
		case domain.KindRichText:
			schema[name] = domain.RichTextDef()
		case domain.KindSelect:
			schema[name] = domain.SelectDef(options...)
		case domain.KindMultiSelect:
			schema[name] = domain.MultiSelectDef(options...)
		case domain.KindDate:
			schema[name] = domain.DateDef()
		case domain.KindNumber:
			schema[name] = domain.NumberDef("")
		case domain.KindCheckbox:
			schema[name] = domain.CheckboxDef()
		case domain.KindURL:
			schema[name] = domain.PropertyDef{Kind: domain.KindURL}
		default:
			return nil, &domain.ValidationError{Field: name, Reason: "unsupported property type " + string(kind)}
		}
	}
	hasTitle := false
	for _, def := range schema {
		if def.Kind == domain.KindTitle {
			hasTitle = true
			break
		}
	}
	if !hasTitle {
		schema["Name"] = domain.TitleDef()
	}
	return schema, nil
}

func (s *Server) handleCreateDatabase(ctx context.Context, args map[string]any) (any, error) {
	parentID, err := argID(args, "parent_page_id")
	if err != nil {
		return nil, err
	}
	rawProps, _ := args["properties"].(map[string]any)
	schema, err := schemaFromArgs(rawProps)
	if err != nil {
		return nil, err
	}
	db, err := s.api.CreateDatabase(ctx, notionapi.CreateDatabaseRequest{
		ParentPageID: parentID,
		Title:        argString(args, "title"),
		Schema:       schema,
	})
	if err != nil {
		return nil, err
	}
	return databaseSummary(db), nil
}

func (s *Server) handleGetDatabaseInfo(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "database_id")
	if err != nil {
		return nil, err
	}
	db, err := s.api.GetDatabase(ctx, id)
	if err != nil {
		return nil, err
	}
	return databaseSummary(db), nil
}

func (s *Server) handleListDatabases(ctx context.Context, _ map[string]any) (any, error) {
	dbs, err := s.api.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(dbs))
	for _, db := range dbs {
		out = append(out, databaseSummary(db))
	}
	return map[string]any{"databases": out, "count": len(out)}, nil
}

// filterFromArgs builds one AND filter from the tool's condition list.
func filterFromArgs(raw []any) (domain.Filter, error) {
	parts := make([]domain.Filter, 0, len(raw))
	for _, item := range raw {
		cond, ok := item.(map[string]any)
		if !ok {
			return domain.Filter{}, &domain.ValidationError{Field: "filters", Reason: "each filter must be an object"}
		}
		f, err := domain.Condition(
			argString(cond, "property"),
			argString(cond, "type"),
			argString(cond, "condition"),
			cond["value"],
		)
		if err != nil {
			return domain.Filter{}, err
		}
		parts = append(parts, f)
	}
	switch len(parts) {
	case 0:
		return domain.Filter{}, nil
	case 1:
		return parts[0], nil
	default:
		return domain.And(parts...), nil
	}
}

func sortsFromArgs(raw []any) ([]domain.Sort, error) {
	sorts := make([]domain.Sort, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &domain.ValidationError{Field: "sorts", Reason: "each sort must be an object"}
		}
		sort, err := domain.NewSort(argString(m, "property"), domain.SortDirection(argString(m, "direction")))
		if err != nil {
			return nil, err
		}
		sorts = append(sorts, sort)
	}
	return sorts, nil
}

func (s *Server) handleQueryDatabase(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "database_id")
	if err != nil {
		return nil, err
	}
	rawFilters, _ := args["filters"].([]any)
	filter, err := filterFromArgs(rawFilters)
	if err != nil {
		return nil, err
	}
	rawSorts, _ := args["sorts"].([]any)
	sorts, err := sortsFromArgs(rawSorts)
	if err != nil {
		return nil, err
	}
	page, err := s.api.QueryDatabase(ctx, id, notionapi.Query{
		Filter:      filter,
		Sorts:       sorts,
		StartCursor: argString(args, "start_cursor"),
		PageSize:    argInt(args, "page_size"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"pages":       pageList(page.Results),
		"count":       len(page.Results),
		"has_more":    page.HasMore,
		"next_cursor": page.NextCursor,
	}, nil
}

func (s *Server) handleUpdateDatabase(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "database_id")
	if err != nil {
		return nil, err
	}
	db, err := s.api.UpdateDatabase(ctx, id, notionapi.UpdateDatabaseRequest{
		Title:    optionalString(args, "title"),
		Archived: optionalBool(args, "archived"),
	})
	if err != nil {
		return nil, err
	}
	return databaseSummary(db), nil
}
