package notionapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// CreateDatabaseRequest describes a new database under a parent page.
type CreateDatabaseRequest struct {
	ParentPageID domain.ID
	Title        string
	Schema       domain.Schema
}

// CreateDatabase creates a database. The schema is validated locally
// before anything is sent.
func (c *Client) CreateDatabase(ctx context.Context, req CreateDatabaseRequest) (*domain.Database, error) {
	if req.ParentPageID == "" {
		return nil, &domain.ValidationError{Field: "parent_page_id", Reason: "must not be empty"}
	}
	if req.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if err := req.Schema.Validate(); err != nil {
		return nil, err
	}
	body := map[string]any{
		"parent":     map[string]any{"type": "page_id", "page_id": req.ParentPageID.Hyphenated()},
		"title":      []domain.RichText{domain.Text(req.Title)},
		"properties": req.Schema,
	}
	raw, err := c.post(ctx, "/databases", body, false)
	if err != nil {
		return nil, err
	}
	return domain.DecodeDatabase(raw)
}

// GetDatabase retrieves a database, including its property schema.
func (c *Client) GetDatabase(ctx context.Context, id domain.ID) (*domain.Database, error) {
	raw, err := c.get(ctx, "/databases/"+id.Hyphenated(), nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeDatabase(raw)
}

// UpdateDatabaseRequest carries the mutable pieces of a database. Nil
// fields are left untouched.
type UpdateDatabaseRequest struct {
	Title    *string
	Schema   domain.Schema
	Archived *bool
}

// UpdateDatabase patches a database's title, schema, or archived flag.
// At least one field must be set.
func (c *Client) UpdateDatabase(ctx context.Context, id domain.ID, req UpdateDatabaseRequest) (*domain.Database, error) {
	body := map[string]any{}
	if req.Title != nil {
		body["title"] = []domain.RichText{domain.Text(*req.Title)}
	}
	if len(req.Schema) > 0 {
		for name, def := range req.Schema {
			if !def.Kind.Known() {
				return nil, &domain.ValidationError{Field: name, Reason: "unknown property type " + string(def.Kind)}
			}
		}
		body["properties"] = req.Schema
	}
	if req.Archived != nil {
		body["archived"] = *req.Archived
	}
	if len(body) == 0 {
		return nil, &domain.ValidationError{Field: "update", Reason: "nothing to change"}
	}
	raw, err := c.patch(ctx, "/databases/"+id.Hyphenated(), body)
	if err != nil {
		return nil, err
	}
	return domain.DecodeDatabase(raw)
}

// Query describes one database query. A zero Filter means no filter.
type Query struct {
	Filter      domain.Filter
	Sorts       []domain.Sort
	StartCursor string
	PageSize    int
}

func (q Query) body(cursor string, pageSize int) map[string]any {
	body := map[string]any{"page_size": pageSize}
	if !q.Filter.IsZero() {
		body["filter"] = q.Filter
	}
	if len(q.Sorts) > 0 {
		body["sorts"] = q.Sorts
	}
	if cursor != "" {
		body["start_cursor"] = cursor
	}
	return body
}

// QueryDatabase fetches one page of matching rows. POST with a cursor is
// a pure read, so it is retried like any idempotent call.
func (c *Client) QueryDatabase(ctx context.Context, id domain.ID, q Query) (Page[*domain.Page], error) {
	cursor := q.StartCursor
	size := clampPageSize(q.PageSize)
	raw, err := c.post(ctx, "/databases/"+id.Hyphenated()+"/query", q.body(cursor, size), true)
	if err != nil {
		return Page[*domain.Page]{}, err
	}
	return decodeListPage(raw, func(item json.RawMessage) (*domain.Page, error) {
		return domain.DecodePage(item)
	})
}

// QueryDatabaseAll walks the cursor chain and returns every matching row.
func (c *Client) QueryDatabaseAll(ctx context.Context, id domain.ID, q Query) ([]*domain.Page, error) {
	fetch := func(ctx context.Context, cursor string, pageSize int) (Page[*domain.Page], error) {
		qq := q
		qq.StartCursor = cursor
		qq.PageSize = pageSize
		return c.QueryDatabase(ctx, id, qq)
	}
	return CollectAll(ctx, fetch, q.PageSize)
}

// ListDatabases enumerates databases visible to the integration via the
// search endpoint.
func (c *Client) ListDatabases(ctx context.Context) ([]*domain.Database, error) {
	fetch := func(ctx context.Context, cursor string, pageSize int) (Page[*domain.Database], error) {
		body := map[string]any{
			"filter":    map[string]string{"property": "object", "value": "database"},
			"page_size": pageSize,
		}
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		raw, err := c.send(ctx, http.MethodPost, "/search", nil, body, true)
		if err != nil {
			return Page[*domain.Database]{}, err
		}
		return decodeListPage(raw, func(item json.RawMessage) (*domain.Database, error) {
			return domain.DecodeDatabase(item)
		})
	}
	return CollectAll(ctx, fetch, 0)
}
