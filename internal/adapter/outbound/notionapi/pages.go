package notionapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// ParentRef points a new page at its parent, exactly one of the two
// fields set.
type ParentRef struct {
	PageID     domain.ID
	DatabaseID domain.ID
}

func (p ParentRef) validate() error {
	switch {
	case p.PageID == "" && p.DatabaseID == "":
		return &domain.ValidationError{Field: "parent", Reason: "either page_id or database_id is required"}
	case p.PageID != "" && p.DatabaseID != "":
		return &domain.ValidationError{Field: "parent", Reason: "page_id and database_id are mutually exclusive"}
	}
	return nil
}

func (p ParentRef) wire() map[string]any {
	if p.DatabaseID != "" {
		return map[string]any{"type": "database_id", "database_id": p.DatabaseID.Hyphenated()}
	}
	return map[string]any{"type": "page_id", "page_id": p.PageID.Hyphenated()}
}

// CreatePageRequest describes a new page. Children are optional initial
// content blocks.
type CreatePageRequest struct {
	Parent     ParentRef
	Properties domain.Properties
	Children   []domain.Block
}

// CreatePage creates a page. When the parent is a database the
// properties are checked against that database's live schema first, so
// a typo in a property name fails locally instead of as an opaque 400.
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (*domain.Page, error) {
	if err := req.Parent.validate(); err != nil {
		return nil, err
	}
	if err := req.Properties.Validate(); err != nil {
		return nil, err
	}
	if len(req.Children) > 0 {
		if err := domain.ValidateBlocks(req.Children); err != nil {
			return nil, err
		}
	}
	if req.Parent.DatabaseID != "" {
		db, err := c.GetDatabase(ctx, req.Parent.DatabaseID)
		if err != nil {
			return nil, err
		}
		if err := db.Properties.ValidateProperties(req.Properties); err != nil {
			return nil, err
		}
	}
	body := map[string]any{
		"parent":     req.Parent.wire(),
		"properties": req.Properties,
	}
	if len(req.Children) > 0 {
		body["children"] = req.Children
	}
	raw, err := c.post(ctx, "/pages", body, false)
	if err != nil {
		return nil, err
	}
	return domain.DecodePage(raw)
}

// GetPage retrieves a page and its property values.
func (c *Client) GetPage(ctx context.Context, id domain.ID) (*domain.Page, error) {
	raw, err := c.get(ctx, "/pages/"+id.Hyphenated(), nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodePage(raw)
}

// UpdatePage patches a page's properties, archived state, or both.
func (c *Client) UpdatePage(ctx context.Context, id domain.ID, props domain.Properties, archived *bool) (*domain.Page, error) {
	if len(props) == 0 && archived == nil {
		return nil, &domain.ValidationError{Field: "update", Reason: "nothing to change"}
	}
	if err := props.Validate(); err != nil {
		return nil, err
	}
	body := map[string]any{}
	if len(props) > 0 {
		body["properties"] = props
	}
	if archived != nil {
		body["archived"] = *archived
	}
	raw, err := c.patch(ctx, "/pages/"+id.Hyphenated(), body)
	if err != nil {
		return nil, err
	}
	return domain.DecodePage(raw)
}

// ArchivePage moves a page to the trash.
func (c *Client) ArchivePage(ctx context.Context, id domain.ID) (*domain.Page, error) {
	archived := true
	return c.UpdatePage(ctx, id, nil, &archived)
}

// RestorePage brings an archived page back.
func (c *Client) RestorePage(ctx context.Context, id domain.ID) (*domain.Page, error) {
	archived := false
	return c.UpdatePage(ctx, id, nil, &archived)
}

// GetPropertyItem reads one property of a page by property ID. Paginated
// property values (long rich text, relations) are drained completely.
func (c *Client) GetPropertyItem(ctx context.Context, pageID domain.ID, propertyID string, pageSize int) ([]domain.PropertyItem, error) {
	if propertyID == "" {
		return nil, &domain.ValidationError{Field: "property_id", Reason: "must not be empty"}
	}
	path := "/pages/" + pageID.Hyphenated() + "/properties/" + url.PathEscape(propertyID)
	fetch := func(ctx context.Context, cursor string, size int) (Page[domain.PropertyItem], error) {
		q := url.Values{"page_size": []string{strconv.Itoa(size)}}
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		raw, err := c.get(ctx, path, q)
		if err != nil {
			return Page[domain.PropertyItem]{}, err
		}
		// A scalar property comes back as a single property_item, not a
		// list. Wrap it in a one-element page.
		if objectOf(raw) != "list" {
			var item domain.PropertyItem
			if err := item.UnmarshalJSON(raw); err != nil {
				return Page[domain.PropertyItem]{}, err
			}
			return Page[domain.PropertyItem]{Results: []domain.PropertyItem{item}}, nil
		}
		return decodeListPage(raw, func(data json.RawMessage) (domain.PropertyItem, error) {
			var item domain.PropertyItem
			err := item.UnmarshalJSON(data)
			return item, err
		})
	}
	return CollectAll(ctx, fetch, pageSize)
}
