package notionapi

import (
	"context"
	"encoding/json"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// SearchRequest drives the workspace search endpoint. Object narrows
// results to "page" or "database"; empty means both.
type SearchRequest struct {
	Query       string
	Object      string
	SortLatest  bool
	StartCursor string
	PageSize    int
}

// SearchResult is one hit, exactly one of Page or Database set.
type SearchResult struct {
	Page     *domain.Page
	Database *domain.Database
}

// Search queries workspace content shared with the integration.
func (c *Client) Search(ctx context.Context, req SearchRequest) (Page[SearchResult], error) {
	if req.Object != "" && req.Object != "page" && req.Object != "database" {
		return Page[SearchResult]{}, &domain.ValidationError{Field: "object", Reason: `must be "page" or "database"`}
	}
	body := map[string]any{"page_size": clampPageSize(req.PageSize)}
	if req.Query != "" {
		body["query"] = req.Query
	}
	if req.Object != "" {
		body["filter"] = map[string]string{"property": "object", "value": req.Object}
	}
	if req.SortLatest {
		body["sort"] = map[string]string{"timestamp": "last_edited_time", "direction": "descending"}
	}
	if req.StartCursor != "" {
		body["start_cursor"] = req.StartCursor
	}
	raw, err := c.post(ctx, "/search", body, true)
	if err != nil {
		return Page[SearchResult]{}, err
	}
	return decodeListPage(raw, func(item json.RawMessage) (SearchResult, error) {
		switch objectOf(item) {
		case "page":
			page, err := domain.DecodePage(item)
			return SearchResult{Page: page}, err
		case "database":
			db, err := domain.DecodeDatabase(item)
			return SearchResult{Database: db}, err
		default:
			return SearchResult{}, &domain.ValidationError{Field: "object", Reason: "unexpected object " + objectOf(item) + " in search results"}
		}
	})
}
