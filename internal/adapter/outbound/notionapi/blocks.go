package notionapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// appendBatchSize is the most children the API accepts per append call.
const appendBatchSize = 100

// GetBlock retrieves a single block.
func (c *Client) GetBlock(ctx context.Context, id domain.ID) (*domain.BlockObject, error) {
	raw, err := c.get(ctx, "/blocks/"+id.Hyphenated(), nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeBlock(raw)
}

// AppendChildren appends blocks under a parent block or page, splitting
// into batches of at most 100 and threading the after cursor so order is
// preserved across batches. after positions the first batch; it may be
// empty to append at the end. All blocks are validated before the first
// request goes out.
func (c *Client) AppendChildren(ctx context.Context, parent domain.ID, blocks []domain.Block, after domain.ID) ([]*domain.BlockObject, error) {
	if len(blocks) == 0 {
		return nil, &domain.ValidationError{Field: "children", Reason: "must not be empty"}
	}
	if err := domain.ValidateBlocks(blocks); err != nil {
		return nil, err
	}

	path := "/blocks/" + parent.Hyphenated() + "/children"
	var appended []*domain.BlockObject
	cursor := after
	for start := 0; start < len(blocks); start += appendBatchSize {
		end := min(start+appendBatchSize, len(blocks))
		body := map[string]any{"children": blocks[start:end]}
		if cursor != "" {
			body["after"] = cursor.Hyphenated()
		}
		raw, err := c.patch(ctx, path, body)
		if err != nil {
			return appended, err
		}
		page, err := decodeListPage(raw, func(item json.RawMessage) (*domain.BlockObject, error) {
			return domain.DecodeBlock(item)
		})
		if err != nil {
			return appended, err
		}
		appended = append(appended, page.Results...)
		if n := len(page.Results); n > 0 {
			cursor = page.Results[n-1].ID
		}
	}
	return appended, nil
}

// Children fetches one page of a block's direct children.
func (c *Client) Children(ctx context.Context, parent domain.ID, cursor string, pageSize int) (Page[*domain.BlockObject], error) {
	q := url.Values{"page_size": []string{strconv.Itoa(clampPageSize(pageSize))}}
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}
	raw, err := c.get(ctx, "/blocks/"+parent.Hyphenated()+"/children", q)
	if err != nil {
		return Page[*domain.BlockObject]{}, err
	}
	return decodeListPage(raw, func(item json.RawMessage) (*domain.BlockObject, error) {
		return domain.DecodeBlock(item)
	})
}

// AllChildren drains the full child listing of a block or page.
func (c *Client) AllChildren(ctx context.Context, parent domain.ID) ([]*domain.BlockObject, error) {
	fetch := func(ctx context.Context, cursor string, pageSize int) (Page[*domain.BlockObject], error) {
		return c.Children(ctx, parent, cursor, pageSize)
	}
	return CollectAll(ctx, fetch, 0)
}

// UpdateBlock replaces a block's content in place. The block type cannot
// change; the replacement must carry the same type as the target.
func (c *Client) UpdateBlock(ctx context.Context, id domain.ID, block domain.Block) (*domain.BlockObject, error) {
	if err := block.Validate(); err != nil {
		return nil, err
	}
	wire, err := json.Marshal(block)
	if err != nil {
		return nil, err
	}
	// Strip the envelope fields; the update endpoint takes only the
	// type-keyed content.
	var full map[string]json.RawMessage
	if err := json.Unmarshal(wire, &full); err != nil {
		return nil, err
	}
	body := map[string]json.RawMessage{string(block.Type): full[string(block.Type)]}
	raw, err := c.patch(ctx, "/blocks/"+id.Hyphenated(), body)
	if err != nil {
		return nil, err
	}
	return domain.DecodeBlock(raw)
}

// DeleteBlock moves a block to the trash.
func (c *Client) DeleteBlock(ctx context.Context, id domain.ID) (*domain.BlockObject, error) {
	raw, err := c.delete(ctx, "/blocks/"+id.Hyphenated())
	if err != nil {
		return nil, err
	}
	return domain.DecodeBlock(raw)
}
