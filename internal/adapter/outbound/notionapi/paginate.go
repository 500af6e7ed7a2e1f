package notionapi

import (
	"context"
	"encoding/json"
	"iter"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

const maxPageSize = 100

// clampPageSize maps a requested page size onto what the API accepts:
// 100 when unset, never above 100.
func clampPageSize(n int) int {
	if n <= 0 || n > maxPageSize {
		return maxPageSize
	}
	return n
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Results    []T
	HasMore    bool
	NextCursor string
}

// FetchFunc retrieves one page starting at cursor. An empty cursor means
// the first page.
type FetchFunc[T any] func(ctx context.Context, cursor string, pageSize int) (Page[T], error)

// Paginate walks a cursor chain lazily. Iteration stops at the first
// error, at the last page, or when the consumer breaks out early.
func Paginate[T any](ctx context.Context, fetch FetchFunc[T], pageSize int) iter.Seq2[Page[T], error] {
	size := clampPageSize(pageSize)
	return func(yield func(Page[T], error) bool) {
		cursor := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(Page[T]{}, err)
				return
			}
			page, err := fetch(ctx, cursor, size)
			if err != nil {
				yield(Page[T]{}, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if !page.HasMore || page.NextCursor == "" {
				return
			}
			cursor = page.NextCursor
		}
	}
}

// CollectAll drains a cursor chain into one slice.
func CollectAll[T any](ctx context.Context, fetch FetchFunc[T], pageSize int) ([]T, error) {
	var all []T
	for page, err := range Paginate(ctx, fetch, pageSize) {
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
	}
	return all, nil
}

// objectOf peeks at the object discriminant of a response without a
// full decode.
func objectOf(raw json.RawMessage) string {
	var probe struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.Object
}

// decodeListPage converts a raw list response into a typed page using
// per-item decode.
func decodeListPage[T any](raw json.RawMessage, decode func(json.RawMessage) (T, error)) (Page[T], error) {
	list, err := domain.DecodeList(raw)
	if err != nil {
		return Page[T]{}, err
	}
	results := make([]T, 0, len(list.Results))
	for _, item := range list.Results {
		v, err := decode(item)
		if err != nil {
			return Page[T]{}, err
		}
		results = append(results, v)
	}
	return Page[T]{
		Results:    results,
		HasMore:    list.HasMore,
		NextCursor: list.NextCursor,
	}, nil
}
