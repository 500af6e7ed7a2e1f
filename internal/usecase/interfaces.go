package usecase

import (
	"context"

	"github.com/nonsignal007/notion-mcp/internal/adapter/outbound/notionapi"
	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// NotionClient is the outbound surface the use cases need. The concrete
// implementation is the notionapi adapter; tests substitute a mock.
type NotionClient interface {
	// Databases.
	CreateDatabase(ctx context.Context, req notionapi.CreateDatabaseRequest) (*domain.Database, error)
	GetDatabase(ctx context.Context, id domain.ID) (*domain.Database, error)
	QueryDatabase(ctx context.Context, id domain.ID, q notionapi.Query) (notionapi.Page[*domain.Page], error)
	QueryDatabaseAll(ctx context.Context, id domain.ID, q notionapi.Query) ([]*domain.Page, error)

	// Pages.
	CreatePage(ctx context.Context, req notionapi.CreatePageRequest) (*domain.Page, error)
	UpdatePage(ctx context.Context, id domain.ID, props domain.Properties, archived *bool) (*domain.Page, error)

	// Connection.
	Me(ctx context.Context) (*domain.User, error)
}
