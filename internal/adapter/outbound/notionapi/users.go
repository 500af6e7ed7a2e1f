package notionapi

import (
	"context"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// Me returns the bot user behind the integration token. A successful
// call proves the token works and the API is reachable.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	raw, err := c.get(ctx, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	return domain.DecodeUser(raw)
}
