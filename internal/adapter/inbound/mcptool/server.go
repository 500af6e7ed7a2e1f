// Package mcptool is the inbound adapter exposing Notion operations as
// MCP tools. Each tool carries a JSON schema; arguments are validated
// against it before any handler runs, and every failure is reported as a
// kind-tagged tool error rather than a protocol error.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/nonsignal007/notion-mcp/internal/adapter/outbound/notionapi"
	"github.com/nonsignal007/notion-mcp/internal/domain"
	"github.com/nonsignal007/notion-mcp/internal/usecase"
)

// NotionAPI is the outbound surface the tool handlers call. The
// notionapi.Client satisfies it.
type NotionAPI interface {
	CreateDatabase(ctx context.Context, req notionapi.CreateDatabaseRequest) (*domain.Database, error)
	GetDatabase(ctx context.Context, id domain.ID) (*domain.Database, error)
	UpdateDatabase(ctx context.Context, id domain.ID, req notionapi.UpdateDatabaseRequest) (*domain.Database, error)
	QueryDatabase(ctx context.Context, id domain.ID, q notionapi.Query) (notionapi.Page[*domain.Page], error)
	ListDatabases(ctx context.Context) ([]*domain.Database, error)

	CreatePage(ctx context.Context, req notionapi.CreatePageRequest) (*domain.Page, error)
	GetPage(ctx context.Context, id domain.ID) (*domain.Page, error)
	UpdatePage(ctx context.Context, id domain.ID, props domain.Properties, archived *bool) (*domain.Page, error)
	ArchivePage(ctx context.Context, id domain.ID) (*domain.Page, error)
	RestorePage(ctx context.Context, id domain.ID) (*domain.Page, error)
	GetPropertyItem(ctx context.Context, pageID domain.ID, propertyID string, pageSize int) ([]domain.PropertyItem, error)

	GetBlock(ctx context.Context, id domain.ID) (*domain.BlockObject, error)
	AppendChildren(ctx context.Context, parent domain.ID, blocks []domain.Block, after domain.ID) ([]*domain.BlockObject, error)
	Children(ctx context.Context, parent domain.ID, cursor string, pageSize int) (notionapi.Page[*domain.BlockObject], error)
	UpdateBlock(ctx context.Context, id domain.ID, block domain.Block) (*domain.BlockObject, error)
	DeleteBlock(ctx context.Context, id domain.ID) (*domain.BlockObject, error)

	Search(ctx context.Context, req notionapi.SearchRequest) (notionapi.Page[notionapi.SearchResult], error)
	Me(ctx context.Context) (*domain.User, error)
}

// toolSpec couples a tool's wire definition with its handler. The schema
// document serves both registration and argument validation.
type toolSpec struct {
	name        string
	description string
	schema      map[string]any
	handle      func(ctx context.Context, args map[string]any) (any, error)
}

// Server registers the Notion tool surface on an MCP server.
type Server struct {
	api    NotionAPI
	todos  *usecase.TodoUseCase
	logger *slog.Logger
}

// NewServer creates the tool server.
func NewServer(api NotionAPI, todos *usecase.TodoUseCase, logger *slog.Logger) *Server {
	return &Server{
		api:    api,
		todos:  todos,
		logger: logger.With("component", "mcptool"),
	}
}

// Register adds every tool to the MCP server.
func (s *Server) Register(srv *mcpserver.MCPServer) error {
	for _, spec := range s.specs() {
		raw, err := json.Marshal(spec.schema)
		if err != nil {
			return fmt.Errorf("tool %s: encode schema: %w", spec.name, err)
		}
		tool := mcp.NewToolWithRawSchema(spec.name, spec.description, raw)
		srv.AddTool(tool, s.wrap(spec))
		s.logger.Debug("Registered tool", slog.String("tool", spec.name))
	}
	return nil
}

func (s *Server) specs() []toolSpec {
	specs := []toolSpec{
		{
			name:        "verify_connection",
			description: "Check that the Notion API token works and report the integration's bot user.",
			schema:      objectSchema(nil, nil),
			handle:      s.handleVerifyConnection,
		},
	}
	specs = append(specs, s.databaseSpecs()...)
	specs = append(specs, s.pageSpecs()...)
	specs = append(specs, s.blockSpecs()...)
	specs = append(specs, s.todoSpecs()...)
	return specs
}

// wrap turns a spec into an mcp-go handler: validate, execute, serialize.
func (s *Server) wrap(spec toolSpec) mcpserver.ToolHandlerFunc {
	schemaLoader := gojsonschema.NewGoLoader(spec.schema)
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := s.logger.With(slog.String("tool", spec.name))
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(args))
		if err != nil {
			log.Error("Schema validation failed to run", slog.Any("error", err))
			return toolError(notionapi.KindClient, err.Error()), nil
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			log.Warn("Rejected tool arguments", slog.Any("errors", msgs))
			return toolError(notionapi.KindValidation, fmt.Sprintf("invalid arguments: %v", msgs)), nil
		}

		out, err := spec.handle(ctx, args)
		if err != nil {
			log.Warn("Tool failed", slog.String("kind", string(notionapi.KindOf(err))), slog.Any("error", err))
			return toolError(notionapi.KindOf(err), err.Error()), nil
		}

		payload, err := json.Marshal(out)
		if err != nil {
			log.Error("Failed to encode tool result", slog.Any("error", err))
			return toolError(notionapi.KindClient, "encode result: "+err.Error()), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

// toolError shapes a failure so callers can branch on the kind without
// parsing prose.
func toolError(kind notionapi.ErrorKind, message string) *mcp.CallToolResult {
	payload, err := json.Marshal(map[string]string{
		"kind":    string(kind),
		"message": message,
	})
	if err != nil {
		return mcp.NewToolResultError(message)
	}
	return mcp.NewToolResultError(string(payload))
}

func (s *Server) handleVerifyConnection(ctx context.Context, _ map[string]any) (any, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"connected": true,
		"user_id":   user.ID.String(),
		"user_name": user.Name,
		"user_type": user.Type,
	}, nil
}
