package mcptool

import (
	"context"

	"github.com/nonsignal007/notion-mcp/internal/domain"
)

func (s *Server) blockSpecs() []toolSpec {
	blockDef := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": enumProp("Block type.",
				"paragraph", "heading_1", "heading_2", "heading_3",
				"bulleted_list_item", "numbered_list_item", "to_do", "quote", "code", "divider"),
			"content":  strProp("Text content. Ignored for divider blocks."),
			"checked":  boolProp("Checked state for to_do blocks."),
			"language": strProp("Language tag for code blocks."),
		},
		"required":             []string{"type"},
		"additionalProperties": false,
	}

	return []toolSpec{
		{
			name:        "add_content_blocks",
			description: "Append content blocks to a page or block. Large lists are split into API-sized batches with ordering preserved.",
			schema: objectSchema(map[string]any{
				"parent_id": strProp("Page or block receiving the content."),
				"blocks":    map[string]any{"type": "array", "description": "Blocks to append, in order.", "items": blockDef, "minItems": 1},
				"after":     strProp("Existing block id to insert after. Appends at the end when omitted."),
			}, []string{"parent_id", "blocks"}),
			handle: s.handleAddContentBlocks,
		},
		{
			name:        "append_markdown",
			description: "Parse markdown into content blocks and append them to a page or block.",
			schema: objectSchema(map[string]any{
				"parent_id": strProp("Page or block receiving the content."),
				"markdown":  strProp("Markdown text. Supports headings, lists, todos, quotes, fenced code, and dividers."),
			}, []string{"parent_id", "markdown"}),
			handle: s.handleAppendMarkdown,
		},
		{
			name:        "get_block_content",
			description: "Retrieve a single block.",
			schema: objectSchema(map[string]any{
				"block_id": strProp("Block to fetch."),
			}, []string{"block_id"}),
			handle: s.handleGetBlockContent,
		},
		{
			name:        "list_block_children",
			description: "List the direct children of a page or block.",
			schema: objectSchema(map[string]any{
				"block_id":     strProp("Parent page or block."),
				"page_size":    intProp("Blocks per page, at most 100."),
				"start_cursor": strProp("Cursor from a previous call."),
			}, []string{"block_id"}),
			handle: s.handleListBlockChildren,
		},
		{
			name:        "update_block_content",
			description: "Replace a block's content in place. The block type cannot change.",
			schema: objectSchema(map[string]any{
				"block_id": strProp("Block to update."),
				"block":    blockDef,
			}, []string{"block_id", "block"}),
			handle: s.handleUpdateBlockContent,
		},
		{
			name:        "delete_block",
			description: "Move a block to the trash.",
			schema: objectSchema(map[string]any{
				"block_id": strProp("Block to delete."),
			}, []string{"block_id"}),
			handle: s.handleDeleteBlock,
		},
	}
}

func blockFromArgs(raw map[string]any) (domain.Block, error) {
	t := domain.BlockType(argString(raw, "type"))
	content := argString(raw, "content")
	switch t {
	case domain.BlockDivider:
		return domain.Divider(), nil
	case domain.BlockToDo:
		return domain.ToDo(content, argBool(raw, "checked")), nil
	case domain.BlockCode:
		return domain.Code(content, argString(raw, "language")), nil
	default:
		b := domain.Block{Type: t, RichText: []domain.RichText{domain.Text(content)}}
		if err := b.Validate(); err != nil {
			return domain.Block{}, err
		}
		return b, nil
	}
}

func blocksFromArgs(raw []any) ([]domain.Block, error) {
	blocks := make([]domain.Block, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &domain.ValidationError{Field: "blocks", Reason: "each block must be an object"}
		}
		b, err := blockFromArgs(m)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (s *Server) appendBlocks(ctx context.Context, args map[string]any, blocks []domain.Block) (any, error) {
	parent, err := argID(args, "parent_id")
	if err != nil {
		return nil, err
	}
	var after domain.ID
	if raw := argString(args, "after"); raw != "" {
		after, err = domain.ParseID(raw)
		if err != nil {
			return nil, err
		}
	}
	appended, err := s.api.AppendChildren(ctx, parent, blocks, after)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(appended))
	for _, b := range appended {
		out = append(out, blockSummary(b))
	}
	return map[string]any{"blocks": out, "count": len(out)}, nil
}

func (s *Server) handleAddContentBlocks(ctx context.Context, args map[string]any) (any, error) {
	raw, _ := args["blocks"].([]any)
	blocks, err := blocksFromArgs(raw)
	if err != nil {
		return nil, err
	}
	return s.appendBlocks(ctx, args, blocks)
}

func (s *Server) handleAppendMarkdown(ctx context.Context, args map[string]any) (any, error) {
	blocks, err := domain.ParseMarkdown(argString(args, "markdown"))
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, &domain.ValidationError{Field: "markdown", Reason: "produced no blocks"}
	}
	return s.appendBlocks(ctx, args, blocks)
}

func (s *Server) handleGetBlockContent(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "block_id")
	if err != nil {
		return nil, err
	}
	block, err := s.api.GetBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	return blockSummary(block), nil
}

func (s *Server) handleListBlockChildren(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "block_id")
	if err != nil {
		return nil, err
	}
	page, err := s.api.Children(ctx, id, argString(args, "start_cursor"), argInt(args, "page_size"))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(page.Results))
	for _, b := range page.Results {
		out = append(out, blockSummary(b))
	}
	return map[string]any{
		"blocks":      out,
		"count":       len(out),
		"has_more":    page.HasMore,
		"next_cursor": page.NextCursor,
	}, nil
}

func (s *Server) handleUpdateBlockContent(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "block_id")
	if err != nil {
		return nil, err
	}
	raw, _ := args["block"].(map[string]any)
	block, err := blockFromArgs(raw)
	if err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateBlock(ctx, id, block)
	if err != nil {
		return nil, err
	}
	return blockSummary(updated), nil
}

func (s *Server) handleDeleteBlock(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "block_id")
	if err != nil {
		return nil, err
	}
	deleted, err := s.api.DeleteBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true, "block": blockSummary(deleted)}, nil
}
