package mcptool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsignal007/notion-mcp/internal/adapter/outbound/notionapi"
	"github.com/nonsignal007/notion-mcp/internal/domain"
)

func taskDatabase() *domain.Database {
	return &domain.Database{
		Object: "database",
		ID:     testDBID,
		Properties: domain.DatabaseSchema{
			"Name":     {ID: "title", Name: "Name", Type: domain.KindTitle},
			"Status":   {ID: "s1", Name: "Status", Type: domain.KindSelect},
			"Estimate": {ID: "s2", Name: "Estimate", Type: domain.KindNumber},
			"Done":     {ID: "s3", Name: "Done", Type: domain.KindCheckbox},
			"Due":      {ID: "s4", Name: "Due", Type: domain.KindDate},
		},
	}
}

func TestSchemaFromArgsAddsDefaultTitle(t *testing.T) {
	schema, err := schemaFromArgs(map[string]any{
		"Status": map[string]any{"type": "select", "options": []any{"Open", "Done"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KindTitle, schema["Name"].Kind)
	assert.Equal(t, domain.KindSelect, schema["Status"].Kind)
	require.Len(t, schema["Status"].Options, 2)
}

func TestSchemaFromArgsKeepsExplicitTitle(t *testing.T) {
	schema, err := schemaFromArgs(map[string]any{
		"Task": map[string]any{"type": "title"},
	})
	require.NoError(t, err)
	_, hasDefault := schema["Name"]
	assert.False(t, hasDefault)
	assert.Equal(t, domain.KindTitle, schema["Task"].Kind)
}

func TestSchemaFromArgsRejectsUnknownType(t *testing.T) {
	_, err := schemaFromArgs(map[string]any{
		"Mystery": map[string]any{"type": "rollup"},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestFilterFromArgs(t *testing.T) {
	t.Run("single condition is not wrapped", func(t *testing.T) {
		f, err := filterFromArgs([]any{
			map[string]any{"property": "Status", "type": "select", "condition": "equals", "value": "Open"},
		})
		require.NoError(t, err)
		wire, err := json.Marshal(f)
		require.NoError(t, err)
		assert.JSONEq(t, `{"property":"Status","select":{"equals":"Open"}}`, string(wire))
	})

	t.Run("multiple conditions are ANDed", func(t *testing.T) {
		f, err := filterFromArgs([]any{
			map[string]any{"property": "Status", "type": "select", "condition": "equals", "value": "Open"},
			map[string]any{"property": "Estimate", "type": "number", "condition": "greater_than", "value": float64(3)},
		})
		require.NoError(t, err)
		wire, err := json.Marshal(f)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(wire, &decoded))
		assert.Len(t, decoded["and"], 2)
	})

	t.Run("unknown filter type rejected", func(t *testing.T) {
		_, err := filterFromArgs([]any{
			map[string]any{"property": "X", "type": "relation", "condition": "contains", "value": "y"},
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestBlockFromArgs(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want domain.BlockType
		err  bool
	}{
		{"paragraph", map[string]any{"type": "paragraph", "content": "hi"}, domain.BlockParagraph, false},
		{"divider ignores content", map[string]any{"type": "divider"}, domain.BlockDivider, false},
		{"todo", map[string]any{"type": "to_do", "content": "milk", "checked": true}, domain.BlockToDo, false},
		{"code", map[string]any{"type": "code", "content": "x := 1", "language": "go"}, domain.BlockCode, false},
		{"empty content rejected", map[string]any{"type": "paragraph"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := blockFromArgs(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Type)
		})
	}
}

func TestCreatePageInDatabaseCoercesValues(t *testing.T) {
	var captured notionapi.CreatePageRequest
	api := &fakeAPI{
		getDatabase: func(_ context.Context, id domain.ID) (*domain.Database, error) {
			assert.Equal(t, testDBID, id)
			return taskDatabase(), nil
		},
		createPage: func(_ context.Context, req notionapi.CreatePageRequest) (*domain.Page, error) {
			captured = req
			return &domain.Page{ID: testPageID, Properties: map[string]domain.PropertyItem{}}, nil
		},
	}
	s := testServer(t, api)

	result := callTool(t, s, "create_page", map[string]any{
		"parent_database_id": testDBID.String(),
		"title":              "Ship it",
		"properties": map[string]any{
			"Status":   "Open",
			"Estimate": float64(5),
			"Done":     false,
			"Due":      "2026-10-01",
		},
	})
	require.False(t, result.IsError, resultText(t, result))

	assert.Equal(t, testDBID, captured.Parent.DatabaseID)
	assert.Equal(t, "Ship it", domain.PlainText(captured.Properties["Name"].Title))
	assert.Equal(t, "Open", captured.Properties["Status"].Select)
	require.NotNil(t, captured.Properties["Estimate"].Number)
	assert.Equal(t, float64(5), *captured.Properties["Estimate"].Number)
	require.NotNil(t, captured.Properties["Due"].Date)
	assert.True(t, captured.Properties["Due"].Date.DateOnly)
}

func TestCreatePageUnknownPropertyRejected(t *testing.T) {
	api := &fakeAPI{
		getDatabase: func(context.Context, domain.ID) (*domain.Database, error) {
			return taskDatabase(), nil
		},
	}
	result := callTool(t, testServer(t, api), "create_page", map[string]any{
		"parent_database_id": testDBID.String(),
		"properties":         map[string]any{"Statos": "Open"},
	})
	require.True(t, result.IsError)
	out := decodeResult(t, result)
	assert.Equal(t, "validation", out["kind"])
}

func TestCreatePageUnderPageParent(t *testing.T) {
	var captured notionapi.CreatePageRequest
	api := &fakeAPI{
		createPage: func(_ context.Context, req notionapi.CreatePageRequest) (*domain.Page, error) {
			captured = req
			return &domain.Page{ID: testPageID, Properties: map[string]domain.PropertyItem{}}, nil
		},
	}
	result := callTool(t, testServer(t, api), "create_page", map[string]any{
		"parent_page_id": testPageID.String(),
		"title":          "Notes",
		"markdown":       "# Heading\n\nSome text.",
	})
	require.False(t, result.IsError, resultText(t, result))
	assert.Equal(t, testPageID, captured.Parent.PageID)
	require.Len(t, captured.Children, 2)
	assert.Equal(t, domain.BlockHeading1, captured.Children[0].Type)
}

func TestAppendMarkdownTool(t *testing.T) {
	var gotBlocks []domain.Block
	api := &fakeAPI{
		appendChildren: func(_ context.Context, parent domain.ID, blocks []domain.Block, after domain.ID) ([]*domain.BlockObject, error) {
			gotBlocks = blocks
			out := make([]*domain.BlockObject, len(blocks))
			for i := range out {
				out[i] = &domain.BlockObject{Object: "block", ID: testPageID, Type: string(blocks[i].Type)}
			}
			return out, nil
		},
	}
	result := callTool(t, testServer(t, api), "append_markdown", map[string]any{
		"parent_id": testPageID.String(),
		"markdown":  "- one\n- two\n\n```go\nx := 1\n```",
	})
	require.False(t, result.IsError, resultText(t, result))
	require.Len(t, gotBlocks, 3)
	assert.Equal(t, domain.BlockBulletedItem, gotBlocks[0].Type)
	assert.Equal(t, domain.BlockCode, gotBlocks[2].Type)
	assert.Equal(t, "go", gotBlocks[2].Language)

	out := decodeResult(t, result)
	assert.Equal(t, float64(3), out["count"])
}

func TestAddTodoTool(t *testing.T) {
	var captured notionapi.CreatePageRequest
	api := &fakeAPI{
		createPage: func(_ context.Context, req notionapi.CreatePageRequest) (*domain.Page, error) {
			captured = req
			return &domain.Page{ID: testPageID, Properties: map[string]domain.PropertyItem{}}, nil
		},
	}
	result := callTool(t, testServer(t, api), "add_todo", map[string]any{
		"task":     "Water plants",
		"priority": "medium",
		"tags":     []any{"home"},
	})
	require.False(t, result.IsError, resultText(t, result))
	assert.Equal(t, testDBID, captured.Parent.DatabaseID)
	assert.Equal(t, "medium", captured.Properties["Priority"].Select)
	assert.Equal(t, []string{"home"}, captured.Properties["Tags"].MultiSelect)
}

func TestAddTodoRejectsBadPriorityAtSchema(t *testing.T) {
	s := testServer(t, &fakeAPI{})
	result := callTool(t, s, "add_todo", map[string]any{
		"task":     "x",
		"priority": "urgent",
	})
	require.True(t, result.IsError)
	out := decodeResult(t, result)
	assert.Equal(t, "validation", out["kind"])
}
