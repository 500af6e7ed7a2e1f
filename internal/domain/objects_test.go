package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/nonsignal007/notion-mcp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshalJSON(t *testing.T) {
	var parent domain.Parent
	err := json.Unmarshal([]byte(`{"type":"page_id","page_id":"01234567-89ab-cdef-0123-456789abcdef"}`), &parent)
	require.NoError(t, err)
	assert.Equal(t, domain.ID("0123456789abcdef0123456789abcdef"), parent.PageID)

	err = json.Unmarshal([]byte(`{"type":"workspace","page_id":null}`), &parent)
	require.NoError(t, err)
	assert.Equal(t, domain.ID(""), parent.PageID)

	err = json.Unmarshal([]byte(`{"page_id":"not-an-id"}`), &parent)
	assert.Error(t, err)
}

func TestPropertyItemUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, item domain.PropertyItem)
	}{
		{
			name:  "title",
			input: `{"id":"title","type":"title","title":[{"type":"text","text":{"content":"Buy milk"},"plain_text":"Buy milk"}]}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				assert.Equal(t, domain.KindTitle, item.Kind)
				assert.Equal(t, "Buy milk", domain.PlainText(item.Value.Title))
			},
		},
		{
			name:  "select",
			input: `{"id":"abc","type":"select","select":{"name":"High","color":"red"}}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				assert.Equal(t, "High", item.Value.Select)
			},
		},
		{
			name:  "empty select",
			input: `{"id":"abc","type":"select","select":null}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				assert.Equal(t, "", item.Value.Select)
			},
		},
		{
			name:  "status",
			input: `{"id":"abc","type":"status","status":{"name":"In progress"}}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				assert.Equal(t, "In progress", item.Value.Status)
			},
		},
		{
			name:  "multi select",
			input: `{"id":"abc","type":"multi_select","multi_select":[{"name":"home"},{"name":"urgent"}]}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				assert.Equal(t, []string{"home", "urgent"}, item.Value.MultiSelect)
			},
		},
		{
			name:  "number",
			input: `{"id":"abc","type":"number","number":3.5}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				require.NotNil(t, item.Value.Number)
				assert.Equal(t, 3.5, *item.Value.Number)
			},
		},
		{
			name:  "checkbox",
			input: `{"id":"abc","type":"checkbox","checkbox":true}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				require.NotNil(t, item.Value.Checkbox)
				assert.True(t, *item.Value.Checkbox)
			},
		},
		{
			name:  "date only",
			input: `{"id":"abc","type":"date","date":{"start":"2024-03-15","end":null}}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				require.NotNil(t, item.Value.Date)
				assert.True(t, item.Value.Date.DateOnly)
				assert.Nil(t, item.Value.Date.End)
			},
		},
		{
			name:  "date range with timestamps",
			input: `{"id":"abc","type":"date","date":{"start":"2024-03-15T09:30:00.000Z","end":"2024-03-15T11:30:00.000Z"}}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				require.NotNil(t, item.Value.Date)
				assert.False(t, item.Value.Date.DateOnly)
				require.NotNil(t, item.Value.Date.End)
			},
		},
		{
			name:  "formula keeps raw payload only",
			input: `{"id":"abc","type":"formula","formula":{"type":"number","number":7}}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				assert.Equal(t, domain.KindFormula, item.Kind)
				assert.JSONEq(t, `{"type":"number","number":7}`, string(item.Raw))
			},
		},
		{
			name: "single rich text object from the property item endpoint",
			input: `{"id":"abc","type":"rich_text","rich_text":{"type":"text","text":{"content":"chunk"},"plain_text":"chunk"}}`,
			check: func(t *testing.T, item domain.PropertyItem) {
				assert.Equal(t, "chunk", domain.PlainText(item.Value.RichText))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item domain.PropertyItem
			require.NoError(t, json.Unmarshal([]byte(tt.input), &item))
			tt.check(t, item)
		})
	}

	t.Run("unrecognized type tag rejected", func(t *testing.T) {
		var item domain.PropertyItem
		err := json.Unmarshal([]byte(`{"id":"abc","type":"verification","verification":{}}`), &item)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized property type")
	})
}

const fixturePage = `{
	"object": "page",
	"id": "01234567-89ab-cdef-0123-456789abcdef",
	"created_time": "2024-03-15T09:30:00.000Z",
	"last_edited_time": "2024-03-15T10:00:00.000Z",
	"archived": false,
	"url": "https://www.notion.so/Buy-milk-0123456789abcdef0123456789abcdef",
	"parent": {"type": "database_id", "database_id": "aaaabbbbccccddddeeeeffff00001111"},
	"properties": {
		"Name": {"id": "title", "type": "title", "title": [{"type":"text","text":{"content":"Buy milk"},"plain_text":"Buy milk"}]},
		"Done": {"id": "abc", "type": "checkbox", "checkbox": false}
	}
}`

func TestDecodePage(t *testing.T) {
	page, err := domain.DecodePage([]byte(fixturePage))
	require.NoError(t, err)
	assert.Equal(t, domain.ID("0123456789abcdef0123456789abcdef"), page.ID)
	assert.Equal(t, domain.ID("aaaabbbbccccddddeeeeffff00001111"), page.Parent.DatabaseID)
	assert.Equal(t, "Buy milk", domain.PlainTitle(page.Properties))
	assert.False(t, page.Archived)

	_, err = domain.DecodePage([]byte(`{"object":"database","id":"0123456789abcdef0123456789abcdef"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected object "page"`)
}

func TestDecodeDatabase(t *testing.T) {
	input := `{
		"object": "database",
		"id": "aaaabbbbccccddddeeeeffff00001111",
		"title": [{"type":"text","text":{"content":"Todos"},"plain_text":"Todos"}],
		"properties": {
			"Name": {"id": "title", "name": "Name", "type": "title"},
			"Status": {"id": "abc", "name": "Status", "type": "select"}
		}
	}`

	db, err := domain.DecodeDatabase([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "Todos", db.PlainTitle())
	assert.Equal(t, domain.KindSelect, db.Properties["Status"].Type)

	_, err = domain.DecodeDatabase([]byte(fixturePage))
	assert.Error(t, err)
}

func TestDecodeBlockKeepsTypedContent(t *testing.T) {
	input := `{
		"object": "block",
		"id": "0123456789abcdef0123456789abcdef",
		"type": "paragraph",
		"has_children": false,
		"paragraph": {"rich_text": [{"type":"text","text":{"content":"hi"},"plain_text":"hi"}]}
	}`

	block, err := domain.DecodeBlock([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "paragraph", block.Type)
	assert.JSONEq(t, `{"rich_text":[{"type":"text","text":{"content":"hi"},"plain_text":"hi"}]}`, string(block.Content))
}

func TestDecodeList(t *testing.T) {
	input := `{"object":"list","results":[` + fixturePage + `],"has_more":true,"next_cursor":"c1","type":"page_or_database"}`

	list, err := domain.DecodeList([]byte(input))
	require.NoError(t, err)
	assert.True(t, list.HasMore)
	assert.Equal(t, "c1", list.NextCursor)
	require.Len(t, list.Results, 1)

	_, err = domain.DecodeList([]byte(fixturePage))
	assert.Error(t, err)

	_, err = domain.DecodeList([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeUser(t *testing.T) {
	u, err := domain.DecodeUser([]byte(`{"object":"user","id":"0123456789abcdef0123456789abcdef","type":"bot","name":"integration"}`))
	require.NoError(t, err)
	assert.Equal(t, "integration", u.Name)
	assert.Equal(t, "bot", u.Type)
}
