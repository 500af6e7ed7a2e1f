package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/nonsignal007/notion-mcp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.Filter
		want   string
	}{
		{
			name:   "select leaf",
			filter: domain.SelectEquals("Priority", "High"),
			want:   `{"property":"Priority","select":{"equals":"High"}}`,
		},
		{
			name:   "status leaf",
			filter: domain.StatusEquals("Status", "Done"),
			want:   `{"property":"Status","status":{"equals":"Done"}}`,
		},
		{
			name:   "checkbox leaf",
			filter: domain.CheckboxEquals("Done", true),
			want:   `{"property":"Done","checkbox":{"equals":true}}`,
		},
		{
			name:   "number condition",
			filter: domain.NumberCondition("Estimate", "greater_than", 3),
			want:   `{"property":"Estimate","number":{"greater_than":3}}`,
		},
		{
			name:   "date condition",
			filter: domain.DateCondition("Due", "before", "2024-03-15"),
			want:   `{"property":"Due","date":{"before":"2024-03-15"}}`,
		},
		{
			name:   "date is empty",
			filter: domain.DateIsEmpty("Due", true),
			want:   `{"property":"Due","date":{"is_empty":true}}`,
		},
		{
			name:   "title contains has no property key",
			filter: domain.TitleContains("milk"),
			want:   `{"title":{"contains":"milk"}}`,
		},
		{
			name: "and compound",
			filter: domain.And(
				domain.SelectEquals("Priority", "High"),
				domain.CheckboxEquals("Done", false),
			),
			want: `{"and":[{"property":"Priority","select":{"equals":"High"}},{"property":"Done","checkbox":{"equals":false}}]}`,
		},
		{
			name: "or compound",
			filter: domain.Or(
				domain.StatusEquals("Status", "Open"),
				domain.StatusEquals("Status", "Blocked"),
			),
			want: `{"or":[{"property":"Status","status":{"equals":"Open"}},{"property":"Status","status":{"equals":"Blocked"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.filter)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestFilterZero(t *testing.T) {
	var zero domain.Filter
	assert.True(t, zero.IsZero())
	assert.False(t, domain.TitleContains("x").IsZero())

	_, err := json.Marshal(zero)
	assert.Error(t, err)
}

func TestCondition(t *testing.T) {
	tests := []struct {
		name      string
		property  string
		typeKey   string
		condition string
		wantErr   string
	}{
		{name: "select", property: "Status", typeKey: "select", condition: "equals"},
		{name: "title needs no property", typeKey: "title", condition: "contains"},
		{name: "unknown type", property: "Rel", typeKey: "relation", condition: "contains", wantErr: "unknown filter type"},
		{name: "missing condition", property: "Status", typeKey: "select", wantErr: "condition cannot be empty"},
		{name: "missing property", typeKey: "select", condition: "equals", wantErr: "property is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := domain.Condition(tt.property, tt.typeKey, tt.condition, "x")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, f.IsZero())
		})
	}
}

func TestSearchFilter(t *testing.T) {
	data, err := json.Marshal(domain.SearchFilter("milk", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":{"contains":"milk"}}`, string(data))

	data, err = json.Marshal(domain.SearchFilter("milk", "Description"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"property":"Description","rich_text":{"contains":"milk"}}`, string(data))
}

func TestNewSort(t *testing.T) {
	s, err := domain.NewSort("Due", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Ascending, s.Direction)

	s, err = domain.NewSort("Due", domain.Descending)
	require.NoError(t, err)
	assert.Equal(t, domain.Descending, s.Direction)

	_, err = domain.NewSort("", domain.Ascending)
	assert.Error(t, err)

	_, err = domain.NewSort("Due", "sideways")
	assert.Error(t, err)
}
