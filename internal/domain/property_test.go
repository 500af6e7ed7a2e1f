package domain_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nonsignal007/notion-mcp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyValueValidate(t *testing.T) {
	tests := []struct {
		name    string
		value   domain.PropertyValue
		wantErr string
	}{
		{
			name:  "title",
			value: domain.TitleValue("Buy milk"),
		},
		{
			name:    "title without segments",
			value:   domain.PropertyValue{Kind: domain.KindTitle},
			wantErr: "at least one text segment",
		},
		{
			name:    "title over length limit",
			value:   domain.TitleValue(strings.Repeat("a", domain.MaxTitleLength+1)),
			wantErr: "title exceeds maximum",
		},
		{
			name:  "select",
			value: domain.SelectValue("High"),
		},
		{
			name:  "multi select",
			value: domain.MultiSelectValue("home", "urgent"),
		},
		{
			name:    "multi select with empty option",
			value:   domain.MultiSelectValue("home", ""),
			wantErr: "cannot be empty",
		},
		{
			name:  "url",
			value: domain.URLValue("https://example.com"),
		},
		{
			name:    "malformed url",
			value:   domain.URLValue("nope"),
			wantErr: "must be absolute",
		},
		{
			name:    "formula is read only",
			value:   domain.PropertyValue{Kind: domain.KindFormula},
			wantErr: "cannot be written",
		},
		{
			name:    "rollup is read only",
			value:   domain.PropertyValue{Kind: domain.KindRollup},
			wantErr: "cannot be written",
		},
		{
			name:    "unknown kind",
			value:   domain.PropertyValue{Kind: "wibble"},
			wantErr: "unknown property kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate("Prop")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPropertyValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value domain.PropertyValue
		want  string
	}{
		{
			name:  "select by name",
			value: domain.SelectValue("High"),
			want:  `{"select":{"name":"High"}}`,
		},
		{
			name:  "empty select clears the property",
			value: domain.SelectValue(""),
			want:  `{"select":null}`,
		},
		{
			name:  "empty status clears the property",
			value: domain.StatusValue(""),
			want:  `{"status":null}`,
		},
		{
			name:  "empty url clears the property",
			value: domain.URLValue(""),
			want:  `{"url":null}`,
		},
		{
			name:  "multi select",
			value: domain.MultiSelectValue("a", "b"),
			want:  `{"multi_select":[{"name":"a"},{"name":"b"}]}`,
		},
		{
			name:  "checkbox",
			value: domain.CheckboxValue(true),
			want:  `{"checkbox":true}`,
		},
		{
			name:  "number",
			value: domain.NumberValue(3.5),
			want:  `{"number":3.5}`,
		},
		{
			name:  "relation",
			value: domain.PropertyValue{Kind: domain.KindRelation, Relation: []domain.ID{"0123456789abcdef0123456789abcdef"}},
			want:  `{"relation":[{"id":"0123456789abcdef0123456789abcdef"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDateValueMarshalJSON(t *testing.T) {
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	t.Run("date only", func(t *testing.T) {
		data, err := json.Marshal(domain.DateValue{Start: start, DateOnly: true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"start":"2024-03-15"}`, string(data))
	})

	t.Run("timestamp with range end", func(t *testing.T) {
		end := start.Add(2 * time.Hour)
		data, err := json.Marshal(domain.DateValue{Start: start, End: &end})
		require.NoError(t, err)
		assert.JSONEq(t, `{"start":"2024-03-15T09:30:00.000Z","end":"2024-03-15T11:30:00.000Z"}`, string(data))
	})
}

func TestParseDateValue(t *testing.T) {
	t.Run("bare date keeps date only form", func(t *testing.T) {
		d, err := domain.ParseDateValue("2024-03-15")
		require.NoError(t, err)
		assert.True(t, d.DateOnly)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d.Start)
	})

	t.Run("datetime keeps time component", func(t *testing.T) {
		d, err := domain.ParseDateValue("2024-03-15T09:30:00Z")
		require.NoError(t, err)
		assert.False(t, d.DateOnly)
		assert.Equal(t, 9, d.Start.Hour())
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := domain.ParseDateValue("next tuesday")
		require.Error(t, err)
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestPropertiesValidate(t *testing.T) {
	props := domain.Properties{
		"Name":   domain.TitleValue("Task"),
		"Status": domain.SelectValue("Open"),
	}
	assert.NoError(t, props.Validate())

	bad := domain.Properties{"": domain.TitleValue("x")}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "property name cannot be empty")
}
