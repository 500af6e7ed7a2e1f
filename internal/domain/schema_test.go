package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/nonsignal007/notion-mcp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  domain.Schema
		wantErr string
	}{
		{
			name: "valid",
			schema: domain.Schema{
				"Name":     domain.TitleDef(),
				"Status":   domain.SelectDef("Open", "Done"),
				"Estimate": domain.NumberDef("number"),
			},
		},
		{
			name:    "no title property",
			schema:  domain.Schema{"Status": domain.SelectDef("Open")},
			wantErr: "exactly one title property",
		},
		{
			name: "two title properties",
			schema: domain.Schema{
				"Name":  domain.TitleDef(),
				"Alias": domain.TitleDef(),
			},
			wantErr: "exactly one title property",
		},
		{
			name: "empty property name",
			schema: domain.Schema{
				"Name": domain.TitleDef(),
				"":     domain.CheckboxDef(),
			},
			wantErr: "property name cannot be empty",
		},
		{
			name: "empty option name",
			schema: domain.Schema{
				"Name":   domain.TitleDef(),
				"Status": domain.SelectDef("Open", ""),
			},
			wantErr: "option name cannot be empty",
		},
		{
			name: "unknown kind",
			schema: domain.Schema{
				"Name": domain.TitleDef(),
				"X":    {Kind: "wibble"},
			},
			wantErr: "unknown property kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPropertyDefMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		def  domain.PropertyDef
		want string
	}{
		{name: "title", def: domain.TitleDef(), want: `{"title":{}}`},
		{name: "rich text", def: domain.RichTextDef(), want: `{"rich_text":{}}`},
		{name: "date", def: domain.DateDef(), want: `{"date":{}}`},
		{
			name: "select with options",
			def:  domain.SelectDef("High", "Low"),
			want: `{"select":{"options":[{"name":"High"},{"name":"Low"}]}}`,
		},
		{
			name: "select without options",
			def:  domain.PropertyDef{Kind: domain.KindSelect},
			want: `{"select":{"options":[]}}`,
		},
		{
			name: "number with format",
			def:  domain.NumberDef("percent"),
			want: `{"number":{"format":"percent"}}`,
		},
		{
			name: "formula",
			def:  domain.PropertyDef{Kind: domain.KindFormula, Expression: `prop("Done")`},
			want: `{"formula":{"expression":"prop(\"Done\")"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.def)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDatabaseSchemaValidateProperties(t *testing.T) {
	schema := domain.DatabaseSchema{
		"Name":   {ID: "title", Name: "Name", Type: domain.KindTitle},
		"Status": {ID: "abc", Name: "Status", Type: domain.KindSelect},
	}

	assert.NoError(t, schema.ValidateProperties(domain.Properties{
		"Name":   domain.TitleValue("Task"),
		"Status": domain.SelectValue("Open"),
	}))

	err := schema.ValidateProperties(domain.Properties{"Missing": domain.SelectValue("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist in the database schema")

	err = schema.ValidateProperties(domain.Properties{"Status": domain.CheckboxValue(true)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `does not match schema kind "select"`)
}
