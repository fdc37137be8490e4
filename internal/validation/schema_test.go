package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/upn-qr/internal/domain"
)

func TestDefaultSchema(t *testing.T) {
	schema := DefaultSchema()

	require.Len(t, schema.Fields, 12)
	assert.True(t, schema.AllowsAdditional())

	names := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, domain.FieldNames, names)

	budgets := map[string]int{
		domain.FieldPayerName:      33,
		domain.FieldPayerStreet:    33,
		domain.FieldPayerCity:      33,
		domain.FieldAmount:         11,
		domain.FieldPurposeText:    42,
		domain.FieldPayeeIBAN:      34,
		domain.FieldPayeeReference: 26,
		domain.FieldPayeeName:      33,
		domain.FieldPayeeStreet:    33,
		domain.FieldPayeeCity:      33,
	}
	for name, max := range budgets {
		f, ok := schema.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, max, f.MaxLength, name)
		assert.True(t, f.Required, name)
	}

	code, _ := schema.Field(domain.FieldPurposeCode)
	assert.Equal(t, 4, code.Length)

	due, _ := schema.Field(domain.FieldDueDate)
	assert.False(t, due.Required)
	assert.Equal(t, FormatDateSLO, due.Format)

	amount, _ := schema.Field(domain.FieldAmount)
	assert.Equal(t, FormatAmountSLO, amount.Format)
}

func TestStrictSchema(t *testing.T) {
	schema := StrictSchema()

	assert.False(t, schema.AllowsAdditional())
	iban, _ := schema.Field(domain.FieldPayeeIBAN)
	assert.Equal(t, FormatIBAN, iban.Format)
	ref, _ := schema.Field(domain.FieldPayeeReference)
	assert.Equal(t, FormatReferenceModel, ref.Format)
}

func TestParseSchema(t *testing.T) {
	tests := []struct {
		name     string
		document string
		wantErr  bool
	}{
		{
			name: "minimal schema",
			document: `fields:
  - name: amount
    required: true
    format: amount-slo
`,
		},
		{name: "no fields", document: "title: empty\n", wantErr: true},
		{name: "not yaml", document: "fields: [", wantErr: true},
		{
			name: "unknown key",
			document: `fields:
  - name: amount
    maxLength: 3
`,
			wantErr: true,
		},
		{
			name: "duplicate field",
			document: `fields:
  - name: amount
  - name: amount
`,
			wantErr: true,
		},
		{
			name: "missing name",
			document: `fields:
  - required: true
`,
			wantErr: true,
		},
		{
			name: "negative length",
			document: `fields:
  - name: amount
    max_length: -1
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := ParseSchema([]byte(tt.document))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchema)
				assert.Nil(t, schema)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, schema.Fields)
		})
	}
}

func TestLoadSchema(t *testing.T) {
	t.Run("reads a schema file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		require.NoError(t, os.WriteFile(path, defaultSchemaDocument, 0o600))

		schema, err := LoadSchema(path)
		require.NoError(t, err)
		assert.Len(t, schema.Fields, 12)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fields: {"), 0o600))

		_, err := LoadSchema(path)
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})
}

func TestResolveSchema(t *testing.T) {
	schema, err := ResolveSchema("", false)
	require.NoError(t, err)
	assert.True(t, schema.AllowsAdditional())

	schema, err = ResolveSchema("", true)
	require.NoError(t, err)
	assert.False(t, schema.AllowsAdditional())

	_, err = ResolveSchema(filepath.Join(t.TempDir(), "nope.yaml"), false)
	assert.Error(t, err)
}
