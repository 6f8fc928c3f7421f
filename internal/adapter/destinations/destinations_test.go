package destinations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/guillermoBallester/chsink/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "destinations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validYAML = `
destinations:
  prod:
    endpoint: https://XYZ.eu-west-1.aws.clickhouse.cloud:8443
    database: analytics
    table: edgee
    username: ingest
    password: "12345"
  staging:
    endpoint: http://localhost:8123
    table: edgee_staging
    password: dev
`

func TestLoadFromFile_Valid(t *testing.T) {
	src, err := LoadFromFile(writeFile(t, validYAML))
	require.NoError(t, err)
	ctx := context.Background()

	names, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod", "staging"}, names)

	d, err := src.Lookup(ctx, "prod")
	require.NoError(t, err)
	assert.Equal(t, domain.Dict{
		{"endpoint", "https://XYZ.eu-west-1.aws.clickhouse.cloud:8443"},
		{"database", "analytics"},
		{"table", "edgee"},
		{"username", "ingest"},
		{"password", "12345"},
	}, d)

	s, err := domain.ResolveSettings(d)
	require.NoError(t, err)
	assert.Equal(t, "analytics", s.Database)
}

func TestLoadFromFile_DefaultsApplyLater(t *testing.T) {
	src, err := LoadFromFile(writeFile(t, validYAML))
	require.NoError(t, err)

	d, err := src.Lookup(context.Background(), "staging")
	require.NoError(t, err)
	s, err := domain.ResolveSettings(d)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDatabase, s.Database)
	assert.Equal(t, domain.DefaultUsername, s.Username)
}

func TestLookup_NotFound(t *testing.T) {
	src, err := LoadFromFile(writeFile(t, validYAML))
	require.NoError(t, err)

	_, err = src.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrDestinationNotFound)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	src, err := LoadFromFile(writeFile(t, validYAML))
	require.NoError(t, err)
	ctx := context.Background()

	d, err := src.Lookup(ctx, "prod")
	require.NoError(t, err)
	d[0][1] = "mutated"

	again, err := src.Lookup(ctx, "prod")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0][1])
}

func TestLoadFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "destinations: [",
			wantErr: "parsing destinations YAML",
		},
		{
			name: "missing password",
			content: `
destinations:
  prod:
    endpoint: http://localhost:8123
    table: edgee
`,
			wantErr: "missing password",
		},
		{
			name: "nested value",
			content: `
destinations:
  prod:
    endpoint:
      host: localhost
`,
			wantErr: "must be a scalar",
		},
		{
			name: "settings not a mapping",
			content: `
destinations:
  prod: [endpoint, table]
`,
			wantErr: "must be a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading destinations file")
}

func TestLoadFromFile_Empty(t *testing.T) {
	src, err := LoadFromFile(writeFile(t, ""))
	require.NoError(t, err)

	names, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
