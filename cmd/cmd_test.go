package cmd

import (
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setViper overrides keys for one test and restores empty overrides afterwards.
func setViper(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k := range kv {
			viper.Set(k, "")
		}
	})
}

func TestHistoryBackendFromViper(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		connStr     string
		wantBackend schema.DatabaseBackend
		wantErr     string
	}{
		{"empty means disabled", "", "", schema.NoneBackend, ""},
		{"sqlite", "sqlite", "", schema.SQLiteBackend, ""},
		{"unknown backend", "redis", "", "", "invalid history backend"},
		{"mysql without dsn", "mysql", "", "", "connection string is required"},
		{"postgres dsn", "postgresql", "host=db dbname=psymap", schema.PostgreSQLBackend, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setViper(t, map[string]string{"history-backend": tt.backend, "history-db-connect": tt.connStr})

			backend, connStr, err := historyBackendFromViper()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBackend, backend)
			assert.Equal(t, tt.connStr, connStr)
		})
	}
}

func TestDataSetup(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		source  string
		wantErr string
	}{
		{"file backend rejected", "file", "psymap-data.yaml", "need a database data backend"},
		{"sqlite needs a source", "sqlite", " ", "data-source is required"},
		{"bad mysql dsn", "mysql", "root@localhost", "invalid data-source"},
		{"sqlite", "SQLite", "ratings.db", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setViper(t, map[string]string{"data-backend": tt.backend, "data-source": tt.source})

			err := dataSetup()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, schema.SQLiteData, cfg.DataBackend)
			assert.Equal(t, "ratings.db", cfg.DataSource)
		})
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"report"}, {"final"}, {"ranking"}, {"chart"}, {"summary"}, {"conclusions"},
		{"cache", "status"}, {"cache", "clear"},
		{"history", "status"}, {"history", "clear"}, {"history", "export"}, {"history", "migrate"},
		{"data", "import"}, {"data", "clear"},
		{"mcp"}, {"version"},
	} {
		c, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
}
