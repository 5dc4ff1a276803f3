package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorForStyle(t *testing.T) {
	styles := []schema.StyleTag{
		schema.SuccessStyle, schema.InfoStyle, schema.WarningStyle, schema.DangerStyle, schema.CriticalStyle,
	}
	for _, s := range styles {
		assert.NotNil(t, ColorForStyle(s), "style %s", s)
	}
	assert.Nil(t, ColorForStyle("plain"))
	assert.Equal(t, "Kompeten", GetColorLabel("Kompeten", "plain"))
	assert.Contains(t, GetColorLabel("Kompeten", schema.InfoStyle), "Kompeten")
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"short name untouched", "ADI", 10, "ADI"},
		{"exact width untouched", "EKA FEBRIYANI", 13, "EKA FEBRIYANI"},
		{"long name truncated", "EKA FEBRIYANI", 8, "EKA F..."},
		{"tiny width ignored", "EKA FEBRIYANI", 3, "EKA FEBRIYANI"},
		{"multibyte safe", "ÁNGEL MARTÍNEZ", 6, "ÁNG..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateName(tt.input, tt.width))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".psymap_cache.db"))
	assert.True(t, strings.HasSuffix(GetHistoryDBFilePath(), ".psymap_history.db"))
	assert.NotEqual(t, GetCacheDBFilePath(), GetHistoryDBFilePath())
}
