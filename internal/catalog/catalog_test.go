package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCitiesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCitiesFile(t, `{"city": [
		{"name": "Москва"},
		{"name": "  Тверь  "},
		{"name": ""},
		{"name": "Oslo"}
	]}`)

	c, err := Load(path)
	require.NoError(t, err)

	// Empty record is skipped, the rest are kept.
	assert.Equal(t, 3, c.Len())
}

func TestExistsIgnoresCaseAndWhitespace(t *testing.T) {
	path := writeCitiesFile(t, `{"city": [{"name": "Москва"}, {"name": "Тверь"}]}`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.True(t, c.Exists("москва"))
	assert.True(t, c.Exists("МОСКВА"))
	assert.True(t, c.Exists("  Тверь "))
	assert.False(t, c.Exists("тула"))
	assert.False(t, c.Exists(""))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeCitiesFile(t, `{"city": [`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing cities file")
}

func TestLoadEmptyDictionary(t *testing.T) {
	path := writeCitiesFile(t, `{"city": [{"name": "  "}]}`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "no usable entries")
}
