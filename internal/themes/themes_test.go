package themes_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhub/internal/themes"
)

func writeTheme(t *testing.T, dir, name string, files map[string]string) {
	t.Helper()

	themeDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(themeDir, 0o755))
	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(themeDir, file), []byte(content), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	t.Run("missing directory yields empty list", func(t *testing.T) {
		found, err := themes.Discover(filepath.Join(t.TempDir(), "does-not-exist"))
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("lists only complete themes", func(t *testing.T) {
		dir := t.TempDir()
		writeTheme(t, dir, "midnight", map[string]string{
			"index.html": "<html></html>",
			"style.css":  "body {}",
			"script.js":  "",
		})
		writeTheme(t, dir, "broken", map[string]string{
			"index.html": "<html></html>",
		})
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644))

		found, err := themes.Discover(dir)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "midnight", found[0].Name)
	})
}

func TestLoad(t *testing.T) {
	t.Run("returns the theme files", func(t *testing.T) {
		dir := t.TempDir()
		writeTheme(t, dir, "midnight", map[string]string{
			"index.html": "<html><head></head><body></body></html>",
			"style.css":  "body { background: #111; }",
			"script.js":  "console.log('hi');",
		})

		content, err := themes.Load(dir, "midnight")
		require.NoError(t, err)
		assert.Equal(t, "<html><head></head><body></body></html>", content.HTML)
		assert.Equal(t, "body { background: #111; }", content.CSS)
		assert.Equal(t, "console.log('hi');", content.JS)
	})

	t.Run("fails for unknown theme", func(t *testing.T) {
		_, err := themes.Load(t.TempDir(), "ghost")
		assert.Error(t, err)
	})

	t.Run("fails for incomplete theme", func(t *testing.T) {
		dir := t.TempDir()
		writeTheme(t, dir, "partial", map[string]string{
			"index.html": "<html></html>",
			"style.css":  "",
		})

		_, err := themes.Load(dir, "partial")
		assert.Error(t, err)
	})
}
