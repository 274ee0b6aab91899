// Package themes derives page palettes from the owner's base color and
// discovers optional custom themes on disk.
package themes

import (
	"fmt"
	"os"
	"path/filepath"
)

// Theme is one discovered custom theme directory.
type Theme struct {
	Name string `json:"name"`
}

// Content holds the loaded files of an active theme.
type Content struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Discover lists the theme directories under dir that contain all three
// required files (index.html, style.css, script.js). A missing themes
// directory yields an empty list, not an error.
func Discover(dir string) ([]Theme, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []Theme{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	themes := []Theme{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if hasThemeFiles(filepath.Join(dir, entry.Name())) {
			themes = append(themes, Theme{Name: entry.Name()})
		}
	}
	return themes, nil
}

// Load reads the files of the named theme. An unknown theme is an error so
// a stale active_theme setting surfaces instead of rendering a blank page.
func Load(dir, name string) (*Content, error) {
	themePath := filepath.Join(dir, name)

	html, err := os.ReadFile(filepath.Join(themePath, "index.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to load theme %s: %w", name, err)
	}
	css, err := os.ReadFile(filepath.Join(themePath, "style.css"))
	if err != nil {
		return nil, fmt.Errorf("failed to load theme %s: %w", name, err)
	}
	js, err := os.ReadFile(filepath.Join(themePath, "script.js"))
	if err != nil {
		return nil, fmt.Errorf("failed to load theme %s: %w", name, err)
	}

	return &Content{HTML: string(html), CSS: string(css), JS: string(js)}, nil
}

func hasThemeFiles(themePath string) bool {
	for _, file := range []string{"index.html", "style.css", "script.js"} {
		if _, err := os.Stat(filepath.Join(themePath, file)); err != nil {
			return false
		}
	}
	return true
}
