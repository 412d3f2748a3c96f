// Package templates provides the built-in style and preview templates and the
// placeholder substitution used to render them.
package templates

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed assets/style.tpl
var styleTpl string

//go:embed assets/preview.tpl
var previewTpl string

// Style placeholders.
const (
	FontName = "fontName"
	FontPath = "fontPath"
	Selector = "selector"
	Glyphs   = "glyphs"
)

// Preview placeholders.
const (
	Styles = "styles"
	Icons  = "icons"
)

// Style returns the built-in stylesheet template.
func Style() string { return styleTpl }

// Preview returns the built-in preview page template.
func Preview() string { return previewTpl }

// Load returns the content of fn, or builtin when fn is empty.
func Load(fn string, builtin string) (string, error) {
	if fn == "" {
		return builtin, nil
	}
	buf, err := os.ReadFile(fn)
	if err != nil {
		return "", fmt.Errorf("loading template: %w", err)
	}
	return string(buf), nil
}
