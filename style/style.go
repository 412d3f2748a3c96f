// Package style renders the stylesheet that maps every glyph to a CSS
// selector.
package style

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/files"
	"github.com/adnsv/iconfont/glyph"
	"github.com/adnsv/iconfont/stylesheet"
	"github.com/adnsv/iconfont/templates"
	"github.com/sirupsen/logrus"
)

// GlyphToken is the placeholder for the glyph name inside a selector
// template.
const GlyphToken = "{{glyph}}"

// ParentSelector derives the base class from a selector template by cutting
// it before the separator that precedes {{glyph}}: ".cw-icon-{{glyph}}"
// becomes ".cw-icon". A template that starts with the token or does not
// contain it yields the template with the token removed.
func ParentSelector(selector string) string {
	i := strings.Index(selector, GlyphToken)
	if i <= 0 {
		return strings.ReplaceAll(selector, GlyphToken, "")
	}
	return selector[:i-1]
}

// GlyphSelector substitutes the glyph name into a selector template.
func GlyphSelector(selector, name string) string {
	return strings.Replace(selector, GlyphToken, name, 1)
}

// FontPath returns the path of the font files, without extension, relative
// to the directory of dst and with forward slashes.
func FontPath(dst, fontBase string) string {
	rel, err := filepath.Rel(filepath.Dir(dst), fontBase)
	if err != nil {
		rel = fontBase
	}
	return filepath.ToSlash(rel)
}

// Rules renders one `<selector>:before {content: "\<hex>";}` rule per glyph.
func Rules(glyphs []glyph.Glyph, selector string) string {
	rules := make([]string, 0, len(glyphs))
	for _, g := range glyphs {
		rules = append(rules, fmt.Sprintf(`%s:before {content: "\%s";}`, GlyphSelector(selector, g.Name), g.Hex))
	}
	return strings.Join(rules, "\n\n")
}

// Render fills a style template. Unknown placeholders are left in place and
// returned.
func Render(tpl string, glyphs []glyph.Glyph, selector, fontName, fontPath string) (string, []templates.Placeholder) {
	return templates.Curly.Replace(tpl, map[string]string{
		templates.FontName: fontName,
		templates.FontPath: fontPath,
		templates.Selector: ParentSelector(selector),
		templates.Glyphs:   Rules(glyphs, selector),
	})
}

// Write renders the stylesheet for glyphs and stores it in Output.Style. It
// returns the path of the written file.
func Write(glyphs []glyph.Glyph, hash string, opts *config.Options, log logrus.FieldLogger) (string, error) {
	tpl, err := templates.Load(opts.Input.StyleTpl, templates.Style())
	if err != nil {
		return "", err
	}

	dst := opts.StyleFile(hash)
	fontPath := FontPath(dst, opts.FontBase(hash))
	result, unknown := Render(tpl, glyphs, opts.Compile.Selector, opts.Compile.FontName, fontPath)
	for _, p := range unknown {
		log.Warnf("%s:%s: unknown placeholder %s", templateName(opts.Input.StyleTpl), p.Location, templates.Curly.Token(p.Name))
	}

	result, err = Process(result, opts, log)
	if err != nil {
		return "", err
	}

	if err = files.Mkdir(opts.Output.Style); err != nil {
		return "", fmt.Errorf("failed to create style directory: %w", err)
	}
	if err = files.Write(dst, []byte(result)); err != nil {
		return "", fmt.Errorf("failed to write style file %s: %w", dst, err)
	}
	log.Infof("generated style file %s", dst)
	return dst, nil
}

// Process applies css module scoping, formatting and linting to a rendered
// stylesheet as requested by opts.
func Process(src string, opts *config.Options, log logrus.FieldLogger) (string, error) {
	parse := opts.Compile.Syntax == "css" || opts.Global || opts.Stylelint
	if !parse {
		return stylesheet.Reindent(src, opts.Format), nil
	}

	sheet, err := stylesheet.Parse(src)
	if err != nil {
		if opts.Stylelint {
			return "", fmt.Errorf("%w: %v", stylesheet.ErrLint, err)
		}
		if opts.Global {
			log.Warnf("css module scoping skipped: %v", err)
		}
		log.Debugf("falling back to plain re-indenting: %v", err)
		return stylesheet.Reindent(src, opts.Format), nil
	}

	if opts.Global {
		sheet.ScopeGlobal()
	}
	if opts.Stylelint {
		for _, p := range sheet.Lint(true) {
			log.Warnf("stylelint: %s", p)
		}
	}
	return sheet.Format(opts.Format), nil
}

func templateName(fn string) string {
	if fn == "" {
		return "style.tpl"
	}
	return fn
}
