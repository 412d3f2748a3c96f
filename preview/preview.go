// Package preview renders a standalone HTML page showing every glyph of the
// generated font.
package preview

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/files"
	"github.com/adnsv/iconfont/glyph"
	"github.com/adnsv/iconfont/htmlfmt"
	"github.com/adnsv/iconfont/style"
	"github.com/adnsv/iconfont/templates"
	"github.com/sirupsen/logrus"
)

var iconTpl = template.Must(template.New("icon").Parse(
	`<li title="{{.Title}}"><div class="icon"><i class="{{.Base}} {{.Class}}"></i></div><div class="name">{{.Title}}</div></li>`))

type icon struct {
	Title string
	Base  string
	Class string
}

// className strips the leading '.' of a class selector.
func className(sel string) string {
	return strings.Replace(sel, ".", "", 1)
}

// Icons renders one list item per glyph. Captions show the selector from
// the user options while the markup uses the built-in selector scheme, which
// is what the embedded styles define.
func Icons(glyphs []glyph.Glyph, userSelector string) (string, error) {
	def := config.Default().Compile.Selector
	base := className(style.ParentSelector(def))
	sb := strings.Builder{}
	for _, g := range glyphs {
		err := iconTpl.Execute(&sb, icon{
			Title: style.GlyphSelector(userSelector, g.Name),
			Base:  base,
			Class: className(style.GlyphSelector(def, g.Name)),
		})
		if err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// Write renders the preview page into Output.Preview and returns its path.
func Write(glyphs []glyph.Glyph, hash string, opts *config.Options, log logrus.FieldLogger) (string, error) {
	tpl, err := templates.Load(opts.Input.PreviewTpl, templates.Preview())
	if err != nil {
		return "", err
	}

	dst := opts.PreviewFile()
	styles, _ := style.Render(templates.Style(), glyphs, config.Default().Compile.Selector,
		opts.Compile.FontName, style.FontPath(dst, opts.FontBase(hash)))
	icons, err := Icons(glyphs, opts.Compile.Selector)
	if err != nil {
		return "", fmt.Errorf("rendering preview icons: %w", err)
	}

	result := templates.Percent.ReplaceFirst(tpl, map[string]string{
		templates.Styles: styles,
		templates.Icons:  icons,
	})
	result = htmlfmt.Format(result, opts.Format)

	if err = files.Mkdir(opts.Output.Preview); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}
	if err = files.Write(dst, []byte(result)); err != nil {
		return "", fmt.Errorf("failed to write preview file %s: %w", dst, err)
	}
	log.Infof("generated preview file %s", dst)
	return dst, nil
}
