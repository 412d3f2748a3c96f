// Package htmlfmt re-indents HTML documents.
package htmlfmt

import (
	"strings"
	"unicode/utf8"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/stylesheet"
	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type token struct {
	typ  html.TokenType
	name string
	raw  string
}

func tokenize(src string) []token {
	z := html.NewTokenizer(strings.NewReader(src))
	var ret []token
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return ret
		}
		t := token{typ: tt, raw: string(z.Raw())}
		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			t.name = string(name)
		}
		ret = append(ret, t)
	}
}

// collapse joins runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type formatter struct {
	opts   config.FormatOptions
	indent string
	lines  []string
	depth  int
}

func (f *formatter) line(s string) {
	f.lines = append(f.lines, strings.Repeat(f.indent, f.depth)+s)
}

func (f *formatter) fits(s string) bool {
	w := utf8.RuneCountInString(s)
	if f.opts.UseTabs {
		w += f.depth * max(f.opts.TabWidth, 1)
	} else {
		w += f.depth * len(f.indent)
	}
	return w <= f.opts.PrintWidth
}

// Format prints one tag per line indented by nesting depth. An element that
// holds nothing but a short text stays on one line. The content of style and
// script elements is re-indented by brace depth.
func Format(src string, opts config.FormatOptions) string {
	f := &formatter{opts: opts, indent: opts.Indent()}
	tokens := tokenize(src)

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.typ {
		case html.DoctypeToken, html.CommentToken, html.SelfClosingTagToken:
			f.line(strings.TrimSpace(t.raw))

		case html.StartTagToken:
			tag := collapse(t.raw)
			if voidElements[t.name] {
				f.line(tag)
				continue
			}
			if n := f.inline(tokens, i); n > 0 {
				i += n
				continue
			}
			f.line(tag)
			f.depth++

		case html.EndTagToken:
			if voidElements[t.name] {
				continue
			}
			if f.depth > 0 {
				f.depth--
			}
			f.line(collapse(t.raw))

		case html.TextToken:
			prev := ""
			if i > 0 && tokens[i-1].typ == html.StartTagToken {
				prev = tokens[i-1].name
			}
			if prev == "style" || prev == "script" {
				f.raw(t.raw)
				continue
			}
			if s := collapse(t.raw); s != "" {
				f.line(s)
			}
		}
	}

	if len(f.lines) == 0 {
		return ""
	}
	eol := opts.EOL()
	return strings.Join(f.lines, eol) + eol
}

// inline prints tokens[i] together with its text and end tag on a single line
// when they fit. It returns the number of extra tokens consumed.
func (f *formatter) inline(tokens []token, i int) int {
	start := tokens[i]
	if start.name == "style" || start.name == "script" {
		return 0
	}
	s := collapse(start.raw)
	j := i + 1
	if j < len(tokens) && tokens[j].typ == html.TextToken {
		if strings.Contains(strings.TrimSpace(tokens[j].raw), "\n") {
			return 0
		}
		s += strings.TrimSpace(collapse(tokens[j].raw))
		j++
	}
	if j >= len(tokens) || tokens[j].typ != html.EndTagToken || tokens[j].name != start.name {
		return 0
	}
	s += collapse(tokens[j].raw)
	if !f.fits(s) {
		return 0
	}
	f.line(s)
	return j - i
}

// raw re-indents the text content of style and script elements one level
// deeper than the enclosing tag.
func (f *formatter) raw(text string) {
	body := stylesheet.Reindent(text, config.FormatOptions{
		TabWidth:  f.opts.TabWidth,
		UseTabs:   f.opts.UseTabs,
		EndOfLine: "lf",
	})
	if body == "" {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		if l == "" {
			f.lines = append(f.lines, "")
			continue
		}
		f.line(l)
	}
}
