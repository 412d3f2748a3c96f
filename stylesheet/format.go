package stylesheet

import (
	"strings"
	"unicode/utf8"

	"github.com/adnsv/iconfont/config"
)

type printer struct {
	opts   config.FormatOptions
	indent string
	lines  []string
}

func (p *printer) line(depth int, s string) {
	p.lines = append(p.lines, strings.Repeat(p.indent, depth)+s)
}

func (p *printer) blank() {
	if n := len(p.lines); n > 0 && p.lines[n-1] != "" {
		p.lines = append(p.lines, "")
	}
}

// width measures a line the way an editor would, expanding tabs.
func (p *printer) width(depth int, s string) int {
	w := utf8.RuneCountInString(s)
	if p.opts.UseTabs {
		return w + depth*max(p.opts.TabWidth, 1)
	}
	return w + depth*len(p.indent)
}

// Format prints the sheet with one selector and one declaration per line and
// a blank line between blocks.
func (s *Sheet) Format(opts config.FormatOptions) string {
	p := &printer{opts: opts, indent: opts.Indent()}
	p.nodes(s.Nodes, 0)
	if len(p.lines) == 0 {
		return ""
	}
	eol := opts.EOL()
	return strings.Join(p.lines, eol) + eol
}

func (p *printer) nodes(nodes []*Node, depth int) {
	for i, n := range nodes {
		if i > 0 && (depth == 0 || n.Kind == RuleNode || n.Kind == AtRuleNode && n.Block) {
			p.blank()
		}
		switch n.Kind {
		case CommentNode:
			for _, l := range splitLines(n.Text) {
				p.line(depth, strings.TrimRight(l, " \t"))
			}

		case AtRuleNode:
			head := "@" + n.Name
			if n.Prelude != "" {
				head += " " + n.Prelude
			}
			if !n.Block {
				p.line(depth, head+";")
				continue
			}
			p.line(depth, head+" {")
			p.nodes(n.Children, depth+1)
			p.line(depth, "}")

		case RuleNode:
			for j, sel := range n.Selectors {
				if j < len(n.Selectors)-1 {
					p.line(depth, sel+",")
				} else {
					p.line(depth, sel+" {")
				}
			}
			p.nodes(n.Children, depth+1)
			p.line(depth, "}")

		case DeclNode:
			p.decl(n, depth, i == len(nodes)-1)
		}
	}
}

func (p *printer) decl(n *Node, depth int, last bool) {
	end := ";"
	if last && !p.opts.Semi {
		end = ""
	}
	if n.Important {
		end = " !important" + end
	}

	one := n.Property + ": " + n.Value + end
	if p.width(depth, one) <= p.opts.PrintWidth {
		p.line(depth, one)
		return
	}
	parts := splitTopLevel(n.Value)
	if len(parts) < 2 {
		p.line(depth, one)
		return
	}
	p.line(depth, n.Property+":")
	for i, part := range parts {
		if i < len(parts)-1 {
			p.line(depth+1, part+",")
		} else {
			p.line(depth+1, part+end)
		}
	}
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Reindent normalizes indentation by brace depth without parsing the source.
// It is used for syntaxes the parser does not understand, such as scss and
// less. Runs of blank lines are collapsed.
func Reindent(src string, opts config.FormatOptions) string {
	indent := opts.Indent()
	var out []string
	depth := 0
	sc := braceScanner{}
	for _, l := range splitLines(src) {
		l = strings.TrimSpace(l)
		if l == "" {
			if n := len(out); n > 0 && out[n-1] != "" {
				out = append(out, "")
			}
			continue
		}
		opens, closes, leading := sc.scan(l)
		d := depth - leading
		if d < 0 {
			d = 0
		}
		if sc.inComment && !strings.HasPrefix(l, "/*") {
			d = depth
		}
		out = append(out, strings.Repeat(indent, d)+l)
		depth += opens - closes
		if depth < 0 {
			depth = 0
		}
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	eol := opts.EOL()
	return strings.Join(out, eol) + eol
}

// braceScanner counts braces outside of strings and comments, carrying block
// comment state across lines.
type braceScanner struct {
	inComment bool
}

// scan returns the number of opening and closing braces on the line and how
// many closing braces precede any other code.
func (sc *braceScanner) scan(l string) (opens, closes, leading int) {
	var quote byte
	code := false
	for i := 0; i < len(l); i++ {
		c := l[i]
		switch {
		case sc.inComment:
			if c == '*' && i+1 < len(l) && l[i+1] == '/' {
				sc.inComment = false
				i++
			}
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '/' && i+1 < len(l) && l[i+1] == '*':
			sc.inComment = true
			i++
		case c == '/' && i+1 < len(l) && l[i+1] == '/':
			return
		case c == '"' || c == '\'':
			quote = c
			code = true
		case c == '{':
			opens++
			code = true
		case c == '}':
			closes++
			if !code {
				leading++
			}
		case c != ' ' && c != '\t':
			code = true
		}
	}
	return
}
