package templates

import (
	"regexp"
	"strings"
)

// Syntax describes one placeholder notation.
type Syntax struct {
	re          *regexp.Regexp
	open, close string
}

var (
	// Curly matches {{name}} placeholders used by style templates.
	Curly = Syntax{re: regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`), open: "{{", close: "}}"}
	// Percent matches {%name%} placeholders used by preview templates.
	Percent = Syntax{re: regexp.MustCompile(`\{%\s*(\w+)\s*%\}`), open: "{%", close: "%}"}
)

type Placeholder struct {
	Name     string
	Offset   int
	Location SourceLocation
}

// Token returns the canonical spelling of the named placeholder.
func (s Syntax) Token(name string) string {
	return s.open + name + s.close
}

// Find lists every placeholder in buf in order of appearance.
func (s Syntax) Find(buf string) []Placeholder {
	var ret []Placeholder
	for _, m := range s.re.FindAllStringSubmatchIndex(buf, -1) {
		ret = append(ret, Placeholder{
			Name:     buf[m[2]:m[3]],
			Offset:   m[0],
			Location: CalcSourceLocation(buf, m[0]),
		})
	}
	return ret
}

// Replace substitutes every occurrence of the known placeholders. Unknown
// ones are left in place and returned so the caller can report them.
func (s Syntax) Replace(buf string, values map[string]string) (string, []Placeholder) {
	var unknown []Placeholder
	matches := s.re.FindAllStringSubmatchIndex(buf, -1)
	if len(matches) == 0 {
		return buf, nil
	}

	out := strings.Builder{}
	last := 0
	for _, m := range matches {
		name := buf[m[2]:m[3]]
		v, ok := values[name]
		if !ok {
			unknown = append(unknown, Placeholder{
				Name:     name,
				Offset:   m[0],
				Location: CalcSourceLocation(buf, m[0]),
			})
			continue
		}
		out.WriteString(buf[last:m[0]])
		out.WriteString(v)
		last = m[1]
	}
	out.WriteString(buf[last:])
	return out.String(), unknown
}

// ReplaceFirst substitutes only the first occurrence of each named
// placeholder.
func (s Syntax) ReplaceFirst(buf string, values map[string]string) string {
	seen := map[string]bool{}
	return s.re.ReplaceAllStringFunc(buf, func(m string) string {
		name := s.re.FindStringSubmatch(m)[1]
		v, ok := values[name]
		if !ok || seen[name] {
			return m
		}
		seen[name] = true
		return v
	})
}
