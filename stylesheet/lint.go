package stylesheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// ErrLint is returned when a stylesheet cannot be linted.
var ErrLint = errors.New("stylelint failed")

// Problem is a single lint finding.
type Problem struct {
	Rule    string
	Message string
}

func (p Problem) String() string {
	return p.Message + " (" + p.Rule + ")"
}

const (
	RuleBlockNoEmpty        = "block-no-empty"
	RuleNoDuplicateSelector = "no-duplicate-selectors"
	RuleNoDuplicateProperty = "declaration-block-no-duplicate-properties"
	RuleColorHexCase        = "color-hex-case"
	RuleLengthZeroNoUnit    = "length-zero-no-unit"
)

var lengthUnits = map[string]bool{
	"em": true, "ex": true, "ch": true, "rem": true, "vw": true, "vh": true,
	"vmin": true, "vmax": true, "cm": true, "mm": true, "q": true, "in": true,
	"pt": true, "pc": true, "px": true,
}

// Lint checks the sheet and returns the problems found. With fix set the
// sheet is rewritten so that the fixable problems go away; duplicate
// selectors are reported but left in place.
func (s *Sheet) Lint(fix bool) []Problem {
	l := &linter{fix: fix}
	s.Nodes = l.block(s.Nodes)
	return l.problems
}

type linter struct {
	fix      bool
	problems []Problem
}

func (l *linter) report(rule, format string, args ...any) {
	l.problems = append(l.problems, Problem{Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (l *linter) block(nodes []*Node) []*Node {
	for _, n := range nodes {
		if n.Kind == DeclNode {
			l.decl(n)
		}
		if len(n.Children) > 0 {
			n.Children = l.block(n.Children)
		}
	}
	l.duplicateSelectors(nodes)
	nodes = l.duplicateProperties(nodes)
	return l.emptyBlocks(nodes)
}

func (l *linter) decl(n *Node) {
	if strings.HasPrefix(n.Property, "--") {
		return
	}
	tokens := lex(n.Value)
	changed := false
	depth := 0
	for i, t := range tokens {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--

		case css.HashToken:
			hex := string(t.Data[1:])
			if isHexColor(hex) && hex != strings.ToLower(hex) {
				l.report(RuleColorHexCase, "expected %q to be %q", t.Data, strings.ToLower(string(t.Data)))
				if l.fix {
					tokens[i].Data = []byte(strings.ToLower(string(t.Data)))
					changed = true
				}
			}

		case css.DimensionToken:
			if depth > 0 {
				continue
			}
			num, unit := splitDimension(string(t.Data))
			if f, err := strconv.ParseFloat(num, 64); err == nil && f == 0 && lengthUnits[strings.ToLower(unit)] {
				l.report(RuleLengthZeroNoUnit, "unexpected unit in %s: %s", n.Property, t.Data)
				if l.fix {
					tokens[i].Data = []byte("0")
					changed = true
				}
			}
		}
	}
	if changed {
		sb := strings.Builder{}
		for _, t := range tokens {
			sb.Write(t.Data)
		}
		n.Value = sb.String()
	}
}

// duplicateProperties flags a property declared more than once in a block.
// Consecutive duplicates with different values are allowed since they are
// the usual fallback pattern.
func (l *linter) duplicateProperties(nodes []*Node) []*Node {
	last := map[string]int{}
	drop := map[int]bool{}
	prev := -1
	for i, n := range nodes {
		if n.Kind != DeclNode {
			continue
		}
		name := strings.ToLower(n.Property)
		if j, ok := last[name]; ok {
			fallback := j == prev && nodes[j].Value != n.Value
			if !fallback {
				l.report(RuleNoDuplicateProperty, "unexpected duplicate %q", n.Property)
				drop[j] = true
			}
		}
		last[name] = i
		prev = i
	}
	if !l.fix || len(drop) == 0 {
		return nodes
	}
	ret := nodes[:0:0]
	for i, n := range nodes {
		if !drop[i] {
			ret = append(ret, n)
		}
	}
	return ret
}

// duplicateSelectors only reports: moving declarations between rules would
// change the cascade for the rules in between.
func (l *linter) duplicateSelectors(nodes []*Node) {
	seen := map[string]bool{}
	for _, n := range nodes {
		if n.Kind != RuleNode {
			continue
		}
		key := strings.Join(n.Selectors, ", ")
		if seen[key] {
			l.report(RuleNoDuplicateSelector, "unexpected duplicate selector %q", key)
		}
		seen[key] = true
	}
}

func (l *linter) emptyBlocks(nodes []*Node) []*Node {
	ret := nodes[:0:0]
	for _, n := range nodes {
		empty := len(n.Children) == 0 && (n.Kind == RuleNode || n.Kind == AtRuleNode && n.Block)
		if empty {
			l.report(RuleBlockNoEmpty, "unexpected empty block in %s", describe(n))
			if l.fix {
				continue
			}
		}
		ret = append(ret, n)
	}
	return ret
}

func describe(n *Node) string {
	if n.Kind == AtRuleNode {
		return "@" + n.Name
	}
	return strings.Join(n.Selectors, ", ")
}

func isHexColor(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range s {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func splitDimension(s string) (num, unit string) {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if '0' <= c && c <= '9' || c == '.' {
			break
		}
		i--
	}
	return s[:i], s[i:]
}
