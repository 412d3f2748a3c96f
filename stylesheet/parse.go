// Package stylesheet parses plain CSS into a small tree that can be scoped,
// linted and printed back in a normalized layout.
package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var ErrSyntax = errors.New("css syntax error")

type NodeKind int

const (
	RuleNode NodeKind = iota
	AtRuleNode
	DeclNode
	CommentNode
)

// Node is one element of a stylesheet. Which fields are used depends on Kind:
//   - RuleNode: Selectors, Children
//   - AtRuleNode: Name, Prelude, Block, Children
//   - DeclNode: Property, Value, Important
//   - CommentNode: Text
type Node struct {
	Kind NodeKind

	Selectors []string

	Name    string // without the leading '@'
	Prelude string
	Block   bool

	Property  string
	Value     string
	Important bool

	Text string

	Children []*Node
}

type Sheet struct {
	Nodes []*Node
}

var reImportant = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

// Parse builds a Sheet from CSS source.
func Parse(src string) (*Sheet, error) {
	p := css.NewParser(parse.NewInputString(src), false)
	sheet := &Sheet{}
	var stack []*Node
	var pending []string

	add := func(n *Node) {
		if len(stack) == 0 {
			sheet.Nodes = append(sheet.Nodes, n)
		} else {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, n)
		}
	}

	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != io.EOF {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			if len(stack) > 0 {
				return nil, fmt.Errorf("%w: unclosed block", ErrSyntax)
			}
			return sheet, nil

		case css.CommentGrammar:
			add(&Node{Kind: CommentNode, Text: string(data)})

		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			n := &Node{
				Kind:    AtRuleNode,
				Name:    strings.TrimPrefix(string(data), "@"),
				Prelude: joinTokens(p.Values()),
				Block:   gt == css.BeginAtRuleGrammar,
			}
			add(n)
			if n.Block {
				stack = append(stack, n)
			}

		case css.QualifiedRuleGrammar:
			pending = append(pending, joinSelector(p.Values()))

		case css.BeginRulesetGrammar:
			n := &Node{Kind: RuleNode, Selectors: append(pending, joinSelector(p.Values()))}
			pending = nil
			add(n)
			stack = append(stack, n)

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected '}'", ErrSyntax)
			}
			if len(data) == 0 || data[0] != '}' {
				return nil, fmt.Errorf("%w: unclosed block", ErrSyntax)
			}
			stack = stack[:len(stack)-1]

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			value := strings.TrimSpace(joinTokens(p.Values()))
			n := &Node{Kind: DeclNode, Property: string(data)}
			if loc := reImportant.FindStringIndex(value); loc != nil && gt == css.DeclarationGrammar {
				value = value[:loc[0]]
				n.Important = true
			}
			n.Value = value
			add(n)

		case css.TokenGrammar:
			if strings.TrimSpace(string(data)) != "" {
				return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, data)
			}
		}
	}
}

// joinTokens serializes tokens with whitespace collapsed and a single space
// after every comma.
func joinTokens(tokens []css.Token) string {
	return join(tokens, false)
}

// joinSelector is joinTokens for selectors: the >, + and ~ combinators get a
// single space on each side.
func joinSelector(tokens []css.Token) string {
	return join(tokens, true)
}

func join(tokens []css.Token, selector bool) string {
	sb := strings.Builder{}
	space := false
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			space = sb.Len() > 0
			continue
		case css.CommentToken:
			continue
		case css.CommaToken:
			sb.WriteByte(',')
			space = true
			continue
		case css.RightParenthesisToken:
			space = false
		case css.DelimToken:
			if selector && isCombinator(t.Data) {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.Write(t.Data)
				space = true
				continue
			}
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

func isCombinator(data []byte) bool {
	return len(data) == 1 && (data[0] == '>' || data[0] == '+' || data[0] == '~')
}

// lex returns the tokens of a css fragment.
func lex(s string) []css.Token {
	l := css.NewLexer(parse.NewInputString(s))
	var ret []css.Token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return ret
		}
		ret = append(ret, css.Token{TokenType: tt, Data: append([]byte(nil), data...)})
	}
}

// splitTopLevel splits a value at commas that are not nested in parentheses.
func splitTopLevel(value string) []string {
	var parts []string
	depth := 0
	cur := strings.Builder{}
	for _, t := range lex(value) {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(cur.String()))
				cur.Reset()
				continue
			}
		}
		cur.Write(t.Data)
	}
	parts = append(parts, strings.TrimSpace(cur.String()))
	return parts
}

// walk visits every node depth first.
func walk(nodes []*Node, fn func(n *Node)) {
	for _, n := range nodes {
		fn(n)
		walk(n.Children, fn)
	}
}
