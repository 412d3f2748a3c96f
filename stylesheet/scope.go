package stylesheet

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// ScopeGlobal wraps every class and id selector in :global(...) so that CSS
// module loaders keep the names unchanged. Selectors already inside
// :global(...) are left alone. Declaration values are never touched.
func (s *Sheet) ScopeGlobal() {
	walk(s.Nodes, func(n *Node) {
		if n.Kind != RuleNode {
			return
		}
		for i, sel := range n.Selectors {
			n.Selectors[i] = scopeSelector(sel)
		}
	})
}

func scopeSelector(sel string) string {
	tokens := lex(sel)
	sb := strings.Builder{}
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case t.TokenType == css.ColonToken && i+1 < len(tokens) && isGlobal(tokens[i+1]):
			// copy the existing :global(...) group verbatim
			depth := 0
			for ; i < len(tokens); i++ {
				sb.Write(tokens[i].Data)
				switch tokens[i].TokenType {
				case css.FunctionToken, css.LeftParenthesisToken:
					depth++
				case css.RightParenthesisToken:
					depth--
				}
				if depth == 0 && tokens[i].TokenType == css.RightParenthesisToken {
					break
				}
			}

		case t.TokenType == css.DelimToken && string(t.Data) == "." && i+1 < len(tokens) && tokens[i+1].TokenType == css.IdentToken:
			sb.WriteString(":global(.")
			sb.Write(tokens[i+1].Data)
			sb.WriteByte(')')
			i++

		case t.TokenType == css.HashToken:
			sb.WriteString(":global(")
			sb.Write(t.Data)
			sb.WriteByte(')')

		default:
			sb.Write(t.Data)
		}
	}
	return sb.String()
}

func isGlobal(t css.Token) bool {
	return t.TokenType == css.FunctionToken && strings.EqualFold(string(t.Data), "global(")
}
