package templates

import (
	"fmt"
	"strings"

	"github.com/adnsv/go-utils/fs"
)

type SourceLocation struct {
	Line   int // 1-based
	Column int // 1-based, in runes
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// CalcSourceLocation converts a byte offset in buf into a line/column pair.
// CR, LF and CRLF all count as a single line break; a leading BOM is skipped.
func CalcSourceLocation(buf string, offset int) SourceLocation {
	offset = min(max(offset, 0), len(buf))
	head := lineBreaks.Replace(strings.TrimPrefix(buf[:offset], "\xef\xbb\xbf"))

	// a trailing sentinel makes the scan stop right at the offset
	line, ch, err := fs.LineAndCharacter(head+" ", len(head))
	if err != nil {
		return SourceLocation{Line: 1, Column: 1}
	}
	if line > 0 {
		// the line break itself is counted on the line it starts
		ch--
	}
	return SourceLocation{Line: line + 1, Column: ch}
}

func (sl SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", sl.Line, sl.Column)
}
