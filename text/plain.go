package text

import (
	"strings"

	"github.com/tsawler/pageview/model"
)

// PlainText returns the characters of page in layout order. Each line is
// followed by a newline and each block by one more.
func PlainText(page *model.TextPage) string {
	if page == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(page.CharCount() + page.LineCount() + len(page.Blocks))
	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			for _, span := range line.Spans {
				for _, ch := range span.Chars {
					sb.WriteRune(ch.Rune)
				}
			}
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
