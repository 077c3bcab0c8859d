package render

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"mcpchat/config"
)

const minTerminalWidth = 20

// Terminal renders raw for a terminal of the given width. Footnote
// references become [N] and the definitions are listed under Sources.
func Terminal(raw string, width int) (out string) {
	if strings.TrimSpace(raw) == "" {
		return EmptyPlaceholder
	}
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	defer func() {
		if r := recover(); r != nil {
			config.DebugLog.Errorf("[render] terminal render recovered from panic: %v", r)
			out = FailurePlaceholder
		}
	}()

	text, notes := ExtractFootnotes(raw)
	text = RewriteReferences(text, func(id string, _ bool) string {
		return `\[` + id + `\]`
	})

	if notes.Len() > 0 {
		var b strings.Builder
		b.WriteString(text)
		b.WriteString("\n\n**Sources**\n\n")
		for _, fn := range notes.Entries() {
			fmt.Fprintf(&b, "- \\[%s\\] %s\n", fn.ID, strings.ReplaceAll(fn.Body, "\n", " "))
		}
		text = b.String()
	}

	// Autolink stays off so terminals can detect URLs themselves
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(text))
	return strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")
}
