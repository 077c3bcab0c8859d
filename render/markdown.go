package render

import (
	"bytes"
	"html"
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const markdownExtensions = parser.CommonExtensions |
	parser.HardLineBreak |
	parser.Tables |
	parser.Strikethrough |
	parser.Autolink |
	parser.FencedCode

// toHTML converts markdown to an unsanitized HTML fragment. Fenced and
// indented code blocks go through the highlighter.
func toHTML(text string, h *Highlighter) string {
	p := parser.NewWithExtensions(markdownExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		// No typography passes: replies quote flags and values verbatim
		Flags:          mdhtml.FlagsNone | mdhtml.HrefTargetBlank,
		RenderNodeHook: codeBlockHook(h),
	})
	return string(markdown.ToHTML([]byte(text), p, r))
}

// inlineHTML renders a single paragraph of markdown without the enclosing <p>.
func inlineHTML(text string, h *Highlighter) string {
	out := bytes.TrimSpace([]byte(toHTML(text, h)))
	if bytes.HasPrefix(out, []byte("<p>")) && bytes.HasSuffix(out, []byte("</p>")) &&
		bytes.Count(out, []byte("<p>")) == 1 {
		out = out[len("<p>") : len(out)-len("</p>")]
	}
	return string(out)
}

func codeBlockHook(h *Highlighter) mdhtml.RenderNodeFunc {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		block, ok := node.(*ast.CodeBlock)
		if !ok || !entering {
			return ast.GoToNext, false
		}

		code := string(block.Literal)
		if out, ok := h.Highlight(code, fenceLanguage(block.Info)); ok {
			_, _ = io.WriteString(w, out)
			return ast.GoToNext, true
		}

		_, _ = io.WriteString(w, "<pre><code>"+html.EscapeString(code)+"</code></pre>\n")
		return ast.GoToNext, true
	}
}
