package render

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"mcpchat/config"
)

const (
	EmptyPlaceholder   = "no content available"
	FailurePlaceholder = "content could not be displayed"
)

type Options struct {
	// CodeStyle is a chroma style name. Unknown names fall back to chroma's default.
	CodeStyle string
}

// Pipeline turns stored message text into a sanitized HTML fragment. It holds
// no per-render state and is safe for concurrent use.
type Pipeline struct {
	highlighter *Highlighter
	policy      *bluemonday.Policy
}

func New(opts Options) *Pipeline {
	if opts.CodeStyle == "" {
		opts.CodeStyle = config.DefaultCodeStyle
	}
	return &Pipeline{
		highlighter: NewHighlighter(opts.CodeStyle),
		policy:      newPolicy(),
	}
}

var defaultPipeline = New(Options{})

// Render runs raw through the default pipeline.
func Render(raw string) string {
	return defaultPipeline.Render(raw)
}

// Render never fails: blank input yields EmptyPlaceholder and any internal
// failure yields FailurePlaceholder.
func (p *Pipeline) Render(raw string) (out string) {
	if strings.TrimSpace(raw) == "" {
		return EmptyPlaceholder
	}

	defer func() {
		if r := recover(); r != nil {
			config.DebugLog.Errorf("[render] recovered from panic: %v", r)
			out = FailurePlaceholder
		}
	}()

	text, notes := ExtractFootnotes(raw)
	text = RewriteReferences(text, footnoteRef)

	var b strings.Builder
	b.WriteString(toHTML(text, p.highlighter))
	if notes.Len() > 0 {
		b.WriteString(p.sources(notes))
	}

	return p.policy.Sanitize(b.String())
}

// CodeCSS returns the stylesheet for highlighted code blocks.
func (p *Pipeline) CodeCSS() string {
	return p.highlighter.CSS()
}

func footnoteRef(id string, first bool) string {
	if first {
		return fmt.Sprintf(`<sup class="footnote-ref"><a href="#footnote-%s" id="footnote-ref-%s">%s</a></sup>`, id, id, id)
	}
	return fmt.Sprintf(`<sup class="footnote-ref"><a href="#footnote-%s">%s</a></sup>`, id, id)
}

func (p *Pipeline) sources(notes *FootnoteTable) string {
	var b strings.Builder
	b.WriteString(`<div class="footnotes"><details><summary>Sources</summary><ol>`)
	for _, fn := range notes.Entries() {
		fmt.Fprintf(&b, `<li id="footnote-%s">%s <a href="#footnote-ref-%s" title="Go back to reference">↑</a></li>`,
			fn.ID, inlineHTML(fn.Body, p.highlighter), fn.ID)
	}
	b.WriteString(`</ol></details></div>`)
	return b.String()
}
