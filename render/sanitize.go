package render

import "github.com/microcosm-cc/bluemonday"

// newPolicy builds the allow-list applied to every rendered fragment.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr", "code", "pre", "blockquote",
		"strong", "em", "del",
		"ul", "ol", "li", "a",
		"table", "thead", "tbody", "tr", "th", "td",
		"img", "span", "div",
		// emitted by the footnote pass
		"sup", "details", "summary",
	)
	p.AllowAttrs("href", "target", "class", "id", "src", "alt", "title", "style").Globally()
	p.AllowStyles("color", "background-color", "font-weight", "font-style", "text-align", "text-decoration").Globally()
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)

	return p
}
