package ui

import "mcpchat/render"

// renderCache remembers terminal renderings of message text. Stored text
// never changes, so the text itself is the key; a width change invalidates
// everything.
type renderCache struct {
	width   int
	entries map[string]string
	render  func(text string, width int) string
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[string]string), render: render.Terminal}
}

func (c *renderCache) get(text string, width int) string {
	if width != c.width {
		c.width = width
		c.entries = make(map[string]string)
	}
	if out, ok := c.entries[text]; ok {
		return out
	}
	out := c.render(text, width)
	c.entries[text] = out
	return out
}
