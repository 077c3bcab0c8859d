package render

import (
	"regexp"
	"strings"
)

var definitionPattern = regexp.MustCompile(`^\[\^(\d+)\]:[ \t]*(.*)$`)

// Footnote is one `[^id]: body` definition.
type Footnote struct {
	ID   string
	Body string
}

// FootnoteTable keeps footnotes in the order they were first defined.
// The first definition of an id wins.
type FootnoteTable struct {
	entries []Footnote
	index   map[string]int
}

func NewFootnoteTable() *FootnoteTable {
	return &FootnoteTable{index: make(map[string]int)}
}

// Add records a definition unless the id is already known. It reports whether
// the definition was kept.
func (t *FootnoteTable) Add(id, body string) bool {
	if _, ok := t.index[id]; ok {
		return false
	}
	t.index[id] = len(t.entries)
	t.entries = append(t.entries, Footnote{ID: id, Body: body})
	return true
}

func (t *FootnoteTable) Body(id string) (string, bool) {
	i, ok := t.index[id]
	if !ok {
		return "", false
	}
	return t.entries[i].Body, true
}

func (t *FootnoteTable) Len() int {
	return len(t.entries)
}

// Entries returns the footnotes in insertion order.
func (t *FootnoteTable) Entries() []Footnote {
	out := make([]Footnote, len(t.entries))
	copy(out, t.entries)
	return out
}

// ExtractFootnotes removes every footnote definition outside code blocks
// from raw and returns the remaining text with the collected table.
//
// A definition starts on a line beginning with `[^digits]:` and runs over the
// following lines until a blank line, a line starting with `[^`, or code.
func ExtractFootnotes(raw string) (string, *FootnoteTable) {
	table := NewFootnoteTable()
	lines := strings.Split(raw, "\n")
	code := codeLines(lines)
	kept := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if code[i] {
			kept = append(kept, line)
			continue
		}

		m := definitionPattern.FindStringSubmatch(line)
		if m == nil {
			kept = append(kept, line)
			continue
		}

		body := []string{m[2]}
		for i+1 < len(lines) && !code[i+1] && continuesDefinition(lines[i+1]) {
			i++
			body = append(body, lines[i])
		}
		table.Add(m[1], strings.TrimSpace(strings.Join(body, "\n")))
	}

	return trimBlankLines(kept), table
}

func continuesDefinition(line string) bool {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "[^") {
		return false
	}
	_, _, ok := openingFence(line)
	return !ok
}

func trimBlankLines(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// RewriteReferences replaces every `[^digits]` not followed by a colon with
// the result of replace. Code blocks and inline code spans are copied
// verbatim. first is true for the first reference of each id.
func RewriteReferences(text string, replace func(id string, first bool) string) string {
	seen := make(map[string]bool)
	lines := strings.Split(text, "\n")

	var out strings.Builder
	var prose []string
	flush := func() {
		if len(prose) == 0 {
			return
		}
		out.WriteString(rewriteInline(strings.Join(prose, "\n"), seen, replace))
		out.WriteByte('\n')
		prose = prose[:0]
	}

	code := codeLines(lines)
	for i, line := range lines {
		if code[i] {
			flush()
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		prose = append(prose, line)
	}
	flush()

	return strings.TrimSuffix(out.String(), "\n")
}

func rewriteInline(s string, seen map[string]bool, replace func(id string, first bool) string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch {
		case s[i] == '`':
			n := runLength(s, i, '`')
			if end := closingBackticks(s, i+n, n); end >= 0 {
				b.WriteString(s[i:end])
				i = end
			} else {
				b.WriteString(s[i : i+n])
				i += n
			}
		case strings.HasPrefix(s[i:], "[^"):
			j := i + 2
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j > i+2 && j < len(s) && s[j] == ']' && (j+1 == len(s) || s[j+1] != ':') {
				id := s[i+2 : j]
				b.WriteString(replace(id, !seen[id]))
				seen[id] = true
				i = j + 1
			} else {
				b.WriteString("[^")
				i += 2
			}
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

// closingBackticks returns the index just past a run of exactly n backticks
// starting at or after from, or -1.
func closingBackticks(s string, from, n int) int {
	for i := from; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		m := runLength(s, i, '`')
		if m == n {
			return i + m
		}
		i += m
	}
	return -1
}

var listItemPattern = regexp.MustCompile(`^ {0,3}([-*+]|\d+[.)])[ \t]`)

// codeLines reports which lines belong to a code block, matching what the
// markdown converter treats as code. A fence only counts when a closing
// fence follows; an unclosed one renders as a paragraph. Indented blocks
// start after a blank line and never inside a list.
func codeLines(lines []string) []bool {
	code := make([]bool, len(lines))
	inList := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		if c, n, ok := openingFence(line); ok {
			if end := closingFence(lines, i+1, c, n); end >= 0 {
				for j := i; j <= end; j++ {
					code[j] = true
				}
				i = end
				inList = false
				continue
			}
		}

		if indented(line) {
			if !inList && (i == 0 || strings.TrimSpace(lines[i-1]) == "") {
				for i < len(lines) && (indented(lines[i]) || strings.TrimSpace(lines[i]) == "") {
					code[i] = true
					i++
				}
				i--
			}
			continue
		}

		inList = listItemPattern.MatchString(line)
	}
	return code
}

func closingFence(lines []string, from int, c byte, length int) int {
	for j := from; j < len(lines); j++ {
		if closesFence(lines[j], c, length) {
			return j
		}
	}
	return -1
}

func indented(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func openingFence(line string) (byte, int, bool) {
	s, ok := stripIndent(line)
	if !ok || len(s) < 3 || (s[0] != '`' && s[0] != '~') {
		return 0, 0, false
	}
	n := runLength(s, 0, s[0])
	if n < 3 {
		return 0, 0, false
	}
	if s[0] == '`' && strings.Contains(s[n:], "`") {
		return 0, 0, false
	}
	return s[0], n, true
}

func closesFence(line string, c byte, length int) bool {
	s, ok := stripIndent(line)
	if !ok || len(s) == 0 || s[0] != c {
		return false
	}
	n := runLength(s, 0, c)
	return n >= length && strings.TrimSpace(s[n:]) == ""
}

// stripIndent removes up to three leading spaces. Deeper indentation is an
// indented code block, not a fence.
func stripIndent(line string) (string, bool) {
	i := 0
	for i < len(line) && i < 4 && line[i] == ' ' {
		i++
	}
	if i == 4 {
		return "", false
	}
	return line[i:], true
}
