package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
)

type PickerItem struct {
	ID     string
	Label  string
	Detail string
	Value  any
}

// Picker is a filterable list used for chats, tools and models. In multi
// mode items are toggled instead of chosen.
type Picker struct {
	Title string

	items    []PickerItem
	visible  []int
	cursor   int
	offset   int
	multi    bool
	selected map[string]bool
	filter   textinput.Model
}

func NewPicker(title string, items []PickerItem, multi bool) *Picker {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = "/ "
	ti.Focus()

	p := &Picker{
		Title:    title,
		items:    items,
		multi:    multi,
		selected: make(map[string]bool),
		filter:   ti,
	}
	p.applyFilter()
	return p
}

func (p *Picker) Multi() bool { return p.multi }

// Select marks ids as chosen (multi mode) or moves the cursor onto the first
// matching item (single mode).
func (p *Picker) Select(ids ...string) {
	for _, id := range ids {
		if p.multi {
			p.selected[id] = true
			continue
		}
		for i, idx := range p.visible {
			if p.items[idx].ID == id {
				p.cursor = i
				return
			}
		}
	}
}

func (p *Picker) FilterValue() string {
	return p.filter.Value()
}

// SetFilter narrows the list to fuzzy matches of query, best match first.
func (p *Picker) SetFilter(query string) {
	p.filter.SetValue(query)
	p.applyFilter()
}

func (p *Picker) applyFilter() {
	query := strings.TrimSpace(p.filter.Value())
	p.visible = p.visible[:0]
	if query == "" {
		for i := range p.items {
			p.visible = append(p.visible, i)
		}
	} else {
		targets := make([]string, len(p.items))
		for i, item := range p.items {
			targets[i] = item.Label + " " + item.Detail
		}
		for _, m := range fuzzy.Find(query, targets) {
			p.visible = append(p.visible, m.Index)
		}
	}
	p.cursor, p.offset = 0, 0
}

func (p *Picker) Move(delta int) {
	if len(p.visible) == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.visible) {
		p.cursor = len(p.visible) - 1
	}
}

func (p *Picker) Current() (PickerItem, bool) {
	if p.cursor < 0 || p.cursor >= len(p.visible) {
		return PickerItem{}, false
	}
	return p.items[p.visible[p.cursor]], true
}

func (p *Picker) Toggle() {
	item, ok := p.Current()
	if !ok || !p.multi {
		return
	}
	if p.selected[item.ID] {
		delete(p.selected, item.ID)
	} else {
		p.selected[item.ID] = true
	}
}

// Selected returns the chosen ids in list order.
func (p *Picker) Selected() []string {
	ids := []string{}
	for _, item := range p.items {
		if p.selected[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// UpdateFilter feeds a key to the filter input and re-filters on change.
func (p *Picker) UpdateFilter(msg tea.Msg) {
	before := p.filter.Value()
	p.filter, _ = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.applyFilter()
	}
}

func (p *Picker) View(width, height int) string {
	if width < 20 {
		width = 20
	}
	rows := height - 6
	if rows < 3 {
		rows = 3
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(p.filter.View())
	b.WriteString("\n\n")

	if len(p.visible) == 0 {
		b.WriteString(DimStyle.Render("  No matches"))
		b.WriteString("\n")
	}

	end := min(p.offset+rows, len(p.visible))
	for i := p.offset; i < end; i++ {
		item := p.items[p.visible[i]]
		b.WriteString(p.renderRow(item, i == p.cursor, width))
		b.WriteString("\n")
	}

	if len(p.visible) > rows {
		b.WriteString(DimStyle.Render(fmt.Sprintf("  %d/%d", p.cursor+1, len(p.visible))))
		b.WriteString("\n")
	}
	return b.String()
}

func (p *Picker) renderRow(item PickerItem, current bool, width int) string {
	prefix := "  "
	if current {
		prefix = "> "
	}
	if p.multi {
		if p.selected[item.ID] {
			prefix += "[x] "
		} else {
			prefix += "[ ] "
		}
	}

	labelWidth := width / 2
	label := truncate(item.Label, labelWidth)
	label += strings.Repeat(" ", labelWidth-runewidth.StringWidth(label))
	detail := truncate(item.Detail, width-labelWidth-runewidth.StringWidth(prefix)-1)

	if current {
		return SelectedStyle.Render(prefix+label) + " " + DimStyle.Render(detail)
	}
	return prefix + label + " " + DimStyle.Render(detail)
}

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
