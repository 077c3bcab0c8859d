package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []PickerItem {
	return []PickerItem{
		{ID: "search", Label: "search", Detail: "Web search"},
		{ID: "git", Label: "git", Detail: "Repository access"},
		{ID: "postgres", Label: "postgres", Detail: "Query the warehouse"},
	}
}

func TestPicker_Filter(t *testing.T) {
	p := NewPicker("Tools", testItems(), false)

	p.SetFilter("pg")
	item, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "postgres", item.ID)

	p.SetFilter("zzz")
	_, ok = p.Current()
	assert.False(t, ok)

	p.SetFilter("")
	item, _ = p.Current()
	assert.Equal(t, "search", item.ID)
}

func TestPicker_FilterFromKeys(t *testing.T) {
	p := NewPicker("Tools", testItems(), false)
	p.UpdateFilter(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("git")})

	assert.Equal(t, "git", p.FilterValue())
	item, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "git", item.ID)
}

func TestPicker_MoveClamps(t *testing.T) {
	p := NewPicker("Tools", testItems(), false)

	p.Move(-5)
	item, _ := p.Current()
	assert.Equal(t, "search", item.ID)

	p.Move(10)
	item, _ = p.Current()
	assert.Equal(t, "postgres", item.ID)
}

func TestPicker_MultiSelect(t *testing.T) {
	p := NewPicker("Tools", testItems(), true)
	p.Select("postgres")

	p.Toggle() // search on
	p.Move(1)
	p.Toggle() // git on
	p.Toggle() // git off

	assert.Equal(t, []string{"search", "postgres"}, p.Selected())
}

func TestPicker_SingleSelectMovesCursor(t *testing.T) {
	p := NewPicker("Chats", testItems(), false)
	p.Select("git")
	p.Toggle()

	item, _ := p.Current()
	assert.Equal(t, "git", item.ID)
	assert.Empty(t, p.Selected())
}

func TestPicker_View(t *testing.T) {
	items := append(testItems(), PickerItem{ID: "long", Label: strings.Repeat("界", 60), Detail: "wide"})
	p := NewPicker("Tools", items, true)
	p.Select("git")

	out := p.View(40, 20)
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "", truncate("anything", 0))

	out := truncate(strings.Repeat("界", 10), 9)
	assert.LessOrEqual(t, runewidth.StringWidth(out), 9)
	assert.True(t, strings.HasSuffix(out, "..."))
}
