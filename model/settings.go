package model

import (
	"sort"
	"strings"
)

// ModelSettings are the sampling parameters forwarded to the backend.
type ModelSettings struct {
	Temperature float64 `json:"temperature" toml:"temperature"`
	MaxTokens   int     `json:"maxTokens" toml:"max_tokens"`
	TopP        float64 `json:"topP" toml:"top_p"`
	TopK        int     `json:"topK" toml:"top_k"`
}

// ProviderSelection names the LLM provider and model the backend should use.
type ProviderSelection struct {
	Provider string `json:"provider"`
	ModelID  string `json:"modelId"`
}

// Complete reports whether both halves of the selection are set.
// A partial selection is never sent.
func (p *ProviderSelection) Complete() bool {
	return p != nil && p.Provider != "" && p.ModelID != ""
}

// String formats the selection as provider/model for status lines.
func (p *ProviderSelection) String() string {
	if !p.Complete() {
		return "server default"
	}
	return p.Provider + "/" + p.ModelID
}

// ToolSet is the set of tool names the user enabled for the next request.
type ToolSet map[string]struct{}

// NewToolSet builds a set from names, ignoring blanks.
func NewToolSet(names ...string) ToolSet {
	set := make(ToolSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Has reports whether name is selected.
func (s ToolSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Toggle flips the selection state of name.
func (s ToolSet) Toggle(name string) {
	if s.Has(name) {
		delete(s, name)
		return
	}
	s[name] = struct{}{}
}

// Names returns the selected names in sorted order.
// The result is never nil so it encodes as an empty JSON array.
func (s ToolSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone copies the set.
func (s ToolSet) Clone() ToolSet {
	c := make(ToolSet, len(s))
	for name := range s {
		c[name] = struct{}{}
	}
	return c
}
