package deckgen

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Template slot positions inside the template deck.
const (
	SlotEmphasis   = 0 // single emphasised message
	SlotList3      = 1 // title + 3 lines
	SlotList4      = 2 // title + 4 lines
	SlotList5      = 3 // title + 5 lines
	SlotIllustrate = 4 // title + large illustration frame
	SlotScreenshot = 8 // title + large screenshot frame
)

// fixedTemplates resolve to the same slot regardless of item count.
var fixedTemplates = map[string]int{
	"title_card":   SlotEmphasis,
	"cta":          SlotEmphasis,
	"definition":   SlotList3,
	"comparison":   SlotList3,
	"illustration": SlotIllustrate,
	"diagram":      SlotIllustrate,
	"screenshot":   SlotScreenshot,
}

// countTemplates pick a list slot by how many items they carry.
var countTemplates = map[string]bool{
	"bullets": true,
	"process": true,
	"recap":   true,
}

// DefaultTemplate is used for plan entries that name no template.
const DefaultTemplate = "bullets"

// ResolveTemplateIndex returns the template slide that seeds a slide of the
// named template. Count-sensitive templates, and any name not known here,
// choose the 3-, 4- or 5-line list slot by itemCount.
func ResolveTemplateIndex(name string, itemCount int) int {
	if idx, ok := fixedTemplates[name]; ok {
		return idx
	}
	switch {
	case itemCount <= 3:
		return SlotList3
	case itemCount == 4:
		return SlotList4
	default:
		return SlotList5
	}
}

// LayoutKind describes which shapes of a template slide receive text.
type LayoutKind int

const (
	// LayoutEmphasis has one message shape.
	LayoutEmphasis LayoutKind = iota
	// LayoutList has a title shape and a multi-line content shape.
	LayoutList
	// LayoutVisual has a title shape and an image placeholder.
	LayoutVisual
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutEmphasis:
		return "emphasis"
	case LayoutList:
		return "list"
	default:
		return "visual"
	}
}

// LayoutFor returns the layout of a template slot.
func LayoutFor(index int) LayoutKind {
	switch {
	case index <= SlotEmphasis:
		return LayoutEmphasis
	case index <= SlotList5:
		return LayoutList
	default:
		return LayoutVisual
	}
}

// MaxItems returns how many content lines a list slot shows, or 0 for other
// slots.
func MaxItems(index int) int {
	switch index {
	case SlotList3:
		return 3
	case SlotList4:
		return 4
	case SlotList5:
		return 5
	}
	return 0
}

// KnownTemplate reports whether name is one of the template names the
// resolver maps explicitly.
func KnownTemplate(name string) bool {
	_, fixed := fixedTemplates[name]
	return fixed || countTemplates[name]
}

// TemplateNames returns every known template name, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(fixedTemplates)+len(countTemplates))
	for n := range fixedTemplates {
		names = append(names, n)
	}
	for n := range countTemplates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SuggestTemplate returns the known template name closest to name, for
// warnings about unknown names.
func SuggestTemplate(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	matches := fuzzy.Find(name, TemplateNames())
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}
