package deckgen

import "fmt"

// SlideSize is the slide dimension of a presentation, from p:sldSz.
type SlideSize struct {
	CX   int64 // width in EMU
	CY   int64 // height in EMU
	Name string
}

// Named slide sizes.
const (
	SizeScreen4x3   = "screen4x3"
	SizeScreen16x9  = "screen16x9"
	SizeScreen16x10 = "screen16x10"
	SizeA4          = "A4"
	SizeCustom      = "custom"
)

// sizePresets maps the p:sldSz type attribute to its dimensions.
var sizePresets = []SlideSize{
	{CX: 9144000, CY: 6858000, Name: SizeScreen4x3},
	{CX: 12192000, CY: 6858000, Name: SizeScreen16x9},
	{CX: 10972800, CY: 6858000, Name: SizeScreen16x10},
	{CX: 9906000, CY: 6858000, Name: SizeA4},
}

// SlideSize returns the slide size declared by the presentation. Sizes that
// match a preset are named after it; others are "custom". ok is false when
// the presentation declares no size.
func (p *Presentation) SlideSize() (size SlideSize, ok bool) {
	sz := childElem(p.doc.Root(), nsPresentationML, "sldSz")
	if sz == nil {
		return SlideSize{}, false
	}
	size.CX = parseEMU(attr(sz, "cx"))
	size.CY = parseEMU(attr(sz, "cy"))
	size.Name = SizeCustom
	for _, preset := range sizePresets {
		if preset.CX == size.CX && preset.CY == size.CY {
			size.Name = preset.Name
			break
		}
	}
	return size, true
}

// String formats the size in inches, e.g. "screen16x9 (13.33x7.50in)".
func (s SlideSize) String() string {
	return fmt.Sprintf("%s (%.2fx%.2fin)", s.Name, EMUToInch(s.CX), EMUToInch(s.CY))
}
