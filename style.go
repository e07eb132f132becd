package deckgen

import (
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// ColorWhite is opaque white.
var ColorWhite = Color{ARGB: "FFFFFFFF"}

// ForcedTextColor is written into every run the compositor fills and every
// run the color auditor corrects. Decks are composited over dark
// backgrounds, so text is always white.
var ForcedTextColor = ColorWhite

// RGB returns the 6-character value used by a:srgbClr.
func (c Color) RGB() string {
	if len(c.ARGB) != 8 {
		return "000000"
	}
	return c.ARGB[2:]
}

// whiteSchemeSlots are the scheme colors that count as white. lt1 and tx1
// resolve to white in the dark decks this tool produces.
var whiteSchemeSlots = map[string]bool{"lt1": true, "tx1": true}

// isWhiteRGB reports whether an srgbClr value is literal white in either
// letter case.
func isWhiteRGB(val string) bool {
	return strings.EqualFold(val, ColorWhite.RGB())
}

// fillElements are the a:EG_FillProperties choices; a run carries at most one.
var fillElements = map[string]bool{
	"noFill":    true,
	"solidFill": true,
	"gradFill":  true,
	"blipFill":  true,
	"pattFill":  true,
	"grpFill":   true,
}
