package deckgen

import (
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/image/font"
	"golang.org/x/text/width"
)

// defaultFontSize is the run size PowerPoint uses when nothing sets sz.
const defaultFontSize = 18.0

// narrowAdvance is the fallback advance of a narrow rune, in ems.
const narrowAdvance = 0.55

// Overflow describes a paragraph that will not fit on one line of its text
// box.
type Overflow struct {
	Paragraph int
	Text      string
	Width     float64 // points
	Available float64 // points
	Lines     int     // lines the paragraph wraps to
}

// FitChecker estimates whether filled text wraps inside its shapes. Widths
// come from Fonts when a matching font is installed, otherwise from an East
// Asian width estimate.
type FitChecker struct {
	Fonts *FontCache

	themes map[string]themeFonts // by theme part name
}

// NewFitChecker returns a FitChecker measuring with fonts.
func NewFitChecker(fonts *FontCache) *FitChecker {
	return &FitChecker{Fonts: fonts}
}

type themeFonts struct {
	major, minor     string // latin
	majorEA, minorEA string
}

// Check measures each paragraph of sh against the width of its text box.
// Shapes without a text body or a size are skipped.
func (fc *FitChecker) Check(sh *Shape) []Overflow {
	body := sh.textBody()
	cx, _, ok := sh.extent()
	if body == nil || !ok || cx <= 0 {
		return nil
	}
	bodyPr := childElem(body, nsDrawingML, "bodyPr")
	avail := cx - insetOf(bodyPr, "lIns") - insetOf(bodyPr, "rIns")
	if avail <= 0 {
		return nil
	}
	availPt := EMUToPoint(avail)
	theme := fc.themeFor(sh.slide)

	var out []Overflow
	for i, p := range childElems(body, nsDrawingML, "p") {
		var w float64
		for _, r := range childElems(p, nsDrawingML, "r") {
			w += fc.runWidth(r, theme)
		}
		if w > availPt {
			out = append(out, Overflow{
				Paragraph: i,
				Text:      textOf(p),
				Width:     w,
				Available: availPt,
				Lines:     int(math.Ceil(w / availPt)),
			})
		}
	}
	return out
}

func insetOf(bodyPr *etree.Element, key string) int64 {
	if bodyPr == nil {
		return defaultInset
	}
	if v := bodyPr.SelectAttr(key); v != nil {
		return parseEMU(v.Value)
	}
	return defaultInset
}

// runWidth returns the advance of a run in points.
func (fc *FitChecker) runWidth(r *etree.Element, theme themeFonts) float64 {
	text := textOf(r)
	if text == "" {
		return 0
	}
	rPr := childElem(r, nsDrawingML, "rPr")
	size := defaultFontSize
	var bold, italic bool
	if rPr != nil {
		if sz, err := strconv.Atoi(rPr.SelectAttrValue("sz", "")); err == nil && sz > 0 {
			size = float64(sz) / 100
		}
		bold = rPr.SelectAttrValue("b", "") == "1"
		italic = rPr.SelectAttrValue("i", "") == "1"
	}

	if fc.Fonts != nil {
		if face := fc.Fonts.GetMeasureFace(resolveTypeface(rPr, theme), size, bold, italic); face != nil {
			return float64(font.MeasureString(face, text)) / 64
		}
	}
	return estimateWidth(text, size)
}

// estimateWidth approximates a string's advance: wide and fullwidth runes
// take one em, everything else narrowAdvance.
func estimateWidth(text string, size float64) float64 {
	var ems float64
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			ems++
		default:
			ems += narrowAdvance
		}
	}
	return ems * size
}

// resolveTypeface picks the run's typeface, preferring East Asian fonts,
// and maps theme references (+mj-lt, +mn-ea, ...) through the theme.
func resolveTypeface(rPr *etree.Element, theme themeFonts) string {
	face := ""
	for _, local := range []string{"ea", "latin"} {
		if e := childElem(rPr, nsDrawingML, local); e != nil {
			if tf := e.SelectAttrValue("typeface", ""); tf != "" {
				face = tf
				break
			}
		}
	}
	switch {
	case face == "":
		return firstNonEmpty(theme.minorEA, theme.minor)
	case strings.HasPrefix(face, "+mj-ea"):
		return firstNonEmpty(theme.majorEA, theme.major)
	case strings.HasPrefix(face, "+mj"):
		return theme.major
	case strings.HasPrefix(face, "+mn-ea"):
		return firstNonEmpty(theme.minorEA, theme.minor)
	case strings.HasPrefix(face, "+mn"):
		return theme.minor
	}
	return face
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// themeFor returns the font scheme of the theme behind a slide
// (slide -> layout -> master -> theme), cached per theme part.
func (fc *FitChecker) themeFor(s *Slide) themeFonts {
	pkg := s.pres.pkg
	name := s.themePartName()
	if name == "" {
		return themeFonts{}
	}
	if t, ok := fc.themes[name]; ok {
		return t
	}
	var t themeFonts
	if doc, err := pkg.XML(name); err == nil {
		scheme := pathElem(doc.Root(), nsDrawingML, "themeElements", "fontScheme")
		major := childElem(scheme, nsDrawingML, "majorFont")
		minor := childElem(scheme, nsDrawingML, "minorFont")
		t.major = typefaceOf(major, "latin")
		t.majorEA = typefaceOf(major, "ea")
		t.minor = typefaceOf(minor, "latin")
		t.minorEA = typefaceOf(minor, "ea")
	}
	if fc.themes == nil {
		fc.themes = make(map[string]themeFonts)
	}
	fc.themes[name] = t
	return t
}

func typefaceOf(fontEl *etree.Element, local string) string {
	if e := childElem(fontEl, nsDrawingML, local); e != nil {
		return e.SelectAttrValue("typeface", "")
	}
	return ""
}

// themePartName follows slide -> layout -> master -> theme relationships.
func (s *Slide) themePartName() string {
	pkg := s.pres.pkg
	part := s.partName
	for _, relType := range []string{relTypeSlideLayout, relTypeSlideMaster, relTypeTheme} {
		rels, err := pkg.Rels(part)
		if err != nil {
			return ""
		}
		rel, ok := rels.FirstOfType(relType)
		if !ok {
			return ""
		}
		if part, ok = pkg.lookupPart(part, rel); !ok {
			return ""
		}
	}
	return part
}
