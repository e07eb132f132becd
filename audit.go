package deckgen

import (
	"fmt"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// RunColor classifies the explicit fill of a text run.
type RunColor int

const (
	// RunWhite is literal white RGB or a light-1/text-1 scheme reference.
	RunWhite RunColor = iota
	// RunUnset has no fill at the run level and inherits one.
	RunUnset
	// RunOffWhite has an explicit fill that is not white.
	RunOffWhite
)

func (c RunColor) String() string {
	switch c {
	case RunWhite:
		return "white"
	case RunUnset:
		return "unset"
	default:
		return "off-white"
	}
}

// ClassifyRun returns the class of an a:r element and a description of its
// current fill ("None" when unset, "scheme:<val>" for scheme colors).
func ClassifyRun(r *etree.Element) (RunColor, string) {
	rPr := childElem(r, nsDrawingML, "rPr")
	if rPr == nil {
		return RunUnset, "None"
	}
	var fill *etree.Element
	for _, c := range rPr.ChildElements() {
		if c.NamespaceURI() == nsDrawingML && fillElements[c.Tag] {
			fill = c
			break
		}
	}
	if fill == nil {
		return RunUnset, "None"
	}
	if fill.Tag != "solidFill" {
		return RunOffWhite, fill.Tag
	}
	if clr := childElem(fill, nsDrawingML, "srgbClr"); clr != nil {
		val := clr.SelectAttrValue("val", "")
		if isWhiteRGB(val) {
			return RunWhite, val
		}
		return RunOffWhite, val
	}
	if clr := childElem(fill, nsDrawingML, "schemeClr"); clr != nil {
		val := clr.SelectAttrValue("val", "")
		if whiteSchemeSlots[val] {
			return RunWhite, "scheme:" + val
		}
		return RunOffWhite, "scheme:" + val
	}
	if len(fill.ChildElements()) > 0 {
		return RunOffWhite, fill.ChildElements()[0].Tag
	}
	return RunOffWhite, "solidFill"
}

// ColorIssue is one corrected run.
type ColorIssue struct {
	Slide     int // 1-based
	Shape     string
	Paragraph int
	Run       int
	Text      string // preview, at most 30 characters plus "..."
	OldColor  string
	NewColor  string
}

// ColorReport tallies an audit.
type ColorReport struct {
	TotalSlides     int
	TotalShapes     int
	TotalParagraphs int
	TotalRuns       int
	AlreadyWhite    int
	NoColor         int
	FixedRuns       int
	Issues          []ColorIssue
}

// Corrected returns how many runs the audit rewrote.
func (r *ColorReport) Corrected() int {
	return r.NoColor + r.FixedRuns
}

const previewLen = 30

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen]) + "..."
}

// AuditColors walks every run of every shape (group members included) and
// writes an explicit solid ForcedTextColor fill into every run that is not
// already white. White runs are left untouched.
func AuditColors(p *Presentation) (*ColorReport, error) {
	slides, err := p.Slides()
	if err != nil {
		return nil, err
	}
	report := &ColorReport{TotalSlides: len(slides)}
	for i, s := range slides {
		for j, sh := range s.Shapes() {
			auditShape(report, i+1, fmt.Sprint(j), sh)
		}
	}
	return report, nil
}

// auditShape audits one shape. Group members are addressed as "2.0", "2.1"
// and so on.
func auditShape(report *ColorReport, slideNum int, addr string, sh *Shape) {
	report.TotalShapes++
	for k, child := range sh.Children() {
		auditShape(report, slideNum, fmt.Sprintf("%s.%d", addr, k), child)
	}
	body := sh.textBody()
	if body == nil {
		return
	}
	for pi, para := range childElems(body, nsDrawingML, "p") {
		report.TotalParagraphs++
		for ri, r := range childElems(para, nsDrawingML, "r") {
			report.TotalRuns++
			class, old := ClassifyRun(r)
			switch class {
			case RunWhite:
				report.AlreadyWhite++
				continue
			case RunUnset:
				report.NoColor++
			default:
				report.FixedRuns++
			}
			rPr := childElem(r, nsDrawingML, "rPr")
			if rPr == nil {
				rPr = newElem(r, nsDrawingML, "rPr")
				r.InsertChildAt(0, rPr)
			}
			forceSolidFill(rPr, ForcedTextColor)
			report.Issues = append(report.Issues, ColorIssue{
				Slide:     slideNum,
				Shape:     addr,
				Paragraph: pi,
				Run:       ri,
				Text:      preview(textOf(r)),
				OldColor:  old,
				NewColor:  ForcedTextColor.RGB(),
			})
		}
	}
}

// VerifyColors audits the deck at in and writes it to out, which defaults to
// in. The deck is written even when nothing was corrected.
func VerifyColors(in, out string) (*ColorReport, error) {
	if out == "" {
		out = in
	}
	p, err := Open(in)
	if err != nil {
		return nil, err
	}
	report, err := AuditColors(p)
	if err != nil {
		return nil, err
	}
	if err := p.Save(out); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", out, err)
	}
	return report, nil
}
