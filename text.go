package deckgen

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
)

// ErrNoTextFrame is returned when text is set on a shape that cannot hold
// text, such as a picture or a graphic frame.
var ErrNoTextFrame = errors.New("shape has no text frame")

// Paragraphs returns the text of each paragraph of the shape. Shapes without
// a text body have none.
func (sh *Shape) Paragraphs() []string {
	body := sh.textBody()
	if body == nil {
		return nil
	}
	var out []string
	for _, p := range childElems(body, nsDrawingML, "p") {
		out = append(out, textOf(p))
	}
	return out
}

// Text returns the shape's text with paragraphs joined by "\n".
func (sh *Shape) Text() string {
	return strings.Join(sh.Paragraphs(), "\n")
}

// SetText replaces the shape's text. Each "\n"-separated line becomes its own
// paragraph; see SetLines.
func (sh *Shape) SetText(text string) error {
	return sh.SetLines(strings.Split(text, "\n"))
}

// paragraphFormat is the formatting captured from one paragraph before its
// text is cleared.
type paragraphFormat struct {
	pPr        *etree.Element
	endParaRPr *etree.Element
	hasRun     bool
	rPr        *etree.Element // first run's a:rPr; nil when the run has none
}

func captureFormat(p *etree.Element) paragraphFormat {
	var f paragraphFormat
	if pPr := childElem(p, nsDrawingML, "pPr"); pPr != nil {
		f.pPr = pPr.Copy()
	}
	if end := childElem(p, nsDrawingML, "endParaRPr"); end != nil {
		f.endParaRPr = end.Copy()
	}
	if r := childElem(p, nsDrawingML, "r"); r != nil {
		f.hasRun = true
		if rPr := childElem(r, nsDrawingML, "rPr"); rPr != nil {
			f.rPr = rPr.Copy()
		}
	}
	return f
}

// SetLines replaces the shape's text with one paragraph per line.
//
// Paragraph and run formatting is taken from the paragraph at the same index
// of the replaced text, or from the first paragraph when that index had no
// run. The run fill is always replaced with ForcedTextColor. An empty slice
// leaves a single empty paragraph.
func (sh *Shape) SetLines(lines []string) error {
	body, err := sh.textFrame()
	if err != nil {
		return err
	}
	paras := childElems(body, nsDrawingML, "p")
	formats := make([]paragraphFormat, len(paras))
	for i, p := range paras {
		formats[i] = captureFormat(p)
		body.RemoveChild(p)
	}
	if len(formats) == 0 {
		formats = append(formats, paragraphFormat{})
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	for i, line := range lines {
		format := formats[0]
		if i < len(formats) {
			format = formats[i]
		}
		runFormat := format
		if !runFormat.hasRun {
			runFormat = formats[0]
		}
		writeParagraph(body, format, runFormat, line)
	}
	return nil
}

// writeParagraph appends a paragraph holding line to body.
func writeParagraph(body *etree.Element, format, runFormat paragraphFormat, line string) {
	p := newElem(body, nsDrawingML, "p")
	body.AddChild(p)
	if format.pPr != nil {
		p.AddChild(format.pPr.Copy())
	}
	if line != "" {
		r := newElem(p, nsDrawingML, "r")
		p.AddChild(r)
		var rPr *etree.Element
		if runFormat.rPr != nil {
			rPr = runFormat.rPr.Copy()
		} else {
			rPr = newElem(r, nsDrawingML, "rPr")
		}
		r.AddChild(rPr)
		forceSolidFill(rPr, ForcedTextColor)
		t := newElem(r, nsDrawingML, "t")
		t.SetText(line)
		r.AddChild(t)
	}
	if format.endParaRPr != nil {
		p.AddChild(format.endParaRPr.Copy())
	}
}

// forceSolidFill replaces whatever fill rPr carries with a solid fill of c,
// placed after a:ln as the schema requires.
func forceSolidFill(rPr *etree.Element, c Color) {
	removeChildren(rPr, func(e *etree.Element) bool {
		return e.NamespaceURI() == nsDrawingML && fillElements[e.Tag]
	})
	fill := newElem(rPr, nsDrawingML, "solidFill")
	if ln := childElem(rPr, nsDrawingML, "ln"); ln != nil {
		insertAfter(rPr, ln, fill)
	} else {
		rPr.InsertChildAt(0, fill)
	}
	clr := newElem(fill, nsDrawingML, "srgbClr")
	clr.CreateAttr("val", c.RGB())
	fill.AddChild(clr)
}
