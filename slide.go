package deckgen

import (
	"strings"

	"github.com/beevik/etree"
)

// Slide is a handle on one slide part of a Presentation.
type Slide struct {
	pres     *Presentation
	partName string
	relID    string
	doc      *etree.Document
}

// PartName returns the slide's part name, e.g. "ppt/slides/slide3.xml".
func (s *Slide) PartName() string {
	return s.partName
}

// RelID returns the presentation relationship ID that lists this slide.
func (s *Slide) RelID() string {
	return s.relID
}

// LayoutPartName returns the part name of the slide's layout, or "" when the
// slide has no layout relationship.
func (s *Slide) LayoutPartName() string {
	rels, err := s.pres.pkg.Rels(s.partName)
	if err != nil {
		return ""
	}
	rel, ok := rels.FirstOfType(relTypeSlideLayout)
	if !ok {
		return ""
	}
	name, _ := s.pres.pkg.lookupPart(s.partName, rel)
	return name
}

// HasBackground reports whether the slide overrides the layout background.
func (s *Slide) HasBackground() bool {
	return s.background() != nil
}

func (s *Slide) background() *etree.Element {
	return pathElem(s.doc.Root(), nsPresentationML, "cSld", "bg")
}

func (s *Slide) shapeTree() *etree.Element {
	return pathElem(s.doc.Root(), nsPresentationML, "cSld", "spTree")
}

func (s *Slide) shapeElems() []*etree.Element {
	return shapeChildren(s.shapeTree())
}

// Shapes returns the top-level shapes of the slide in z-order.
func (s *Slide) Shapes() []*Shape {
	elems := s.shapeElems()
	shapes := make([]*Shape, 0, len(elems))
	for _, e := range elems {
		shapes = append(shapes, &Shape{slide: s, el: e})
	}
	return shapes
}

// ExtractText returns the text of all shapes on the slide, one paragraph per
// line.
func (s *Slide) ExtractText() string {
	var parts []string
	for _, sh := range s.Shapes() {
		parts = append(parts, sh.Paragraphs()...)
	}
	return joinNonEmpty(parts, "\n")
}

// ShapeKind identifies the element a Shape is backed by.
type ShapeKind string

// Shape kinds that can appear in a shape tree.
const (
	ShapeKindAutoShape        ShapeKind = "sp"
	ShapeKindPicture          ShapeKind = "pic"
	ShapeKindGroup            ShapeKind = "grpSp"
	ShapeKindGraphicFrame     ShapeKind = "graphicFrame"
	ShapeKindConnector        ShapeKind = "cxnSp"
	ShapeKindContentPart      ShapeKind = "contentPart"
	ShapeKindAlternateContent ShapeKind = "AlternateContent"
)

// shapeChildren returns the shape elements directly below a shape tree or
// group shape, skipping the tree's own properties and extension list.
func shapeChildren(tree *etree.Element) []*etree.Element {
	if tree == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range tree.ChildElements() {
		switch ns := c.NamespaceURI(); {
		case ns == nsMarkupCompat && c.Tag == "AlternateContent":
			out = append(out, c)
		case ns != nsPresentationML:
		case c.Tag == "sp", c.Tag == "pic", c.Tag == "grpSp",
			c.Tag == "graphicFrame", c.Tag == "cxnSp", c.Tag == "contentPart":
			out = append(out, c)
		}
	}
	return out
}

// Shape is a handle on one shape element of a slide.
type Shape struct {
	slide *Slide
	el    *etree.Element
}

// Kind returns the shape's element kind.
func (sh *Shape) Kind() ShapeKind {
	return ShapeKind(sh.el.Tag)
}

// Slide returns the slide the shape belongs to.
func (sh *Shape) Slide() *Slide {
	return sh.slide
}

// nonVisual returns the shape's cNvPr, looking inside mc:Choice for
// alternate content.
func (sh *Shape) nonVisual() *etree.Element {
	el := sh.el
	if sh.Kind() == ShapeKindAlternateContent {
		choice := childElem(el, nsMarkupCompat, "Choice")
		if choice == nil || len(choice.ChildElements()) == 0 {
			return nil
		}
		el = choice.ChildElements()[0]
	}
	for _, c := range el.ChildElements() {
		if c.NamespaceURI() == nsPresentationML && strings.HasPrefix(c.Tag, "nv") {
			return childElem(c, nsPresentationML, "cNvPr")
		}
	}
	return nil
}

// Name returns the shape name from its non-visual properties.
func (sh *Shape) Name() string {
	if nv := sh.nonVisual(); nv != nil {
		return nv.SelectAttrValue("name", "")
	}
	return ""
}

// ID returns the shape id from its non-visual properties.
func (sh *Shape) ID() string {
	if nv := sh.nonVisual(); nv != nil {
		return attr(nv, "id")
	}
	return ""
}

// Children returns the member shapes of a group shape.
func (sh *Shape) Children() []*Shape {
	if sh.Kind() != ShapeKindGroup {
		return nil
	}
	elems := shapeChildren(sh.el)
	out := make([]*Shape, 0, len(elems))
	for _, e := range elems {
		out = append(out, &Shape{slide: sh.slide, el: e})
	}
	return out
}

// HasTextFrame reports whether the shape already carries a text body.
func (sh *Shape) HasTextFrame() bool {
	return sh.textBody() != nil
}

func (sh *Shape) textBody() *etree.Element {
	if sh.Kind() != ShapeKindAutoShape {
		return nil
	}
	return childElem(sh.el, nsPresentationML, "txBody")
}

// textFrame returns the shape's p:txBody, adding an empty one to an
// autoshape that has none. Other shape kinds cannot hold text.
func (sh *Shape) textFrame() (*etree.Element, error) {
	if sh.Kind() != ShapeKindAutoShape {
		return nil, ErrNoTextFrame
	}
	if body := sh.textBody(); body != nil {
		return body, nil
	}
	body := newElem(sh.el, nsPresentationML, "txBody")
	insertBefore(sh.el, body, nsPresentationML, "extLst")
	body.AddChild(newElem(body, nsDrawingML, "bodyPr"))
	body.AddChild(newElem(body, nsDrawingML, "lstStyle"))
	body.AddChild(newElem(body, nsDrawingML, "p"))
	return body, nil
}

// extent returns the shape's width and height in EMU from spPr/a:xfrm.
func (sh *Shape) extent() (cx, cy int64, ok bool) {
	ext := pathElem(childElem(sh.el, nsPresentationML, "spPr"), nsDrawingML, "xfrm", "ext")
	if ext == nil {
		return 0, 0, false
	}
	cx = parseEMU(ext.SelectAttrValue("cx", ""))
	cy = parseEMU(ext.SelectAttrValue("cy", ""))
	return cx, cy, true
}

func joinNonEmpty(parts []string, sep string) string {
	var result []string
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return strings.Join(result, sep)
}
