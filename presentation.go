// Package deckgen builds PowerPoint presentation files (.pptx) from a slide
// plan by duplicating prototype slides of a template deck and substituting
// their text, following the Office Open XML (OOXML) standard.
//
// The template is edited at the part level: every part the template carries
// (masters, layouts, themes, media) is written back unchanged, and only the
// presentation part and the slides are rewritten.
//
// See the Version variable for the current library version.
package deckgen

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ErrSlideIndexOutOfRange is returned when a slide index does not address a
// slide of the presentation.
var ErrSlideIndexOutOfRange = errors.New("slide index out of range")

// minSlideID is the smallest id PowerPoint accepts in p:sldId.
const minSlideID = 256

// Presentation is a working document: an OPC package together with its
// presentation part. Slides are addressed through p:sldIdLst, so the order of
// Slides always matches the order PowerPoint shows.
type Presentation struct {
	pkg      *Package
	partName string
	doc      *etree.Document
	rels     *Relationships
}

// newPresentation locates the presentation part through the package's
// officeDocument relationship.
func newPresentation(pkg *Package) (*Presentation, error) {
	rootRels, err := pkg.Rels("")
	if err != nil {
		return nil, err
	}
	rel, ok := rootRels.FirstOfType(relTypeOfficeDoc)
	if !ok {
		return nil, errors.New("package has no officeDocument relationship")
	}
	partName, ok := pkg.lookupPart("", rel)
	if !ok {
		return nil, fmt.Errorf("presentation part not found: %s", rel.Target)
	}
	doc, err := pkg.XML(partName)
	if err != nil {
		return nil, err
	}
	if !isElem(doc.Root(), nsPresentationML, "presentation") {
		return nil, fmt.Errorf("%s is not a presentation part", partName)
	}
	rels, err := pkg.Rels(partName)
	if err != nil {
		return nil, err
	}
	return &Presentation{pkg: pkg, partName: partName, doc: doc, rels: rels}, nil
}

// PartName returns the name of the presentation part, e.g. "ppt/presentation.xml".
func (p *Presentation) PartName() string {
	return p.partName
}

// slideIDList returns p:sldIdLst, creating it at its schema position when
// create is set.
func (p *Presentation) slideIDList(create bool) *etree.Element {
	root := p.doc.Root()
	if lst := childElem(root, nsPresentationML, "sldIdLst"); lst != nil || !create {
		return lst
	}
	lst := newElem(root, nsPresentationML, "sldIdLst")
	var after *etree.Element
	for _, local := range []string{"sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst"} {
		if e := childElem(root, nsPresentationML, local); e != nil {
			after = e
		}
	}
	if after != nil {
		insertAfter(root, after, lst)
	} else {
		root.InsertChildAt(0, lst)
	}
	return lst
}

func (p *Presentation) slideIDs() []*etree.Element {
	return childElems(p.slideIDList(false), nsPresentationML, "sldId")
}

// SlideCount returns the number of slides listed in the presentation.
func (p *Presentation) SlideCount() int {
	return len(p.slideIDs())
}

// Slide returns the slide at index.
func (p *Presentation) Slide(index int) (*Slide, error) {
	ids := p.slideIDs()
	if index < 0 || index >= len(ids) {
		return nil, fmt.Errorf("%w: %d (0-%d)", ErrSlideIndexOutOfRange, index, len(ids)-1)
	}
	return p.slideFor(ids[index])
}

// Slides returns all slides in presentation order.
func (p *Presentation) Slides() ([]*Slide, error) {
	ids := p.slideIDs()
	slides := make([]*Slide, 0, len(ids))
	for _, id := range ids {
		s, err := p.slideFor(id)
		if err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, nil
}

func (p *Presentation) slideFor(sldID *etree.Element) (*Slide, error) {
	relID := attrNS(sldID, nsOfficeDocRels, "id")
	rel, ok := p.rels.Get(relID)
	if !ok {
		return nil, fmt.Errorf("slide relationship %q not found in %s", relID, p.partName)
	}
	partName, ok := p.pkg.lookupPart(p.partName, rel)
	if !ok {
		return nil, fmt.Errorf("slide part not found: %s", rel.Target)
	}
	doc, err := p.pkg.XML(partName)
	if err != nil {
		return nil, err
	}
	return &Slide{pres: p, partName: partName, relID: relID, doc: doc}, nil
}

// DuplicateSlide appends a copy of the slide at index and returns it.
//
// The copy uses the source's layout and carries a deep copy of the source's
// background (when the source overrides it) and of every shape in z-order.
// Layout placeholders are not instantiated, so the copy has exactly the
// source's shapes. The slide's display settings (showMasterSp and the like)
// are kept. Relationships referenced from inside the shapes (images,
// hyperlinks, charts) are copied under the same IDs; notes, comments and
// links to other slides are not.
func (p *Presentation) DuplicateSlide(index int) (*Slide, error) {
	src, err := p.Slide(index)
	if err != nil {
		return nil, err
	}
	srcRoot := src.doc.Root()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDeclaration)
	root := etree.NewElement(srcRoot.FullTag())
	// Display settings such as showMasterSp carry over; a hidden prototype
	// still yields a visible slide.
	for _, a := range srcRoot.Attr {
		if a.Space == "" && a.Key == "show" {
			continue
		}
		root.CreateAttr(a.FullKey(), a.Value)
	}
	doc.SetRoot(root)

	srcCSld := childElem(srcRoot, nsPresentationML, "cSld")
	cSld := newElem(root, nsPresentationML, "cSld")
	if srcCSld != nil {
		for _, a := range srcCSld.Attr {
			cSld.CreateAttr(a.FullKey(), a.Value)
		}
	}
	root.AddChild(cSld)
	if bg := childElem(srcCSld, nsPresentationML, "bg"); bg != nil {
		cSld.AddChild(bg.Copy())
	}

	srcTree := childElem(srcCSld, nsPresentationML, "spTree")
	spTree := newElem(cSld, nsPresentationML, "spTree")
	cSld.AddChild(spTree)
	newGroupProperties(spTree, srcTree)
	for _, shape := range src.shapeElems() {
		insertBefore(spTree, shape.Copy(), nsPresentationML, "extLst")
	}

	if ovr := childElem(srcRoot, nsPresentationML, "clrMapOvr"); ovr != nil {
		root.AddChild(ovr.Copy())
	} else {
		ovr := newElem(root, nsPresentationML, "clrMapOvr")
		root.AddChild(ovr)
		ovr.AddChild(newElem(ovr, nsDrawingML, "masterClrMapping"))
	}

	partName := p.pkg.nextPartName(path.Dir(src.partName)+"/slide", ".xml")
	p.pkg.putXML(partName, ctSlide, doc)

	srcRels, err := p.pkg.Rels(src.partName)
	if err != nil {
		return nil, err
	}
	rels, err := p.pkg.Rels(partName)
	if err != nil {
		return nil, err
	}
	// Links to other slides point into the template, whose slides are
	// removed once the deck is assembled, so they are dropped together with
	// the hyperlinks that use them.
	dropped := make(map[string]bool)
	for _, rel := range srcRels.All() {
		switch rel.Type {
		case relTypeNotesSlide, relTypeComment:
			continue
		case relTypeSlide:
			dropped[rel.ID] = true
			continue
		}
		rels.items = append(rels.items, rel)
	}
	if len(dropped) > 0 {
		dropRelReferences(cSld, dropped)
	}

	relID := p.rels.Add(relTypeSlide, relativeTarget(p.partName, partName))
	id := strconv.Itoa(p.nextSlideID())
	lst := p.slideIDList(true)
	sldID := newElem(lst, nsPresentationML, "sldId")
	sldID.CreateAttr("id", id)
	lst.AddChild(sldID)
	setAttrNS(sldID, nsOfficeDocRels, "id", relID)
	p.addToLastSection(id)

	return &Slide{pres: p, partName: partName, relID: relID, doc: doc}, nil
}

// newGroupProperties adds the spTree's own nvGrpSpPr and grpSpPr, copied from
// src when it has them.
func newGroupProperties(spTree, src *etree.Element) {
	if nv := childElem(src, nsPresentationML, "nvGrpSpPr"); nv != nil {
		spTree.AddChild(nv.Copy())
	} else {
		nv := newElem(spTree, nsPresentationML, "nvGrpSpPr")
		spTree.AddChild(nv)
		cNvPr := newElem(nv, nsPresentationML, "cNvPr")
		cNvPr.CreateAttr("id", "1")
		cNvPr.CreateAttr("name", "")
		nv.AddChild(cNvPr)
		nv.AddChild(newElem(nv, nsPresentationML, "cNvGrpSpPr"))
		nv.AddChild(newElem(nv, nsPresentationML, "nvPr"))
	}
	if gp := childElem(src, nsPresentationML, "grpSpPr"); gp != nil {
		spTree.AddChild(gp.Copy())
	} else {
		spTree.AddChild(newElem(spTree, nsPresentationML, "grpSpPr"))
	}
}

func (p *Presentation) nextSlideID() int {
	next := minSlideID
	for _, e := range p.slideIDs() {
		if n, err := strconv.Atoi(attr(e, "id")); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

// RemoveSlide removes the slide at index from the slide list and drops its
// relationship. The slide part itself becomes unreachable and is left out
// when the presentation is saved.
func (p *Presentation) RemoveSlide(index int) error {
	ids := p.slideIDs()
	if index < 0 || index >= len(ids) {
		return fmt.Errorf("%w: %d (0-%d)", ErrSlideIndexOutOfRange, index, len(ids)-1)
	}
	sldID := ids[index]
	relID := attrNS(sldID, nsOfficeDocRels, "id")
	id := attr(sldID, "id")
	sldID.Parent().RemoveChild(sldID)
	p.rels.Remove(relID)
	for _, ref := range descendants(p.doc.Root(), nsP14, "sldId") {
		if attr(ref, "id") == id {
			ref.Parent().RemoveChild(ref)
		}
	}
	return nil
}

// addToLastSection lists a new slide id in the last p14 section, so that a
// deck with sections keeps every slide inside one. Decks without sections
// are left alone.
func (p *Presentation) addToLastSection(id string) {
	sections := descendants(p.doc.Root(), nsP14, "section")
	if len(sections) == 0 {
		return
	}
	last := sections[len(sections)-1]
	lst := childElem(last, nsP14, "sldIdLst")
	if lst == nil {
		lst = newElem(last, nsP14, "sldIdLst")
		insertBefore(last, lst, nsP14, "extLst")
	}
	ref := newElem(lst, nsP14, "sldId")
	ref.CreateAttr("id", id)
	lst.AddChild(ref)
}

// dropRelReferences removes the hyperlinks below e that use one of the
// relationship ids in dropped, and the r:id attribute of any other element
// that does.
func dropRelReferences(e *etree.Element, dropped map[string]bool) {
	for _, c := range e.ChildElements() {
		id := attrNS(c, nsOfficeDocRels, "id")
		switch {
		case id != "" && dropped[id] && strings.HasPrefix(c.Tag, "hlink"):
			e.RemoveChild(c)
			continue
		case id != "" && dropped[id]:
			removeAttrNS(c, nsOfficeDocRels, "id")
		}
		dropRelReferences(c, dropped)
	}
}

// ExtractText returns the text of every slide, one slide per line group.
// Useful for search and for checking generated output.
func (p *Presentation) ExtractText() (string, error) {
	slides, err := p.Slides()
	if err != nil {
		return "", err
	}
	var parts []string
	for _, s := range slides {
		if text := s.ExtractText(); text != "" {
			parts = append(parts, text)
		}
	}
	return joinNonEmpty(parts, "\n"), nil
}
