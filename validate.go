package deckgen

import (
	"fmt"
	"strings"
)

// Validate checks the presentation for structural issues and returns an error
// describing all problems found, or nil if the presentation is valid.
//
// Every listed slide must resolve to a slide part with the slide content
// type, a layout relationship and a shape tree, and slide ids must be unique.
func (p *Presentation) Validate() error {
	var errs []string

	if childElem(p.doc.Root(), nsPresentationML, "sldMasterIdLst") == nil {
		errs = append(errs, "presentation has no slide master list")
	}

	if size, ok := p.SlideSize(); ok && (size.CX <= 0 || size.CY <= 0) {
		errs = append(errs, fmt.Sprintf("invalid slide size %dx%d", size.CX, size.CY))
	}

	seenIDs := make(map[string]bool)
	seenParts := make(map[string]bool)
	for i, sldID := range p.slideIDs() {
		prefix := fmt.Sprintf("slide %d", i+1)
		id := attr(sldID, "id")
		if seenIDs[id] {
			errs = append(errs, fmt.Sprintf("%s: duplicate slide id %s", prefix, id))
		}
		seenIDs[id] = true

		s, err := p.slideFor(sldID)
		if err != nil {
			errs = append(errs, prefix+": "+err.Error())
			continue
		}
		if seenParts[s.partName] {
			errs = append(errs, fmt.Sprintf("%s: part %s is listed twice", prefix, s.partName))
		}
		seenParts[s.partName] = true
		for _, e := range validateSlide(s) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Slide) []string {
	var errs []string
	if ct := s.pres.pkg.ContentType(s.partName); ct != ctSlide {
		errs = append(errs, fmt.Sprintf("unexpected content type %q", ct))
	}
	if s.LayoutPartName() == "" {
		errs = append(errs, "no slide layout")
	}
	if !isElem(s.doc.Root(), nsPresentationML, "sld") {
		errs = append(errs, "root element is not p:sld")
	}
	if s.shapeTree() == nil {
		errs = append(errs, "missing p:cSld/p:spTree")
	}
	for j, sh := range s.Shapes() {
		if cx, cy, ok := sh.extent(); ok && (cx < 0 || cy < 0) {
			errs = append(errs, fmt.Sprintf("shape %d: negative extent", j+1))
		}
	}
	return errs
}
