package deckgen

import (
	"fmt"
	"io"
)

// Open reads a PPTX file from disk and returns a Presentation.
// This is a convenience wrapper around OpenPackage.
func Open(path string) (*Presentation, error) {
	pkg, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}
	return newPresentation(pkg)
}

// ReadFrom reads a PPTX from an io.ReaderAt with the given size.
func ReadFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	pkg, err := ReadPackage(r, size)
	if err != nil {
		return nil, err
	}
	return newPresentation(pkg)
}

// OpenTemplate opens a template deck. It fails when the deck has no slides,
// since the slides are the prototypes new slides are copied from.
func OpenTemplate(path string) (*Presentation, error) {
	pres, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	if pres.SlideCount() == 0 {
		return nil, fmt.Errorf("template %s has no slides", path)
	}
	return pres, nil
}

// Save writes the presentation to a PPTX file.
func (p *Presentation) Save(path string) error {
	return p.pkg.Save(path)
}

// WriteTo writes the presentation to a writer in PPTX format.
func (p *Presentation) WriteTo(w io.Writer) (int64, error) {
	return p.pkg.WriteTo(w)
}
