package deckgen

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// XML namespace constants
const (
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsMarkupCompat   = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	nsP14            = "http://schemas.microsoft.com/office/powerpoint/2010/main"

	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeNotesSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeComment     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"

	ctSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

	contentTypesPart = "[Content_Types].xml"
	xmlDeclaration   = `version="1.0" encoding="UTF-8" standalone="yes"`
)

// conventionalPrefix is used when a namespace has no binding in scope.
var conventionalPrefix = map[string]string{
	nsPresentationML: "p",
	nsDrawingML:      "a",
	nsOfficeDocRels:  "r",
	nsP14:            "p14",
}

// --- Content Types ---

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// contentTypes is the decoded [Content_Types].xml of a package.
type contentTypes struct {
	defaults  []xmlDefault
	overrides []xmlOverride
}

func parseContentTypes(data []byte) (*contentTypes, error) {
	var ct xmlContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", contentTypesPart, err)
	}
	return &contentTypes{defaults: ct.Defaults, overrides: ct.Overrides}, nil
}

// typeOf returns the content type of a part: its override first, then the
// default registered for its extension.
func (c *contentTypes) typeOf(partName string) string {
	pn := "/" + partName
	for _, o := range c.overrides {
		if strings.EqualFold(o.PartName, pn) {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	for _, d := range c.defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

func (c *contentTypes) setOverride(partName, contentType string) {
	pn := "/" + partName
	for i, o := range c.overrides {
		if strings.EqualFold(o.PartName, pn) {
			c.overrides[i].ContentType = contentType
			return
		}
	}
	c.overrides = append(c.overrides, xmlOverride{PartName: pn, ContentType: contentType})
}

// retain drops overrides for parts that keep reports as absent.
func (c *contentTypes) retain(keep func(partName string) bool) {
	kept := c.overrides[:0]
	for _, o := range c.overrides {
		if keep(strings.TrimPrefix(o.PartName, "/")) {
			kept = append(kept, o)
		}
	}
	c.overrides = kept
}

func (c *contentTypes) marshal() ([]byte, error) {
	ct := xmlContentTypes{
		Xmlns:     nsContentTypes,
		Defaults:  c.defaults,
		Overrides: c.overrides,
	}
	return marshalPartXML(ct)
}

// --- Relationships ---

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

func marshalPartXML(v interface{}) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(`<?xml `+xmlDeclaration+`?>`+"\n"), out...), nil
}

// relsPartName returns the name of the relationships part belonging to
// source. The package itself (source "") owns _rels/.rels.
func relsPartName(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(source)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget turns a relationship target into a part name relative to the
// package root.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	resolved := path.Clean(path.Join(path.Dir(source), target))
	return strings.TrimPrefix(resolved, "/")
}

// relativeTarget is the inverse of resolveTarget for parts that live in or
// below the source's directory; anything else is addressed absolutely.
func relativeTarget(source, partName string) string {
	dir := path.Dir(source)
	if dir != "." && strings.HasPrefix(partName, dir+"/") {
		return strings.TrimPrefix(partName, dir+"/")
	}
	return "/" + partName
}
