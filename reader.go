package deckgen

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Package is an OPC package (the zip container behind a .pptx) held in
// memory. Parts that are never touched are written back byte for byte.
type Package struct {
	parts map[string][]byte
	order []string
	types *contentTypes
	docs  map[string]*etree.Document
	rels  map[string]*Relationships
}

// maxZipEntrySize is the maximum allowed size for a single file extracted from a ZIP.
// This prevents zip bomb attacks. 50 MB is generous for any legitimate PPTX part.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the cumulative limit for all extracted content from a single ZIP.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// OpenPackage reads an OPC package from disk.
func OpenPackage(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return ReadPackage(f, info.Size())
}

// ReadPackage reads an OPC package from an io.ReaderAt.
func ReadPackage(r io.ReaderAt, size int64) (*Package, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	pkg := &Package{
		parts: make(map[string][]byte, len(zr.File)),
		docs:  make(map[string]*etree.Document),
		rels:  make(map[string]*Relationships),
	}

	var total int64
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		data, err := readZipEntry(f)
		if err != nil {
			return nil, err
		}
		total += int64(len(data))
		if total > maxZipTotalSize {
			return nil, fmt.Errorf("uncompressed content exceeds maximum allowed size (%d bytes)", maxZipTotalSize)
		}
		if _, dup := pkg.parts[f.Name]; !dup {
			pkg.order = append(pkg.order, f.Name)
		}
		pkg.parts[f.Name] = data
	}

	ctData, ok := pkg.parts[contentTypesPart]
	if !ok {
		return nil, fmt.Errorf("missing %s: not an OPC package", contentTypesPart)
	}
	if pkg.types, err = parseContentTypes(ctData); err != nil {
		return nil, err
	}
	return pkg, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", f.Name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", f.Name, err)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", f.Name)
	}
	return data, nil
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// PartNames returns part names in package order.
func (p *Package) PartNames() []string {
	names := make([]string, 0, len(p.order))
	for _, n := range p.order {
		if _, ok := p.parts[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// ContentType returns the declared content type of a part.
func (p *Package) ContentType(name string) string {
	return p.types.typeOf(name)
}

// XML returns the parsed DOM of an XML part. The DOM is cached and is
// serialized again when the package is written.
func (p *Package) XML(name string) (*etree.Document, error) {
	if doc, ok := p.docs[name]; ok {
		return doc, nil
	}
	data, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part not found in package: %s", name)
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("part %s has no root element", name)
	}
	p.docs[name] = doc
	return doc, nil
}

// putXML adds or replaces an XML part with the given DOM.
func (p *Package) putXML(name, contentType string, doc *etree.Document) {
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = nil
	p.docs[name] = doc
	if contentType != "" {
		p.types.setOverride(name, contentType)
	}
}

// nextPartName returns the first "<prefix><n><suffix>" not yet in the package,
// counting from one past the highest existing number.
func (p *Package) nextPartName(prefix, suffix string) string {
	highest := 0
	for name := range p.parts {
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%d%s", prefix, highest+1, suffix)
}

// lookupPart resolves a relationship target to an existing part name,
// tolerating percent-encoded targets.
func (p *Package) lookupPart(source string, rel Relationship) (string, bool) {
	if rel.External() {
		return "", false
	}
	name := resolveTarget(source, rel.Target)
	if p.Has(name) {
		return name, true
	}
	if unescaped, err := url.PathUnescape(name); err == nil && p.Has(unescaped) {
		return unescaped, true
	}
	return name, false
}

// --- Relationship reading ---

// Relationship is a single entry of a .rels part.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// External reports whether the target lives outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// Relationships is the decoded relationship list owned by one source part.
type Relationships struct {
	source string
	items  []Relationship
}

// Rels returns the relationships of a source part ("" for the package).
// A missing .rels part yields an empty list.
func (p *Package) Rels(source string) (*Relationships, error) {
	if rels, ok := p.rels[source]; ok {
		return rels, nil
	}
	rels := &Relationships{source: source}
	if data, ok := p.parts[relsPartName(source)]; ok && len(data) > 0 {
		var xr xmlRelationships
		if err := xml.Unmarshal(data, &xr); err != nil {
			return nil, fmt.Errorf("failed to parse relationships %s: %w", relsPartName(source), err)
		}
		for _, r := range xr.Relationships {
			rels.items = append(rels.items, Relationship(r))
		}
	}
	p.rels[source] = rels
	return rels, nil
}

// Source returns the name of the part owning these relationships.
func (r *Relationships) Source() string { return r.source }

// All returns the relationships in document order.
func (r *Relationships) All() []Relationship {
	return r.items
}

// Get returns the relationship with the given ID.
func (r *Relationships) Get(id string) (Relationship, bool) {
	for _, rel := range r.items {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// FirstOfType returns the first relationship of the given type.
func (r *Relationships) FirstOfType(relType string) (Relationship, bool) {
	for _, rel := range r.items {
		if rel.Type == relType {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Add appends a relationship under the next free rIdN and returns its ID.
func (r *Relationships) Add(relType, target string) string {
	highest := 0
	for _, rel := range r.items {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	id := fmt.Sprintf("rId%d", highest+1)
	r.items = append(r.items, Relationship{ID: id, Type: relType, Target: target})
	return id
}

// Remove drops the relationship with the given ID.
func (r *Relationships) Remove(id string) bool {
	for i, rel := range r.items {
		if rel.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Relationships) marshal() ([]byte, error) {
	xr := xmlRelationships{Xmlns: nsPackageRels}
	items := make([]Relationship, len(r.items))
	copy(items, r.items)
	sort.SliceStable(items, func(i, j int) bool { return relIDLess(items[i].ID, items[j].ID) })
	for _, rel := range items {
		xr.Relationships = append(xr.Relationships, xmlRelationship(rel))
	}
	return marshalPartXML(xr)
}

// relIDLess orders rId2 before rId10; non-numeric IDs keep lexical order.
func relIDLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimPrefix(a, "rId"))
	nb, errB := strconv.Atoi(strings.TrimPrefix(b, "rId"))
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
