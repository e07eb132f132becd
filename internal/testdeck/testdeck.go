// Package testdeck builds small PowerPoint packages for command tests: one
// master, one blank layout, one theme and the given slides.
package testdeck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const ns = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

// TextShape returns a p:sp holding one paragraph per line. color is an RGB
// hex value for every run, or "" for runs without a fill.
func TextShape(id int, name, color string, lines ...string) string {
	fill := ""
	if color != "" {
		fill = fmt.Sprintf(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, color)
	}
	var paras strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&paras, `<a:p><a:r><a:rPr lang="en-US" sz="2400">%s</a:rPr><a:t>%s</a:t></a:r></a:p>`, fill, line)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="457200" y="457200"/><a:ext cx="5486400" cy="914400"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>%s</p:txBody></p:sp>`,
		id, name, paras.String())
}

// Build assembles a deck. Each slide is the list of its p:spTree shapes.
func Build(slides ...[]string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var err error
	add := func(name, content string) {
		if err != nil {
			return
		}
		var w io.Writer
		if w, err = zw.Create(name); err == nil {
			_, err = io.WriteString(w, content)
		}
	}
	rels := func(items ...string) string {
		return header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			strings.Join(items, "") + `</Relationships>`
	}
	rel := func(id, typ, target string) string {
		return fmt.Sprintf(`<Relationship Id="%s" Type="%s%s" Target="%s"/>`, id, relNS, typ, target)
	}

	var overrides, sldIDs []string
	override := func(part, ct string) {
		overrides = append(overrides, fmt.Sprintf(`<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.%s"/>`, part, ct))
	}
	override("ppt/presentation.xml", "presentationml.presentation.main+xml")
	override("ppt/slideMasters/slideMaster1.xml", "presentationml.slideMaster+xml")
	override("ppt/slideLayouts/slideLayout1.xml", "presentationml.slideLayout+xml")
	override("ppt/theme/theme1.xml", "theme+xml")
	presRels := []string{rel("rId1", "slideMaster", "slideMasters/slideMaster1.xml")}

	for i, shapes := range slides {
		n := i + 1
		part := fmt.Sprintf("ppt/slides/slide%d.xml", n)
		relID := fmt.Sprintf("rId%d", n+1)
		override(part, "presentationml.slide+xml")
		presRels = append(presRels, rel(relID, "slide", fmt.Sprintf("slides/slide%d.xml", n)))
		sldIDs = append(sldIDs, fmt.Sprintf(`<p:sldId id="%d" r:id="%s"/>`, 255+n, relID))
		add(part, header+`<p:sld `+ns+`><p:cSld><p:spTree>`+
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`+
			strings.Join(shapes, "")+`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n),
			rels(rel("rId1", "slideLayout", "../slideLayouts/slideLayout1.xml")))
	}
	presRels = append(presRels, rel(fmt.Sprintf("rId%d", len(slides)+2), "theme", "theme/theme1.xml"))

	add("[Content_Types].xml", header+`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		strings.Join(overrides, "")+`</Types>`)
	add("_rels/.rels", rels(rel("rId1", "officeDocument", "ppt/presentation.xml")))
	add("ppt/presentation.xml", header+`<p:presentation `+ns+`>`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
		`<p:sldIdLst>`+strings.Join(sldIDs, "")+`</p:sldIdLst>`+
		`<p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	add("ppt/_rels/presentation.xml.rels", rels(presRels...))
	add("ppt/slideMasters/slideMaster1.xml", header+`<p:sldMaster `+ns+`><p:cSld><p:spTree>`+
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>`+
		`<p:clrMap bg1="dk1" tx1="lt1" bg2="dk2" tx2="lt2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`+
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst></p:sldMaster>`)
	add("ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(
		rel("rId1", "slideLayout", "../slideLayouts/slideLayout1.xml"),
		rel("rId2", "theme", "../theme/theme1.xml")))
	add("ppt/slideLayouts/slideLayout1.xml", header+`<p:sldLayout `+ns+` type="blank"><p:cSld name="Blank"><p:spTree>`+
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld></p:sldLayout>`)
	add("ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels(rel("rId1", "slideMaster", "../slideMasters/slideMaster1.xml")))
	add("ppt/theme/theme1.xml", header+`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Dark"><a:themeElements>`+
		`<a:fontScheme name="Dark"><a:majorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`+
		`<a:minorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>`+
		`</a:themeElements></a:theme>`)

	if err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write builds a deck and writes it to dir/name, returning the path.
func Write(t testing.TB, dir, name string, slides ...[]string) string {
	t.Helper()
	data, err := Build(slides...)
	if err != nil {
		t.Fatalf("build deck: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	return path
}
