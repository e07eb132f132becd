package deckgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Test decks are assembled by hand so that each test controls exactly which
// parts, relationships and run properties exist.

const testNS = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const testXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// protoSlide describes one slide of a synthetic template.
type protoSlide struct {
	background bool
	shapes     []string // p:spTree children
	extLst     bool     // end the shape tree with p:extLst
	notes      bool     // attach a notes slide
	image      bool     // relate ppt/media/image1.png as rId2
	rootAttrs  string   // extra p:sld attributes, each with a leading space
	name       string   // p:cSld name
	linkTo     int      // relate slide linkTo (1-based) as rId4
	section    string   // p14 section; consecutive slides share one
}

// testRun formats one run. color is "" for no fill, "scheme:<val>" for a
// scheme color, or an RGB hex value.
func testRun(text, color string, sz int) string {
	fill := ""
	switch {
	case color == "":
	case strings.HasPrefix(color, "scheme:"):
		fill = fmt.Sprintf(`<a:solidFill><a:schemeClr val="%s"/></a:solidFill>`, strings.TrimPrefix(color, "scheme:"))
	default:
		fill = fmt.Sprintf(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, color)
	}
	return fmt.Sprintf(`<a:r><a:rPr lang="ja-JP" altLang="en-US" sz="%d" b="1" dirty="0">%s<a:latin typeface="+mj-lt"/><a:ea typeface="+mj-ea"/></a:rPr><a:t>%s</a:t></a:r>`,
		sz, fill, text)
}

// testParagraph wraps runs in a paragraph with an alignment and end marker.
func testParagraph(algn string, runs ...string) string {
	return fmt.Sprintf(`<a:p><a:pPr algn="%s"/>%s<a:endParaRPr lang="ja-JP" dirty="0"/></a:p>`, algn, strings.Join(runs, ""))
}

// testTextShape returns a p:sp with the given paragraphs.
func testTextShape(id int, name string, cx int64, paras ...string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="457200" y="457200"/><a:ext cx="%d" cy="914400"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>%s</p:txBody></p:sp>`,
		id, name, cx, strings.Join(paras, ""))
}

// testDecoration returns a p:sp without a text body.
func testDecoration(id int, name string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="914400" cy="91440"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:sp>`,
		id, name)
}

// testPicture returns a p:pic embedding rId2.
func testPicture(id int, name string) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr><a:xfrm><a:off x="0" y="1828800"/><a:ext cx="4572000" cy="2743200"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		id, name)
}

// testGroup wraps shapes in a p:grpSp.
func testGroup(id int, name string, shapes ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="%s"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s</p:grpSp>`,
		id, name, strings.Join(shapes, ""))
}

const testWide = 6 * 914400

// standardProtos mirrors the template deck the generator is built for:
// emphasis, 3/4/5-line lists, four illustration slides and two screenshot
// slides.
func standardProtos() []protoSlide {
	protos := []protoSlide{{
		background: true,
		notes:      true,
		shapes: []string{
			testTextShape(2, "Message", testWide, testParagraph("ctr", testRun("強調メッセージ", "000000", 4000))),
		},
	}}
	for i, n := range []int{3, 4, 5} {
		var paras []string
		for j := 0; j < n; j++ {
			paras = append(paras, testParagraph("l", testRun(fmt.Sprintf("テキスト%d", j+1), "scheme:accent1", 2400+100*j)))
		}
		protos = append(protos, protoSlide{
			extLst: i == 0,
			shapes: []string{
				testTextShape(2, "Title", testWide, testParagraph("l", testRun("タイトル", "FF0000", 3200))),
				testTextShape(3, "Content", testWide, paras...),
				testDecoration(4, "Accent Bar"),
			},
		})
	}
	for i := 0; i < 6; i++ {
		protos = append(protos, protoSlide{
			image: true,
			shapes: []string{
				testTextShape(2, "Title", testWide, testParagraph("l", testRun("タイトル", "", 3200))),
				testPicture(3, "Illustration"),
			},
		})
	}
	return protos
}

// buildDeck assembles a PPTX from protos.
func buildDeck(t *testing.T, protos []protoSlide) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	rels := func(items ...string) string {
		return testXMLHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			strings.Join(items, "") + `</Relationships>`
	}
	rel := func(id, typ, target string) string {
		return fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/%s" Target="%s"/>`, id, typ, target)
	}

	var overrides, sldIDs, presRels, sections []string
	override := func(part, ct string) {
		overrides = append(overrides, fmt.Sprintf(`<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.%s"/>`, part, ct))
	}
	override("ppt/presentation.xml", "presentationml.presentation.main+xml")
	override("ppt/slideMasters/slideMaster1.xml", "presentationml.slideMaster+xml")
	override("ppt/slideLayouts/slideLayout1.xml", "presentationml.slideLayout+xml")
	override("ppt/theme/theme1.xml", "theme+xml")
	presRels = append(presRels, rel("rId1", "slideMaster", "slideMasters/slideMaster1.xml"))

	hasImage := false
	for i, s := range protos {
		n := i + 1
		part := fmt.Sprintf("ppt/slides/slide%d.xml", n)
		override(part, "presentationml.slide+xml")
		relID := fmt.Sprintf("rId%d", n+1)
		presRels = append(presRels, rel(relID, "slide", fmt.Sprintf("slides/slide%d.xml", n)))
		sldIDs = append(sldIDs, fmt.Sprintf(`<p:sldId id="%d" r:id="%s"/>`, 255+n, relID))
		if s.section != "" {
			ref := fmt.Sprintf(`<p14:sldId id="%d"/>`, 255+n)
			if i > 0 && protos[i-1].section == s.section {
				sections[len(sections)-1] += ref
			} else {
				sections = append(sections, fmt.Sprintf(`<p14:section name="%s" id="{%08d-0000-0000-0000-000000000000}">`, s.section, n)+ref)
			}
		}

		bg := ""
		if s.background {
			bg = `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="101820"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`
		}
		ext := ""
		if s.extLst {
			ext = `<p:extLst><p:ext uri="{BB962C8B-B14F-4D97-AF65-F5344CB8AC3E}"/></p:extLst>`
		}
		cSld := `<p:cSld>`
		if s.name != "" {
			cSld = fmt.Sprintf(`<p:cSld name="%s">`, s.name)
		}
		add(part, testXMLHeader+`<p:sld `+testNS+s.rootAttrs+`>`+cSld+bg+
			`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
			`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`+
			strings.Join(s.shapes, "")+ext+`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)

		slideRels := []string{rel("rId1", "slideLayout", "../slideLayouts/slideLayout1.xml")}
		if s.image {
			hasImage = true
			slideRels = append(slideRels, rel("rId2", "image", "../media/image1.png"))
		}
		if s.linkTo > 0 {
			slideRels = append(slideRels, rel("rId4", "slide", fmt.Sprintf("slide%d.xml", s.linkTo)))
		}
		if s.notes {
			notesPart := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n)
			override(notesPart, "presentationml.notesSlide+xml")
			slideRels = append(slideRels, rel("rId3", "notesSlide", fmt.Sprintf("../notesSlides/notesSlide%d.xml", n)))
			add(notesPart, testXMLHeader+`<p:notes `+testNS+`><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld></p:notes>`)
			add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n),
				rels(rel("rId1", "slide", fmt.Sprintf("../slides/slide%d.xml", n))))
		}
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), rels(slideRels...))
	}
	presRels = append(presRels, rel(fmt.Sprintf("rId%d", len(protos)+2), "theme", "theme/theme1.xml"))

	if hasImage {
		add("ppt/media/image1.png", "\x89PNG\r\n\x1a\n")
	}

	add("[Content_Types].xml", testXMLHeader+`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Default Extension="png" ContentType="image/png"/>`+
		strings.Join(overrides, "")+`</Types>`)
	add("_rels/.rels", rels(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>`))
	add("ppt/presentation.xml", testXMLHeader+`<p:presentation `+testNS+` saveSubsetFonts="1">`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
		`<p:sldIdLst>`+strings.Join(sldIDs, "")+`</p:sldIdLst>`+
		`<p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>`+sectionList(sections)+`</p:presentation>`)
	add("ppt/_rels/presentation.xml.rels", rels(presRels...))
	add("ppt/slideMasters/slideMaster1.xml", testXMLHeader+`<p:sldMaster `+testNS+`><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>`+
		`<p:clrMap bg1="dk1" tx1="lt1" bg2="dk2" tx2="lt2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`+
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst></p:sldMaster>`)
	add("ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(
		rel("rId1", "slideLayout", "../slideLayouts/slideLayout1.xml"),
		rel("rId2", "theme", "../theme/theme1.xml")))
	add("ppt/slideLayouts/slideLayout1.xml", testXMLHeader+`<p:sldLayout `+testNS+` type="blank"><p:cSld name="Blank"><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld></p:sldLayout>`)
	add("ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels(rel("rId1", "slideMaster", "../slideMasters/slideMaster1.xml")))
	add("ppt/theme/theme1.xml", testXMLHeader+`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Dark"><a:themeElements>`+
		`<a:fontScheme name="Dark"><a:majorFont><a:latin typeface="Major Sans"/><a:ea typeface="Major EA"/><a:cs typeface=""/></a:majorFont>`+
		`<a:minorFont><a:latin typeface="Minor Sans"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>`+
		`</a:themeElements></a:theme>`)

	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// sectionList wraps section openings and their slide refs in the
// presentation extension PowerPoint uses for sections.
func sectionList(sections []string) string {
	if len(sections) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<p:extLst><p:ext uri="{521415D9-36F7-43E2-AB2F-B90AF26B5E84}">`)
	b.WriteString(`<p14:sectionLst xmlns:p14="http://schemas.microsoft.com/office/powerpoint/2010/main">`)
	for _, sec := range sections {
		head, refs, _ := strings.Cut(sec, "<p14:sldId ")
		b.WriteString(head + `<p14:sldIdLst><p14:sldId ` + refs + `</p14:sldIdLst></p14:section>`)
	}
	b.WriteString(`</p14:sectionLst></p:ext></p:extLst>`)
	return b.String()
}

// writeDeck writes a deck built from protos into a temp dir and returns its
// path.
func writeDeck(t *testing.T, protos []protoSlide) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pptx")
	if err := os.WriteFile(path, buildDeck(t, protos), 0644); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	return path
}

// openDeck opens an in-memory deck built from protos.
func openDeck(t *testing.T, protos []protoSlide) *Presentation {
	t.Helper()
	data := buildDeck(t, protos)
	p, err := ReadFrom(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	return p
}

// roundTrip writes p to memory and reads it back.
func roundTrip(t *testing.T, p *Presentation) *Presentation {
	t.Helper()
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out, err := ReadFrom(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadFrom after write: %v", err)
	}
	return out
}

func mustSlide(t *testing.T, p *Presentation, i int) *Slide {
	t.Helper()
	s, err := p.Slide(i)
	if err != nil {
		t.Fatalf("Slide(%d): %v", i, err)
	}
	return s
}

func shapeNames(s *Slide) []string {
	var names []string
	for _, sh := range s.Shapes() {
		names = append(names, sh.Name())
	}
	return names
}

// runFills returns the fill description of every run in a shape.
func runFills(sh *Shape) []string {
	var out []string
	body := sh.textBody()
	for _, p := range childElems(body, nsDrawingML, "p") {
		for _, r := range childElems(p, nsDrawingML, "r") {
			_, desc := ClassifyRun(r)
			out = append(out, desc)
		}
	}
	return out
}
