package deckgen

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func parseRun(t *testing.T, rPr string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(`<a:r xmlns:a="` + nsDrawingML + `">` + rPr + `<a:t>x</a:t></a:r>`); err != nil {
		t.Fatal(err)
	}
	return doc.Root()
}

func TestClassifyRun(t *testing.T) {
	tests := []struct {
		rPr   string
		class RunColor
		desc  string
	}{
		{``, RunUnset, "None"},
		{`<a:rPr lang="en-US"/>`, RunUnset, "None"},
		{`<a:rPr><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill></a:rPr>`, RunWhite, "FFFFFF"},
		{`<a:rPr><a:solidFill><a:srgbClr val="ffffff"/></a:solidFill></a:rPr>`, RunWhite, "ffffff"},
		{`<a:rPr><a:solidFill><a:schemeClr val="lt1"/></a:solidFill></a:rPr>`, RunWhite, "scheme:lt1"},
		{`<a:rPr><a:solidFill><a:schemeClr val="tx1"/></a:solidFill></a:rPr>`, RunWhite, "scheme:tx1"},
		{`<a:rPr><a:solidFill><a:schemeClr val="accent2"/></a:solidFill></a:rPr>`, RunOffWhite, "scheme:accent2"},
		{`<a:rPr><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill></a:rPr>`, RunOffWhite, "FF0000"},
		{`<a:rPr><a:solidFill><a:prstClr val="white"/></a:solidFill></a:rPr>`, RunOffWhite, "prstClr"},
		{`<a:rPr><a:gradFill/></a:rPr>`, RunOffWhite, "gradFill"},
		{`<a:rPr><a:noFill/></a:rPr>`, RunOffWhite, "noFill"},
	}
	for _, tt := range tests {
		class, desc := ClassifyRun(parseRun(t, tt.rPr))
		if class != tt.class || desc != tt.desc {
			t.Errorf("ClassifyRun(%s) = %s, %q; want %s, %q", tt.rPr, class, desc, tt.class, tt.desc)
		}
	}
}

func auditProtos() []protoSlide {
	return []protoSlide{
		{shapes: []string{
			testTextShape(2, "Mixed", testWide,
				testParagraph("l",
					testRun("赤い文字", "FF0000", 2400),
					testRun("white", "FFFFFF", 2400),
					testRun("lower", "ffffff", 2400)),
				testParagraph("l", testRun("scheme white", "scheme:lt1", 2400))),
			testPicture(3, "Image"),
		}},
		{shapes: []string{
			testTextShape(2, "Inherited", testWide,
				testParagraph("l", `<a:r><a:t>no properties at all</a:t></a:r>`, testRun("no fill", "", 2000))),
			testGroup(4, "Group",
				testTextShape(5, "Inner", testWide, testParagraph("l", testRun("inside a group", "scheme:accent1", 1800)))),
		}},
	}
}

func TestAuditColors(t *testing.T) {
	p := openDeck(t, auditProtos())
	rep, err := AuditColors(p)
	if err != nil {
		t.Fatal(err)
	}

	if rep.TotalSlides != 2 || rep.TotalShapes != 5 || rep.TotalParagraphs != 4 || rep.TotalRuns != 7 {
		t.Errorf("totals = %d slides, %d shapes, %d paragraphs, %d runs",
			rep.TotalSlides, rep.TotalShapes, rep.TotalParagraphs, rep.TotalRuns)
	}
	if rep.AlreadyWhite != 3 || rep.NoColor != 2 || rep.FixedRuns != 2 {
		t.Errorf("white %d, no color %d, fixed %d; want 3, 2, 2", rep.AlreadyWhite, rep.NoColor, rep.FixedRuns)
	}
	if rep.Corrected() != 4 || len(rep.Issues) != 4 {
		t.Errorf("corrected = %d, issues = %d", rep.Corrected(), len(rep.Issues))
	}

	first := rep.Issues[0]
	if first.Slide != 1 || first.Shape != "0" || first.Paragraph != 0 || first.Run != 0 ||
		first.OldColor != "FF0000" || first.NewColor != "FFFFFF" || first.Text != "赤い文字" {
		t.Errorf("first issue = %+v", first)
	}
	last := rep.Issues[3]
	if last.Shape != "1.0" || last.OldColor != "scheme:accent1" {
		t.Errorf("group issue = %+v", last)
	}

	// Untouched white runs keep their own spelling.
	mixed := mustSlide(t, p, 0).Shapes()[0]
	if got := runFills(mixed); !reflect.DeepEqual(got, []string{"FFFFFF", "FFFFFF", "ffffff", "scheme:lt1"}) {
		t.Errorf("fills after audit = %v", got)
	}
	inherited := mustSlide(t, p, 1).Shapes()[0]
	if got := runFills(inherited); !reflect.DeepEqual(got, []string{"FFFFFF", "FFFFFF"}) {
		t.Errorf("fills after audit = %v", got)
	}

	again, err := AuditColors(p)
	if err != nil {
		t.Fatal(err)
	}
	if again.Corrected() != 0 || again.AlreadyWhite != 7 {
		t.Errorf("second audit corrected %d, white %d", again.Corrected(), again.AlreadyWhite)
	}
}

func TestVerifyColorsWritesInPlace(t *testing.T) {
	path := writeDeck(t, auditProtos())
	rep, err := VerifyColors(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Corrected() != 4 {
		t.Errorf("corrected = %d", rep.Corrected())
	}

	rep, err = VerifyColors(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Corrected() != 0 {
		t.Errorf("second pass corrected = %d, want 0", rep.Corrected())
	}
}

func TestVerifyColorsSeparateOutput(t *testing.T) {
	in := writeDeck(t, auditProtos())
	before, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "nested", "fixed.pptx")
	if _, err := VerifyColors(in, out); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("input deck modified when an output path was given")
	}
	p, err := Open(out)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := AuditColors(p)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Corrected() != 0 {
		t.Errorf("output still needs %d corrections", rep.Corrected())
	}

	if _, err := VerifyColors(filepath.Join(t.TempDir(), "missing.pptx"), ""); err == nil {
		t.Error("missing input verified without error")
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short"); got != "short" {
		t.Errorf("preview = %q", got)
	}
	long := strings.Repeat("字", 31)
	if got := preview(long); got != strings.Repeat("字", 30)+"..." {
		t.Errorf("preview = %q", got)
	}
}
