package deckgen

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func fillDuplicate(t *testing.T, p *Presentation, slot int, fields Fields) (*Slide, []error) {
	t.Helper()
	s, err := p.DuplicateSlide(slot)
	if err != nil {
		t.Fatalf("DuplicateSlide(%d): %v", slot, err)
	}
	return s, FillSlide(s, 1, slot, fields)
}

func TestFillEmphasis(t *testing.T) {
	p := openDeck(t, standardProtos())

	s, errs := fillDuplicate(t, p, SlotEmphasis, Fields{
		"title":    String("学びを止めない"),
		"subtitle": String("毎日5分から"),
	})
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if got := s.Shapes()[0].Paragraphs(); !reflect.DeepEqual(got, []string{"学びを止めない", "毎日5分から"}) {
		t.Errorf("paragraphs = %v", got)
	}

	s, _ = fillDuplicate(t, p, SlotEmphasis, Fields{"message": String("今すぐ始めよう")})
	if got := s.Shapes()[0].Text(); got != "今すぐ始めよう" {
		t.Errorf("message text = %q", got)
	}

	// A subtitle belongs to the title and is not appended to a message.
	s, _ = fillDuplicate(t, p, SlotEmphasis, Fields{
		"message":  String("今すぐ始めよう"),
		"subtitle": String("毎日5分から"),
	})
	if got := s.Shapes()[0].Paragraphs(); !reflect.DeepEqual(got, []string{"今すぐ始めよう"}) {
		t.Errorf("message with subtitle = %v", got)
	}
}

func TestFillList(t *testing.T) {
	p := openDeck(t, standardProtos())
	s, errs := fillDuplicate(t, p, SlotList4, Fields{
		"title": String("Four things"),
		"items": List("A", "B", "C", "D"),
	})
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	shapes := s.Shapes()
	if got := shapes[0].Text(); got != "Four things" {
		t.Errorf("title = %q", got)
	}
	if got := shapes[1].Paragraphs(); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("content = %v", got)
	}
	for _, sh := range shapes[:2] {
		for _, fill := range runFills(sh) {
			if fill != "FFFFFF" {
				t.Errorf("%s fill = %s", sh.Name(), fill)
			}
		}
	}
	if shapes[2].HasTextFrame() {
		t.Error("decoration shape received text")
	}
}

func TestFillListTermAndTruncation(t *testing.T) {
	p := openDeck(t, standardProtos())
	s, _ := fillDuplicate(t, p, SlotList3, Fields{
		"title": String("ignored"),
		"term":  String("Term"),
		"items": List("1", "2", "3", "4", "5"),
	})
	if got := s.Shapes()[0].Text(); got != "Term" {
		t.Errorf("title shape = %q, want the term", got)
	}
	if got := s.Shapes()[1].Paragraphs(); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("content = %v, want first three items", got)
	}
}

func TestFillListStepsAndDesc(t *testing.T) {
	p := openDeck(t, standardProtos())
	s, _ := fillDuplicate(t, p, SlotList3, Fields{
		"title": String("How"),
		"steps": List("Plan", "Build", "Ship"),
	})
	if got := s.Shapes()[1].Paragraphs(); !reflect.DeepEqual(got, []string{"1. Plan", "2. Build", "3. Ship"}) {
		t.Errorf("steps = %v", got)
	}

	s, _ = fillDuplicate(t, p, SlotList3, Fields{
		"term": String("API"),
		"desc": String("A contract between programs"),
	})
	if got := s.Shapes()[1].Paragraphs(); !reflect.DeepEqual(got, []string{"A contract between programs"}) {
		t.Errorf("desc = %v", got)
	}
}

func TestFillVisual(t *testing.T) {
	p := openDeck(t, standardProtos())
	s, errs := fillDuplicate(t, p, SlotScreenshot, Fields{
		"title": String("Dashboard"),
		"items": List("ignored"),
	})
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if got := s.Shapes()[0].Text(); got != "Dashboard" {
		t.Errorf("title = %q", got)
	}
	if s.Shapes()[1].Kind() != ShapeKindPicture {
		t.Error("picture replaced")
	}
}

func TestFillTooFewShapes(t *testing.T) {
	protos := standardProtos()
	protos[SlotList3].shapes = protos[SlotList3].shapes[:1]
	p := openDeck(t, protos)

	s, errs := fillDuplicate(t, p, SlotList3, Fields{"title": String("T"), "items": List("a")})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want one", errs)
	}
	var se *ShapeError
	if !errors.As(errs[0], &se) || se.Shape != -1 || se.Slide != 1 {
		t.Errorf("error = %#v", errs[0])
	}
	if !errors.Is(errs[0], ErrTooFewShapes) {
		t.Errorf("error does not wrap ErrTooFewShapes: %v", errs[0])
	}
	if got := s.Shapes()[0].Text(); got != "タイトル" {
		t.Errorf("title shape changed to %q", got)
	}
}

func TestFillShapeWithoutText(t *testing.T) {
	protos := standardProtos()
	protos[SlotIllustrate].shapes = []string{testPicture(2, "Hero"), testPicture(3, "Other")}
	p := openDeck(t, protos)

	_, errs := fillDuplicate(t, p, SlotIllustrate, Fields{"title": String("T")})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want one", errs)
	}
	var se *ShapeError
	if !errors.As(errs[0], &se) || se.Shape != 0 || se.Name != "Hero" {
		t.Errorf("error = %#v", errs[0])
	}
	if !errors.Is(errs[0], ErrNoTextFrame) {
		t.Errorf("error does not wrap ErrNoTextFrame: %v", errs[0])
	}
}

func TestFieldsItemCount(t *testing.T) {
	tests := []struct {
		fields Fields
		want   int
	}{
		{Fields{}, 0},
		{Fields{"items": List("a", "b")}, 2},
		{Fields{"steps": List("a", "b", "c")}, 3},
		{Fields{"points": List("a")}, 1},
		{Fields{"items": List("a"), "steps": List("a", "b")}, 1},
		{Fields{"items": String("one line")}, 1},
		{Fields{"items": String("")}, 0},
		{Fields{"desc": String("x")}, 0},
	}
	for _, tt := range tests {
		if got := tt.fields.ItemCount(); got != tt.want {
			t.Errorf("ItemCount(%v) = %d, want %d", tt.fields, got, tt.want)
		}
	}
}

func TestValueJSON(t *testing.T) {
	var f Fields
	data := `{"title":"T","items":["a","b"],"count":3,"flag":true,"none":null}`
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		t.Fatal(err)
	}
	if f.Get("title") != "T" || f["title"].IsList() {
		t.Errorf("title = %#v", f["title"])
	}
	if !f["items"].IsList() || !reflect.DeepEqual(f["items"].Items(), []string{"a", "b"}) {
		t.Errorf("items = %#v", f["items"])
	}
	if f.Get("count") != "3" || f.Get("flag") != "true" {
		t.Errorf("scalars = %q, %q", f.Get("count"), f.Get("flag"))
	}
	if !f.Has("none") || f.Get("none") != "" {
		t.Errorf("null = %#v", f["none"])
	}
	if f.Get("items") != "a\nb" {
		t.Errorf("items as string = %q", f.Get("items"))
	}

	out, err := json.Marshal(Fields{"items": List("x"), "title": String("y")})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"items":["x"],"title":"y"}` {
		t.Errorf("Marshal = %s", out)
	}
}
