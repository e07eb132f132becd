package deckgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is a plan field value: either a single string or a list of strings.
type Value struct {
	str    string
	list   []string
	isList bool
}

// String returns a single-string value.
func String(s string) Value {
	return Value{str: s}
}

// List returns a list value.
func List(items ...string) Value {
	return Value{list: items, isList: true}
}

// IsList reports whether the value was given as a list.
func (v Value) IsList() bool { return v.isList }

// String returns the value as one string; list items are joined by "\n".
func (v Value) String() string {
	if !v.isList {
		return v.str
	}
	return joinNonEmpty(v.list, "\n")
}

// Items returns the value as a list. A single non-empty string is a list of
// one item.
func (v Value) Items() []string {
	if v.isList {
		return v.list
	}
	if v.str == "" {
		return nil
	}
	return []string{v.str}
}

// UnmarshalJSON accepts a string, an array, or a scalar. Non-string scalars
// keep their JSON text; null is the empty string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case []interface{}:
		items := make([]string, 0, len(x))
		for _, it := range x {
			items = append(items, scalarString(it))
		}
		*v = List(items...)
	default:
		*v = String(scalarString(x))
	}
	return nil
}

// MarshalJSON writes lists as arrays and everything else as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.str)
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, c := range node.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list items must be scalars", c.Line)
			}
			items = append(items, c.Value)
		}
		*v = List(items...)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = String("")
		} else {
			*v = String(node.Value)
		}
	default:
		return fmt.Errorf("line %d: field must be a string or a list of strings", node.Line)
	}
	return nil
}

func scalarString(x interface{}) string {
	switch s := x.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		b, _ := json.Marshal(s)
		return string(b)
	}
}

// Fields maps plan field names (title, subtitle, items, steps, points, desc,
// term, message) to their values. Unknown keys are carried and ignored.
type Fields map[string]Value

// Has reports whether key is present, even with an empty value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Get returns the string form of key, or "" when it is absent.
func (f Fields) Get(key string) string {
	return f[key].String()
}

// contentKeys are the list-valued fields, in the order they are consulted.
var contentKeys = []string{"items", "steps", "points"}

// ContentKey returns the first present list-valued key, or "" when none is.
func (f Fields) ContentKey() string {
	for _, k := range contentKeys {
		if f.Has(k) {
			return k
		}
	}
	return ""
}

// ItemCount is the length of the first present of items, steps, and points.
func (f Fields) ItemCount() int {
	if k := f.ContentKey(); k != "" {
		return len(f[k].Items())
	}
	return 0
}

// ContentLines returns the lines a list layout shows, truncated to max:
// items as-is, steps numbered "N. ", points as-is, or desc as one line.
func (f Fields) ContentLines(max int) []string {
	var lines []string
	switch f.ContentKey() {
	case "items":
		lines = f["items"].Items()
	case "steps":
		for i, step := range f["steps"].Items() {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
		}
	case "points":
		lines = f["points"].Items()
	default:
		if f.Has("desc") {
			lines = []string{f.Get("desc")}
		}
	}
	if max >= 0 && len(lines) > max {
		lines = lines[:max]
	}
	return lines
}

// ShapeError reports a failure to fill one shape. Generation continues after
// a ShapeError; callers log it as a warning.
type ShapeError struct {
	Slide int    // 1-based position in the plan
	Shape int    // 0-based index in the slide's shape tree, -1 when missing
	Name  string // shape name, if any
	Err   error
}

func (e *ShapeError) Error() string {
	if e.Shape < 0 {
		return fmt.Sprintf("slide %d: %v", e.Slide, e.Err)
	}
	return fmt.Sprintf("slide %d shape %d (%q): %v", e.Slide, e.Shape, e.Name, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// ErrTooFewShapes is wrapped in a ShapeError when a duplicated slide lacks a
// shape its layout fills.
var ErrTooFewShapes = errors.New("slide has fewer shapes than its layout fills")

// FillSlide writes fields into the shapes of a slide duplicated from
// templateIndex. slideNum identifies the slide in returned errors.
//
//   - Emphasis (index 0): shape 0 gets title, with subtitle as a second
//     line, or message when title is empty.
//   - List (1-3): shape 0 gets term, or title when term is empty; shape 1
//     gets up to MaxItems lines of content.
//   - Visual (4 and up): shape 0 gets title; nothing else is touched.
//
// Failures are per shape and never stop the remaining shapes.
func FillSlide(slide *Slide, slideNum, templateIndex int, fields Fields) []error {
	shapes := slide.Shapes()
	var errs []error
	set := func(i int, lines []string) {
		if i >= len(shapes) {
			errs = append(errs, &ShapeError{Slide: slideNum, Shape: -1,
				Err: fmt.Errorf("%w: need shape %d, have %d", ErrTooFewShapes, i, len(shapes))})
			return
		}
		if err := shapes[i].SetLines(lines); err != nil {
			errs = append(errs, &ShapeError{Slide: slideNum, Shape: i, Name: shapes[i].Name(), Err: err})
		}
	}

	switch LayoutFor(templateIndex) {
	case LayoutEmphasis:
		head := fields.Get("title")
		if sub := fields.Get("subtitle"); head != "" && sub != "" {
			head += "\n" + sub
		}
		if head == "" {
			head = fields.Get("message")
		}
		set(0, strings.Split(head, "\n"))
	case LayoutList:
		if len(shapes) < 2 {
			set(1, nil)
			return errs
		}
		title := fields.Get("title")
		if term := fields.Get("term"); term != "" {
			title = term
		}
		set(0, []string{title})
		set(1, fields.ContentLines(MaxItems(templateIndex)))
	case LayoutVisual:
		set(0, []string{fields.Get("title")})
	}
	return errs
}
