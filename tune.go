package deckgen

import (
	"fmt"
	"unicode/utf8"
)

// Constraints bound how much text a template comfortably holds.
type Constraints struct {
	MaxCharsPerLine int
	MaxLines        int
	MaxItems        int // 0 when the template has no item limit
}

// defaultConstraints apply to templates without an entry in
// templateConstraints.
var defaultConstraints = Constraints{MaxCharsPerLine: 26, MaxLines: 6}

var templateConstraints = map[string]Constraints{
	"title_card":   {MaxCharsPerLine: 26, MaxLines: 3},
	"definition":   {MaxCharsPerLine: 26, MaxLines: 4},
	"bullets":      {MaxCharsPerLine: 26, MaxLines: 6, MaxItems: 5},
	"comparison":   {MaxCharsPerLine: 24, MaxLines: 6},
	"process":      {MaxCharsPerLine: 24, MaxLines: 6, MaxItems: 5},
	"diagram":      {MaxCharsPerLine: 22, MaxLines: 6},
	"illustration": {MaxCharsPerLine: 26, MaxLines: 4},
	"recap":        {MaxCharsPerLine: 26, MaxLines: 6},
	"cta":          {MaxCharsPerLine: 24, MaxLines: 4},
}

// ConstraintsFor returns the constraints of a template.
func ConstraintsFor(template string) Constraints {
	if c, ok := templateConstraints[template]; ok {
		return c
	}
	return defaultConstraints
}

// EstimateLines estimates how many lines an entry renders to: one line per
// MaxCharsPerLine characters of each item plus a title line for list
// templates, desc plus a title line for definitions, 5 for comparisons and
// 4 for everything else.
func EstimateLines(template string, fields Fields) int {
	maxChars := ConstraintsFor(template).MaxCharsPerLine
	measure := func(s string) int {
		n := utf8.RuneCountInString(s)
		return (n + maxChars - 1) / maxChars
	}
	sum := func(key string) int {
		total := 1
		for _, it := range fields[key].Items() {
			total += measure(it)
		}
		return total
	}
	switch template {
	case "bullets":
		return sum("items")
	case "process":
		return sum("steps")
	case "recap":
		return sum("points")
	case "comparison":
		return 5
	case "definition":
		return measure(fields.Get("desc")) + 1
	default:
		return 4
	}
}

// Constrain computes the ConstraintsResult the planner would attach to an
// entry.
func Constrain(template string, fields Fields) ConstraintsResult {
	c := ConstraintsFor(template)
	est := EstimateLines(template, fields)
	score := 100 - max(0, est-c.MaxLines)*10
	return ConstraintsResult{
		EstimatedLines:  est,
		MaxLines:        c.MaxLines,
		MaxCharsPerLine: c.MaxCharsPerLine,
		VisualScore:     max(50, score),
	}
}

// TuneEntry is the outcome of checking one plan entry.
type TuneEntry struct {
	Index     int // 1-based
	SectionID string
	Template  string
	Slot      int
	Result    ConstraintsResult
	Issues    []string
}

// OK reports whether the entry has no issues.
func (e TuneEntry) OK() bool { return len(e.Issues) == 0 }

// TuneReport summarises a plan check.
type TuneReport struct {
	Entries []TuneEntry
	OK      int
	Warn    int
}

// TunePlan checks each entry for content its template will not show well:
// bullet lists shorter than three items, estimates beyond the template's
// line budget, content the resolved layout truncates, and template names
// the resolver does not know. An entry's own constraintsResult is used when
// the plan carries one.
func TunePlan(entries []SlideSpec) *TuneReport {
	report := &TuneReport{}
	for i, entry := range entries {
		name := entry.TemplateName()
		slot := ResolveTemplateIndex(name, entry.Fields.ItemCount())
		e := TuneEntry{Index: i + 1, SectionID: entry.SectionID, Template: name, Slot: slot}
		if entry.ConstraintsResult != nil {
			e.Result = *entry.ConstraintsResult
		} else {
			e.Result = Constrain(name, entry.Fields)
		}

		if name == "bullets" {
			if n := len(entry.Fields["items"].Items()); n < 3 {
				e.Issues = append(e.Issues, fmt.Sprintf("bullets has %d items (<3)", n))
			}
		}
		if e.Result.EstimatedLines > e.Result.MaxLines {
			e.Issues = append(e.Issues, fmt.Sprintf("too many lines: est=%d > max=%d",
				e.Result.EstimatedLines, e.Result.MaxLines))
		}
		if LayoutFor(slot) == LayoutList {
			if n, limit := entry.Fields.ItemCount(), MaxItems(slot); n > limit {
				e.Issues = append(e.Issues, fmt.Sprintf("%d %s, layout shows %d", n, entry.Fields.ContentKey(), limit))
			}
		}
		if !KnownTemplate(name) {
			msg := fmt.Sprintf("unknown template %q, rendered as bullets", name)
			if s, ok := SuggestTemplate(name); ok {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
			e.Issues = append(e.Issues, msg)
		}

		if e.OK() {
			report.OK++
		} else {
			report.Warn++
		}
		report.Entries = append(report.Entries, e)
	}
	return report
}
