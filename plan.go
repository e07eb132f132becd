package deckgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Plan is a slide plan document. SlidesWithTuning, when present, is the
// post-tuning variant of Slides and takes precedence over it.
type Plan struct {
	Slides           []SlideSpec  `json:"slides,omitempty" yaml:"slides,omitempty"`
	SlidesWithTuning *[]SlideSpec `json:"slidesWithTuning,omitempty" yaml:"slidesWithTuning,omitempty"`
}

// Entries returns the slide specs to render, in order.
func (p *Plan) Entries() []SlideSpec {
	if p.SlidesWithTuning != nil {
		return *p.SlidesWithTuning
	}
	return p.Slides
}

// SlideSpec is one entry of a slide plan.
type SlideSpec struct {
	Template          string             `json:"template" yaml:"template"`
	Fields            Fields             `json:"fields" yaml:"fields"`
	SectionID         string             `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
	ConstraintsResult *ConstraintsResult `json:"constraintsResult,omitempty" yaml:"constraintsResult,omitempty"`
	Notes             string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TemplateName returns the entry's template, or DefaultTemplate when unset.
func (s SlideSpec) TemplateName() string {
	if s.Template == "" {
		return DefaultTemplate
	}
	return s.Template
}

// ConstraintsResult is the planner's layout estimate for an entry.
type ConstraintsResult struct {
	EstimatedLines  int `json:"estimatedLines" yaml:"estimatedLines"`
	MaxLines        int `json:"maxLines" yaml:"maxLines"`
	MaxCharsPerLine int `json:"maxCharsPerLine" yaml:"maxCharsPerLine"`
	VisualScore     int `json:"visualScore,omitempty" yaml:"visualScore,omitempty"`
}

// LoadPlan reads a plan from a .json, .yaml or .yml file. Other extensions
// are read as JSON.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParsePlanYAML(data)
	default:
		return ParsePlanJSON(data)
	}
}

// ParsePlanJSON decodes a JSON plan document.
func ParsePlanJSON(data []byte) (*Plan, error) {
	var p Plan
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}
	p.normalize()
	return &p, nil
}

// ParsePlanYAML decodes a YAML plan document.
func ParsePlanYAML(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan YAML: %w", err)
	}
	p.normalize()
	return &p, nil
}

// normalize puts every field string into NFC so that text composed on
// different platforms measures and renders the same.
func (p *Plan) normalize() {
	normalizeSpecs(p.Slides)
	if p.SlidesWithTuning != nil {
		normalizeSpecs(*p.SlidesWithTuning)
	}
}

func normalizeSpecs(specs []SlideSpec) {
	for i := range specs {
		for k, v := range specs[i].Fields {
			if v.isList {
				items := make([]string, len(v.list))
				for j, it := range v.list {
					items[j] = norm.NFC.String(it)
				}
				specs[i].Fields[k] = List(items...)
			} else {
				specs[i].Fields[k] = String(norm.NFC.String(v.str))
			}
		}
	}
}
