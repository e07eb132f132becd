package deckgen

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrTemplateNotFound is returned when the template deck does not exist.
var ErrTemplateNotFound = errors.New("template file not found")

// Assembler generates decks from a slide plan and a template deck.
type Assembler struct {
	// Logger receives progress and per-slide warnings. Nil discards them.
	Logger *slog.Logger
	// TempDir holds the working copy of the template. Empty means the
	// output file's directory.
	TempDir string
	// Fit, when set, logs a warning for every paragraph likely to wrap.
	Fit *FitChecker
}

// Result summarises a generation run.
type Result struct {
	Output         string
	TemplateSlides int
	Generated      int
	Skipped        []int // 1-based plan positions with no slide emitted
	Warnings       int   // shape fill failures
	Overflows      int
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// Generate writes a deck to outputPath holding one slide per plan entry, in
// plan order, and none of the template's own slides.
//
// The template is never modified: generation runs on a temporary copy that
// is removed on every exit path. Entries whose template slide does not exist
// are skipped with a warning, and failures to fill a single shape are logged
// and do not stop the run.
func (a *Assembler) Generate(plan *Plan, templatePath, outputPath string) (*Result, error) {
	log := a.logger()

	if _, err := os.Stat(templatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
		}
		return nil, fmt.Errorf("failed to stat template: %w", err)
	}
	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tempDir := a.TempDir
	if tempDir == "" {
		tempDir = outDir
	}
	working, err := copyToTemp(templatePath, tempDir)
	if err != nil {
		return nil, err
	}
	defer os.Remove(working)

	pres, err := OpenTemplate(working)
	if err != nil {
		return nil, err
	}
	res := &Result{Output: outputPath, TemplateSlides: pres.SlideCount()}
	attrs := []any{"path", templatePath, "slides", res.TemplateSlides}
	if size, ok := pres.SlideSize(); ok {
		attrs = append(attrs, "size", size.String())
	}
	log.Info("template loaded", attrs...)

	for i, entry := range plan.Entries() {
		a.addSlide(pres, res, i+1, entry, log)
	}

	log.Info("removing template slides", "count", res.TemplateSlides)
	for range res.TemplateSlides {
		if err := pres.RemoveSlide(0); err != nil {
			return nil, err
		}
	}

	if err := pres.Validate(); err != nil {
		return nil, err
	}
	if err := pres.Save(outputPath); err != nil {
		return nil, fmt.Errorf("failed to save output: %w", err)
	}
	log.Info("generated presentation", "output", outputPath, "slides", res.Generated)
	return res, nil
}

// addSlide resolves, duplicates and fills one plan entry.
func (a *Assembler) addSlide(pres *Presentation, res *Result, num int, entry SlideSpec, log *slog.Logger) {
	name := entry.TemplateName()
	count := entry.Fields.ItemCount()
	idx := ResolveTemplateIndex(name, count)
	log = log.With("slide", num, "template", name)

	if !KnownTemplate(name) {
		if s, ok := SuggestTemplate(name); ok {
			log.Warn("unknown template, rendering as bullets", "suggestion", s)
		} else {
			log.Warn("unknown template, rendering as bullets")
		}
	}
	log.Info("using template slide", "index", idx+1, "items", count)

	if idx >= res.TemplateSlides {
		log.Warn("template index out of range, skipping", "index", idx, "template_slides", res.TemplateSlides)
		res.Skipped = append(res.Skipped, num)
		return
	}

	slide, err := pres.DuplicateSlide(idx)
	if err != nil {
		log.Warn("could not duplicate template slide, skipping", "error", err)
		res.Skipped = append(res.Skipped, num)
		return
	}
	res.Generated++

	for _, err := range FillSlide(slide, num, idx, entry.Fields) {
		res.Warnings++
		log.Warn("could not set text", "error", err)
	}

	if a.Fit == nil {
		return
	}
	for j, sh := range slide.Shapes() {
		for _, o := range a.Fit.Check(sh) {
			res.Overflows++
			log.Warn("text may overflow its box",
				"shape", j, "paragraph", o.Paragraph, "lines", o.Lines,
				"width_pt", fmt.Sprintf("%.1f", o.Width), "available_pt", fmt.Sprintf("%.1f", o.Available))
		}
	}
}

// copyToTemp copies the template into a new file in dir and returns its path.
func copyToTemp(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open template: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, ".deckgen-*.pptx")
	if err != nil {
		return "", fmt.Errorf("failed to create working copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to copy template: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to copy template: %w", err)
	}
	return out.Name(), nil
}
