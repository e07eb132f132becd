package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/VantageDataChat/deckgen"
)

// Styles renders report text. The zero styles of NewStyles(true) print
// plain text.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	OK    lipgloss.Style
	Warn  lipgloss.Style
	Dim   lipgloss.Style
	Box   lipgloss.Style
}

// NewStyles returns report styles; noColor disables every decoration.
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{Title: plain, Label: plain, OK: plain, Warn: plain, Dim: plain, Box: plain}
	}
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Label: lipgloss.NewStyle().Bold(true),
		OK:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Dim:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		Box:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (s Styles) row(label string, value interface{}) string {
	return fmt.Sprintf("%s %v", s.Label.Render(label+":"), value)
}

// RenderResult prints the summary of a render_pptx run.
func RenderResult(w io.Writer, s Styles, res *deckgen.Result) {
	var content []string
	content = append(content, s.Title.Render("Generated PowerPoint"))
	content = append(content, s.row("Output", res.Output))
	content = append(content, s.row("Slides", res.Generated))
	content = append(content, s.row("Template slides removed", res.TemplateSlides))
	if len(res.Skipped) > 0 {
		nums := make([]string, len(res.Skipped))
		for i, n := range res.Skipped {
			nums[i] = fmt.Sprint(n)
		}
		content = append(content, s.Warn.Render("Skipped plan entries: "+strings.Join(nums, ", ")))
	}
	if res.Warnings > 0 {
		content = append(content, s.Warn.Render(fmt.Sprintf("Text warnings: %d", res.Warnings)))
	}
	if res.Overflows > 0 {
		content = append(content, s.Warn.Render(fmt.Sprintf("Possible overflows: %d", res.Overflows)))
	}
	fmt.Fprintln(w, s.Box.Render(strings.Join(content, "\n")))
}

// RenderColorReport prints the tally and corrections of a color audit.
func RenderColorReport(w io.Writer, s Styles, rep *deckgen.ColorReport, output string) {
	var content []string
	content = append(content, s.Title.Render("Verification Summary"))
	content = append(content, s.row("Total Slides", rep.TotalSlides))
	content = append(content, s.row("Total Shapes", rep.TotalShapes))
	content = append(content, s.row("Total Paragraphs", rep.TotalParagraphs))
	content = append(content, s.row("Total Runs", rep.TotalRuns))
	content = append(content, "")
	content = append(content, s.OK.Render(fmt.Sprintf("OK Already white: %d", rep.AlreadyWhite)))
	content = append(content, s.Warn.Render(fmt.Sprintf("FIXED No color -> white: %d", rep.NoColor)))
	content = append(content, s.Warn.Render(fmt.Sprintf("FIXED Other color -> white: %d", rep.FixedRuns)))
	fmt.Fprintln(w, s.Box.Render(strings.Join(content, "\n")))

	if len(rep.Issues) > 0 {
		fmt.Fprintln(w, s.Title.Render("Fix Details"))
		for _, is := range rep.Issues {
			fmt.Fprintf(w, "Slide %d, Shape %s, Para %d, Run %d: %s -> %s\n",
				is.Slide, is.Shape, is.Paragraph, is.Run, is.OldColor, is.NewColor)
			fmt.Fprintln(w, s.Dim.Render(fmt.Sprintf("  Text: '%s'", is.Text)))
		}
	}

	fmt.Fprintln(w, s.row("Output file", output))
	if n := rep.Corrected(); n > 0 {
		fmt.Fprintln(w, s.Warn.Render(fmt.Sprintf("Fixed %d locations", n)))
	} else {
		fmt.Fprintln(w, s.OK.Render("All text colors are correct"))
	}
}

// RenderTuneReport prints one line per entry with issues and the OK/WARN
// counts.
func RenderTuneReport(w io.Writer, s Styles, rep *deckgen.TuneReport) {
	for _, e := range rep.Entries {
		if e.OK() {
			continue
		}
		id := e.SectionID
		if id == "" {
			id = fmt.Sprintf("#%d", e.Index)
		}
		fmt.Fprintf(w, "%s %s %s: %s\n", s.Warn.Render("[WARN]"), id, e.Template, strings.Join(e.Issues, " / "))
	}
	fmt.Fprintf(w, "%s, %s\n", s.OK.Render(fmt.Sprintf("OK %d", rep.OK)), s.Warn.Render(fmt.Sprintf("WARN %d", rep.Warn)))
}
