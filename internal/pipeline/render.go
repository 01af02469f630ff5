package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ppiankov/induct/internal/llm"
	"github.com/ppiankov/induct/internal/model"
)

// Renderer writes reports as JSON, Markdown, or a short terminal summary
type Renderer struct {
	color     bool
	maxListed int
}

// NewRenderer creates a renderer. maxListed caps the hypotheses printed in
// the terminal summary; 0 means no cap.
func NewRenderer(useColor bool, maxListed int) *Renderer {
	return &Renderer{color: useColor, maxListed: maxListed}
}

// WriteJSON encodes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// RenderJSON writes the JSON report to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf, report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.WriteMarkdown(&buf, report); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// RenderLLMMarkdown writes an already rendered narration to path
func (r *Renderer) RenderLLMMarkdown(md string, path string) error {
	return os.WriteFile(path, []byte(md), 0o644)
}

// WriteMarkdown renders the full report
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# induct report: %s\n\n", report.Dataset)
	fmt.Fprintf(&b, "- **Run:** `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- **Algorithm:** %s\n", report.Algorithm)
	fmt.Fprintf(&b, "- **Examples:** %d\n", report.Examples)
	fmt.Fprintf(&b, "- **Fit index:** %d/100 (%s confidence)\n", report.Score.Index, report.Score.Confidence)
	fmt.Fprintf(&b, "- **Duration:** %s\n\n", report.Duration)

	if vs := report.VersionSpace; vs != nil {
		b.WriteString("## Version space\n\n")
		if vs.Empty {
			b.WriteString("No hypothesis of the space is consistent with every example.\n\n")
		} else {
			fmt.Fprintf(&b, "%d hypotheses built from %d surviving conjunctions.\n\n", vs.Size, len(vs.Conjunctions))
		}
		if len(vs.Conjunctions) > 0 {
			b.WriteString("### Surviving conjunctions\n\n")
			for _, c := range vs.Conjunctions {
				fmt.Fprintf(&b, "- `%s`\n", c)
			}
			b.WriteString("\n")
		}
		if len(vs.Members) > 0 {
			b.WriteString("### Members\n\n")
			for _, h := range vs.Members {
				fmt.Fprintf(&b, "- `%s`\n", h)
			}
			if vs.Truncated {
				fmt.Fprintf(&b, "- ... %d more\n", vs.Size-len(vs.Members))
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("## Hypothesis\n\n")
		fmt.Fprintf(&b, "`%s`\n\n", report.Hypothesis)
		if len(report.Seed) > 0 {
			fmt.Fprintf(&b, "Seed: `%s`\n\n", report.Seed)
		}
	}

	c := report.Score.Confusion
	b.WriteString("## Confusion\n\n")
	b.WriteString("| | label true | label false |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| **guess true** | %d | %d |\n", c.TruePositive, c.FalsePositive)
	fmt.Fprintf(&b, "| **guess false** | %d | %d |\n\n", c.FalseNegative, c.TrueNegative)

	if len(report.Score.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Score.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Type, s.Severity, s.Description)
		}
		b.WriteString("\n")
	}

	if len(report.Issues) > 0 {
		b.WriteString("## Dataset issues\n\n")
		for _, issue := range report.Issues {
			where := "dataset"
			if issue.Index >= 0 {
				where = fmt.Sprintf("example %d", issue.Index)
			}
			fmt.Fprintf(&b, "- %s, %s: %s\n", issue.Severity, where, issue.Message)
		}
		b.WriteString("\n")
	}

	if len(report.Trace) > 0 {
		b.WriteString("## Trace\n\n")
		b.WriteString("| # | example | outcome | action | result |\n|---|---|---|---|---|\n")
		for _, t := range report.Trace {
			fmt.Fprintf(&b, "| %d | `%s` | %s | %s | `%s` |\n", t.Index, t.Example, t.Outcome, t.Action, t.Result)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("_An LLM narration of this run is rendered separately._\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary prints a short colored summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	ok := r.paint(color.FgGreen)
	warn := r.paint(color.FgYellow)
	bad := r.paint(color.FgRed)
	bold := r.paint(color.Bold)

	fmt.Fprintf(w, "%s %s (%s, %d examples)\n", bold.Sprint("Dataset:"), report.Dataset, report.Algorithm, report.Examples)

	if vs := report.VersionSpace; vs != nil {
		if vs.Empty {
			fmt.Fprintf(w, "%s version space is empty\n", bad.Sprint("✗"))
		} else {
			fmt.Fprintf(w, "%s %d hypotheses, %d surviving conjunctions\n", ok.Sprint("✓"), vs.Size, len(vs.Conjunctions))
		}
		for i, h := range vs.Members {
			if r.maxListed > 0 && i >= r.maxListed {
				break
			}
			fmt.Fprintf(w, "    %s\n", h)
		}
		if shown := r.listCap(len(vs.Members)); vs.Size > shown {
			fmt.Fprintf(w, "    ... %d more\n", vs.Size-shown)
		}
	} else {
		fmt.Fprintf(w, "%s %s\n", ok.Sprint("✓"), report.Hypothesis)
	}

	indexColor := ok
	switch {
	case report.Score.Index < 60:
		indexColor = bad
	case report.Score.Index < 80:
		indexColor = warn
	}
	fmt.Fprintf(w, "%s %s (%s confidence)\n", bold.Sprint("Fit index:"),
		indexColor.Sprintf("%d/100", report.Score.Index), report.Score.Confidence)

	for _, s := range report.Score.Signals {
		if s.Severity == model.SeverityInfo {
			continue
		}
		c := warn
		if s.Severity == model.SeverityCritical {
			c = bad
		}
		fmt.Fprintf(w, "%s %s\n", c.Sprint("⚠"), s.Description)
	}
}

func (r *Renderer) listCap(n int) int {
	if r.maxListed > 0 && r.maxListed < n {
		return r.maxListed
	}
	return n
}

func (r *Renderer) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// RenderReport writes the requested files. A narration, when present, goes
// to a sibling .llm.md file next to the Markdown report.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string) ([]string, error) {
	var written []string

	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return written, fmt.Errorf("render JSON: %w", err)
		}
		written = append(written, jsonPath)
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return written, fmt.Errorf("render markdown: %w", err)
		}
		written = append(written, mdPath)

		if md := llm.RenderSeparateMarkdown(report.LLM); md != "" {
			llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
			if err := p.renderer.RenderLLMMarkdown(md, llmPath); err != nil {
				p.logger.Warn("failed to write LLM summary", "path", llmPath, "error", err)
			} else {
				written = append(written, llmPath)
			}
		}
	}

	return written, nil
}
