package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ppiankov/induct/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		RunID:      "run-1",
		Dataset:    "party",
		Algorithm:  model.AlgorithmCurrentBest,
		Examples:   3,
		Hypothesis: model.Hypothesis{model.MustConjunction(model.Is("Pizza", "Yes"))},
		Score: model.Score{
			Index:      55,
			Confidence: "low",
			Confusion:  model.Confusion{TruePositive: 2, TrueNegative: 1},
			Signals: []model.Signal{
				{Type: model.SignalTrainingConsistency, Severity: model.SeverityInfo, Description: "Consistent with 3/3 training examples"},
				{Type: model.SignalHeldOutAccuracy, Severity: model.SeverityWarning, Description: "No held-out examples"},
			},
		},
		Issues: []model.Issue{{Index: -1, Severity: model.SeverityInfo, Message: "no negatives"}},
		Trace: []model.TraceStep{
			{Index: 0, Example: "{Pizza=Yes} -> true", Outcome: "false_negative", Action: "add_disjunct", Result: "[{Pizza=Yes}]"},
		},
	}
}

func TestRenderer_WriteMarkdown_Hypothesis(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false, 0).WriteMarkdown(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	md := buf.String()

	for _, want := range []string{
		"# induct report: party",
		"`run-1`",
		"**Fit index:** 55/100 (low confidence)",
		"## Hypothesis",
		"`[{Pizza=Yes}]`",
		"| **guess true** | 2 | 0 |",
		"**held_out_accuracy** (warning)",
		"info, dataset: no negatives",
		"| 0 | `{Pizza=Yes} -> true` | false_negative | add_disjunct |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Version space") {
		t.Error("Expected no version space section")
	}
}

func TestRenderer_WriteMarkdown_VersionSpace(t *testing.T) {
	report := sampleReport()
	report.Algorithm = model.AlgorithmVersionSpace
	report.VersionSpace = &model.VersionSpaceSummary{
		Size:         3,
		Conjunctions: []model.Conjunction{model.MustConjunction(model.Is("Pizza", "Yes"))},
		Members:      []model.Hypothesis{{model.MustConjunction(model.Is("Pizza", "Yes"))}},
		Truncated:    true,
	}

	var buf bytes.Buffer
	if err := NewRenderer(false, 0).WriteMarkdown(&buf, report); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	md := buf.String()

	if !strings.Contains(md, "3 hypotheses built from 1 surviving conjunctions") {
		t.Error("Expected version space size line")
	}
	if !strings.Contains(md, "- ... 2 more") {
		t.Error("Expected truncation marker")
	}

	report.VersionSpace = &model.VersionSpaceSummary{Empty: true}
	buf.Reset()
	_ = NewRenderer(false, 0).WriteMarkdown(&buf, report)
	if !strings.Contains(buf.String(), "No hypothesis of the space is consistent") {
		t.Error("Expected empty space message")
	}
}

func TestRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false, 0).RenderSummary(&buf, sampleReport())
	out := buf.String()

	if !strings.Contains(out, "✓ [{Pizza=Yes}]") {
		t.Errorf("Expected hypothesis line, got:\n%s", out)
	}
	if !strings.Contains(out, "Fit index: 55/100 (low confidence)") {
		t.Errorf("Expected fit index line, got:\n%s", out)
	}
	if !strings.Contains(out, "⚠ No held-out examples") {
		t.Error("Expected warning signal printed")
	}
	if strings.Contains(out, "Consistent with 3/3") {
		t.Error("Expected info signals hidden")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Expected no ANSI codes with color disabled")
	}
}

func TestRenderer_RenderSummary_VersionSpaceCap(t *testing.T) {
	h := model.Hypothesis{model.MustConjunction(model.Is("Pizza", "Yes"))}
	report := sampleReport()
	report.VersionSpace = &model.VersionSpaceSummary{
		Size:         10,
		Conjunctions: []model.Conjunction{h[0]},
		Members:      []model.Hypothesis{h, h, h},
	}

	var buf bytes.Buffer
	NewRenderer(false, 2).RenderSummary(&buf, report)
	out := buf.String()

	if strings.Count(out, "    [{Pizza=Yes}]") != 2 {
		t.Errorf("Expected 2 members listed, got:\n%s", out)
	}
	if !strings.Contains(out, "... 8 more") {
		t.Errorf("Expected remaining count, got:\n%s", out)
	}
}
