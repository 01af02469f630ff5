package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ppiankov/induct/internal/consistency"
	"github.com/ppiankov/induct/internal/dataset"
	"github.com/ppiankov/induct/internal/llm"
	"github.com/ppiankov/induct/internal/metrics"
	"github.com/ppiankov/induct/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Color = false
	return cfg
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(testConfig(), opts...)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	return p
}

func TestNewPipeline_BadPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Space.Policy = "sometimes"
	if _, err := NewPipeline(cfg); err == nil {
		t.Fatal("Expected error for unknown policy")
	}
}

func TestPipeline_Run_CurrentBest(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run(context.Background(), "party", model.AlgorithmCurrentBest)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	report := res.Report

	if report.RunID == "" {
		t.Error("Expected run ID")
	}
	if report.Dataset != "party" || report.Examples != 3 {
		t.Errorf("Unexpected dataset header: %s/%d", report.Dataset, report.Examples)
	}
	if got := report.Hypothesis.String(); got != "[{Pizza=Yes}]" {
		t.Errorf("Expected [{Pizza=Yes}], got %s", got)
	}
	if report.Score.Index != 99 || report.Score.Confidence != "high" {
		t.Errorf("Expected 99/high, got %d/%s", report.Score.Index, report.Score.Confidence)
	}
	if len(report.Trace) != 3 {
		t.Errorf("Expected 3 trace steps, got %d", len(report.Trace))
	}
	if report.VersionSpace != nil {
		t.Error("Expected no version space for current-best")
	}
	if len(report.Vocabulary["Pizza"]) != 2 {
		t.Errorf("Expected declared vocabulary in report, got %v", report.Vocabulary)
	}
	if !consistency.GuessExampleValue(model.NewExample(map[string]string{"Pizza": "Yes", "Soda": "No"}, false), res.Predictor) {
		t.Error("Expected predictor to guess true for Pizza=Yes")
	}
}

func TestPipeline_Run_CurrentBestWithSeed(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run(context.Background(), "builtin:animals", model.AlgorithmCurrentBest)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	report := res.Report

	if report.Seed.String() != "[{Species=Cat}]" {
		t.Errorf("Expected seed [{Species=Cat}], got %s", report.Seed)
	}
	ds, _ := dataset.Builtin("animals")
	if !consistency.AllConsistent(ds.Examples, report.Hypothesis) {
		t.Errorf("Expected %s consistent with all training examples", report.Hypothesis)
	}
	if len(report.Trace) != len(ds.Examples) {
		t.Errorf("Expected %d trace steps, got %d", len(ds.Examples), len(report.Trace))
	}
}

func TestPipeline_Run_VersionSpace(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run(context.Background(), "party", model.AlgorithmVersionSpace)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	vs := res.Report.VersionSpace
	if vs == nil {
		t.Fatal("Expected version space summary")
	}
	if vs.Size != 64272 {
		t.Errorf("Expected 64272 hypotheses, got %d", vs.Size)
	}
	if !vs.Truncated || len(vs.Members) != 20 {
		t.Errorf("Expected members truncated to 20, got %d (truncated=%v)", len(vs.Members), vs.Truncated)
	}

	// trace: positive, positive, negative
	trace := res.Report.Trace
	if len(trace) != 3 || trace[0].Action != "cover" || trace[2].Action != "eliminate" {
		t.Fatalf("Unexpected trace: %+v", trace)
	}
	if trace[2].Candidates != 8 || trace[2].Result != "16 surviving conjunctions" {
		t.Errorf("Expected 8 removed and 16 surviving, got %d / %s", trace[2].Candidates, trace[2].Result)
	}
}

func TestPipeline_Run_VersionSpaceTooLarge(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(context.Background(), "animals", model.AlgorithmVersionSpace)
	if !errors.Is(err, model.ErrSpaceTooLarge) {
		t.Fatalf("Expected ErrSpaceTooLarge, got %v", err)
	}
}

func TestPipeline_RunDataset_EmptyVersionSpace(t *testing.T) {
	ds, err := dataset.Parse([]byte(`
name: contradiction
examples:
  - {Pizza: "Yes", GOAL: true}
  - {Pizza: "Yes", GOAL: false}
`), "contradiction")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, err := newTestPipeline(t).RunDataset(context.Background(), ds, model.AlgorithmVersionSpace)
	if err != nil {
		t.Fatalf("RunDataset failed: %v", err)
	}
	if !res.Report.VersionSpace.Empty || res.Report.Score.Index != 0 {
		t.Errorf("Expected empty space with index 0, got %+v / %d", res.Report.VersionSpace, res.Report.Score.Index)
	}
	if len(res.Report.Issues) == 0 {
		t.Error("Expected contradictory duplicate issue")
	}
}

func TestPipeline_RunDataset_CriticalIssues(t *testing.T) {
	ds := &dataset.Dataset{Name: "empty"}

	_, err := newTestPipeline(t).RunDataset(context.Background(), ds, model.AlgorithmCurrentBest)
	if !errors.Is(err, model.ErrInvalidDataset) {
		t.Fatalf("Expected ErrInvalidDataset, got %v", err)
	}
}

func TestPipeline_RunDataset_UnknownAlgorithm(t *testing.T) {
	ds, _ := dataset.Builtin("party")

	_, err := newTestPipeline(t).RunDataset(context.Background(), ds, model.Algorithm("gradient-descent"))
	if !errors.Is(err, model.ErrUnknownAlgorithm) {
		t.Fatalf("Expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestPipeline_RunDataset_Canceled(t *testing.T) {
	ds, _ := dataset.Builtin("party")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(t).RunDataset(ctx, ds, model.AlgorithmCurrentBest)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestPipeline_Run_MissingFile(t *testing.T) {
	_, err := newTestPipeline(t).Run(context.Background(), "no_such_dataset.yaml", model.AlgorithmCurrentBest)
	if err == nil || !strings.HasPrefix(err.Error(), "load:") {
		t.Fatalf("Expected load error, got %v", err)
	}
}

func TestPipeline_Guess(t *testing.T) {
	ds, _ := dataset.Builtin("party")
	p := newTestPipeline(t)

	query, err := dataset.ParseAttributes([]string{"Pizza=No", "Soda=Yes"})
	if err != nil {
		t.Fatalf("ParseAttributes failed: %v", err)
	}

	for _, alg := range []model.Algorithm{model.AlgorithmCurrentBest, model.AlgorithmVersionSpace} {
		guess, res, err := p.Guess(context.Background(), ds, alg, query)
		if err != nil {
			t.Fatalf("%s: Guess failed: %v", alg, err)
		}
		if res == nil || res.Report == nil {
			t.Fatalf("%s: Expected report", alg)
		}
		// current-best learned Pizza=Yes; some version-space member covers Soda=Yes
		want := alg == model.AlgorithmVersionSpace
		if guess != want {
			t.Errorf("%s: Expected guess %v, got %v", alg, want, guess)
		}
	}

	bad, _ := dataset.ParseAttributes([]string{"Cheese=Yes"})
	if _, _, err := p.Guess(context.Background(), ds, model.AlgorithmCurrentBest, bad); !errors.Is(err, model.ErrUnknownAttribute) {
		t.Errorf("Expected ErrUnknownAttribute, got %v", err)
	}
}

func TestPipeline_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	p := newTestPipeline(t, WithMetrics(m))

	if _, err := p.Run(context.Background(), "party", model.AlgorithmVersionSpace); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := p.Run(context.Background(), "party", model.AlgorithmVersionSpace); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("hit")); got != 1 {
		t.Errorf("Expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.ExamplesTotal.WithLabelValues("version-space", "negative")); got != 2 {
		t.Errorf("Expected 2 negative examples, got %v", got)
	}
}

func fakeOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			_, _ = w.Write([]byte(`{"data": [{"id": "test-model"}]}`))
		case "/chat/completions":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion",
				"model":   "test-model",
				"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
				"usage":   map[string]int{"total_tokens": 42},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestPipeline_Narration(t *testing.T) {
	server := fakeOpenAI(t, "The party happens when Pizza=Yes.")
	defer server.Close()

	s, err := llm.NewSummarizer(llm.Config{Provider: "openai", APIKey: "k", BaseURL: server.URL, Model: "test-model", StrictVocabulary: true})
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}
	p := newTestPipeline(t, WithSummarizer(s))

	res, err := p.Run(context.Background(), "party", model.AlgorithmCurrentBest)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	summary := res.Report.LLM
	if summary == nil || !summary.Enabled {
		t.Fatalf("Expected narration, got %+v", summary)
	}
	if summary.SummaryMD != "The party happens when Pizza=Yes." {
		t.Errorf("Unexpected narration: %s", summary.SummaryMD)
	}
	if res.Report.Hypothesis.String() != "[{Pizza=Yes}]" {
		t.Error("Expected narration to leave the hypothesis alone")
	}
}

func TestPipeline_NarrationLeakDegrades(t *testing.T) {
	server := fakeOpenAI(t, "It depends on Weather=Sunny.")
	defer server.Close()

	s, err := llm.NewSummarizer(llm.Config{Provider: "openai", APIKey: "k", BaseURL: server.URL, StrictVocabulary: true})
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}
	res, err := newTestPipeline(t, WithSummarizer(s)).Run(context.Background(), "party", model.AlgorithmCurrentBest)
	if err != nil {
		t.Fatalf("Expected run to succeed despite narration failure, got %v", err)
	}
	if res.Report.LLM == nil || res.Report.LLM.SummaryMD != "" {
		t.Fatalf("Expected empty narration, got %+v", res.Report.LLM)
	}
	if !strings.Contains(strings.Join(res.Report.LLM.Warnings, " "), "VOCABULARY LEAK") {
		t.Errorf("Expected leak warning, got %v", res.Report.LLM.Warnings)
	}
}

func TestPipeline_RenderReport(t *testing.T) {
	server := fakeOpenAI(t, "Pizza=Yes decides it.")
	defer server.Close()

	s, _ := llm.NewSummarizer(llm.Config{Provider: "openai", APIKey: "k", BaseURL: server.URL, StrictVocabulary: true})
	p := newTestPipeline(t, WithSummarizer(s))

	res, err := p.Run(context.Background(), "party", model.AlgorithmCurrentBest)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "party.json")
	mdPath := filepath.Join(dir, "party.md")

	written, err := p.RenderReport(res.Report, jsonPath, mdPath)
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("Expected json, md and llm.md written, got %v", written)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON: %v", err)
	}
	if decoded["dataset"] != "party" {
		t.Errorf("Expected dataset party, got %v", decoded["dataset"])
	}

	llmMD, err := os.ReadFile(filepath.Join(dir, "party.llm.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(llmMD), "GENERATED CONTENT") {
		t.Error("Expected generated content banner in narration file")
	}
}
