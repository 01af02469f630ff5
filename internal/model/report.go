package model

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm names a learning algorithm
type Algorithm string

const (
	AlgorithmCurrentBest  Algorithm = "current-best"
	AlgorithmVersionSpace Algorithm = "version-space"
)

// ParseAlgorithm accepts the canonical names plus the short forms cb and vs
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current-best", "currentbest", "cb":
		return AlgorithmCurrentBest, nil
	case "version-space", "versionspace", "vs":
		return AlgorithmVersionSpace, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: current-best, version-space)", ErrUnknownAlgorithm, s)
	}
}

// Report is the complete result of one learning run
type Report struct {
	RunID      string              `json:"run_id"`
	Dataset    string              `json:"dataset"`
	Algorithm  Algorithm           `json:"algorithm"`
	StartedAt  time.Time           `json:"started_at"`
	Duration   time.Duration       `json:"duration_ns"`
	Examples   int                 `json:"examples"`
	Vocabulary map[string][]string `json:"vocabulary"`

	Seed         Hypothesis           `json:"seed,omitempty"`
	Hypothesis   Hypothesis           `json:"hypothesis,omitempty"`    // current-best result
	VersionSpace *VersionSpaceSummary `json:"version_space,omitempty"` // version-space result

	Trace  []TraceStep `json:"trace,omitempty"`
	Issues []Issue     `json:"issues,omitempty"`
	Score  Score       `json:"score"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narration, never affects the result
}

// VersionSpaceSummary describes a version space without necessarily listing it all
type VersionSpaceSummary struct {
	Size         int           `json:"size"`
	Empty        bool          `json:"empty"`
	Conjunctions []Conjunction `json:"surviving_conjunctions"`
	Members      []Hypothesis  `json:"members,omitempty"`
	Truncated    bool          `json:"truncated"`
}

// TraceStep records what a learner did with one example
type TraceStep struct {
	Index      int    `json:"index"`
	Example    string `json:"example"`
	Outcome    string `json:"outcome"`
	Action     string `json:"action"`
	Candidates int    `json:"candidates,omitempty"`
	Result     string `json:"result"`
}

// Issue is a dataset problem found before learning
type Issue struct {
	Index    int            `json:"index"` // -1 for dataset-wide issues
	Severity SignalSeverity `json:"severity"`
	Message  string         `json:"message"`
}

// Score summarises how well the learned predictor fits labelled examples
type Score struct {
	Index      int       `json:"index"`      // Composite fit 0-100
	Confidence string    `json:"confidence"` // "low", "medium", "high"
	Confusion  Confusion `json:"confusion"`  // Held-out examples when present, else training
	Signals    []Signal  `json:"signals"`
}

// Confusion counts predictions against labels
type Confusion struct {
	TruePositive  int `json:"tp"`
	TrueNegative  int `json:"tn"`
	FalsePositive int `json:"fp"`
	FalseNegative int `json:"fn"`
}

// Total returns the number of scored examples
func (c Confusion) Total() int {
	return c.TruePositive + c.TrueNegative + c.FalsePositive + c.FalseNegative
}

// Signal is a diagnostic with transparent data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalTrainingConsistency   SignalType = "training_consistency"    // Fit on the training examples
	SignalHeldOutAccuracy       SignalType = "held_out_accuracy"       // Fit on the test examples
	SignalEmptyVersionSpace     SignalType = "empty_version_space"     // No hypothesis survived
	SignalAmbiguousVersionSpace SignalType = "ambiguous_version_space" // Members disagree on examples
	SignalHypothesisComplexity  SignalType = "hypothesis_complexity"   // Disjunct and literal counts
	SignalSeedRewritten         SignalType = "seed_rewritten"          // Seed changed during search
)

// SignalSeverity indicates the importance of a signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary contains an optional natural-language narration of the result
type LLMSummary struct {
	Enabled          bool     `json:"enabled"`
	Provider         string   `json:"provider,omitempty"`
	Model            string   `json:"model,omitempty"`
	StrictVocabulary bool     `json:"strict_vocabulary"`
	SummaryMD        string   `json:"summary_md,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}
