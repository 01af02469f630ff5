// Package llm narrates learning reports through an optional chat model.
// Narration is decoration only: it never changes a learned hypothesis, and
// in strict vocabulary mode any literal the model mentions must exist in the
// dataset's vocabulary.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/induct/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize narrates the report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for narration
type SummarizeRequest struct {
	Report model.Report

	// Vocabulary is the allowlist of attribute -> values the model may cite
	// as literals. Anything else is rejected in strict mode.
	Vocabulary map[string][]string

	// Prompt overrides BuildPrompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse contains the model's narration
type SummarizeResponse struct {
	Summary string

	// CitedLiterals are the a=v / a!=v literals found in the summary
	CitedLiterals []string

	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", "" (disabled)
	Provider string

	Model   string
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint, e.g. Ollama's /v1
	Timeout int    // seconds

	// StrictVocabulary rejects summaries citing unknown literals
	StrictVocabulary bool

	MaxTokens int

	// Proxies for LLM requests; both empty means HTTP_PROXY/HTTPS_PROXY/NO_PROXY
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:         "", // Disabled by default
		Timeout:          30,
		StrictVocabulary: true,
		MaxTokens:        600,
	}
}

// BuildPrompt constructs the default narration prompt
func BuildPrompt(report model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are explaining the result of a symbolic concept-learning run. The learner induced a boolean rule from labelled attribute-value examples.

RULES:
1. Only mention attributes and values from this vocabulary:
%s
2. Write literals exactly as Attribute=Value or Attribute!=Value.
3. Do not invent examples, attributes or values.
4. Describe what the rule says and how well it fits; never claim it is true in general.

Run:
- Dataset: %s
- Algorithm: %s
- Training examples: %d
- Fit index: %d/100 (confidence %s)
`, joinVocabulary(report.Vocabulary), report.Dataset, report.Algorithm, report.Examples, report.Score.Index, report.Score.Confidence)

	switch {
	case report.VersionSpace != nil:
		fmt.Fprintf(&b, "- Version space: %d hypotheses, %d surviving conjunctions\n",
			report.VersionSpace.Size, len(report.VersionSpace.Conjunctions))
		for i, h := range report.VersionSpace.Members {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "  - %s\n", h)
		}
	default:
		fmt.Fprintf(&b, "- Learned hypothesis: %s\n", report.Hypothesis)
	}

	b.WriteString("\nKey signals:\n")
	for i, signal := range report.Score.Signals {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", signal.Type, signal.Description)
	}

	b.WriteString("\nProvide a 3-4 sentence plain-language explanation of the rule.")
	return b.String()
}

func joinVocabulary(vocab map[string][]string) string {
	if len(vocab) == 0 {
		return "(empty vocabulary)"
	}
	attrs := make([]string, 0, len(vocab))
	for a := range vocab {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)

	var b strings.Builder
	for _, a := range attrs {
		fmt.Fprintf(&b, "- %s: %s\n", a, strings.Join(vocab[a], ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
