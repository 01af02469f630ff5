package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/induct/internal/model"
)

// Summarizer attaches an optional narration to a report. Every failure
// degrades to a warning on the summary; narration never fails a run.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer builds a summarizer. With no provider configured the
// summarizer is disabled and GenerateSummary returns nil.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider, or ""
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary narrates report. The allowed vocabulary is the report's
// own attribute vocabulary.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Enabled:          true,
		Provider:         s.provider.Name(),
		Model:            s.config.Model,
		StrictVocabulary: s.config.StrictVocabulary,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Enabled = false
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available", s.provider.Name()))
		return summary, nil
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:     report,
		Vocabulary: report.Vocabulary,
		Model:      s.config.Model,
		MaxTokens:  s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Summary generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if s.config.StrictVocabulary {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Verified %d cited literals against the vocabulary", len(resp.CitedLiterals)))
	}
	return summary, nil
}

// RenderSeparateMarkdown renders the narration as its own document so it
// is never mistaken for the learner's output.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT.** This narration was produced by a language model. ")
	b.WriteString("The hypothesis and score were determined independently by the learner.\n\n")
	fmt.Fprintf(&b, "- **Provider:** %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model:** %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict Vocabulary:** %t\n\n", summary.StrictVocabulary)

	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
