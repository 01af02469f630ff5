package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ppiankov/induct/internal/dataset"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	seedFlag    string
	policyFlag  string
	timeout     time.Duration
	llmEnabled  bool
	llmProvider string
	llmModel    string
	printJSON   bool
)

var currentBestCmd = &cobra.Command{
	Use:     "current-best <dataset>",
	Aliases: []string{"cb"},
	Short:   "Learn one hypothesis by repairing it on each contradiction",
	Long: `current-best walks the examples in order, keeping a single hypothesis.
A false positive is repaired by specializing one disjunct, a false negative by
dropping a disjunct, dropping a literal, or adding a disjunct, in that order.
The first refinement consistent with every example seen so far is taken; there
is no backtracking, so the run fails if no such refinement exists.

<dataset> is a YAML, JSON or CSV file, or a built-in name (animals, party).

Example:
  induct current-best party
  induct current-best animals --seed "Species=Cat"
  induct current-best data.yaml --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd, args[0], model.AlgorithmCurrentBest)
	},
}

var versionSpaceCmd = &cobra.Command{
	Use:     "version-space <dataset>",
	Aliases: []string{"vs"},
	Short:   "Keep every hypothesis of the space consistent with the examples",
	Long: `version-space enumerates every disjunction of conjunctions over the
dataset's attribute values and eliminates each one that misclassifies an
example. The space grows exponentially; the space.* limits guard it.

Example:
  induct version-space party
  induct version-space party --policy observed --json space.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd, args[0], model.AlgorithmVersionSpace)
	},
}

func init() {
	rootCmd.AddCommand(currentBestCmd)
	rootCmd.AddCommand(versionSpaceCmd)

	for _, cmd := range []*cobra.Command{currentBestCmd, versionSpaceCmd} {
		addLearnFlags(cmd)
	}
	currentBestCmd.Flags().StringVar(&seedFlag, "seed", "", `initial hypothesis, e.g. "Species=Cat | Rain!=No" (overrides the dataset seed)`)
}

func addLearnFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path")
	cmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path")
	cmd.Flags().BoolVar(&printJSON, "print-json", false, "print the JSON report to stdout instead of a summary")
	cmd.Flags().StringVar(&policyFlag, "policy", "", "literal policy for the hypothesis space: all or observed")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall run timeout")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "narrate the result with an LLM (never changes it)")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// runConfig loads the config and applies the learn flags
func runConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if policyFlag != "" {
		cfg.Space.Policy = policyFlag
	}
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		cfg.LLM.StrictVocabulary = true
		if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	} else {
		cfg.LLM.Provider = ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDataset(ref string) (*dataset.Dataset, error) {
	ds, err := dataset.Open(ref)
	if err != nil {
		return nil, err
	}
	if seedFlag != "" {
		seed, err := dataset.ParseHypothesis(seedFlag)
		if err != nil {
			return nil, fmt.Errorf("--seed: %w", err)
		}
		ds.Seed = seed
	}
	return ds, nil
}

func runLearn(cmd *cobra.Command, ref string, alg model.Algorithm) error {
	cfg, err := runConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ds, err := openDataset(ref)
	if err != nil {
		return err
	}
	if verbose {
		status("✓", color.FgGreen, "Loaded %s: %d training, %d test examples", ds.Source, len(ds.Examples), len(ds.Test))
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(runLogger), pipeline.WithMetrics(runMetrics))
	if err != nil {
		return err
	}

	result, err := p.RunDataset(ctx, ds, alg)
	if err != nil {
		status("✗", color.FgRed, "%s failed", alg)
		return err
	}
	report := result.Report

	if verbose {
		status("✓", color.FgGreen, "Calculated fit index: %d/100", report.Score.Index)
		if report.LLM != nil && report.LLM.Enabled {
			status("✓", color.FgGreen, "Generated LLM summary using %s/%s", report.LLM.Provider, report.LLM.Model)
		}
	}

	written, err := p.RenderReport(report, outJSON, outMD)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	for _, path := range written {
		if verbose {
			status("✓", color.FgGreen, "Wrote %s", path)
		}
	}

	if printJSON {
		return p.Renderer().WriteJSON(cmd.OutOrStdout(), report)
	}
	p.Renderer().RenderSummary(cmd.OutOrStdout(), report)
	if len(report.Trace) > 0 && verbose {
		printTrace(report)
	}
	return nil
}

func printTrace(report *model.Report) {
	fmt.Fprintln(os.Stderr)
	for _, t := range report.Trace {
		fmt.Fprintf(os.Stderr, "  %2d  %-40s %-15s %-13s %s\n", t.Index, t.Example, t.Outcome, t.Action, t.Result)
	}
}
