package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ppiankov/induct/internal/dataset"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/pipeline"
)

var (
	guessAttrs     []string
	guessAlgorithm string
)

var guessCmd = &cobra.Command{
	Use:   "guess <dataset> --attr k=v [--attr k=v ...]",
	Short: "Learn from a dataset and predict GOAL for a new example",
	Long: `guess learns from <dataset> and then evaluates the learned predictor on
the example given with --attr. A version space guesses true when at least one
of its hypotheses does; an empty version space always guesses false.

Example:
  induct guess party --attr Pizza=No --attr Soda=Yes
  induct guess party --algorithm vs --attr Pizza=No --attr Soda=Yes`,
	Args: cobra.ExactArgs(1),
	RunE: runGuess,
}

func init() {
	rootCmd.AddCommand(guessCmd)

	guessCmd.Flags().StringArrayVar(&guessAttrs, "attr", nil, "attribute of the example as name=value (repeatable)")
	guessCmd.Flags().StringVarP(&guessAlgorithm, "algorithm", "a", string(model.AlgorithmCurrentBest), "learner: current-best (cb) or version-space (vs)")
	guessCmd.Flags().StringVar(&seedFlag, "seed", "", "initial hypothesis for current-best")
	guessCmd.Flags().StringVar(&policyFlag, "policy", "", "literal policy for the hypothesis space: all or observed")
	_ = guessCmd.MarkFlagRequired("attr")
}

func runGuess(cmd *cobra.Command, args []string) error {
	alg, err := model.ParseAlgorithm(guessAlgorithm)
	if err != nil {
		return err
	}
	query, err := dataset.ParseAttributes(guessAttrs)
	if err != nil {
		return fmt.Errorf("--attr: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if policyFlag != "" {
		cfg.Space.Policy = policyFlag
	}
	cfg.Output.IncludeTrace = false

	ds, err := openDataset(args[0])
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(runLogger), pipeline.WithMetrics(runMetrics))
	if err != nil {
		return err
	}

	guess, result, err := p.Guess(context.Background(), ds, alg, query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	attrs := "{" + strings.Join(guessAttrs, ", ") + "}"
	if guess {
		fmt.Fprintf(out, "%s GOAL=true  for %s\n", color.GreenString("✓"), attrs)
	} else {
		fmt.Fprintf(out, "%s GOAL=false for %s\n", color.RedString("✗"), attrs)
	}

	report := result.Report
	if vs := report.VersionSpace; vs != nil {
		if vs.Empty {
			fmt.Fprintln(out, "  (empty version space)")
		} else {
			yes, no := agreement(result.Predictor, query)
			fmt.Fprintf(out, "  %d of %d hypotheses say true, %d say false\n", yes, yes+no, no)
		}
	} else {
		fmt.Fprintf(out, "  by %s\n", report.Hypothesis)
	}
	return nil
}

func agreement(p model.Predictor, e model.Example) (yes, no int) {
	if vs, ok := p.(*model.VersionSpace); ok {
		return vs.Agreement(e)
	}
	if p.Predict(e) {
		return 1, 0
	}
	return 0, 1
}
