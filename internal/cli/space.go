package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/pipeline"
)

var listConjunctions bool

var spaceCmd = &cobra.Command{
	Use:   "space <dataset>",
	Short: "Describe the hypothesis space a dataset induces",
	Long: `space prints the values table (the literal options per attribute), the
number of conjunctions and the number of hypotheses version-space learning
would have to consider, and whether the configured limits allow it.

Example:
  induct space party
  induct space animals --policy observed --list`,
	Args: cobra.ExactArgs(1),
	RunE: runSpace,
}

func init() {
	rootCmd.AddCommand(spaceCmd)

	spaceCmd.Flags().StringVar(&policyFlag, "policy", "", "literal policy: all or observed")
	spaceCmd.Flags().BoolVar(&listConjunctions, "list", false, "list every enumerated conjunction")
}

func runSpace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if policyFlag != "" {
		cfg.Space.Policy = policyFlag
	}

	ds, err := openDataset(args[0])
	if err != nil {
		return err
	}
	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(runLogger), pipeline.WithMetrics(runMetrics))
	if err != nil {
		return err
	}
	en := p.Enumerator()

	out := cmd.OutOrStdout()
	table := en.Table(ds.Examples)
	fmt.Fprintf(out, "%s %s (policy %s)\n", color.New(color.Bold).Sprint("Dataset:"), ds.Name, table.Policy)
	for _, attr := range table.Attributes() {
		fmt.Fprintf(out, "  %-12s", attr)
		for _, lit := range table.Options(attr) {
			fmt.Fprintf(out, " %s", lit)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Conjunctions: %d\n", table.ConjunctionCount())

	sp, err := en.Build(ds.Examples)
	if errors.Is(err, model.ErrSpaceTooLarge) {
		fmt.Fprintf(out, "%s %v\n", color.RedString("✗"), err)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Hypotheses:   %d\n", sp.Size())
	limit := en.Limits().MaxHypotheses
	if limit > 0 && sp.Size() > uint64(limit) {
		fmt.Fprintf(out, "%s more than %d hypotheses; version-space learning may fail to materialise\n", color.YellowString("⚠"), limit)
	} else {
		fmt.Fprintf(out, "%s within limits\n", color.GreenString("✓"))
	}

	if listConjunctions {
		for i, c := range sp.Conjunctions() {
			fmt.Fprintf(out, "  %3d  %s\n", i, c)
		}
	}
	return nil
}
