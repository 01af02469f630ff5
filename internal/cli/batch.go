package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/pipeline"
	"github.com/ppiankov/induct/internal/worker"
)

var (
	concurrency    int
	outputDir      string
	batchTimeout   time.Duration
	batchFile      string
	batchAlgorithm []string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [dataset...]",
	Short: "Run many learning jobs in parallel",
	Long: `batch runs one learning job per (dataset, algorithm) pair on a worker
pool. Each job is an independent run; a single run is never parallelised.

Jobs come from the arguments crossed with --algorithm, or from --file with one
"dataset [algorithm]" per line.

Example:
  induct batch party animals
  induct batch party animals --algorithm vs --output-dir ./reports
  induct batch --file jobs.txt --concurrency 8`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./induct-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchFile, "file", "", "read jobs from this file")
	batchCmd.Flags().StringSliceVarP(&batchAlgorithm, "algorithm", "a",
		[]string{string(model.AlgorithmCurrentBest), string(model.AlgorithmVersionSpace)}, "algorithms to run")
	batchCmd.Flags().StringVar(&policyFlag, "policy", "", "literal policy for the hypothesis space: all or observed")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "narrate each result with an LLM")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && batchFile == "" {
		return fmt.Errorf("no jobs: pass datasets as arguments or use --file")
	}

	algs := make([]model.Algorithm, 0, len(batchAlgorithm))
	for _, a := range batchAlgorithm {
		alg, err := model.ParseAlgorithm(a)
		if err != nil {
			return err
		}
		algs = append(algs, alg)
	}

	cfg, err := runConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	specs := worker.Specs(args, algs)
	if batchFile != "" {
		fromFile, err := worker.ReadSpecsFromFile(batchFile, algs[0])
		if err != nil {
			return fmt.Errorf("read jobs: %w", err)
		}
		specs = append(specs, fromFile...)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  induct batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Jobs:         %d\n", len(specs))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if rate := cfg.Concurrency.VersionSpaceJobsPerSecond; rate > 0 {
		fmt.Fprintf(os.Stderr, "  VS pacing:    %.2f jobs/s\n", rate)
	}
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(runLogger), pipeline.WithMetrics(runMetrics))
	if err != nil {
		return err
	}
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Concurrency.JobsPerSecond, cfg.Concurrency.Burst)
	if rate := cfg.Concurrency.VersionSpaceJobsPerSecond; rate > 0 {
		processor.SetAlgorithmRate(model.AlgorithmVersionSpace, rate)
	}
	results := processor.Process(ctx, specs)

	successCount, failureCount := 0, 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			status("✗", color.FgRed, "%s: %v", result.Spec, result.Error)
			continue
		}

		base := filepath.Join(outputDir, reportName(result.Report))
		if _, err := p.RenderReport(result.Report, base+".json", base+".md"); err != nil {
			failureCount++
			status("✗", color.FgRed, "%s: %v", result.Spec, err)
			continue
		}

		successCount++
		status("✓", color.FgGreen, "%s (index: %d/100)", result.Spec, result.Report.Score.Index)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d jobs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d jobs failed", failureCount)
	}
	return nil
}

// reportName is "<dataset>.<algorithm>" made safe for a filename
func reportName(report *model.Report) string {
	return sanitizeFilename(report.Dataset) + "." + string(report.Algorithm)
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	).Replace(s)

	if s == "" || s == "." || s == ".." {
		s = "dataset"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
