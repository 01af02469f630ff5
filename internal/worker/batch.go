package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/pipeline"
)

// Runner runs one learning job
type Runner interface {
	Run(ctx context.Context, ref string, alg model.Algorithm) (*pipeline.RunResult, error)
}

// Spec names a dataset and the algorithm to run on it
type Spec struct {
	Ref       string
	Algorithm model.Algorithm
}

func (s Spec) String() string {
	return s.Ref + " (" + string(s.Algorithm) + ")"
}

// LearnJob represents one learning run
type LearnJob struct {
	Spec    Spec
	Runner  Runner
	Limiter *Limiter
}

// Execute executes the learning job
func (j *LearnJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, string(j.Spec.Algorithm)); err != nil {
			return &LearnResult{Spec: j.Spec, Error: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return &LearnResult{Spec: j.Spec, Error: err}
	}

	result, err := j.Runner.Run(ctx, j.Spec.Ref, j.Spec.Algorithm)
	if err != nil {
		return &LearnResult{Spec: j.Spec, Error: err}
	}
	return &LearnResult{Spec: j.Spec, Report: result.Report}
}

// LearnResult represents the result of a learning job
type LearnResult struct {
	Spec   Spec
	Report *model.Report
	Error  error
}

// GetError returns the error from the learning result
func (r *LearnResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many learning jobs concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. jobsPerSecond <= 0
// starts jobs as fast as workers free up.
func NewBatchProcessor(runner Runner, concurrency int, jobsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		limiter:     NewLimiter(jobsPerSecond, burst),
	}
}

// SetAlgorithmRate paces jobs of one algorithm separately from the shared
// rate. jobsPerSecond <= 0 leaves that algorithm unpaced.
func (b *BatchProcessor) SetAlgorithmRate(alg model.Algorithm, jobsPerSecond float64) {
	b.limiter.SetKeyRate(string(alg), jobsPerSecond, 0)
}

// Process runs every spec and returns results in spec order
func (b *BatchProcessor) Process(ctx context.Context, specs []Spec) []*LearnResult {
	jobs := make([]Job, len(specs))
	for i, spec := range specs {
		jobs[i] = &LearnJob{Spec: spec, Runner: b.runner, Limiter: b.limiter}
	}

	results := NewPool(b.concurrency).Run(ctx, jobs)

	out := make([]*LearnResult, len(results))
	for i, result := range results {
		out[i] = result.(*LearnResult)
	}
	return out
}

// Specs crosses every dataset ref with every algorithm, refs outermost
func Specs(refs []string, algs []model.Algorithm) []Spec {
	out := make([]Spec, 0, len(refs)*len(algs))
	for _, ref := range refs {
		for _, alg := range algs {
			out = append(out, Spec{Ref: ref, Algorithm: alg})
		}
	}
	return out
}

// ReadSpecsFromFile reads one "dataset [algorithm]" per line. Blank lines
// and # comments are skipped, duplicates are dropped.
func ReadSpecsFromFile(filePath string, defaultAlg model.Algorithm) ([]Spec, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var specs []Spec
	seen := make(map[Spec]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		spec := Spec{Ref: fields[0], Algorithm: defaultAlg}
		switch len(fields) {
		case 1:
		case 2:
			alg, err := model.ParseAlgorithm(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			spec.Algorithm = alg
		default:
			return nil, fmt.Errorf("line %d: expected \"dataset [algorithm]\", got %q", lineNo, line)
		}

		if !seen[spec] {
			seen[spec] = true
			specs = append(specs, spec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return specs, nil
}
