// Package versionspace implements candidate elimination over an explicitly
// enumerated hypothesis space.
//
// A hypothesis of the space is a non-empty set of conjunctions. It survives a
// negative example iff none of its conjunctions matches the example, and a
// positive example iff at least one does. The learner therefore tracks the
// surviving conjunctions and the positives still to cover instead of
// filtering millions of disjunctions one at a time; the materialised result
// is the same set Eliminate would produce from the full space.
package versionspace

import (
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/induct/internal/combin"
	"github.com/ppiankov/induct/internal/consistency"
	"github.com/ppiankov/induct/internal/metrics"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/space"
)

const algorithm = string(model.AlgorithmVersionSpace)

// Eliminate filters hypotheses example by example, keeping those that
// classify each example consistently.
func Eliminate(hypotheses []model.Hypothesis, examples []model.Example) *model.VersionSpace {
	current := hypotheses
	for _, e := range examples {
		next := current[:0:0]
		for _, h := range current {
			if consistency.Classify(e, h) == consistency.Consistent {
				next = append(next, h)
			}
		}
		current = next
	}
	return model.NewVersionSpace(current...)
}

// Step records the state after one example
type Step struct {
	Index     int
	Example   model.Example
	Removed   int  // conjunctions eliminated by this example
	Surviving int  // conjunctions still allowed
	Empty     bool // some positive can no longer be covered
}

// Result is the final version space plus the surviving conjunctions
type Result struct {
	Space        *model.VersionSpace
	Conjunctions []model.Conjunction
	Enumerated   int
	Steps        []Step
}

// Learner runs version-space learning
type Learner struct {
	enumerator *space.Enumerator
	logger     *slog.Logger
	metrics    *metrics.Metrics
	progress   *rate.Sometimes
	trace      bool
}

// Option configures a Learner
type Option func(*Learner)

// WithEnumerator replaces the default enumerator
func WithEnumerator(en *space.Enumerator) Option {
	return func(l *Learner) { l.enumerator = en }
}

// WithLogger sets the logger. nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Learner) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics records run metrics into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Learner) { l.metrics = m }
}

// WithProgressInterval throttles per-example debug logs to one per interval
func WithProgressInterval(d time.Duration) Option {
	return func(l *Learner) { l.progress = &rate.Sometimes{First: 1, Interval: d} }
}

// WithTrace keeps a Step for every example in the Result
func WithTrace(on bool) Option {
	return func(l *Learner) { l.trace = on }
}

// New creates a learner
func New(opts ...Option) *Learner {
	l := &Learner{
		logger:   slog.Default(),
		progress: &rate.Sometimes{First: 1, Interval: time.Second},
		trace:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.enumerator == nil {
		l.enumerator = space.NewEnumerator(space.WithLogger(l.logger), space.WithMetrics(l.metrics))
	}
	return l
}

// Learn enumerates the space induced by examples and eliminates every
// hypothesis inconsistent with any of them. An empty result is valid: no
// hypothesis of the space fits all the examples.
func (l *Learner) Learn(ctx context.Context, examples []model.Example) (*Result, error) {
	start := time.Now()
	defer func() { l.metrics.Run(algorithm, time.Since(start)) }()

	vocab := model.InduceVocabulary(examples)
	if err := vocab.CheckAll(examples); err != nil {
		l.metrics.Failure(algorithm, "malformed_example")
		return nil, fmt.Errorf("check examples: %w", err)
	}

	sp, err := l.enumerator.Build(examples)
	if err != nil {
		l.metrics.Failure(algorithm, "space_too_large")
		return nil, fmt.Errorf("enumerate space: %w", err)
	}

	allowed := sp.Conjunctions()
	var positives []model.Example
	res := &Result{Enumerated: len(allowed)}
	empty := len(allowed) == 0

	for i, e := range examples {
		if err := ctx.Err(); err != nil {
			l.metrics.Failure(algorithm, "canceled")
			return nil, err
		}

		removed := 0
		if e.Goal {
			positives = append(positives, e)
			if !coveredBySome(allowed, e) {
				empty = true
			}
			l.metrics.Example(algorithm, "positive")
		} else {
			kept := allowed[:0:0]
			for _, c := range allowed {
				if c.Matches(e) {
					removed++
					continue
				}
				kept = append(kept, c)
			}
			allowed = kept
			for _, p := range positives {
				if !coveredBySome(allowed, p) {
					empty = true
					break
				}
			}
			l.metrics.Example(algorithm, "negative")
		}
		l.metrics.Surviving(len(allowed))

		step := Step{Index: i, Example: e, Removed: removed, Surviving: len(allowed), Empty: empty}
		l.progress.Do(func() {
			l.logger.Debug("version-space step",
				slog.Int("index", i),
				slog.Int("of", len(examples)),
				slog.Bool("goal", e.Goal),
				slog.Int("removed", removed),
				slog.Int("surviving", len(allowed)),
				slog.Bool("empty", empty))
		})
		if l.trace {
			res.Steps = append(res.Steps, step)
		}
	}

	res.Conjunctions = allowed
	if empty {
		res.Space = model.NewVersionSpace()
	} else {
		vs, err := l.materialize(allowed, positives)
		if err != nil {
			l.metrics.Failure(algorithm, "space_too_large")
			return nil, err
		}
		res.Space = vs
	}
	l.metrics.SpaceSize(res.Space.Len())

	l.logger.Info("version-space learning complete",
		slog.Int("examples", len(examples)),
		slog.Int("enumerated_conjunctions", res.Enumerated),
		slog.Int("surviving_conjunctions", len(allowed)),
		slog.Int("hypotheses", res.Space.Len()))

	return res, nil
}

// materialize lists every non-empty subset of allowed covering all positives
func (l *Learner) materialize(allowed []model.Conjunction, positives []model.Example) (*model.VersionSpace, error) {
	limit := l.enumerator.Limits().MaxHypotheses
	cover := make([]bitset, len(allowed))
	for i, c := range allowed {
		cover[i] = newBitset(len(positives))
		for j, p := range positives {
			if c.Matches(p) {
				cover[i].set(j)
			}
		}
	}

	vs := model.NewVersionSpace()
	var tooLarge bool
	acc := newBitset(len(positives))
	combin.EachSubset(len(allowed), func(idx []int) bool {
		acc.reset()
		for _, i := range idx {
			acc.or(cover[i])
		}
		if acc.count() != len(positives) {
			return true
		}
		if limit > 0 && vs.Len() >= limit {
			tooLarge = true
			return false
		}
		h := make(model.Hypothesis, len(idx))
		for j, i := range idx {
			h[j] = allowed[i]
		}
		vs.Add(h)
		return true
	})
	if tooLarge {
		return nil, fmt.Errorf("%w: version space exceeds %d hypotheses", model.ErrSpaceTooLarge, limit)
	}
	return vs, nil
}

func coveredBySome(conjs []model.Conjunction, e model.Example) bool {
	for _, c := range conjs {
		if c.Matches(e) {
			return true
		}
	}
	return false
}

type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << uint(i%64)
}

func (b bitset) or(o bitset) {
	for i := range b {
		b[i] |= o[i]
	}
}

func (b bitset) reset() {
	for i := range b {
		b[i] = 0
	}
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// VersionSpaceLearning runs a silent default learner and returns only the space
func VersionSpaceLearning(examples []model.Example) (*model.VersionSpace, error) {
	res, err := New(WithTrace(false), WithLogger(slog.New(slog.DiscardHandler))).Learn(context.Background(), examples)
	if err != nil {
		return nil, err
	}
	return res.Space, nil
}
