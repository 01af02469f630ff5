package space

import (
	"log/slog"
	"time"

	"github.com/ppiankov/induct/internal/cache"
	"github.com/ppiankov/induct/internal/combin"
	"github.com/ppiankov/induct/internal/metrics"
	"github.com/ppiankov/induct/internal/model"
)

// Enumerator builds hypothesis spaces and memoises their conjunction lists
type Enumerator struct {
	policy  LiteralPolicy
	limits  Limits
	cache   cache.Cache[[]model.Conjunction]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures an Enumerator
type Option func(*Enumerator)

// WithPolicy selects the literal policy of the values table
func WithPolicy(p LiteralPolicy) Option {
	return func(en *Enumerator) { en.policy = p }
}

// WithLimits replaces DefaultLimits
func WithLimits(l Limits) Option {
	return func(en *Enumerator) { en.limits = l }
}

// WithCache memoises conjunction lists in c. nil disables caching.
func WithCache(c cache.Cache[[]model.Conjunction]) Option {
	return func(en *Enumerator) { en.cache = c }
}

// WithMetrics records enumeration metrics into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(en *Enumerator) { en.metrics = m }
}

// WithLogger sets the logger. nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(en *Enumerator) {
		if logger != nil {
			en.logger = logger
		}
	}
}

// NewEnumerator creates an enumerator with a 10 minute in-memory cache
func NewEnumerator(opts ...Option) *Enumerator {
	en := &Enumerator{
		policy: AllLiterals,
		limits: DefaultLimits(),
		cache:  cache.NewMemory[[]model.Conjunction](10*time.Minute, 10*time.Minute),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(en)
	}
	return en
}

// Policy returns the enumerator's literal policy
func (en *Enumerator) Policy() LiteralPolicy {
	return en.policy
}

// Limits returns the enumerator's guard
func (en *Enumerator) Limits() Limits {
	return en.limits
}

// Table builds the values table for examples under the enumerator's policy
func (en *Enumerator) Table(examples []model.Example) Table {
	return ValuesTable(examples, en.policy)
}

// Conjunctions enumerates every conjunction of the table: each non-empty
// attribute subset (by size, then lexical) crossed with every choice of one
// literal option per attribute.
func (en *Enumerator) Conjunctions(t Table) ([]model.Conjunction, error) {
	if err := t.Check(en.limits); err != nil {
		return nil, err
	}

	key := cache.Key(t.Fingerprint())
	if en.cache != nil {
		if conjs, ok := en.cache.Get(key); ok {
			en.metrics.CacheLookup(true)
			return append([]model.Conjunction(nil), conjs...), nil
		}
		en.metrics.CacheLookup(false)
	}

	var conjs []model.Conjunction
	combin.EachSubset(len(t.attrs), func(idx []int) bool {
		options := make([][]model.Literal, len(idx))
		sizes := make([]int, len(idx))
		for j, i := range idx {
			options[j] = t.options[t.attrs[i]]
			sizes[j] = len(options[j])
		}
		combin.EachProduct(sizes, func(tuple []int) bool {
			lits := make([]model.Literal, len(tuple))
			for j, choice := range tuple {
				lits[j] = options[j][choice]
			}
			conjs = append(conjs, model.MustConjunction(lits...))
			return true
		})
		return true
	})

	en.metrics.Enumerated(len(conjs))
	en.logger.Debug("enumerated conjunctions",
		slog.String("policy", t.Policy.String()),
		slog.Int("attributes", len(t.attrs)),
		slog.Int("conjunctions", len(conjs)))

	if en.cache != nil {
		en.cache.Set(key, conjs, 0)
	}
	return append([]model.Conjunction(nil), conjs...), nil
}

// Hypotheses lists every non-empty subset of conjs, smallest first
func (en *Enumerator) Hypotheses(conjs []model.Conjunction) ([]model.Hypothesis, error) {
	s := &Space{conjs: conjs, limits: en.limits}
	return s.Materialize()
}

// Build enumerates the space induced by the examples
func (en *Enumerator) Build(examples []model.Example) (*Space, error) {
	t := en.Table(examples)
	conjs, err := en.Conjunctions(t)
	if err != nil {
		return nil, err
	}
	return &Space{table: t, conjs: conjs, limits: en.limits}, nil
}

// AllHypotheses is the full materialised space over the examples' vocabulary
func AllHypotheses(examples []model.Example, opts ...Option) ([]model.Hypothesis, error) {
	s, err := NewEnumerator(opts...).Build(examples)
	if err != nil {
		return nil, err
	}
	return s.Materialize()
}
