// Package space enumerates the hypothesis lattice used by version-space
// learning: a values table, every conjunction over it, and every non-empty
// disjunction of those conjunctions.
//
// The lattice is exponential in both attribute count and domain size. It is
// meant for toy domains only, and every enumeration step is guarded by
// Limits; exceeding a limit returns model.ErrSpaceTooLarge instead of
// trying to be clever about it.
package space

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/induct/internal/combin"
	"github.com/ppiankov/induct/internal/model"
)

// LiteralPolicy decides which literals a values table offers per attribute
type LiteralPolicy int

const (
	// AllLiterals offers every observed value both positive and negated
	AllLiterals LiteralPolicy = iota
	// ObservedPolarity offers a value positive if it occurs on a positive
	// example and negated if it occurs on a negative one
	ObservedPolarity
)

func (p LiteralPolicy) String() string {
	switch p {
	case ObservedPolarity:
		return "observed"
	default:
		return "all"
	}
}

// ParsePolicy maps a config string to a policy
func ParsePolicy(s string) (LiteralPolicy, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return AllLiterals, nil
	case "observed":
		return ObservedPolarity, nil
	default:
		return AllLiterals, fmt.Errorf("unknown literal policy %q (supported: all, observed)", s)
	}
}

// Limits guards enumeration size
type Limits struct {
	MaxAttributes   int
	MaxValues       int
	MaxConjunctions int // at most 62 so subsets fit a uint64 bitmask
	MaxHypotheses   int
}

// DefaultLimits allow two or three small attributes
func DefaultLimits() Limits {
	return Limits{
		MaxAttributes:   4,
		MaxValues:       4,
		MaxConjunctions: 24,
		MaxHypotheses:   1 << 20,
	}
}

// LimitsFromConfig converts the config section
func LimitsFromConfig(cfg model.SpaceConfig) Limits {
	return Limits{
		MaxAttributes:   cfg.MaxAttributes,
		MaxValues:       cfg.MaxValues,
		MaxConjunctions: cfg.MaxConjunctions,
		MaxHypotheses:   cfg.MaxHypotheses,
	}
}

// Table lists the literal options of each attribute, attributes in lexical
// order and options ordered by value with the positive literal first.
type Table struct {
	Policy  LiteralPolicy
	attrs   []string
	options map[string][]model.Literal
	domains map[string]int
}

// ValuesTable builds the table for the examples' attribute vocabulary
func ValuesTable(examples []model.Example, policy LiteralPolicy) Table {
	t := Table{Policy: policy, options: make(map[string][]model.Literal), domains: make(map[string]int)}
	vocab := model.InduceVocabulary(examples)
	t.attrs = vocab.Attributes()

	switch policy {
	case ObservedPolarity:
		seen := make(map[model.Literal]bool)
		for _, e := range examples {
			for attr, val := range e.Attributes {
				lit := model.Literal{Attribute: attr, Value: val, Negated: !e.Goal}
				if !seen[lit] {
					seen[lit] = true
					t.options[attr] = append(t.options[attr], lit)
				}
			}
		}
		for _, attr := range t.attrs {
			opts := t.options[attr]
			sort.Slice(opts, func(i, j int) bool {
				if opts[i].Value != opts[j].Value {
					return opts[i].Value < opts[j].Value
				}
				return !opts[i].Negated && opts[j].Negated
			})
		}
	default:
		for _, attr := range t.attrs {
			for _, val := range vocab.Values(attr) {
				t.options[attr] = append(t.options[attr], model.Is(attr, val), model.Not(attr, val))
			}
		}
	}

	for _, attr := range t.attrs {
		t.domains[attr] = len(vocab.Values(attr))
	}
	return t
}

// Attributes returns the table's attributes in lexical order
func (t Table) Attributes() []string {
	return append([]string(nil), t.attrs...)
}

// Options returns the literal options for attr
func (t Table) Options(attr string) []model.Literal {
	return append([]model.Literal(nil), t.options[attr]...)
}

// ConjunctionCount is the number of conjunctions the table generates
func (t Table) ConjunctionCount() uint64 {
	var total uint64
	combin.EachSubset(len(t.attrs), func(idx []int) bool {
		var prod uint64 = 1
		for _, i := range idx {
			prod *= uint64(len(t.options[t.attrs[i]]))
		}
		total += prod
		return true
	})
	return total
}

// Fingerprint is a canonical rendering used for cache keys
func (t Table) Fingerprint() string {
	var b strings.Builder
	b.WriteString(t.Policy.String())
	for _, attr := range t.attrs {
		b.WriteByte(';')
		b.WriteString(attr)
		b.WriteByte(':')
		for i, lit := range t.options[attr] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(lit.String())
		}
	}
	return b.String()
}

// Check applies the attribute and domain limits
func (t Table) Check(l Limits) error {
	if l.MaxAttributes > 0 && len(t.attrs) > l.MaxAttributes {
		return fmt.Errorf("%w: %d attributes (limit %d)", model.ErrSpaceTooLarge, len(t.attrs), l.MaxAttributes)
	}
	for _, attr := range t.attrs {
		if l.MaxValues > 0 && t.domains[attr] > l.MaxValues {
			return fmt.Errorf("%w: attribute %q has %d values (limit %d)", model.ErrSpaceTooLarge, attr, t.domains[attr], l.MaxValues)
		}
	}
	if n := t.ConjunctionCount(); l.MaxConjunctions > 0 && n > uint64(l.MaxConjunctions) {
		return fmt.Errorf("%w: %d conjunctions (limit %d)", model.ErrSpaceTooLarge, n, l.MaxConjunctions)
	}
	return nil
}

// Space is an enumerated lattice: its conjunctions are materialised, its
// hypotheses (every non-empty subset of them) are produced on demand.
type Space struct {
	table  Table
	conjs  []model.Conjunction
	limits Limits
}

// Table returns the values table the space was built from
func (s *Space) Table() Table {
	return s.table
}

// Conjunctions returns the enumerated conjunctions in enumeration order
func (s *Space) Conjunctions() []model.Conjunction {
	return append([]model.Conjunction(nil), s.conjs...)
}

// Size is the number of hypotheses, 2^n - 1 for n conjunctions
func (s *Space) Size() uint64 {
	return (uint64(1) << uint(len(s.conjs))) - 1
}

// Each calls fn for every hypothesis, smallest disjunctions first.
// Returning false stops the walk.
func (s *Space) Each(fn func(model.Hypothesis) bool) {
	combin.EachSubset(len(s.conjs), func(idx []int) bool {
		h := make(model.Hypothesis, len(idx))
		for j, i := range idx {
			h[j] = s.conjs[i]
		}
		return fn(h)
	})
}

// Materialize lists every hypothesis, subject to MaxHypotheses
func (s *Space) Materialize() ([]model.Hypothesis, error) {
	if s.limits.MaxHypotheses > 0 && s.Size() > uint64(s.limits.MaxHypotheses) {
		return nil, fmt.Errorf("%w: %d hypotheses (limit %d)", model.ErrSpaceTooLarge, s.Size(), s.limits.MaxHypotheses)
	}
	out := make([]model.Hypothesis, 0, s.Size())
	s.Each(func(h model.Hypothesis) bool {
		out = append(out, h)
		return true
	})
	return out, nil
}
