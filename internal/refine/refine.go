// Package refine generates one-step specializations and generalizations of a
// hypothesis relative to the evidence seen so far.
//
// Every generator emits candidates in a fixed order: disjunct index
// ascending, then attribute name in lexical order, then value in lexical
// order. Current-best search takes the first acceptable candidate, so this
// order decides which hypothesis the search settles on.
package refine

import (
	"sort"

	"github.com/ppiankov/induct/internal/combin"
	"github.com/ppiankov/induct/internal/consistency"
	"github.com/ppiankov/induct/internal/model"
)

// Phase identifies the generator that produced a candidate
type Phase int

const (
	Specialize Phase = iota
	DropDisjunct
	DropLiteral
	AddDisjunct
)

func (p Phase) String() string {
	switch p {
	case Specialize:
		return "specialize"
	case DropDisjunct:
		return "drop_disjunct"
	case DropLiteral:
		return "drop_literal"
	case AddDisjunct:
		return "add_disjunct"
	default:
		return "unknown"
	}
}

// Candidate is a refined hypothesis plus where the change was made
type Candidate struct {
	Hypothesis model.Hypothesis
	Phase      Phase
	Disjunct   int            // index of the disjunct changed, removed or appended
	Literal    *model.Literal // literal added (Specialize) or removed (DropLiteral)
}

// Specializations narrows one disjunct at a time so that it no longer covers
// the false-positive example e. For each attribute of e missing from the
// disjunct it tries the negation of e's value, then every other value of
// the attribute seen in the evidence. The positive literal of e's own value
// would still cover e and is never emitted. Only candidates consistent with
// the whole evidence are returned.
func Specializations(evidence []model.Example, h model.Hypothesis, e model.Example) []Candidate {
	observed := observedValues(evidence)
	var out []Candidate
	for i, d := range h {
		for _, attr := range e.AttributeNames() {
			if d.Has(attr) {
				continue
			}
			val := e.Attributes[attr]
			options := []model.Literal{model.Not(attr, val)}
			for _, other := range observed[attr] {
				if other != val {
					options = append(options, model.Is(attr, other))
				}
			}
			for _, lit := range options {
				cand := h.Replace(i, d.With(lit))
				if consistency.AllConsistent(evidence, cand) {
					l := lit
					out = append(out, Candidate{Hypothesis: cand, Phase: Specialize, Disjunct: i, Literal: &l})
				}
			}
		}
	}
	return out
}

// DropDisjuncts removes one whole disjunct at a time
func DropDisjuncts(evidence []model.Example, h model.Hypothesis) []Candidate {
	var out []Candidate
	for i := range h {
		cand := h.Remove(i)
		if consistency.AllConsistent(evidence, cand) {
			out = append(out, Candidate{Hypothesis: cand, Phase: DropDisjunct, Disjunct: i})
		}
	}
	return out
}

// DropLiterals removes one literal from one disjunct at a time
func DropLiterals(evidence []model.Example, h model.Hypothesis) []Candidate {
	var out []Candidate
	for i, d := range h {
		for _, lit := range d.Literals() {
			cand := h.Replace(i, d.Without(lit.Attribute))
			if consistency.AllConsistent(evidence, cand) {
				l := lit
				out = append(out, Candidate{Hypothesis: cand, Phase: DropLiteral, Disjunct: i, Literal: &l})
			}
		}
	}
	return out
}

// AddDisjuncts proposes new disjuncts built from e's attribute values, from
// single attributes up to all of them. A new disjunct only has to avoid the
// negative examples: positives already covered stay covered.
func AddDisjuncts(evidence []model.Example, h model.Hypothesis, e model.Example) []Candidate {
	attrs := e.AttributeNames()
	var out []Candidate
	for _, subset := range combin.Subsets(len(attrs)) {
		lits := make([]model.Literal, len(subset))
		for j, idx := range subset {
			lits[j] = model.Is(attrs[idx], e.Attributes[attrs[idx]])
		}
		c := model.MustConjunction(lits...)
		if consistency.AllNegativesConsistent(evidence, model.Hypothesis{c}) {
			out = append(out, Candidate{Hypothesis: h.Append(c), Phase: AddDisjunct, Disjunct: len(h)})
		}
	}
	return out
}

// Generalizations concatenates the three generalization phases in order
func Generalizations(evidence []model.Example, h model.Hypothesis, e model.Example) []Candidate {
	out := DropDisjuncts(evidence, h)
	out = append(out, DropLiterals(evidence, h)...)
	return append(out, AddDisjuncts(evidence, h, e)...)
}

// FirstSpecialization returns the first specialization and how many were found
func FirstSpecialization(evidence []model.Example, h model.Hypothesis, e model.Example) (Candidate, int, bool) {
	cands := Specializations(evidence, h, e)
	if len(cands) == 0 {
		return Candidate{}, 0, false
	}
	return cands[0], len(cands), true
}

// FirstGeneralization walks the phases in order and stops at the first phase
// holding a candidate consistent with all the evidence. The count is the
// number of candidates that phase produced.
func FirstGeneralization(evidence []model.Example, h model.Hypothesis, e model.Example) (Candidate, int, bool) {
	phases := []func() []Candidate{
		func() []Candidate { return DropDisjuncts(evidence, h) },
		func() []Candidate { return DropLiterals(evidence, h) },
		func() []Candidate { return AddDisjuncts(evidence, h, e) },
	}
	for _, phase := range phases {
		cands := phase()
		for _, c := range cands {
			if consistency.AllConsistent(evidence, c.Hypothesis) {
				return c, len(cands), true
			}
		}
	}
	return Candidate{}, 0, false
}

// observedValues collects attribute -> sorted distinct values in the evidence
func observedValues(evidence []model.Example) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, e := range evidence {
		for attr, val := range e.Attributes {
			if seen[attr] == nil {
				seen[attr] = make(map[string]bool)
			}
			seen[attr][val] = true
		}
	}
	out := make(map[string][]string, len(seen))
	for attr, vals := range seen {
		list := make([]string, 0, len(vals))
		for v := range vals {
			list = append(list, v)
		}
		sort.Strings(list)
		out[attr] = list
	}
	return out
}
