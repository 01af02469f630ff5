// Package induct is the in-process API of induct: build examples, learn a
// hypothesis with current-best search or a version space with candidate
// elimination, and guess the GOAL of new examples.
//
//	examples := []induct.Example{
//		induct.NewExample(map[string]string{"Pizza": "Yes", "Soda": "No"}, true),
//		induct.NewExample(map[string]string{"Pizza": "No", "Soda": "No"}, false),
//	}
//	h, err := induct.CurrentBestLearning(examples, nil)
//	...
//	induct.GuessExampleValue(induct.NewExample(map[string]string{"Pizza": "Yes", "Soda": "Yes"}, false), h)
//
// Learning is deterministic: the same examples in the same order always give
// the same result.
package induct

import (
	"github.com/ppiankov/induct/internal/consistency"
	"github.com/ppiankov/induct/internal/currentbest"
	"github.com/ppiankov/induct/internal/dataset"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/versionspace"
)

type (
	// Example is an attribute-value record labelled with GOAL
	Example = model.Example
	// Literal is Attribute=Value or Attribute!=Value
	Literal = model.Literal
	// Conjunction is a set of literals on distinct attributes; empty matches everything
	Conjunction = model.Conjunction
	// Hypothesis is a disjunction of conjunctions; empty predicts false
	Hypothesis = model.Hypothesis
	// VersionSpace is the set of hypotheses consistent with every example seen
	VersionSpace = model.VersionSpace
	// Predictor is anything that guesses GOAL for an example
	Predictor = model.Predictor
)

var (
	ErrMalformedExample       = model.ErrMalformedExample
	ErrNoConsistentRefinement = model.ErrNoConsistentRefinement
	ErrSpaceTooLarge          = model.ErrSpaceTooLarge
)

// NewExample copies attrs into a labelled example
func NewExample(attrs map[string]string, goal bool) Example {
	return model.NewExample(attrs, goal)
}

// Is is the literal attr=val
func Is(attr, val string) Literal { return model.Is(attr, val) }

// Not is the literal attr!=val
func Not(attr, val string) Literal { return model.Not(attr, val) }

// NewConjunction joins literals, rejecting two on the same attribute
func NewConjunction(lits ...Literal) (Conjunction, error) {
	return model.NewConjunction(lits...)
}

// ParseHypothesis reads "Pizza=Yes | Soda!=No, Pizza=No" style hypotheses
func ParseHypothesis(s string) (Hypothesis, error) {
	return dataset.ParseHypothesis(s)
}

// CurrentBestLearning keeps one hypothesis, starting from seed, and repairs it
// on every example it misclassifies. It fails with ErrNoConsistentRefinement
// when no one-step repair is consistent with the examples seen so far.
func CurrentBestLearning(examples []Example, seed Hypothesis) (Hypothesis, error) {
	return currentbest.CurrentBestLearning(examples, seed)
}

// VersionSpaceLearning enumerates every hypothesis over the examples'
// vocabulary and keeps those consistent with all of them. The space must fit
// the default limits or ErrSpaceTooLarge is returned.
func VersionSpaceLearning(examples []Example) (*VersionSpace, error) {
	return versionspace.VersionSpaceLearning(examples)
}

// GuessExampleValue predicts GOAL for e. A version space guesses true when any
// of its hypotheses does; a nil predictor guesses false.
func GuessExampleValue(e Example, p Predictor) bool {
	return consistency.GuessExampleValue(e, p)
}

// Builtin returns the training examples and seed of a built-in dataset
func Builtin(name string) ([]Example, Hypothesis, error) {
	ds, err := dataset.Builtin(name)
	if err != nil {
		return nil, nil, err
	}
	return ds.Examples, ds.Seed, nil
}

// Builtins lists the built-in dataset names
func Builtins() []string {
	return dataset.Builtins()
}
