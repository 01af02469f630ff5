// Package consistency decides whether a hypothesis agrees with labelled examples.
package consistency

import "github.com/ppiankov/induct/internal/model"

// Outcome classifies a hypothesis' prediction against an example's label
type Outcome int

const (
	Consistent Outcome = iota
	FalsePositive
	FalseNegative
)

func (o Outcome) String() string {
	switch o {
	case Consistent:
		return "consistent"
	case FalsePositive:
		return "false_positive"
	case FalseNegative:
		return "false_negative"
	default:
		return "unknown"
	}
}

// Classify compares the hypothesis' prediction for e with e's goal
func Classify(e model.Example, h model.Hypothesis) Outcome {
	predicted := h.Predict(e)
	switch {
	case predicted == e.Goal:
		return Consistent
	case predicted:
		return FalsePositive
	default:
		return FalseNegative
	}
}

// Guess returns the hypothesis' prediction for e
func Guess(e model.Example, h model.Hypothesis) bool {
	return h.Predict(e)
}

// GuessAny is true iff some hypothesis in the space predicts true.
// The empty space predicts false.
func GuessAny(e model.Example, vs *model.VersionSpace) bool {
	return vs.Predict(e)
}

// GuessExampleValue is the shared prediction function for a single
// hypothesis or a whole version space.
func GuessExampleValue(e model.Example, p model.Predictor) bool {
	switch v := p.(type) {
	case nil:
		return false
	case model.Hypothesis:
		return Guess(e, v)
	case *model.VersionSpace:
		return GuessAny(e, v)
	default:
		return p.Predict(e)
	}
}

// AllConsistent reports whether h classifies every example correctly
func AllConsistent(examples []model.Example, h model.Hypothesis) bool {
	idx, _ := FirstInconsistent(examples, h)
	return idx < 0
}

// AllNegativesConsistent only checks examples whose goal is false.
// A new disjunct can only introduce false positives, so this is the filter
// used when proposing one.
func AllNegativesConsistent(examples []model.Example, h model.Hypothesis) bool {
	for _, e := range examples {
		if !e.Goal && h.Predict(e) {
			return false
		}
	}
	return true
}

// FirstInconsistent returns the index and outcome of the first example h gets
// wrong, or -1 and Consistent.
func FirstInconsistent(examples []model.Example, h model.Hypothesis) (int, Outcome) {
	for i, e := range examples {
		if o := Classify(e, h); o != Consistent {
			return i, o
		}
	}
	return -1, Consistent
}
