package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedExample indicates an example that cannot be evaluated.
	ErrMalformedExample = errors.New("malformed example")
	// ErrMissingGoal indicates an example without a GOAL entry.
	ErrMissingGoal = errors.New("malformed example: missing GOAL")
	// ErrUnknownAttribute indicates an attribute outside the vocabulary.
	ErrUnknownAttribute = errors.New("malformed example: unknown attribute")
	// ErrDuplicateAttribute indicates two literals on the same attribute in one conjunction.
	ErrDuplicateAttribute = errors.New("conjunction: duplicate attribute")
	// ErrNoConsistentRefinement indicates that current-best search got stuck.
	ErrNoConsistentRefinement = errors.New("no consistent refinement")
	// ErrSpaceTooLarge indicates a hypothesis space above the configured limits.
	ErrSpaceTooLarge = errors.New("hypothesis space too large")
	// ErrInvalidDataset indicates a dataset with critical validation issues.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrUnknownAlgorithm indicates an algorithm name other than current-best or version-space.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// MalformedExampleError locates a malformed example in its input sequence
type MalformedExampleError struct {
	Index     int
	Attribute string
	Reason    string
	Err       error
}

func (e *MalformedExampleError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("example %d: attribute %q: %s", e.Index, e.Attribute, e.Reason)
	}
	return fmt.Sprintf("example %d: %s", e.Index, e.Reason)
}

func (e *MalformedExampleError) Unwrap() error {
	if e.Err == nil {
		return ErrMalformedExample
	}
	return e.Err
}

// Is lets every malformed-example error match ErrMalformedExample as well as
// its specific cause.
func (e *MalformedExampleError) Is(target error) bool {
	return target == ErrMalformedExample
}

// RefinementError reports the example at which current-best search found no
// refinement consistent with the evidence seen so far.
type RefinementError struct {
	Index      int
	Example    Example
	Outcome    string
	Hypothesis Hypothesis
}

func (e *RefinementError) Error() string {
	return fmt.Sprintf("example %d (%s): %s: no refinement of %s is consistent with the evidence so far",
		e.Index, e.Example, e.Outcome, e.Hypothesis)
}

func (e *RefinementError) Unwrap() error {
	return ErrNoConsistentRefinement
}
