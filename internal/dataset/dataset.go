// Package dataset loads labelled examples, an optional declared vocabulary
// and an optional seed hypothesis from YAML, JSON or CSV files.
package dataset

import (
	"github.com/ppiankov/induct/internal/model"
)

// Dataset is everything a learning run needs from its input file
type Dataset struct {
	Name     string
	Source   string // file path or "builtin:<name>"
	Declared *model.Vocabulary
	Seed     model.Hypothesis
	Examples []model.Example
	Test     []model.Example // held-out examples, scored but never learned from
}

// Vocabulary returns the declared vocabulary, or the one induced from the
// training and test examples when none was declared.
func (d *Dataset) Vocabulary() *model.Vocabulary {
	if d.Declared != nil {
		return d.Declared
	}
	all := make([]model.Example, 0, len(d.Examples)+len(d.Test))
	all = append(all, d.Examples...)
	all = append(all, d.Test...)
	return model.InduceVocabulary(all)
}

// Positives counts training examples whose goal is true
func (d *Dataset) Positives() int {
	n := 0
	for _, e := range d.Examples {
		if e.Goal {
			n++
		}
	}
	return n
}
