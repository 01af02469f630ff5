package model

import "encoding/json"

// VersionSpace is a set of hypotheses. Membership is by Hypothesis.Key, so
// two members never differ only in disjunct order.
type VersionSpace struct {
	members []Hypothesis
	index   map[string]int
}

// NewVersionSpace builds a set from hs, dropping duplicates (first wins)
func NewVersionSpace(hs ...Hypothesis) *VersionSpace {
	vs := &VersionSpace{index: make(map[string]int, len(hs))}
	for _, h := range hs {
		vs.Add(h)
	}
	return vs
}

// Add inserts h unless an equal hypothesis is already present
func (vs *VersionSpace) Add(h Hypothesis) bool {
	if vs.index == nil {
		vs.index = make(map[string]int)
	}
	k := h.Key()
	if _, ok := vs.index[k]; ok {
		return false
	}
	vs.index[k] = len(vs.members)
	vs.members = append(vs.members, h)
	return true
}

// Len returns the number of member hypotheses
func (vs *VersionSpace) Len() int {
	if vs == nil {
		return 0
	}
	return len(vs.members)
}

// Empty reports whether no hypothesis survived
func (vs *VersionSpace) Empty() bool {
	return vs.Len() == 0
}

// Hypotheses returns the members in insertion order
func (vs *VersionSpace) Hypotheses() []Hypothesis {
	if vs == nil {
		return nil
	}
	out := make([]Hypothesis, len(vs.members))
	copy(out, vs.members)
	return out
}

// Contains reports set membership of h
func (vs *VersionSpace) Contains(h Hypothesis) bool {
	if vs == nil {
		return false
	}
	_, ok := vs.index[h.Key()]
	return ok
}

// Equal is set equality
func (vs *VersionSpace) Equal(o *VersionSpace) bool {
	if vs.Len() != o.Len() {
		return false
	}
	for _, h := range vs.Hypotheses() {
		if !o.Contains(h) {
			return false
		}
	}
	return true
}

// Predict is true iff some member predicts true. The empty space predicts
// false for everything.
func (vs *VersionSpace) Predict(e Example) bool {
	if vs == nil {
		return false
	}
	for _, h := range vs.members {
		if h.Predict(e) {
			return true
		}
	}
	return false
}

// Agreement counts members predicting true and false for e
func (vs *VersionSpace) Agreement(e Example) (yes, no int) {
	if vs == nil {
		return 0, 0
	}
	for _, h := range vs.members {
		if h.Predict(e) {
			yes++
		} else {
			no++
		}
	}
	return yes, no
}

// MarshalJSON encodes the members as a list
func (vs *VersionSpace) MarshalJSON() ([]byte, error) {
	hs := vs.Hypotheses()
	if hs == nil {
		hs = []Hypothesis{}
	}
	return json.Marshal(hs)
}
