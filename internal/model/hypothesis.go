package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Literal constrains one attribute: equal to Value, or (Negated) anything but Value
type Literal struct {
	Attribute string `json:"attribute" yaml:"attribute"`
	Value     string `json:"value" yaml:"value"`
	Negated   bool   `json:"negated,omitempty" yaml:"negated,omitempty"`
}

// Is returns the positive literal attr = val
func Is(attr, val string) Literal {
	return Literal{Attribute: attr, Value: val}
}

// Not returns the negated literal attr != val
func Not(attr, val string) Literal {
	return Literal{Attribute: attr, Value: val, Negated: true}
}

// Matches reports whether the example satisfies the literal.
// An example without the attribute never matches.
func (l Literal) Matches(e Example) bool {
	v, ok := e.Attributes[l.Attribute]
	if !ok {
		return false
	}
	if l.Negated {
		return v != l.Value
	}
	return v == l.Value
}

// Negate flips the literal's polarity
func (l Literal) Negate() Literal {
	l.Negated = !l.Negated
	return l
}

func (l Literal) String() string {
	if l.Negated {
		return l.Attribute + "!=" + l.Value
	}
	return l.Attribute + "=" + l.Value
}

// Conjunction is an AND of literals over distinct attributes, sorted by
// attribute name. The zero value is the empty conjunction, which matches
// every example.
type Conjunction struct {
	lits []Literal
}

// NewConjunction validates and sorts the literals
func NewConjunction(lits ...Literal) (Conjunction, error) {
	sorted := make([]Literal, len(lits))
	copy(sorted, lits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Attribute < sorted[j].Attribute })
	for i, l := range sorted {
		if l.Attribute == "" {
			return Conjunction{}, fmt.Errorf("%w: empty attribute name", ErrMalformedExample)
		}
		if i > 0 && sorted[i-1].Attribute == l.Attribute {
			return Conjunction{}, fmt.Errorf("%w: %s", ErrDuplicateAttribute, l.Attribute)
		}
	}
	return Conjunction{lits: sorted}, nil
}

// MustConjunction is NewConjunction for literals known to be valid
func MustConjunction(lits ...Literal) Conjunction {
	c, err := NewConjunction(lits...)
	if err != nil {
		panic(err)
	}
	return c
}

// Matches is true iff every literal matches; vacuously true when empty
func (c Conjunction) Matches(e Example) bool {
	for _, l := range c.lits {
		if !l.Matches(e) {
			return false
		}
	}
	return true
}

// Len returns the number of literals
func (c Conjunction) Len() int {
	return len(c.lits)
}

// Literals returns a copy of the literals in attribute order
func (c Conjunction) Literals() []Literal {
	out := make([]Literal, len(c.lits))
	copy(out, c.lits)
	return out
}

// Literal returns the literal on attr, if any
func (c Conjunction) Literal(attr string) (Literal, bool) {
	i := c.index(attr)
	if i < 0 {
		return Literal{}, false
	}
	return c.lits[i], true
}

// Has reports whether attr is constrained
func (c Conjunction) Has(attr string) bool {
	return c.index(attr) >= 0
}

func (c Conjunction) index(attr string) int {
	i := sort.Search(len(c.lits), func(i int) bool { return c.lits[i].Attribute >= attr })
	if i < len(c.lits) && c.lits[i].Attribute == attr {
		return i
	}
	return -1
}

// With returns a copy with l added, replacing any literal on the same attribute
func (c Conjunction) With(l Literal) Conjunction {
	out := make([]Literal, 0, len(c.lits)+1)
	inserted := false
	for _, x := range c.lits {
		switch {
		case x.Attribute == l.Attribute:
			continue
		case !inserted && x.Attribute > l.Attribute:
			out = append(out, l)
			inserted = true
		}
		out = append(out, x)
	}
	if !inserted {
		out = append(out, l)
	}
	return Conjunction{lits: out}
}

// Without returns a copy with the literal on attr removed
func (c Conjunction) Without(attr string) Conjunction {
	out := make([]Literal, 0, len(c.lits))
	for _, x := range c.lits {
		if x.Attribute != attr {
			out = append(out, x)
		}
	}
	return Conjunction{lits: out}
}

// Key is a canonical rendering; equal conjunctions have equal keys.
// The empty conjunction renders as "*".
func (c Conjunction) Key() string {
	if len(c.lits) == 0 {
		return "*"
	}
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return strings.Join(parts, "&")
}

func (c Conjunction) String() string {
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the conjunction as its literal list
func (c Conjunction) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Literals())
}

// UnmarshalJSON decodes a literal list, enforcing unique attributes
func (c *Conjunction) UnmarshalJSON(data []byte) error {
	var lits []Literal
	if err := json.Unmarshal(data, &lits); err != nil {
		return err
	}
	parsed, err := NewConjunction(lits...)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Equal reports literal-for-literal equality
func (c Conjunction) Equal(o Conjunction) bool {
	if len(c.lits) != len(o.lits) {
		return false
	}
	for i := range c.lits {
		if c.lits[i] != o.lits[i] {
			return false
		}
	}
	return true
}

// Hypothesis is an ordered disjunction of conjunctions. The empty hypothesis
// predicts false for every example.
type Hypothesis []Conjunction

// Predict is true iff some disjunct matches the example
func (h Hypothesis) Predict(e Example) bool {
	for _, c := range h {
		if c.Matches(e) {
			return true
		}
	}
	return false
}

// Replace returns a copy with disjunct i replaced by c
func (h Hypothesis) Replace(i int, c Conjunction) Hypothesis {
	out := make(Hypothesis, len(h))
	copy(out, h)
	out[i] = c
	return out
}

// Remove returns a copy without disjunct i
func (h Hypothesis) Remove(i int) Hypothesis {
	out := make(Hypothesis, 0, len(h)-1)
	out = append(out, h[:i]...)
	return append(out, h[i+1:]...)
}

// Append returns a copy with c added as the last disjunct
func (h Hypothesis) Append(c Conjunction) Hypothesis {
	out := make(Hypothesis, len(h), len(h)+1)
	copy(out, h)
	return append(out, c)
}

// Literals counts literals across all disjuncts
func (h Hypothesis) Literals() int {
	n := 0
	for _, c := range h {
		n += c.Len()
	}
	return n
}

// Key is order-insensitive: two hypotheses with the same set of disjuncts
// share a key.
func (h Hypothesis) Key() string {
	keys := make([]string, 0, len(h))
	seen := make(map[string]bool, len(h))
	for _, c := range h {
		k := c.Key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, " | ")
}

// Equal compares hypotheses as sets of disjuncts
func (h Hypothesis) Equal(o Hypothesis) bool {
	return h.Key() == o.Key()
}

func (h Hypothesis) String() string {
	if len(h) == 0 {
		return "[]"
	}
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " OR ") + "]"
}

// Predictor is anything that guesses the goal value of an example
type Predictor interface {
	Predict(e Example) bool
}

var (
	_ Predictor = Hypothesis(nil)
	_ Predictor = (*VersionSpace)(nil)
)
