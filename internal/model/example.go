package model

import (
	"fmt"
	"sort"
	"strings"
)

// GoalKey is the reserved name of the goal predicate in example files
const GoalKey = "GOAL"

// Example is one labelled observation: attribute values plus the goal predicate
type Example struct {
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
	Goal       bool              `json:"goal" yaml:"goal"`
}

// NewExample builds an example from an attribute map and a goal label.
// The map is copied so later changes by the caller do not leak in.
func NewExample(attrs map[string]string, goal bool) Example {
	cp := make(map[string]string, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return Example{Attributes: cp, Goal: goal}
}

// Value returns the example's value for attr and whether it is present
func (e Example) Value(attr string) (string, bool) {
	v, ok := e.Attributes[attr]
	return v, ok
}

// AttributeNames returns the example's attribute names in lexical order
func (e Example) AttributeNames() []string {
	names := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders the example as {a=x, b=y} => true
func (e Example) String() string {
	names := e.AttributeNames()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + e.Attributes[n]
	}
	return fmt.Sprintf("{%s} => %t", strings.Join(parts, ", "), e.Goal)
}

// Vocabulary maps each attribute name to its domain of legal values.
// Attributes and values are always reported in lexical order.
type Vocabulary struct {
	domains map[string]map[string]struct{}
}

// NewVocabulary builds a declared vocabulary from attribute -> values
func NewVocabulary(domains map[string][]string) (*Vocabulary, error) {
	v := &Vocabulary{domains: make(map[string]map[string]struct{}, len(domains))}
	for attr, values := range domains {
		if attr == "" {
			return nil, fmt.Errorf("%w: empty attribute name", ErrMalformedExample)
		}
		if attr == GoalKey {
			return nil, fmt.Errorf("%w: %s cannot be declared as an attribute", ErrMalformedExample, GoalKey)
		}
		v.add(attr)
		for _, val := range values {
			v.domains[attr][val] = struct{}{}
		}
	}
	return v, nil
}

// InduceVocabulary collects the union of observed values per attribute
func InduceVocabulary(examples []Example) *Vocabulary {
	v := &Vocabulary{domains: make(map[string]map[string]struct{})}
	for _, e := range examples {
		for attr, val := range e.Attributes {
			v.add(attr)
			v.domains[attr][val] = struct{}{}
		}
	}
	return v
}

func (v *Vocabulary) add(attr string) {
	if _, ok := v.domains[attr]; !ok {
		v.domains[attr] = make(map[string]struct{})
	}
}

// Attributes returns attribute names in lexical order
func (v *Vocabulary) Attributes() []string {
	names := make([]string, 0, len(v.domains))
	for k := range v.domains {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Values returns the domain of attr in lexical order
func (v *Vocabulary) Values(attr string) []string {
	dom := v.domains[attr]
	values := make([]string, 0, len(dom))
	for val := range dom {
		values = append(values, val)
	}
	sort.Strings(values)
	return values
}

// Has reports whether attr belongs to the vocabulary
func (v *Vocabulary) Has(attr string) bool {
	_, ok := v.domains[attr]
	return ok
}

// HasValue reports whether val is in the domain of attr
func (v *Vocabulary) HasValue(attr, val string) bool {
	_, ok := v.domains[attr][val]
	return ok
}

// Len returns the number of attributes
func (v *Vocabulary) Len() int {
	return len(v.domains)
}

// Check verifies that an example only uses attributes of the vocabulary.
// Values are not checked: an unseen value simply matches no positive literal.
// index is carried into the error to locate the example.
func (v *Vocabulary) Check(index int, e Example) error {
	for _, attr := range e.AttributeNames() {
		val := e.Attributes[attr]
		switch {
		case attr == "":
			return &MalformedExampleError{Index: index, Reason: "empty attribute name", Err: ErrMalformedExample}
		case attr == GoalKey:
			return &MalformedExampleError{Index: index, Attribute: attr, Reason: "goal stored as an attribute", Err: ErrMalformedExample}
		case val == "":
			return &MalformedExampleError{Index: index, Attribute: attr, Reason: "empty value", Err: ErrMalformedExample}
		}
		if _, ok := v.domains[attr]; !ok {
			return &MalformedExampleError{Index: index, Attribute: attr, Reason: "attribute outside vocabulary", Err: ErrUnknownAttribute}
		}
	}
	return nil
}

// CheckAll runs Check over every example and returns the first failure
func (v *Vocabulary) CheckAll(examples []Example) error {
	for i, e := range examples {
		if err := v.Check(i, e); err != nil {
			return err
		}
	}
	return nil
}

// Fingerprint is a canonical rendering used for cache keys
func (v *Vocabulary) Fingerprint() string {
	var b strings.Builder
	for _, attr := range v.Attributes() {
		b.WriteString(attr)
		b.WriteByte('=')
		b.WriteString(strings.Join(v.Values(attr), "|"))
		b.WriteByte(';')
	}
	return b.String()
}

// Domains returns attribute -> sorted values, suitable for reports
func (v *Vocabulary) Domains() map[string][]string {
	out := make(map[string][]string, len(v.domains))
	for _, attr := range v.Attributes() {
		out[attr] = v.Values(attr)
	}
	return out
}
