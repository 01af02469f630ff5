package dataset

import (
	"fmt"
	"strings"

	"github.com/ppiankov/induct/internal/model"
)

// ParseHypothesis reads the compact command-line form of a hypothesis:
// disjuncts separated by "|", literals by "," or "&", each literal "a=v" or
// "a!=v". "*" is the empty conjunction and an empty string the empty
// hypothesis. Braces around a disjunct are ignored, so Conjunction.String
// output parses back.
func ParseHypothesis(s string) (model.Hypothesis, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var h model.Hypothesis
	for i, part := range strings.Split(strings.ReplaceAll(s, " OR ", "|"), "|") {
		part = strings.TrimSpace(part)
		part = strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
		part = strings.TrimSpace(part)
		if part == "*" || part == "" {
			h = append(h, model.Conjunction{})
			continue
		}

		var lits []model.Literal
		for _, tok := range strings.FieldsFunc(part, func(r rune) bool { return r == ',' || r == '&' }) {
			lit, err := ParseLiteral(tok)
			if err != nil {
				return nil, fmt.Errorf("disjunct %d: %w", i, err)
			}
			lits = append(lits, lit)
		}
		c, err := model.NewConjunction(lits...)
		if err != nil {
			return nil, fmt.Errorf("disjunct %d: %w", i, err)
		}
		h = append(h, c)
	}
	return h, nil
}

// ParseLiteral reads "a=v" or "a!=v"
func ParseLiteral(s string) (model.Literal, error) {
	s = strings.TrimSpace(s)
	if attr, val, ok := strings.Cut(s, "!="); ok {
		return literal(attr, val, true, s)
	}
	if attr, val, ok := strings.Cut(s, "="); ok {
		return literal(attr, val, false, s)
	}
	return model.Literal{}, fmt.Errorf("%w: literal %q: expected a=v or a!=v", model.ErrMalformedExample, s)
}

func literal(attr, val string, negated bool, raw string) (model.Literal, error) {
	attr, val = strings.TrimSpace(attr), strings.TrimSpace(val)
	if attr == "" || val == "" {
		return model.Literal{}, fmt.Errorf("%w: literal %q: empty attribute or value", model.ErrMalformedExample, raw)
	}
	if attr == model.GoalKey {
		return model.Literal{}, fmt.Errorf("%w: %s cannot appear in a hypothesis", model.ErrMalformedExample, model.GoalKey)
	}
	return model.Literal{Attribute: attr, Value: val, Negated: negated}, nil
}

// ParseAttributes turns k=v pairs into an unlabelled example for guessing
func ParseAttributes(pairs []string) (model.Example, error) {
	attrs := make(map[string]string, len(pairs))
	for _, p := range pairs {
		lit, err := ParseLiteral(p)
		if err != nil {
			return model.Example{}, err
		}
		if lit.Negated {
			return model.Example{}, fmt.Errorf("%w: %q: an example needs concrete values", model.ErrMalformedExample, p)
		}
		if _, dup := attrs[lit.Attribute]; dup {
			return model.Example{}, fmt.Errorf("%w: %s", model.ErrDuplicateAttribute, lit.Attribute)
		}
		attrs[lit.Attribute] = lit.Value
	}
	return model.Example{Attributes: attrs}, nil
}
