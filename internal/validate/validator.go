// Package validate inspects a dataset before learning and reports every
// problem it finds instead of stopping at the first.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/induct/internal/dataset"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/space"
)

// Validator checks datasets against a vocabulary and the enumeration limits
type Validator struct {
	limits space.Limits
	policy space.LiteralPolicy
}

// NewValidator creates a validator using the given enumeration guard
func NewValidator(limits space.Limits, policy space.LiteralPolicy) *Validator {
	return &Validator{limits: limits, policy: policy}
}

// Validate returns all issues, dataset-wide ones (Index -1) first, then by
// example index. Test examples are reported with their own index and a
// "test" prefix in the message.
func (v *Validator) Validate(ds *dataset.Dataset) []model.Issue {
	var issues []model.Issue
	add := func(index int, sev model.SignalSeverity, format string, args ...interface{}) {
		issues = append(issues, model.Issue{Index: index, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if len(ds.Examples) == 0 {
		add(-1, model.SeverityCritical, "dataset has no training examples")
		return issues
	}

	vocab := ds.Vocabulary()
	for i, e := range ds.Examples {
		v.checkExample(vocab, e, func(sev model.SignalSeverity, msg string) { add(i, sev, "%s", msg) })
	}
	for i, e := range ds.Test {
		v.checkExample(vocab, e, func(sev model.SignalSeverity, msg string) { add(i, sev, "test: %s", msg) })
	}

	// every attribute should be present on every example; a missing key
	// never matches any literal on it
	for i, e := range ds.Examples {
		var missing []string
		for _, attr := range vocab.Attributes() {
			if _, ok := e.Value(attr); !ok {
				missing = append(missing, attr)
			}
		}
		if len(missing) > 0 {
			add(i, model.SeverityWarning, "missing attributes %s; literals on them never match", strings.Join(missing, ", "))
		}
	}

	seen := make(map[string]int, len(ds.Examples))
	for i, e := range ds.Examples {
		key := attributesKey(e)
		j, dup := seen[key]
		if !dup {
			seen[key] = i
			continue
		}
		if ds.Examples[j].Goal != e.Goal {
			add(i, model.SeverityWarning, "contradicts example %d: same attributes, opposite goal; no hypothesis can fit both", j)
		} else {
			add(i, model.SeverityInfo, "duplicate of example %d", j)
		}
	}

	switch pos := ds.Positives(); {
	case pos == 0:
		add(-1, model.SeverityInfo, "no positive examples; the always-false hypothesis already fits")
	case pos == len(ds.Examples):
		add(-1, model.SeverityInfo, "no negative examples; the always-true hypothesis already fits")
	}

	for i, c := range ds.Seed {
		for _, lit := range c.Literals() {
			if !vocab.Has(lit.Attribute) {
				add(-1, model.SeverityWarning, "seed disjunct %d constrains unknown attribute %q", i, lit.Attribute)
			}
		}
	}

	table := space.ValuesTable(ds.Examples, v.policy)
	if err := table.Check(v.limits); err != nil {
		add(-1, model.SeverityWarning, "version-space learning unavailable: %v", err)
	}

	sort.SliceStable(issues, func(a, b int) bool { return issues[a].Index < issues[b].Index })
	return issues
}

func (v *Validator) checkExample(vocab *model.Vocabulary, e model.Example, report func(model.SignalSeverity, string)) {
	if err := vocab.Check(0, e); err != nil {
		var me *model.MalformedExampleError
		if errors.As(err, &me) {
			report(model.SeverityCritical, fmt.Sprintf("attribute %q: %s", me.Attribute, me.Reason))
		} else {
			report(model.SeverityCritical, err.Error())
		}
		return
	}
	for _, attr := range e.AttributeNames() {
		val := e.Attributes[attr]
		if !vocab.HasValue(attr, val) {
			report(model.SeverityWarning, fmt.Sprintf("value %q of %q is outside the declared domain", val, attr))
		}
	}
}

func attributesKey(e model.Example) string {
	names := e.AttributeNames()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + e.Attributes[n]
	}
	return strings.Join(parts, "\x00")
}

// HasCritical reports whether any issue is critical
func HasCritical(issues []model.Issue) bool {
	for _, is := range issues {
		if is.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

// Count tallies issues per severity
func Count(issues []model.Issue) map[model.SignalSeverity]int {
	out := make(map[model.SignalSeverity]int, 3)
	for _, is := range issues {
		out[is.Severity]++
	}
	return out
}
