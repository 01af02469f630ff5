package validate

import (
	"strings"
	"testing"

	"github.com/ppiankov/induct/internal/dataset"
	"github.com/ppiankov/induct/internal/model"
	"github.com/ppiankov/induct/internal/space"
)

func ex(goal bool, kv ...string) model.Example {
	attrs := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return model.NewExample(attrs, goal)
}

func newValidator() *Validator {
	return NewValidator(space.DefaultLimits(), space.AllLiterals)
}

func findIssue(issues []model.Issue, index int, fragment string) *model.Issue {
	for i := range issues {
		if issues[i].Index == index && strings.Contains(issues[i].Message, fragment) {
			return &issues[i]
		}
	}
	return nil
}

func TestValidator_Builtins_Clean(t *testing.T) {
	for _, name := range []string{"party"} {
		ds, err := dataset.Builtin(name)
		if err != nil {
			t.Fatal(err)
		}
		issues := newValidator().Validate(ds)
		if len(issues) != 0 {
			t.Errorf("Expected no issues for %s, got %+v", name, issues)
		}
	}
}

func TestValidator_Animals_TooLargeForVersionSpace(t *testing.T) {
	ds, err := dataset.Builtin("animals")
	if err != nil {
		t.Fatal(err)
	}
	issues := newValidator().Validate(ds)
	if HasCritical(issues) {
		t.Errorf("Expected no critical issues, got %+v", issues)
	}
	if findIssue(issues, -1, "version-space learning unavailable") == nil {
		t.Errorf("Expected a space size warning, got %+v", issues)
	}
}

func TestValidator_NoExamples(t *testing.T) {
	issues := newValidator().Validate(&dataset.Dataset{Name: "empty"})
	if len(issues) != 1 || issues[0].Severity != model.SeverityCritical {
		t.Errorf("Expected one critical issue, got %+v", issues)
	}
}

func TestValidator_UnknownAttributeAgainstDeclaredVocabulary(t *testing.T) {
	vocab, err := model.NewVocabulary(map[string][]string{"Pizza": {"Yes", "No"}})
	if err != nil {
		t.Fatal(err)
	}
	ds := &dataset.Dataset{
		Declared: vocab,
		Examples: []model.Example{
			ex(true, "Pizza", "Yes"),
			ex(false, "Pizza", "No", "Soda", "No"),
			ex(false, "Pizza", "Maybe"),
		},
		Test: []model.Example{ex(true, "Cake", "Yes")},
	}
	issues := newValidator().Validate(ds)

	if is := findIssue(issues, 1, `"Soda"`); is == nil || is.Severity != model.SeverityCritical {
		t.Errorf("Expected critical unknown attribute on example 1, got %+v", issues)
	}
	if is := findIssue(issues, 2, "outside the declared domain"); is == nil || is.Severity != model.SeverityWarning {
		t.Errorf("Expected domain warning on example 2, got %+v", issues)
	}
	if findIssue(issues, 0, "test: ") == nil {
		t.Errorf("Expected test example issue, got %+v", issues)
	}
	if !HasCritical(issues) {
		t.Error("Expected HasCritical to be true")
	}
}

func TestValidator_DuplicatesAndContradictions(t *testing.T) {
	ds := &dataset.Dataset{Examples: []model.Example{
		ex(true, "Pizza", "Yes"),
		ex(true, "Pizza", "Yes"),
		ex(false, "Pizza", "Yes"),
		ex(false, "Pizza", "No"),
	}}
	issues := newValidator().Validate(ds)

	if is := findIssue(issues, 1, "duplicate of example 0"); is == nil || is.Severity != model.SeverityInfo {
		t.Errorf("Expected duplicate info on example 1, got %+v", issues)
	}
	if is := findIssue(issues, 2, "contradicts example 0"); is == nil || is.Severity != model.SeverityWarning {
		t.Errorf("Expected contradiction warning on example 2, got %+v", issues)
	}
}

func TestValidator_MissingAttributesAndSeed(t *testing.T) {
	ds := &dataset.Dataset{
		Seed: model.Hypothesis{model.MustConjunction(model.Is("Cake", "Yes"))},
		Examples: []model.Example{
			ex(true, "Pizza", "Yes", "Soda", "No"),
			ex(true, "Pizza", "No"),
		},
	}
	issues := newValidator().Validate(ds)

	if findIssue(issues, 1, "missing attributes Soda") == nil {
		t.Errorf("Expected missing attribute warning, got %+v", issues)
	}
	if findIssue(issues, -1, `unknown attribute "Cake"`) == nil {
		t.Errorf("Expected seed warning, got %+v", issues)
	}
	if findIssue(issues, -1, "no negative examples") == nil {
		t.Errorf("Expected no-negatives info, got %+v", issues)
	}
	if issues[0].Index != -1 {
		t.Errorf("Expected dataset-wide issues first, got %+v", issues[0])
	}
}

func TestCount(t *testing.T) {
	counts := Count([]model.Issue{
		{Severity: model.SeverityInfo},
		{Severity: model.SeverityWarning},
		{Severity: model.SeverityWarning},
	})
	if counts[model.SeverityWarning] != 2 || counts[model.SeverityInfo] != 1 || counts[model.SeverityCritical] != 0 {
		t.Errorf("Unexpected counts %v", counts)
	}
}
