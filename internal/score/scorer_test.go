package score

import (
	"testing"

	"github.com/ppiankov/induct/internal/model"
)

func ex(goal bool, kv ...string) model.Example {
	attrs := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return model.NewExample(attrs, goal)
}

func party() []model.Example {
	return []model.Example{
		ex(true, "Pizza", "Yes", "Soda", "No"),
		ex(true, "Pizza", "Yes", "Soda", "Yes"),
		ex(false, "Pizza", "No", "Soda", "No"),
	}
}

func pizza() model.Hypothesis {
	return model.Hypothesis{model.MustConjunction(model.Is("Pizza", "Yes"))}
}

func soda() model.Hypothesis {
	return model.Hypothesis{model.MustConjunction(model.Is("Soda", "Yes"))}
}

func findSignal(signals []model.Signal, typ model.SignalType) *model.Signal {
	for i := range signals {
		if signals[i].Type == typ {
			return &signals[i]
		}
	}
	return nil
}

func TestScorer_Calculate_ConsistentHypothesis(t *testing.T) {
	result := NewScorer().Calculate(Input{
		Training:   party(),
		Test:       []model.Example{ex(false, "Pizza", "No", "Soda", "Yes")},
		Hypothesis: pizza(),
	})

	// 60 training + 30 held-out + 9 for a single literal
	if result.Index != 99 {
		t.Errorf("Expected index 99, got %d", result.Index)
	}
	if result.Confidence != "high" {
		t.Errorf("Expected high confidence, got %s", result.Confidence)
	}
	if result.Confusion.TrueNegative != 1 || result.Confusion.Total() != 1 {
		t.Errorf("Expected confusion over the single test example, got %+v", result.Confusion)
	}

	train := findSignal(result.Signals, model.SignalTrainingConsistency)
	if train == nil || train.Severity != model.SeverityInfo {
		t.Errorf("Expected info training signal, got %+v", train)
	}
	if findSignal(result.Signals, model.SignalSeedRewritten) != nil {
		t.Error("Expected no seed signal without a seed")
	}
}

func TestScorer_Calculate_InconsistentHypothesis(t *testing.T) {
	result := NewScorer().Calculate(Input{
		Training:   party(),
		Hypothesis: soda(),
		Seed:       pizza(),
	})

	train := findSignal(result.Signals, model.SignalTrainingConsistency)
	if train == nil || train.Severity != model.SeverityCritical {
		t.Fatalf("Expected critical training signal, got %+v", train)
	}
	if train.Data["false_negative"] != 1 {
		t.Errorf("Expected one false negative, got %v", train.Data["false_negative"])
	}

	// 2/3 training = 40, no test = 15, one literal = 9
	if result.Index != 64 {
		t.Errorf("Expected index 64, got %d", result.Index)
	}
	if findSignal(result.Signals, model.SignalSeedRewritten) == nil {
		t.Error("Expected seed rewritten signal")
	}
	if result.Confusion.Total() != 3 {
		t.Errorf("Expected training confusion without test examples, got %+v", result.Confusion)
	}
}

func TestScorer_Calculate_VersionSpace(t *testing.T) {
	vs := model.NewVersionSpace(pizza(), pizza().Append(soda()[0]))
	result := NewScorer().Calculate(Input{
		Training: party(),
		Test:     []model.Example{ex(false, "Pizza", "No", "Soda", "Yes")},
		Space:    vs,
	})

	agreement := findSignal(result.Signals, model.SignalAmbiguousVersionSpace)
	if agreement == nil || agreement.Data["unanimous"] != 0 {
		t.Fatalf("Expected members to disagree on the test example, got %+v", agreement)
	}
	// 60 training + 0 held-out (the space says yes) + 0 agreement
	if result.Index != 60 {
		t.Errorf("Expected index 60, got %d", result.Index)
	}
	if result.Confusion.FalsePositive != 1 {
		t.Errorf("Expected a false positive, got %+v", result.Confusion)
	}
	if findSignal(result.Signals, model.SignalHypothesisComplexity) != nil {
		t.Error("Expected no complexity signal for a version space")
	}
}

func TestScorer_Calculate_EmptyVersionSpace(t *testing.T) {
	result := NewScorer().Calculate(Input{Training: party(), Space: model.NewVersionSpace()})

	if result.Index != 0 || result.Confidence != "low" {
		t.Errorf("Expected index 0 and low confidence, got %d %s", result.Index, result.Confidence)
	}
	if s := findSignal(result.Signals, model.SignalEmptyVersionSpace); s == nil || s.Severity != model.SeverityCritical {
		t.Errorf("Expected critical empty version space signal, got %+v", s)
	}
}

func TestScorer_Calculate_NoTraining(t *testing.T) {
	result := NewScorer().Calculate(Input{Hypothesis: pizza()})
	if result.Confidence != "low" {
		t.Errorf("Expected low confidence, got %s", result.Confidence)
	}
	if s := findSignal(result.Signals, model.SignalTrainingConsistency); s == nil || s.Severity != model.SeverityCritical {
		t.Errorf("Expected critical training signal, got %+v", s)
	}
}

func TestConfuse(t *testing.T) {
	c := Confuse(party(), soda())
	if c.TruePositive != 1 || c.FalseNegative != 1 || c.TrueNegative != 1 || c.FalsePositive != 0 {
		t.Errorf("Unexpected confusion %+v", c)
	}
	if got := Accuracy(c); got < 0.66 || got > 0.67 {
		t.Errorf("Expected accuracy 2/3, got %f", got)
	}
	if Accuracy(model.Confusion{}) != 0 {
		t.Error("Expected zero accuracy for no examples")
	}
}

func TestScorer_ComplexityPenalty(t *testing.T) {
	h := model.Hypothesis{
		model.MustConjunction(model.Is("a", "1"), model.Is("b", "1"), model.Is("c", "1")),
		model.MustConjunction(model.Is("a", "2"), model.Is("b", "2"), model.Is("c", "2")),
		model.MustConjunction(model.Is("a", "3"), model.Is("b", "3"), model.Is("c", "3")),
		model.MustConjunction(model.Is("a", "4")),
	}
	score, signal := NewScorer().calculateComplexity(h)
	if score != 0 {
		t.Errorf("Expected 0 points for 10 literals, got %d", score)
	}
	if signal.Severity != model.SeverityWarning {
		t.Errorf("Expected warning, got %s", signal.Severity)
	}
}

func TestScorer_Calculate_LocatesFirstMisfit(t *testing.T) {
	result := NewScorer().Calculate(Input{Training: party(), Hypothesis: soda()})

	train := findSignal(result.Signals, model.SignalTrainingConsistency)
	if train == nil {
		t.Fatal("Expected training_consistency signal")
	}
	// {Soda=Yes} misses the first positive {Pizza=Yes, Soda=No}
	if train.Data["first_inconsistent"] != 0 || train.Data["first_outcome"] != "false_negative" {
		t.Errorf("Expected first misfit at 0 (false_negative), got %v / %v",
			train.Data["first_inconsistent"], train.Data["first_outcome"])
	}

	consistent := NewScorer().Calculate(Input{Training: party(), Hypothesis: pizza()})
	if _, ok := findSignal(consistent.Signals, model.SignalTrainingConsistency).Data["first_inconsistent"]; ok {
		t.Error("Expected no misfit location for a consistent hypothesis")
	}
}
