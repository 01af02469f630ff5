package score

import (
	"fmt"

	"github.com/ppiankov/induct/internal/consistency"
	"github.com/ppiankov/induct/internal/model"
)

// Input is what a learning run produced plus the labelled data to judge it by
type Input struct {
	Training []model.Example
	Test     []model.Example

	// Exactly one of Hypothesis (current-best) or Space (version-space) is set
	Hypothesis model.Hypothesis
	Seed       model.Hypothesis
	Space      *model.VersionSpace
}

func (in Input) predictor() model.Predictor {
	if in.Space != nil {
		return in.Space
	}
	return in.Hypothesis
}

// Scorer calculates the fit index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores the learned predictor and generates diagnostic signals
func (s *Scorer) Calculate(in Input) model.Score {
	var signals []model.Signal
	p := in.predictor()

	// 1. Training consistency (0-60 points)
	trainScore, trainConfusion, trainSignal := s.calculateTraining(in.Training, p)
	signals = append(signals, trainSignal)

	// 2. Held-out accuracy (0-30 points)
	testScore, testConfusion, testSignal := s.calculateHeldOut(in.Test, p)
	signals = append(signals, testSignal)

	// 3. Simplicity or agreement (0-10 points)
	var shapeScore int
	var shapeSignal model.Signal
	if in.Space != nil {
		shapeScore, shapeSignal = s.calculateAgreement(in.Space, in.Test)
	} else {
		shapeScore, shapeSignal = s.calculateComplexity(in.Hypothesis)
	}
	signals = append(signals, shapeSignal)

	// 4. Empty version space
	empty := in.Space != nil && in.Space.Empty()
	if empty {
		signals = append(signals, model.Signal{
			Type:        model.SignalEmptyVersionSpace,
			Severity:    model.SeverityCritical,
			Description: "No hypothesis in the enumerated space fits every training example",
			Data: map[string]interface{}{
				"training_examples": len(in.Training),
				"explanation":       "An empty version space predicts false for every example",
			},
		})
	}

	// 5. Seed rewritten
	if in.Space == nil && len(in.Seed) > 0 && !in.Seed.Equal(in.Hypothesis) {
		signals = append(signals, model.Signal{
			Type:        model.SignalSeedRewritten,
			Severity:    model.SeverityInfo,
			Description: "The seed hypothesis was refined during search",
			Data: map[string]interface{}{
				"seed":       in.Seed.String(),
				"hypothesis": in.Hypothesis.String(),
			},
		})
	}

	total := trainScore + testScore + shapeScore
	if empty {
		total = 0
	}

	confusion := trainConfusion
	if len(in.Test) > 0 {
		confusion = testConfusion
	}

	return model.Score{
		Index:      total,
		Confidence: s.determineConfidence(total, len(in.Training)+len(in.Test), empty),
		Confusion:  confusion,
		Signals:    signals,
	}
}

// Confuse counts predictions of p against the labels
func Confuse(examples []model.Example, p model.Predictor) model.Confusion {
	var c model.Confusion
	for _, e := range examples {
		guess := p != nil && p.Predict(e)
		switch {
		case guess && e.Goal:
			c.TruePositive++
		case !guess && !e.Goal:
			c.TrueNegative++
		case guess:
			c.FalsePositive++
		default:
			c.FalseNegative++
		}
	}
	return c
}

// Accuracy is the fraction of correct predictions; 0 for no examples
func Accuracy(c model.Confusion) float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.TruePositive+c.TrueNegative) / float64(c.Total())
}

// calculateTraining scores fit on the training examples (0-60 points)
func (s *Scorer) calculateTraining(examples []model.Example, p model.Predictor) (int, model.Confusion, model.Signal) {
	c := Confuse(examples, p)
	if c.Total() == 0 {
		return 0, c, model.Signal{
			Type:        model.SignalTrainingConsistency,
			Severity:    model.SeverityCritical,
			Description: "No training examples",
			Data:        map[string]interface{}{"examples": 0},
		}
	}

	acc := Accuracy(c)
	score := int(acc * 60)

	severity := model.SeverityInfo
	if acc < 1.0 {
		severity = model.SeverityCritical
	}

	data := map[string]interface{}{
		"examples":       c.Total(),
		"false_positive": c.FalsePositive,
		"false_negative": c.FalseNegative,
		"accuracy":       acc,
		"score":          score,
		"formula":        "training_accuracy * 60",
	}
	if h, ok := p.(model.Hypothesis); ok && acc < 1.0 {
		idx, outcome := consistency.FirstInconsistent(examples, h)
		data["first_inconsistent"] = idx
		data["first_outcome"] = outcome.String()
	}

	return score, c, model.Signal{
		Type:        model.SignalTrainingConsistency,
		Severity:    severity,
		Description: fmt.Sprintf("Training fit: %d/%d examples (%.0f%%)", c.TruePositive+c.TrueNegative, c.Total(), acc*100),
		Data:        data,
	}
}

// calculateHeldOut scores accuracy on the test examples (0-30 points)
func (s *Scorer) calculateHeldOut(examples []model.Example, p model.Predictor) (int, model.Confusion, model.Signal) {
	c := Confuse(examples, p)
	if c.Total() == 0 {
		return 15, c, model.Signal{
			Type:        model.SignalHeldOutAccuracy,
			Severity:    model.SeverityInfo,
			Description: "No held-out examples (assuming moderate)",
			Data:        map[string]interface{}{"examples": 0, "score": 15},
		}
	}

	acc := Accuracy(c)
	score := int(acc * 30)

	severity := model.SeverityInfo
	if acc < 0.5 {
		severity = model.SeverityCritical
	} else if acc < 0.8 {
		severity = model.SeverityWarning
	}

	return score, c, model.Signal{
		Type:        model.SignalHeldOutAccuracy,
		Severity:    severity,
		Description: fmt.Sprintf("Held-out accuracy: %d/%d (%.0f%%)", c.TruePositive+c.TrueNegative, c.Total(), acc*100),
		Data: map[string]interface{}{
			"examples": c.Total(),
			"tp":       c.TruePositive,
			"tn":       c.TrueNegative,
			"fp":       c.FalsePositive,
			"fn":       c.FalseNegative,
			"accuracy": acc,
			"score":    score,
			"formula":  "test_accuracy * 30",
		},
	}
}

// calculateComplexity rewards short hypotheses (0-10 points)
func (s *Scorer) calculateComplexity(h model.Hypothesis) (int, model.Signal) {
	literals := h.Literals()
	score := 10 - literals
	if score < 0 {
		score = 0
	}

	severity := model.SeverityInfo
	if len(h) > 3 || literals > 8 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalHypothesisComplexity,
		Severity:    severity,
		Description: fmt.Sprintf("Hypothesis size: %d disjuncts, %d literals", len(h), literals),
		Data: map[string]interface{}{
			"disjuncts": len(h),
			"literals":  literals,
			"score":     score,
			"formula":   "max(10 - literals, 0)",
		},
	}
}

// calculateAgreement rewards a version space whose members agree on the
// held-out examples (0-10 points)
func (s *Scorer) calculateAgreement(vs *model.VersionSpace, test []model.Example) (int, model.Signal) {
	if vs.Len() <= 1 {
		return 10, model.Signal{
			Type:        model.SignalAmbiguousVersionSpace,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("Version space has %d member(s); no disagreement possible", vs.Len()),
			Data:        map[string]interface{}{"size": vs.Len(), "score": 10},
		}
	}
	if len(test) == 0 {
		return 5, model.Signal{
			Type:        model.SignalAmbiguousVersionSpace,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("Version space has %d members; no held-out examples to measure agreement (assuming moderate)", vs.Len()),
			Data:        map[string]interface{}{"size": vs.Len(), "score": 5},
		}
	}

	unanimous := 0
	for _, e := range test {
		yes, no := vs.Agreement(e)
		if yes == 0 || no == 0 {
			unanimous++
		}
	}
	ratio := float64(unanimous) / float64(len(test))
	score := int(ratio * 10)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalAmbiguousVersionSpace,
		Severity:    severity,
		Description: fmt.Sprintf("Members agree on %d/%d held-out examples", unanimous, len(test)),
		Data: map[string]interface{}{
			"size":      vs.Len(),
			"unanimous": unanimous,
			"total":     len(test),
			"ratio":     ratio,
			"score":     score,
			"formula":   "(unanimous_examples / test_examples) * 10",
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, examples int, empty bool) string {
	if empty || examples < 3 {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	} else {
		return "low"
	}
}
