package induct_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/induct/pkg/induct"
)

func party() []induct.Example {
	return []induct.Example{
		induct.NewExample(map[string]string{"Pizza": "Yes", "Soda": "No"}, true),
		induct.NewExample(map[string]string{"Pizza": "Yes", "Soda": "Yes"}, true),
		induct.NewExample(map[string]string{"Pizza": "No", "Soda": "No"}, false),
	}
}

func TestCurrentBestLearning(t *testing.T) {
	h, err := induct.CurrentBestLearning(party(), nil)
	require.NoError(t, err)

	want, err := induct.ParseHypothesis("Pizza=Yes")
	require.NoError(t, err)
	assert.True(t, h.Equal(want), "got %s", h)

	for _, e := range party() {
		assert.Equal(t, e.Goal, induct.GuessExampleValue(e, h), "example %s", e)
	}
}

func TestCurrentBestLearning_Seeded(t *testing.T) {
	examples, seed, err := induct.Builtin("animals")
	require.NoError(t, err)
	require.NotEmpty(t, seed)

	h, err := induct.CurrentBestLearning(examples, seed)
	require.NoError(t, err)
	for _, e := range examples {
		assert.Equal(t, e.Goal, induct.GuessExampleValue(e, h), "example %s", e)
	}
}

func TestVersionSpaceLearning(t *testing.T) {
	vs, err := induct.VersionSpaceLearning(party())
	require.NoError(t, err)
	require.False(t, vs.Empty())

	for _, h := range vs.Hypotheses() {
		for _, e := range party() {
			require.Equal(t, e.Goal, h.Predict(e), "%s on %s", h, e)
		}
	}

	unseen := induct.NewExample(map[string]string{"Pizza": "No", "Soda": "Yes"}, false)
	assert.True(t, induct.GuessExampleValue(unseen, vs))
}

func TestVersionSpaceLearning_Contradiction(t *testing.T) {
	examples := append(party(), induct.NewExample(map[string]string{"Pizza": "No", "Soda": "No"}, true))
	vs, err := induct.VersionSpaceLearning(examples)
	require.NoError(t, err)
	assert.True(t, vs.Empty())
	assert.False(t, induct.GuessExampleValue(examples[0], vs))
}

func TestVersionSpaceLearning_TooLarge(t *testing.T) {
	examples, _, err := induct.Builtin("animals")
	require.NoError(t, err)

	_, err = induct.VersionSpaceLearning(examples)
	assert.True(t, errors.Is(err, induct.ErrSpaceTooLarge), "got %v", err)
}

func TestParseHypothesis(t *testing.T) {
	h, err := induct.ParseHypothesis("Pizza=Yes | Soda!=No")
	require.NoError(t, err)
	assert.Len(t, h, 2)

	yes := induct.NewExample(map[string]string{"Pizza": "No", "Soda": "Yes"}, true)
	assert.True(t, induct.GuessExampleValue(yes, h))
	assert.False(t, induct.GuessExampleValue(yes, nil))
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"animals", "party"}, induct.Builtins())

	_, _, err := induct.Builtin("nope")
	assert.Error(t, err)
}

func TestLearningWritesNoLogs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := induct.CurrentBestLearning(party(), nil)
	require.NoError(t, err)
	_, err = induct.VersionSpaceLearning(party())
	require.NoError(t, err)

	contradiction := append(party(), induct.NewExample(map[string]string{"Pizza": "No", "Soda": "No"}, true))
	_, err = induct.CurrentBestLearning(contradiction, nil)
	require.ErrorIs(t, err, induct.ErrNoConsistentRefinement)

	animals, _, err := induct.Builtin("animals")
	require.NoError(t, err)
	_, err = induct.VersionSpaceLearning(animals)
	require.ErrorIs(t, err, induct.ErrSpaceTooLarge)

	assert.Empty(t, buf.String())
}
