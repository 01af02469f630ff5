package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionSpaceSetSemantics(t *testing.T) {
	a := MustConjunction(Is("Pizza", "Yes"))
	b := MustConjunction(Is("Soda", "Yes"))

	vs := NewVersionSpace(Hypothesis{a, b}, Hypothesis{b, a}, Hypothesis{a})
	assert.Equal(t, 2, vs.Len())
	assert.True(t, vs.Contains(Hypothesis{b, a}))
	assert.False(t, vs.Add(Hypothesis{a}))

	other := NewVersionSpace(Hypothesis{a}, Hypothesis{a, b})
	assert.True(t, vs.Equal(other))
	assert.True(t, other.Equal(vs))
	assert.False(t, vs.Equal(NewVersionSpace(Hypothesis{a})))
}

func TestEmptyVersionSpacePredictsFalse(t *testing.T) {
	e := NewExample(map[string]string{"Pizza": "Yes"}, true)

	empty := NewVersionSpace()
	assert.True(t, empty.Empty())
	assert.False(t, empty.Predict(e))

	var nilSpace *VersionSpace
	assert.True(t, nilSpace.Empty())
	assert.False(t, nilSpace.Predict(e))
	assert.True(t, nilSpace.Equal(empty))
}

func TestVersionSpaceAgreement(t *testing.T) {
	e := NewExample(map[string]string{"Pizza": "Yes", "Soda": "No"}, true)
	vs := NewVersionSpace(
		Hypothesis{MustConjunction(Is("Pizza", "Yes"))},
		Hypothesis{MustConjunction(Is("Soda", "Yes"))},
		Hypothesis{MustConjunction(Not("Soda", "Yes"))},
	)
	yes, no := vs.Agreement(e)
	assert.Equal(t, 2, yes)
	assert.Equal(t, 1, no)
	assert.True(t, vs.Predict(e))
}

func TestVersionSpaceJSON(t *testing.T) {
	data, err := json.Marshal(NewVersionSpace())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = json.Marshal(NewVersionSpace(Hypothesis{MustConjunction(Not("Soda", "No"))}))
	require.NoError(t, err)
	assert.JSONEq(t, `[[[{"attribute":"Soda","value":"No","negated":true}]]]`, string(data))
}
