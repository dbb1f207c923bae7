package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/analysis"
)

func basePersona() persona.Persona {
	return persona.Persona{
		ID:                  "p1",
		Name:                "Test",
		BaseStability:       0.5,
		BaseSimilarityBoost: 0.75,
		BaseStyle:           0.2,
	}
}

func TestModulateIsDeterministic(t *testing.T) {
	p := basePersona()
	a := analysis.Analysis{Tone: analysis.ToneExcited, Intent: analysis.IntentVenting}

	first := Modulate(p, a)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Modulate(p, a))
	}
}

func TestModulateBoundsForAllCombinations(t *testing.T) {
	personas := []persona.Persona{
		basePersona(),
		{BaseStability: 0.0, BaseSimilarityBoost: 1.0, BaseStyle: 1.0},
		{BaseStability: 1.0, BaseSimilarityBoost: 0.0, BaseStyle: 0.0},
	}
	for _, p := range personas {
		for _, tone := range analysis.Tones() {
			for _, intent := range analysis.Intents() {
				params := Modulate(p, analysis.Analysis{Tone: tone, Intent: intent})
				assert.GreaterOrEqual(t, params.Stability, 0.1, "tone=%s intent=%s", tone, intent)
				assert.LessOrEqual(t, params.Stability, 0.9, "tone=%s intent=%s", tone, intent)
				assert.GreaterOrEqual(t, params.Style, 0.0, "tone=%s intent=%s", tone, intent)
				assert.LessOrEqual(t, params.Style, 0.5, "tone=%s intent=%s", tone, intent)
			}
		}
	}
}

func TestModulateToneDeltas(t *testing.T) {
	p := basePersona()

	excited := Modulate(p, analysis.Analysis{Tone: analysis.ToneExcited, Intent: analysis.IntentCasualChat})
	assert.Equal(t, 0.35, excited.Stability)
	assert.Equal(t, 0.35, excited.Style)

	anxious := Modulate(p, analysis.Analysis{Tone: analysis.ToneAnxious, Intent: analysis.IntentCasualChat})
	assert.Equal(t, 0.65, anxious.Stability)
	assert.Equal(t, 0.1, anxious.Style)

	neutral := Modulate(p, analysis.Analysis{Tone: analysis.ToneNeutral, Intent: analysis.IntentCasualChat})
	assert.Equal(t, p.BaseStability, neutral.Stability)
	assert.Equal(t, p.BaseStyle, neutral.Style)
}

func TestModulateIntentFloors(t *testing.T) {
	p := basePersona()

	venting := Modulate(p, analysis.Analysis{Tone: analysis.ToneNeutral, Intent: analysis.IntentVenting})
	assert.Equal(t, 0.55, venting.Stability)

	// Venting on an already-high stability caps at 0.9.
	high := basePersona()
	high.BaseStability = 0.88
	capped := Modulate(high, analysis.Analysis{Tone: analysis.ToneNeutral, Intent: analysis.IntentVenting})
	assert.Equal(t, 0.9, capped.Stability)

	// Question raises stability to at least 0.5 but never lowers it.
	low := basePersona()
	low.BaseStability = 0.2
	raised := Modulate(low, analysis.Analysis{Tone: analysis.ToneNeutral, Intent: analysis.IntentQuestion})
	assert.Equal(t, 0.5, raised.Stability)

	alreadyHigh := basePersona()
	alreadyHigh.BaseStability = 0.8
	kept := Modulate(alreadyHigh, analysis.Analysis{Tone: analysis.ToneNeutral, Intent: analysis.IntentQuestion})
	assert.Equal(t, 0.8, kept.Stability)
}

func TestModulateSimilarityBoostPassthrough(t *testing.T) {
	p := basePersona()
	p.BaseSimilarityBoost = 0.42

	for _, tone := range analysis.Tones() {
		params := Modulate(p, analysis.Analysis{Tone: tone, Intent: analysis.IntentCasualChat})
		assert.Equal(t, 0.42, params.SimilarityBoost)
	}
}

func TestSafetyVoiceParametersFixed(t *testing.T) {
	params := SafetyVoiceParameters()
	require.Equal(t, 0.7, params.Stability)
	require.Equal(t, 0.75, params.SimilarityBoost)
	require.Equal(t, 0.1, params.Style)

	// The calm profile must not depend on any persona input: calling
	// Modulate with extreme personas can never influence it.
	wild := persona.Persona{BaseStability: 1.0, BaseSimilarityBoost: 0.0, BaseStyle: 1.0}
	_ = Modulate(wild, analysis.Analysis{Tone: analysis.ToneExcited, Intent: analysis.IntentVenting})
	assert.Equal(t, params, SafetyVoiceParameters())
}

func TestToneDeltaTableIsExhaustive(t *testing.T) {
	for _, tone := range analysis.Tones() {
		_, _, ok := ToneDeltaFor(tone)
		require.True(t, ok, "tone %s missing from delta table", tone)
	}
	_, _, ok := ToneDeltaFor(analysis.Tone("bogus"))
	assert.False(t, ok)
}
