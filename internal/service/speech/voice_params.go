package speech

import (
	"math"

	"github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
	speechmodel "github.com/raghujhts13/sunoji-hackathon/internal/model/speech"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/analysis"
)

// toneDelta adjusts stability and style relative to the persona's
// baseline. Expressive tones trade stability for style, heavier tones
// do the opposite.
type toneDelta struct {
	stability float64
	style     float64
}

var toneDeltas = map[analysis.Tone]toneDelta{
	analysis.ToneHappy:      {stability: -0.10, style: 0.10},
	analysis.ToneSad:        {stability: 0.10, style: -0.05},
	analysis.ToneFrustrated: {stability: 0.05, style: -0.05},
	analysis.ToneNeutral:    {stability: 0, style: 0},
	analysis.ToneAnxious:    {stability: 0.15, style: -0.10},
	analysis.ToneExcited:    {stability: -0.15, style: 0.15},
}

const (
	stabilityMin = 0.1
	stabilityMax = 0.9
	styleMin     = 0.0
	styleMax     = 0.5
)

// ToneDeltaFor exposes the delta table for exhaustiveness checks.
func ToneDeltaFor(tone analysis.Tone) (dStability, dStyle float64, ok bool) {
	d, ok := toneDeltas[tone]
	return d.stability, d.style, ok
}

// Modulate derives synthesis parameters from the persona's baseline
// and the detected tone/intent. Pure and deterministic: no I/O, same
// inputs always yield the same output.
func Modulate(p persona.Persona, a analysis.Analysis) speechmodel.VoiceParameters {
	delta := toneDeltas[a.Tone]

	stability := clamp(p.BaseStability+delta.stability, stabilityMin, stabilityMax)
	style := clamp(p.BaseStyle+delta.style, styleMin, styleMax)

	switch a.Intent {
	case analysis.IntentVenting:
		stability = math.Min(stability+0.05, stabilityMax)
	case analysis.IntentQuestion:
		// Raise to the floor, never lower.
		stability = math.Max(stability, 0.5)
	}

	return speechmodel.VoiceParameters{
		Stability:       round2(stability),
		SimilarityBoost: round2(p.BaseSimilarityBoost),
		Style:           round2(style),
	}
}

// SafetyVoiceParameters returns the fixed calm profile used for every
// safety-gate response. This is a deliberate override of Modulate, not
// a special case of it: the safety voice must not drift when the tone
// table changes.
func SafetyVoiceParameters() speechmodel.VoiceParameters {
	return speechmodel.VoiceParameters{
		Stability:       0.7,
		SimilarityBoost: 0.75,
		Style:           0.1,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
