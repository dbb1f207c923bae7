package persona

import "time"

// DefaultVoiceID is the warm female "Rachel" voice used when a persona
// does not pick one explicitly.
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// Persona bundles a base prompt with baseline voice-synthesis settings.
type Persona struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	BasePrompt          string    `json:"base_prompt"`
	VoiceID             string    `json:"voice_id"`
	BaseStability       float64   `json:"base_stability"`
	BaseSimilarityBoost float64   `json:"base_similarity_boost"`
	BaseStyle           float64   `json:"base_style"`
	IsDefault           bool      `json:"is_default"`
	CreatedAt           time.Time `json:"created_at"`
}

const cheerfulPrompt = `You are a cheerful and uplifting AI companion. Your personality is:
- Warm, friendly, and enthusiastic
- Always looking for the positive side of things
- Encouraging and supportive
- Using upbeat language and occasional exclamations
- Responding with energy and genuine interest

When the user shares something:
- Celebrate their wins, no matter how small
- Offer encouragement during challenges
- Keep responses concise but heartfelt
- Use a conversational, friendly tone`

// DefaultPersona returns the seeded "Cheerful" persona. Stability sits
// slightly below the midpoint for a more expressive delivery.
func DefaultPersona() Persona {
	return Persona{
		ID:                  "default-cheerful",
		Name:                "Cheerful",
		BasePrompt:          cheerfulPrompt,
		VoiceID:             DefaultVoiceID,
		BaseStability:       0.4,
		BaseSimilarityBoost: 0.75,
		BaseStyle:           0.2,
		IsDefault:           true,
		CreatedAt:           time.Now().UTC(),
	}
}
