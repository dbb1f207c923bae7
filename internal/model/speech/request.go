package speech

// ASRRequest asks the transcription provider to turn audio into text.
type ASRRequest struct {
	SessionID string `json:"session_id"`
	AudioData []byte `json:"-"`
	Format    string `json:"format"`   // wav, mp3, webm
	Language  string `json:"language"` // en-US, etc.
}

// TTSRequest asks the synthesis provider to voice a piece of text.
// VoiceParameters are derived per turn and never stored.
type TTSRequest struct {
	SessionID string          `json:"session_id"`
	Text      string          `json:"text"`
	VoiceID   string          `json:"voice_id"`
	Params    VoiceParameters `json:"voice_parameters"`
	Format    string          `json:"format"` // mp3, wav
}

// VoiceParameters are the continuous synthesis settings derived from a
// persona's baseline and the detected tone/intent.
type VoiceParameters struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}
