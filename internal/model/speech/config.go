package speech

// Config holds provider credentials and defaults for the speech layer.
type Config struct {
	// ElevenLabs text-to-speech.
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	TTSModel          string
	TTSFormat         string

	// Google Cloud speech-to-text (REST, API-key based).
	GoogleSpeechAPIKey  string
	GoogleSpeechBaseURL string
	ASRLanguage         string
	ASRSampleRateHertz  int

	TimeoutSeconds int
}
