package speech

import "time"

// ASRResponse carries the transcription result.
type ASRResponse struct {
	SessionID  string    `json:"session_id"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TTSResponse carries the synthesized audio.
type TTSResponse struct {
	SessionID string    `json:"session_id"`
	AudioData []byte    `json:"-"`
	Format    string    `json:"format"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
