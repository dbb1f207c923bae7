package speech

import (
	"context"

	speechmodel "github.com/raghujhts13/sunoji-hackathon/internal/model/speech"
)

// Transcriber turns complete-utterance audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResponse, error)
}

// Synthesizer voices response text with per-turn voice parameters.
type Synthesizer interface {
	Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResponse, error)
}

// Service bundles the two provider clients behind one object for the
// handlers and the turn pipeline.
type Service struct {
	transcriber Transcriber
	synthesizer Synthesizer
}

// NewService wires the configured provider clients.
func NewService(cfg speechmodel.Config) *Service {
	return &Service{
		transcriber: NewGoogleSTTClient(cfg),
		synthesizer: NewElevenLabsClient(cfg),
	}
}

// NewServiceWith allows injecting provider fakes in tests.
func NewServiceWith(transcriber Transcriber, synthesizer Synthesizer) *Service {
	return &Service{transcriber: transcriber, synthesizer: synthesizer}
}

// Transcribe delegates to the transcription provider.
func (s *Service) Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResponse, error) {
	return s.transcriber.Transcribe(ctx, req)
}

// Synthesize delegates to the synthesis provider.
func (s *Service) Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResponse, error) {
	return s.synthesizer.Synthesize(ctx, req)
}
