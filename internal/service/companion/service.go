package companion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	harmrules "github.com/raghujhts13/sunoji-hackathon/internal/analysis/safety"
	"github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
	speechmodel "github.com/raghujhts13/sunoji-hackathon/internal/model/speech"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/analysis"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/phrases"
	safetysvc "github.com/raghujhts13/sunoji-hackathon/internal/service/safety"
	speechsvc "github.com/raghujhts13/sunoji-hackathon/internal/service/speech"
	"github.com/raghujhts13/sunoji-hackathon/internal/timeutil"
)

// SafetyGate decides whether a transcript needs the protective response
// path instead of the conversational one.
type SafetyGate interface {
	Evaluate(text string) safetysvc.Verdict
	Respond(category harmrules.Category) string
}

// Classifier labels a transcript with tone and intent.
type Classifier interface {
	Classify(ctx context.Context, transcript string) (analysis.Analysis, error)
}

// PhraseSelector picks the spoken response for a safe turn.
type PhraseSelector interface {
	Select(ctx context.Context, transcript string, tone analysis.Tone, intent analysis.Intent) phrases.Selection
}

// Speech covers the two provider calls the pipeline makes.
type Speech interface {
	Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResponse, error)
	Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResponse, error)
}

// TurnInput is one complete user utterance plus session context.
type TurnInput struct {
	SessionID        string
	Audio            []byte
	Format           string
	PersonaID        string
	FirstInteraction bool
	Timezone         string
}

// TurnResult is everything a client needs to play and display one
// assistant turn.
type TurnResult struct {
	SessionID        string                      `json:"session_id"`
	Transcript       string                      `json:"transcript"`
	ResponseText     string                      `json:"response_text"`
	Audio            []byte                      `json:"-"`
	AudioFormat      string                      `json:"audio_format"`
	Intent           analysis.Intent             `json:"intent,omitempty"`
	Tone             analysis.Tone               `json:"tone,omitempty"`
	Confidence       float64                     `json:"confidence"`
	IsSafetyResponse bool                        `json:"is_safety_response"`
	SafetyCategory   harmrules.Category          `json:"safety_category,omitempty"`
	PhraseSource     phrases.Source              `json:"phrase_source,omitempty"`
	VoiceParams      speechmodel.VoiceParameters `json:"voice_params"`
}

// ErrEmptyAudio is the pipeline's only hard input failure. Every
// downstream stage degrades instead of failing the turn.
var ErrEmptyAudio = errors.New("audio data is empty")

// Service runs the full voice turn: transcribe, safety gate, classify,
// select a phrase, modulate the voice, synthesize.
type Service struct {
	personas   persona.Store
	gate       SafetyGate
	classifier Classifier
	selector   PhraseSelector
	speech     Speech
	ttsFormat  string
}

func NewService(personas persona.Store, gate SafetyGate, classifier Classifier, selector PhraseSelector, speech Speech, ttsFormat string) *Service {
	if ttsFormat == "" {
		ttsFormat = "mp3"
	}
	return &Service{
		personas:   personas,
		gate:       gate,
		classifier: classifier,
		selector:   selector,
		speech:     speech,
		ttsFormat:  ttsFormat,
	}
}

// ProcessTurn drives one utterance through the whole pipeline. The
// safety gate runs on every transcript before any persona, classifier,
// or phrase logic; a harmful verdict short-circuits into the supportive
// response with the fixed calm voice profile.
func (s *Service) ProcessTurn(ctx context.Context, input TurnInput) (*TurnResult, error) {
	if len(input.Audio) == 0 {
		return nil, ErrEmptyAudio
	}

	start := time.Now()
	asr, err := s.speech.Transcribe(ctx, &speechmodel.ASRRequest{
		SessionID: input.SessionID,
		AudioData: input.Audio,
		Format:    input.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	verdict := s.gate.Evaluate(asr.Text)
	if verdict.IsHarmful {
		return s.safetyTurn(ctx, input, asr.Text, verdict, start)
	}

	active := s.activePersona(input.PersonaID)

	result, err := s.classifier.Classify(ctx, asr.Text)
	if err != nil {
		var ae *analysis.AnalysisError
		if errors.As(err, &ae) {
			log.Warn().Err(ae).Str("session_id", input.SessionID).Msg("classifier unavailable, continuing with neutral analysis")
		} else {
			log.Warn().Err(err).Str("session_id", input.SessionID).Msg("classification error, continuing with neutral analysis")
		}
	}

	selection := s.selector.Select(ctx, asr.Text, result.Tone, result.Intent)
	responseText := selection.Phrase
	if input.FirstInteraction {
		responseText = timeutil.Greeting(timeutil.Now(input.Timezone)) + " " + responseText
	}

	params := speechsvc.Modulate(active, result)
	audio, err := s.synthesize(ctx, input.SessionID, responseText, active.VoiceID, params)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", input.SessionID).
		Str("persona_id", active.ID).
		Str("intent", string(result.Intent)).
		Str("tone", string(result.Tone)).
		Str("phrase_source", string(selection.Source)).
		Dur("elapsed", time.Since(start)).
		Msg("turn complete")

	return &TurnResult{
		SessionID:    input.SessionID,
		Transcript:   asr.Text,
		ResponseText: responseText,
		Audio:        audio,
		AudioFormat:  s.ttsFormat,
		Intent:       result.Intent,
		Tone:         result.Tone,
		Confidence:   result.Confidence,
		PhraseSource: selection.Source,
		VoiceParams:  params,
	}, nil
}

// safetyTurn voices the supportive response. The persona is ignored on
// purpose: both the text and the voice profile are fixed so that no
// persona configuration can soften or restyle a protective reply.
func (s *Service) safetyTurn(ctx context.Context, input TurnInput, transcript string, verdict safetysvc.Verdict, start time.Time) (*TurnResult, error) {
	responseText := s.gate.Respond(verdict.Category)
	params := speechsvc.SafetyVoiceParameters()

	audio, err := s.synthesize(ctx, input.SessionID, responseText, persona.DefaultVoiceID, params)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", input.SessionID).
		Str("category", string(verdict.Category)).
		Bool("crisis_resources", verdict.RequiresCrisisResources).
		Dur("elapsed", time.Since(start)).
		Msg("safety turn complete")

	return &TurnResult{
		SessionID:        input.SessionID,
		Transcript:       transcript,
		ResponseText:     responseText,
		Audio:            audio,
		AudioFormat:      s.ttsFormat,
		Confidence:       verdict.Confidence,
		IsSafetyResponse: true,
		SafetyCategory:   verdict.Category,
		VoiceParams:      params,
	}, nil
}

func (s *Service) synthesize(ctx context.Context, sessionID, text, voiceID string, params speechmodel.VoiceParameters) ([]byte, error) {
	tts, err := s.speech.Synthesize(ctx, &speechmodel.TTSRequest{
		SessionID: sessionID,
		Text:      text,
		VoiceID:   voiceID,
		Params:    params,
		Format:    s.ttsFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	return tts.AudioData, nil
}

// activePersona resolves the requested persona, falling back to the
// default when the id is blank or unknown.
func (s *Service) activePersona(id string) persona.Persona {
	if id != "" {
		if p, ok := s.personas.FindByID(id); ok {
			return p
		}
		log.Warn().Str("persona_id", id).Msg("unknown persona, using default")
	}
	return s.personas.Default()
}
