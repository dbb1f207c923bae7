package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
)

// Intent is the conversational purpose of an utterance.
type Intent string

const (
	IntentVenting       Intent = "venting"
	IntentSeekingAdvice Intent = "seeking_advice"
	IntentCasualChat    Intent = "casual_chat"
	IntentQuestion      Intent = "question"
)

// Tone is the emotional state of an utterance.
type Tone string

const (
	ToneHappy      Tone = "happy"
	ToneSad        Tone = "sad"
	ToneFrustrated Tone = "frustrated"
	ToneNeutral    Tone = "neutral"
	ToneAnxious    Tone = "anxious"
	ToneExcited    Tone = "excited"
)

// Intents lists the closed intent set.
func Intents() []Intent {
	return []Intent{IntentVenting, IntentSeekingAdvice, IntentCasualChat, IntentQuestion}
}

// Tones lists the closed tone set.
func Tones() []Tone {
	return []Tone{ToneHappy, ToneSad, ToneFrustrated, ToneNeutral, ToneAnxious, ToneExcited}
}

// Analysis is the classified view of a single transcript. Intent and
// tone are always members of their closed sets; out-of-set backend
// values are coerced before construction.
type Analysis struct {
	Transcript string  `json:"transcript"`
	Intent     Intent  `json:"intent"`
	Tone       Tone    `json:"tone"`
	Confidence float64 `json:"confidence"`
}

// AnalysisError reports a genuine infrastructure failure of the
// classification call. A malformed but received response is not an
// error; it degrades to the neutral default instead.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("tone/intent classification failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Classifier wraps the generative backend with strict output
// validation and a neutral-default fallback.
type Classifier struct {
	enabled bool
	chain   compose.Runnable[map[string]any, *schema.Message]
}

// NewClassifier compiles the classification chain. A nil chat model
// yields a disabled classifier that always answers with the neutral
// default.
func NewClassifier(ctx context.Context, chatModel model.ChatModel) (*Classifier, error) {
	c := &Classifier{enabled: chatModel != nil}
	if !c.enabled {
		return c, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile classifier chain: %w", err)
	}

	c.chain = runnable
	return c, nil
}

// Enabled reports whether the backend is wired up.
func (c *Classifier) Enabled() bool {
	return c != nil && c.enabled && c.chain != nil
}

// Classify analyzes the transcript. The returned analysis is always
// usable: any parse or validation problem degrades to the neutral
// default with a lowered confidence. The error is non-nil only for an
// infrastructure failure of the call itself, and even then the
// analysis carries the documented default.
func (c *Classifier) Classify(ctx context.Context, transcript string) (Analysis, error) {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return neutralAnalysis(transcript, 0.0), nil
	}

	if !c.Enabled() {
		return neutralAnalysis(transcript, 0.5), nil
	}

	msg, err := c.chain.Invoke(ctx, map[string]any{"transcript": trimmed})
	if err != nil {
		return neutralAnalysis(transcript, 0.5), &AnalysisError{Err: err}
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return neutralAnalysis(transcript, 0.3), nil
	}

	payload, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Debug().Err(err).Msg("classifier output unparseable, using neutral default")
		return neutralAnalysis(transcript, 0.3), nil
	}

	analysis := Analysis{
		Transcript: transcript,
		Intent:     coerceIntent(payload.Intent),
		Tone:       coerceTone(payload.Tone),
		Confidence: clampConfidence(payload.Confidence),
	}
	return analysis, nil
}

func neutralAnalysis(transcript string, confidence float64) Analysis {
	return Analysis{
		Transcript: transcript,
		Intent:     IntentCasualChat,
		Tone:       ToneNeutral,
		Confidence: confidence,
	}
}

type classifierPayload struct {
	Intent     string  `json:"intent"`
	Tone       string  `json:"tone"`
	Confidence float64 `json:"confidence"`
}

// parseClassifierOutput tolerates formatting noise around the JSON
// object the backend was asked to emit.
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func coerceIntent(raw string) Intent {
	normalized := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, intent := range Intents() {
		if normalized == intent {
			return intent
		}
	}
	return IntentCasualChat
}

func coerceTone(raw string) Tone {
	normalized := Tone(strings.ToLower(strings.TrimSpace(raw)))
	for _, tone := range Tones() {
		if normalized == tone {
			return tone
		}
	}
	return ToneNeutral
}

func clampConfidence(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}

const classifierSystemPrompt = "You are an analyst of conversational tone and intent. Read the user's transcript and classify it.\n" +
	"Output requirements: return exactly one JSON object with these fields: " +
	"intent (one of venting/seeking_advice/casual_chat/question), " +
	"tone (one of happy/sad/frustrated/neutral/anxious/excited), " +
	"confidence (a number between 0 and 1). Output nothing else."

const classifierUserPrompt = "Transcript:\n{transcript}\n\nReturn the JSON object."
