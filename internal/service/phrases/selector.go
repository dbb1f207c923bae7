package phrases

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/raghujhts13/sunoji-hackathon/internal/service/analysis"
)

// Selection reports the chosen phrase and which stage produced it.
type Selection struct {
	Phrase string `json:"phrase"`
	Source Source `json:"source"`
}

// Source identifies the selection stage.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// lastResortPhrase is returned when the catalog is completely empty.
const lastResortPhrase = "I hear you"

// Selector picks a short acknowledgment phrase for a turn. The
// primary stage asks the generative backend to choose from the
// catalog; any invalid or failed answer falls through to the
// deterministic (tone, intent) table.
type Selector struct {
	catalog *Catalog
	enabled bool
	chain   compose.Runnable[map[string]any, *schema.Message]

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector compiles the selection chain over the given catalog. A
// nil chat model yields a selector that always uses the deterministic
// fallback.
func NewSelector(ctx context.Context, chatModel model.ChatModel, catalog *Catalog) (*Selector, error) {
	s := &Selector{
		catalog: catalog,
		enabled: chatModel != nil,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if !s.enabled {
		return s, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(selectorSystemPrompt),
		schema.UserMessage(selectorUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile phrase selector chain: %w", err)
	}

	s.chain = runnable
	return s, nil
}

// Enabled reports whether the model-driven stage is available.
func (s *Selector) Enabled() bool {
	return s != nil && s.enabled && s.chain != nil
}

// Select returns a non-empty acknowledgment phrase. It never fails:
// every error path lands in the deterministic fallback.
func (s *Selector) Select(ctx context.Context, transcript string, tone analysis.Tone, intent analysis.Intent) Selection {
	if s.Enabled() {
		if phrase, ok := s.selectViaModel(ctx, transcript, tone, intent); ok {
			return Selection{Phrase: phrase, Source: SourceModel}
		}
	}
	return Selection{Phrase: s.selectFallback(tone, intent), Source: SourceFallback}
}

func (s *Selector) selectViaModel(ctx context.Context, transcript string, tone analysis.Tone, intent analysis.Intent) (string, bool) {
	all := s.catalog.All()
	if len(all) == 0 {
		return "", false
	}

	msg, err := s.chain.Invoke(ctx, map[string]any{
		"phrases":    strings.Join(all, "\n"),
		"transcript": transcript,
		"tone":       string(tone),
		"intent":     string(intent),
	})
	if err != nil {
		log.Debug().Err(err).Msg("phrase selection call failed, using fallback")
		return "", false
	}
	if msg == nil {
		return "", false
	}

	candidate := strings.TrimSpace(msg.Content)
	if !s.catalog.Contains(candidate) {
		log.Debug().Str("candidate", candidate).Msg("model answer not in catalog, using fallback")
		return "", false
	}
	return candidate, true
}

// selectFallback maps (tone, intent) to an ordered category set and
// picks uniformly at random across the union of their phrases.
func (s *Selector) selectFallback(tone analysis.Tone, intent analysis.Intent) string {
	categories := fallbackCategories(tone, intent)

	var available []string
	for _, category := range categories {
		available = append(available, s.catalog.Phrases(category)...)
	}

	if len(available) == 0 {
		available = s.catalog.Phrases(ActiveListening)
	}
	if len(available) == 0 {
		return lastResortPhrase
	}
	return available[s.intn(len(available))]
}

func fallbackCategories(tone analysis.Tone, intent analysis.Intent) []string {
	switch {
	case tone == analysis.ToneFrustrated || intent == analysis.IntentVenting:
		return []string{ActiveListening, ValidatingResponses, ThoughtfulPauses}
	case tone == analysis.ToneHappy:
		return []string{PositiveAcknowledgments, ExcitedCelebratory}
	case tone == analysis.ToneSad:
		return []string{ActiveListening, ValidatingResponses, ThoughtfulPauses}
	case tone == analysis.ToneAnxious:
		return []string{ActiveListening, ValidatingResponses, ThoughtfulPauses}
	case tone == analysis.ToneExcited:
		return []string{PositiveAcknowledgments, ExcitedCelebratory}
	case intent == analysis.IntentQuestion:
		return []string{NeutralAcknowledgments, ReflectiveAcknowledgments}
	case intent == analysis.IntentCasualChat:
		return []string{ActiveListening, NeutralAcknowledgments, EncouragingContinuation}
	case intent == analysis.IntentSeekingAdvice:
		return []string{ReflectiveAcknowledgments, NeutralAcknowledgments, ValidatingResponses}
	default:
		return []string{ActiveListening, NeutralAcknowledgments}
	}
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

const selectorSystemPrompt = "You pick short spoken acknowledgments for an active-listening voice companion. " +
	"You will be given the full list of allowed phrases plus the user's transcript, tone, and intent. " +
	"Answer with exactly one phrase copied verbatim from the list. No quotes, no punctuation of your own, no explanation."

const selectorUserPrompt = "Allowed phrases:\n{phrases}\n\nTranscript: {transcript}\nTone: {tone}\nIntent: {intent}\n\nChoose one phrase."
