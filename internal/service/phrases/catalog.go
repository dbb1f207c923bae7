package phrases

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Phrase category keys, one per labeled section of the catalog asset.
const (
	ActiveListening         = "active_listening"
	NeutralAcknowledgments  = "neutral_acknowledgments"
	ValidatingResponses     = "validating_responses"
	PositiveAcknowledgments = "positive_acknowledgments"
	ExcitedCelebratory      = "excited_celebratory"
	ThoughtfulPauses        = "thoughtful_pauses"
	EncouragingContinuation = "encouraging_continuation"
	ReflectiveAcknowledgments = "reflective_acknowledgments"
	EmpatheticSounds        = "empathetic_sounds"
)

// CategoryNames lists every phrase category in catalog order.
func CategoryNames() []string {
	return []string{
		ActiveListening,
		NeutralAcknowledgments,
		ValidatingResponses,
		PositiveAcknowledgments,
		ExcitedCelebratory,
		ThoughtfulPauses,
		EncouragingContinuation,
		ReflectiveAcknowledgments,
		EmpatheticSounds,
	}
}

// sectionHeaders maps the literal section headers of the asset to
// category keys.
var sectionHeaders = map[string]string{
	"Category 1: Active Listening Signals":   ActiveListening,
	"Category 2: Neutral Acknowledgments":    NeutralAcknowledgments,
	"Category 3: Validating Responses":       ValidatingResponses,
	"Category 4: Positive Acknowledgments":   PositiveAcknowledgments,
	"Category 5: Excited/Celebratory":        ExcitedCelebratory,
	"Category 6: Thoughtful Pauses":          ThoughtfulPauses,
	"Category 7: Encouraging Continuation":   EncouragingContinuation,
	"Category 8: Reflective Acknowledgments": ReflectiveAcknowledgments,
	"Category 9: Empathetic Sounds":          EmpatheticSounds,
}

// instructionalPrefixes mark guideline lines embedded in the asset
// that must not become phrases.
var instructionalPrefixes = []string{
	"Category",
	"Use these",
	"Non-committal",
	"Gentle validation",
	"For when",
	"For genuinely",
	"When user",
	"Gentle prompts",
	"Showing you're",
	"Emotional acknowledgment",
}

// usageGuidelinesMarker ends the phrase sections of the asset.
const usageGuidelinesMarker = "Usage Guidelines"

// Catalog holds the acknowledgment phrases, parsed once at startup
// and reloadable on demand. Reads are lock-protected so a reload can
// happen while turns are in flight.
type Catalog struct {
	path string

	mu     sync.RWMutex
	phrase map[string][]string
}

// NewCatalog parses the asset at path. A missing file is logged and
// leaves every category empty; the selector's last-resort literal
// keeps the system responsive regardless.
func NewCatalog(path string) *Catalog {
	c := &Catalog{path: path}
	c.Reload()
	return c
}

// Reload re-parses the asset from disk.
func (c *Catalog) Reload() {
	parsed, err := parseCatalogFile(c.path)
	if err != nil {
		log.Error().Err(err).Str("path", c.path).Msg("phrase catalog unavailable")
		parsed = emptyCategories()
	}

	total := 0
	for _, list := range parsed {
		total += len(list)
	}
	log.Info().Int("phrases", total).Str("path", c.path).Msg("phrase catalog loaded")

	c.mu.Lock()
	c.phrase = parsed
	c.mu.Unlock()
}

func emptyCategories() map[string][]string {
	out := make(map[string][]string, len(CategoryNames()))
	for _, name := range CategoryNames() {
		out[name] = nil
	}
	return out
}

func parseCatalogFile(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed := emptyCategories()
	current := ""

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, usageGuidelinesMarker) {
			break
		}

		if key, ok := matchSectionHeader(line); ok {
			current = key
			continue
		}

		if current == "" || line == "" || isInstructional(line) {
			continue
		}
		parsed[current] = append(parsed[current], line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func matchSectionHeader(line string) (string, bool) {
	for header, key := range sectionHeaders {
		if strings.HasPrefix(line, header) {
			return key, true
		}
	}
	return "", false
}

func isInstructional(line string) bool {
	for _, prefix := range instructionalPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// Phrases returns the phrase list for one category.
func (c *Catalog) Phrases(category string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.phrase[category]...)
}

// All returns every phrase across every category, in catalog order.
func (c *Catalog) All() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	for _, name := range CategoryNames() {
		out = append(out, c.phrase[name]...)
	}
	return out
}

// Contains reports whether the trimmed candidate is an exact catalog
// entry.
func (c *Catalog) Contains(candidate string) bool {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, list := range c.phrase {
		for _, phrase := range list {
			if phrase == trimmed {
				return true
			}
		}
	}
	return false
}
