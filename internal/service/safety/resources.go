package safety

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	analysis "github.com/raghujhts13/sunoji-hackathon/internal/analysis/safety"
)

// Helpline describes a single crisis contact.
type Helpline struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description,omitempty"`
}

// Resources bundles the contact channels for one resource bucket.
type Resources struct {
	Helplines []Helpline `json:"helplines"`
	Websites  []string   `json:"websites"`
	Emails    []string   `json:"emails"`
}

type resourceDocument struct {
	CrisisResources    map[string]Resources `json:"crisis_resources"`
	SupportiveMessages map[string]string    `json:"supportive_messages"`
}

// Several categories share a resource bucket: both self-harm variants
// resolve to the suicide bucket, violence and substance abuse to the
// general one.
var resourceBucket = map[analysis.Category]string{
	analysis.SuicideSelfHarm: "suicide_self_harm",
	analysis.SelfHarm:        "suicide_self_harm",
	analysis.Abuse:           "abuse",
	analysis.Violence:        "general_support",
	analysis.SubstanceAbuse:  "general_support",
}

const fallbackSupportiveMessage = "I'm here for you. Whatever you're going through, there are people who care."

// Catalog maps harm categories to supportive messages and crisis
// contacts, loaded from a JSON document with a built-in fallback.
type Catalog struct {
	path string

	mu  sync.RWMutex
	doc resourceDocument
}

// NewCatalog loads the document at path. A missing or malformed file
// is logged and replaced with the minimal built-in table; construction
// never fails.
func NewCatalog(path string) *Catalog {
	c := &Catalog{path: path}
	c.load()
	return c
}

// Reload re-reads the document from disk without restarting.
func (c *Catalog) Reload() {
	c.load()
}

func (c *Catalog) load() {
	doc, err := readResourceDocument(c.path)
	if err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("crisis resources unavailable, using built-in fallback")
		doc = defaultResourceDocument()
	}

	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
}

func readResourceDocument(path string) (resourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resourceDocument{}, err
	}
	var doc resourceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return resourceDocument{}, err
	}
	return doc, nil
}

func defaultResourceDocument() resourceDocument {
	return resourceDocument{
		CrisisResources: map[string]Resources{
			"suicide_self_harm": {
				Helplines: []Helpline{{Name: "Crisis Line", Phone: "988", Description: "24/7 support"}},
				Websites:  []string{},
				Emails:    []string{},
			},
		},
		SupportiveMessages: map[string]string{
			"suicide_self_harm": "I hear you, and I care about your wellbeing. Please reach out to a crisis helpline for support.",
			"general_harmful":   "I'm here for you. Let's focus on finding positive ways forward together.",
		},
	}
}

// SupportiveMessage returns the warm response text for a category,
// falling back to the general message and finally a fixed literal.
func (c *Catalog) SupportiveMessage(category analysis.Category) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if msg, ok := c.doc.SupportiveMessages[string(category)]; ok && msg != "" {
		return msg
	}
	if msg, ok := c.doc.SupportiveMessages[string(analysis.GeneralHarmful)]; ok && msg != "" {
		return msg
	}
	return fallbackSupportiveMessage
}

// CrisisResources returns the contact bucket for a category. Unmapped
// categories resolve to general support.
func (c *Catalog) CrisisResources(category analysis.Category) Resources {
	bucket, ok := resourceBucket[category]
	if !ok {
		bucket = "general_support"
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if res, ok := c.doc.CrisisResources[bucket]; ok {
		return res
	}
	return Resources{Helplines: []Helpline{}, Websites: []string{}, Emails: []string{}}
}
