package safety

import (
	"fmt"

	analysis "github.com/raghujhts13/sunoji-hackathon/internal/analysis/safety"
)

// Verdict is the per-turn safety decision. It is constructed fresh for
// every input and never persisted.
type Verdict struct {
	IsHarmful               bool              `json:"is_harmful"`
	Category                analysis.Category `json:"category"`
	Confidence              float64           `json:"confidence"`
	RequiresCrisisResources bool              `json:"requires_crisis_resources"`
	MatchedRuleIDs          []string          `json:"matched_rule_ids"`
}

// crisisCategories require crisis contact information in the response.
var crisisCategories = map[analysis.Category]bool{
	analysis.SuicideSelfHarm: true,
	analysis.SelfHarm:        true,
	analysis.Abuse:           true,
	analysis.Violence:        true,
}

// Checker composes the pattern matcher and resource catalog into the
// content-safety gate. It deliberately knows nothing about personas:
// no configuration path can alter its outcome.
type Checker struct {
	matcher *analysis.Matcher
	catalog *Catalog
}

// NewChecker builds the gate around a compiled matcher and a loaded
// resource catalog.
func NewChecker(matcher *analysis.Matcher, catalog *Catalog) *Checker {
	return &Checker{matcher: matcher, catalog: catalog}
}

// Evaluate runs pattern matching over the text and derives the
// verdict. Pattern matching cannot fail; there is no error path.
func (c *Checker) Evaluate(text string) Verdict {
	match := c.matcher.Match(text)
	harmful := match.Category != analysis.None
	return Verdict{
		IsHarmful:               harmful,
		Category:                match.Category,
		Confidence:              match.Confidence,
		RequiresCrisisResources: crisisCategories[match.Category],
		MatchedRuleIDs:          match.RuleIDs,
	}
}

// Respond returns the supportive message for a category, with the
// primary helpline appended when the category calls for crisis
// resources and at least one helpline is configured.
func (c *Checker) Respond(category analysis.Category) string {
	message := c.catalog.SupportiveMessage(category)

	if !crisisCategories[category] {
		return message
	}

	resources := c.catalog.CrisisResources(category)
	if len(resources.Helplines) == 0 {
		return message
	}

	primary := resources.Helplines[0]
	suffix := fmt.Sprintf("\n\nYou can reach out to %s at %s.", primary.Name, primary.Phone)
	if primary.Description != "" {
		suffix += " " + primary.Description
	}
	return message + suffix
}

// Reload re-reads the resource catalog from disk.
func (c *Checker) Reload() {
	c.catalog.Reload()
}
