package safety

import (
	"regexp"
	"strconv"
	"strings"
)

// Category classifies harmful content that triggers a safety response.
type Category string

const (
	None           Category = "none"
	SuicideSelfHarm Category = "suicide_self_harm"
	SelfHarm       Category = "self_harm"
	Discrimination Category = "discrimination"
	Abuse          Category = "abuse"
	Violence       Category = "violence"
	SubstanceAbuse Category = "substance_abuse"
	GeneralHarmful Category = "general_harmful"
)

// Categories lists every harm category except None.
func Categories() []Category {
	return []Category{SuicideSelfHarm, SelfHarm, Discrimination, Abuse, Violence, SubstanceAbuse, GeneralHarmful}
}

// Match holds the outcome of pattern matching over a single utterance.
type Match struct {
	Category   Category
	Confidence float64
	RuleIDs    []string
}

// categoryPriority weights severity for tie-breaking when several
// categories match the same input. Weights are distinct on purpose.
var categoryPriority = map[Category]float64{
	SuicideSelfHarm: 1.0,
	SelfHarm:        0.95,
	Violence:        0.9,
	Abuse:           0.85,
	Discrimination:  0.8,
	SubstanceAbuse:  0.75,
	GeneralHarmful:  0.6,
}

// harmPatterns catches explicit harmful content. The rule set is
// configuration data, not a completeness guarantee.
var harmPatterns = map[Category][]string{
	SuicideSelfHarm: {
		`\b(want to |wanna |going to |gonna )?(kill myself|end my life|end it all|commit suicide)\b`,
		`\b(suicidal|suicide)\b`,
		`\b(don'?t want to live|don'?t want to be alive|wish i was dead|better off dead)\b`,
		`\b(take my (own )?life|taking my (own )?life)\b`,
		`\b(no reason to live|nothing to live for)\b`,
	},
	SelfHarm: {
		`\b(cut myself|cutting myself|hurt myself|hurting myself)\b`,
		`\b(self[- ]?harm|self[- ]?injury)\b`,
		`\b(burn myself|burning myself|starve myself|starving myself)\b`,
	},
	Discrimination: {
		`\b(hate|kill|eliminate|destroy) (all )?(blacks?|whites?|jews?|muslims?|christians?|hindus?|gays?|lesbians?|trans)\b`,
		`\b(racial slurs detected by context)\b`, // placeholder, actual slurs not included
		`\b(those people deserve|they all deserve) (to die|death|suffering)\b`,
	},
	Abuse: {
		`\b(being abused|someone (is )?abusing me|hit me|hits me|beats me)\b`,
		`\b(domestic (violence|abuse)|physical abuse|emotional abuse|sexual abuse)\b`,
		`\b(my (partner|spouse|husband|wife|boyfriend|girlfriend) (hits|beats|hurts) me)\b`,
		`\b(i('m| am) (being|getting) abused)\b`,
	},
	Violence: {
		`\b(want to |wanna |going to |gonna )?(kill|murder|hurt|attack|shoot|stab) (someone|people|them|him|her|everybody|everyone)\b`,
		`\b(bring a (gun|weapon|knife) to)\b`,
		`\b(planning (to|a) (attack|shooting|violence))\b`,
	},
	SubstanceAbuse: {
		`\b(addicted to|addiction to) (drugs?|alcohol|heroin|cocaine|meth|pills?|opioids?)\b`,
		`\b(can'?t stop (using|drinking|taking))\b`,
		`\b(overdose|od'?d|od'?ing)\b`,
	},
}

type rule struct {
	id       string
	category Category
	re       *regexp.Regexp
}

// Matcher evaluates text against the harm pattern taxonomy. The rule
// set is immutable after construction, so a Matcher is safe for
// concurrent use.
type Matcher struct {
	rules []rule
}

// NewMatcher compiles the built-in rule table. Rules that fail to
// compile are skipped rather than treated as fatal.
func NewMatcher() *Matcher {
	m := &Matcher{}
	for _, category := range Categories() {
		for i, pattern := range harmPatterns[category] {
			re, err := regexp.Compile(pattern)
			if err != nil {
				continue
			}
			m.rules = append(m.rules, rule{
				id:       string(category) + "." + strconv.Itoa(i),
				category: category,
				re:       re,
			})
		}
	}
	return m
}

// Priority returns the severity weight for a category, or zero when
// the category carries no weight.
func Priority(category Category) float64 {
	return categoryPriority[category]
}

// Match evaluates the text against every rule and reports the
// highest-priority matching category. Empty or whitespace-only input
// collapses to the None/1.0 sentinel.
func (m *Matcher) Match(text string) Match {
	if strings.TrimSpace(text) == "" {
		return Match{Category: None, Confidence: 1.0}
	}

	lowered := strings.ToLower(text)
	detected := None
	highest := 0.0
	var ruleIDs []string

	for _, r := range m.rules {
		if !r.re.MatchString(lowered) {
			continue
		}
		ruleIDs = append(ruleIDs, r.id)
		if p := categoryPriority[r.category]; p > highest {
			highest = p
			detected = r.category
		}
	}

	if detected == None {
		return Match{Category: None, Confidence: 1.0}
	}
	return Match{Category: detected, Confidence: highest, RuleIDs: ruleIDs}
}
