package safety

import "testing"

func TestMatchSuicidePhrase(t *testing.T) {
	m := NewMatcher()
	match := m.Match("I want to kill myself")
	if match.Category != SuicideSelfHarm {
		t.Fatalf("expected suicide_self_harm, got %s", match.Category)
	}
	if match.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", match.Confidence)
	}
	if len(match.RuleIDs) == 0 {
		t.Fatal("expected matched rule ids")
	}
}

func TestMatchSafeText(t *testing.T) {
	m := NewMatcher()
	for _, text := range []string{"I feel happy today!", "How are you doing today?"} {
		match := m.Match(text)
		if match.Category != None {
			t.Fatalf("expected none for %q, got %s", text, match.Category)
		}
		if match.Confidence != 1.0 {
			t.Fatalf("expected confidence 1.0 for safe text, got %f", match.Confidence)
		}
	}
}

func TestMatchEmptyInput(t *testing.T) {
	m := NewMatcher()
	for _, text := range []string{"", "   ", "\n\t"} {
		match := m.Match(text)
		if match.Category != None || match.Confidence != 1.0 || len(match.RuleIDs) != 0 {
			t.Fatalf("expected none/1.0 sentinel for %q, got %+v", text, match)
		}
	}
}

func TestMatchPriorityOrdering(t *testing.T) {
	m := NewMatcher()
	// Matches both a self_harm rule and a substance_abuse rule;
	// the higher-priority category must win.
	match := m.Match("I keep hurting myself and I am addicted to drugs")
	if match.Category != SelfHarm {
		t.Fatalf("expected self_harm to outrank substance_abuse, got %s", match.Category)
	}
	if len(match.RuleIDs) < 2 {
		t.Fatalf("expected matches from both categories, got %v", match.RuleIDs)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	m := NewMatcher()
	match := m.Match("MY HUSBAND BEATS ME")
	if match.Category != Abuse {
		t.Fatalf("expected abuse, got %s", match.Category)
	}
}

func TestPriorityTableIsExhaustiveAndDistinct(t *testing.T) {
	seen := make(map[float64]Category)
	for _, category := range Categories() {
		weight := Priority(category)
		if weight <= 0 || weight > 1 {
			t.Fatalf("category %s has weight %f outside (0,1]", category, weight)
		}
		if prev, ok := seen[weight]; ok {
			t.Fatalf("categories %s and %s share weight %f", prev, category, weight)
		}
		seen[weight] = category
	}
	if Priority(None) != 0 {
		t.Fatalf("none must carry no weight, got %f", Priority(None))
	}
}

func TestEveryCategoryWithRulesHasPriority(t *testing.T) {
	for category := range harmPatterns {
		if Priority(category) == 0 {
			t.Fatalf("category %s has rules but no priority weight", category)
		}
	}
}
