package safety

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	analysis "github.com/raghujhts13/sunoji-hackathon/internal/analysis/safety"
)

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	return NewChecker(analysis.NewMatcher(), NewCatalog(filepath.Join("missing", "nowhere.json")))
}

func TestEvaluateHarmfulInput(t *testing.T) {
	checker := newTestChecker(t)

	verdict := checker.Evaluate("I want to kill myself")
	if !verdict.IsHarmful {
		t.Fatal("expected harmful verdict")
	}
	if verdict.Category != analysis.SuicideSelfHarm {
		t.Fatalf("expected suicide_self_harm, got %s", verdict.Category)
	}
	if !verdict.RequiresCrisisResources {
		t.Fatal("suicide category must require crisis resources")
	}
}

func TestEvaluateSafeInput(t *testing.T) {
	checker := newTestChecker(t)

	verdict := checker.Evaluate("the weather is lovely today")
	if verdict.IsHarmful || verdict.Category != analysis.None {
		t.Fatalf("expected safe verdict, got %+v", verdict)
	}
	if verdict.RequiresCrisisResources {
		t.Fatal("safe verdict must not require crisis resources")
	}
}

func TestHarmfulMatchesCategoryInvariant(t *testing.T) {
	checker := newTestChecker(t)
	cases := []string{
		"",
		"hello there",
		"I want to kill myself",
		"my husband beats me",
		"I am addicted to drugs and can't stop using",
		"I want to kill everyone",
	}
	for _, text := range cases {
		verdict := checker.Evaluate(text)
		if verdict.IsHarmful != (verdict.Category != analysis.None) {
			t.Fatalf("is_harmful/category invariant violated for %q: %+v", text, verdict)
		}
	}
}

func TestCrisisCategorySet(t *testing.T) {
	checker := newTestChecker(t)

	crisis := map[string]analysis.Category{
		"I keep cutting myself":   analysis.SelfHarm,
		"someone is abusing me":   analysis.Abuse,
		"I want to hurt someone":  analysis.Violence,
	}
	for text, want := range crisis {
		verdict := checker.Evaluate(text)
		if verdict.Category != want {
			t.Fatalf("text %q: expected %s, got %s", text, want, verdict.Category)
		}
		if !verdict.RequiresCrisisResources {
			t.Fatalf("category %s must require crisis resources", want)
		}
	}

	verdict := checker.Evaluate("I am addicted to alcohol")
	if verdict.Category != analysis.SubstanceAbuse {
		t.Fatalf("expected substance_abuse, got %s", verdict.Category)
	}
	if verdict.RequiresCrisisResources {
		t.Fatal("substance_abuse must not require crisis resources")
	}
}

func TestRespondAppendsPrimaryHelpline(t *testing.T) {
	checker := newTestChecker(t)

	response := checker.Respond(analysis.SuicideSelfHarm)
	if !strings.Contains(response, "988") {
		t.Fatalf("expected primary helpline number in response, got %q", response)
	}
}

func TestRespondNonCrisisOmitsHelpline(t *testing.T) {
	checker := newTestChecker(t)

	response := checker.Respond(analysis.SubstanceAbuse)
	if response == "" {
		t.Fatal("expected a supportive message")
	}
	if strings.Contains(response, "reach out to") && strings.Contains(response, "988") {
		t.Fatalf("non-crisis category should not carry helpline text: %q", response)
	}
}

func TestRespondFromConfiguredCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resources.json")
	doc := `{
	  "crisis_resources": {
	    "abuse": {"helplines": [{"name": "Abuse Line", "phone": "1-800-000"}], "websites": [], "emails": []}
	  },
	  "supportive_messages": {
	    "abuse": "custom abuse message",
	    "general_harmful": "custom general message"
	  }
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write resources: %v", err)
	}

	checker := NewChecker(analysis.NewMatcher(), NewCatalog(path))
	response := checker.Respond(analysis.Abuse)
	if !strings.HasPrefix(response, "custom abuse message") {
		t.Fatalf("expected configured message, got %q", response)
	}
	if !strings.Contains(response, "Abuse Line") {
		t.Fatalf("expected configured helpline, got %q", response)
	}
}
