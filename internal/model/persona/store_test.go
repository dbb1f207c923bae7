package persona

import (
	"sync"
	"testing"
)

func TestNewStoreSeedsSingleDefault(t *testing.T) {
	store := NewMemoryStore()
	personas := store.List()
	if len(personas) != 1 {
		t.Fatalf("expected one seeded persona, got %d", len(personas))
	}
	if !personas[0].IsDefault {
		t.Fatal("seeded persona should be the default")
	}
	if personas[0].Name != "Cheerful" {
		t.Fatalf("unexpected default persona name %q", personas[0].Name)
	}
}

func TestCreateThenFetchRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	stability := 0.6
	style := 0.3
	created := store.Create(CreateParams{
		Name:          "Calm",
		BasePrompt:    "You are a calm companion.",
		BaseStability: &stability,
		BaseStyle:     &style,
	})

	fetched, ok := store.FindByID(created.ID)
	if !ok {
		t.Fatal("created persona not found")
	}
	if fetched != created {
		t.Fatalf("round trip mismatch: %+v vs %+v", fetched, created)
	}
	// Server-assigned defaults.
	if fetched.VoiceID != DefaultVoiceID {
		t.Fatalf("expected default voice id, got %q", fetched.VoiceID)
	}
	if fetched.BaseSimilarityBoost != 0.75 {
		t.Fatalf("expected default similarity boost, got %f", fetched.BaseSimilarityBoost)
	}
	if fetched.IsDefault {
		t.Fatal("created personas must not be default")
	}
}

func TestUpdateCannotChangeIdentityOrDefault(t *testing.T) {
	store := NewMemoryStore()
	def := store.Default()

	name := "Renamed"
	updated, ok := store.Update(def.ID, UpdateParams{Name: &name})
	if !ok {
		t.Fatal("update of existing persona failed")
	}
	if updated.ID != def.ID || !updated.IsDefault {
		t.Fatalf("identity or default flag changed: %+v", updated)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name not updated, got %q", updated.Name)
	}
}

func TestUpdateMissingPersona(t *testing.T) {
	store := NewMemoryStore()
	if _, ok := store.Update("nope", UpdateParams{}); ok {
		t.Fatal("expected update of unknown persona to fail")
	}
}

func TestDeleteAllReseedsDefault(t *testing.T) {
	store := NewMemoryStore()
	extra := store.Create(CreateParams{Name: "Extra", BasePrompt: "p"})

	for _, p := range store.List() {
		if !store.Delete(p.ID) {
			t.Fatalf("delete of %s failed", p.ID)
		}
	}
	_ = extra

	personas := store.List()
	if len(personas) != 1 {
		t.Fatalf("expected re-seeded default, got %d personas", len(personas))
	}
	if !personas[0].IsDefault {
		t.Fatal("re-seeded persona should be default")
	}

	defaults := 0
	for _, p := range store.List() {
		if p.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestDeleteUnknownPersona(t *testing.T) {
	store := NewMemoryStore()
	if store.Delete("missing") {
		t.Fatal("expected delete of unknown persona to return false")
	}
}

func TestConcurrentCreateAndDelete(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := store.Create(CreateParams{Name: "c", BasePrompt: "p"})
			store.Delete(p.ID)
		}()
	}
	wg.Wait()

	defaults := 0
	for _, p := range store.List() {
		if p.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default after churn, got %d", defaults)
	}
}
