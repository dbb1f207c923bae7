package persona

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store exposes persona CRUD for handlers and the turn pipeline.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
	Default() Persona
	Create(params CreateParams) Persona
	Update(id string, params UpdateParams) (Persona, bool)
	Delete(id string) bool
}

// CreateParams carries the caller-settable fields for a new persona.
// Zero values for the voice settings fall back to documented defaults.
type CreateParams struct {
	Name                string   `json:"name"`
	BasePrompt          string   `json:"base_prompt"`
	VoiceID             string   `json:"voice_id"`
	BaseStability       *float64 `json:"base_stability"`
	BaseSimilarityBoost *float64 `json:"base_similarity_boost"`
	BaseStyle           *float64 `json:"base_style"`
}

// UpdateParams carries optional field updates. Identity and the
// default flag cannot be changed after creation.
type UpdateParams struct {
	Name                *string  `json:"name"`
	BasePrompt          *string  `json:"base_prompt"`
	VoiceID             *string  `json:"voice_id"`
	BaseStability       *float64 `json:"base_stability"`
	BaseSimilarityBoost *float64 `json:"base_similarity_boost"`
	BaseStyle           *float64 `json:"base_style"`
}

// MemoryStore implements Store with a mutex-guarded map. It maintains
// the invariant that exactly one persona is marked default: deleting
// the last persona re-seeds the built-in default atomically.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Persona
	order []string
}

// NewMemoryStore returns a store seeded with the default persona.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{items: make(map[string]Persona)}
	s.seedDefaultLocked()
	return s
}

func (s *MemoryStore) seedDefaultLocked() {
	def := DefaultPersona()
	s.items[def.ID] = def
	s.order = append(s.order, def.ID)
}

// List returns all personas in insertion order.
func (s *MemoryStore) List() []Persona {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Persona, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.items[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	return p, ok
}

// Default returns the default persona, re-seeding it if the invariant
// was somehow lost.
func (s *MemoryStore) Default() Persona {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.items {
		if p.IsDefault {
			return p
		}
	}
	s.seedDefaultLocked()
	return s.items[DefaultPersona().ID]
}

// Create adds a new, non-default persona with a generated id.
func (s *MemoryStore) Create(params CreateParams) Persona {
	p := Persona{
		ID:                  uuid.NewString(),
		Name:                params.Name,
		BasePrompt:          params.BasePrompt,
		VoiceID:             params.VoiceID,
		BaseStability:       0.5,
		BaseSimilarityBoost: 0.75,
		BaseStyle:           0.0,
		IsDefault:           false,
		CreatedAt:           time.Now().UTC(),
	}
	if p.VoiceID == "" {
		p.VoiceID = DefaultVoiceID
	}
	if params.BaseStability != nil {
		p.BaseStability = *params.BaseStability
	}
	if params.BaseSimilarityBoost != nil {
		p.BaseSimilarityBoost = *params.BaseSimilarityBoost
	}
	if params.BaseStyle != nil {
		p.BaseStyle = *params.BaseStyle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

// Update mutates an existing persona in place. Returns false when the
// persona does not exist.
func (s *MemoryStore) Update(id string, params UpdateParams) (Persona, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok {
		return Persona{}, false
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.BasePrompt != nil {
		p.BasePrompt = *params.BasePrompt
	}
	if params.VoiceID != nil {
		p.VoiceID = *params.VoiceID
	}
	if params.BaseStability != nil {
		p.BaseStability = *params.BaseStability
	}
	if params.BaseSimilarityBoost != nil {
		p.BaseSimilarityBoost = *params.BaseSimilarityBoost
	}
	if params.BaseStyle != nil {
		p.BaseStyle = *params.BaseStyle
	}
	s.items[id] = p
	return p, true
}

// Delete removes a persona. Any persona, the default included, may be
// deleted; removing the last one re-seeds the default in the same
// critical section.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if len(s.items) == 0 {
		s.seedDefaultLocked()
	}
	return true
}
