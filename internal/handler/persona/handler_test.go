package persona

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
)

func newTestRouter() (chi.Router, persona.Store) {
	store := persona.NewMemoryStore()
	r := chi.NewRouter()
	New(store).RegisterRoutes(r)
	return r, store
}

func TestListPersonasSeedsDefault(t *testing.T) {
	r, _ := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/personas", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []persona.Persona
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || !got[0].IsDefault {
		t.Fatalf("expected single default persona, got %+v", got)
	}
}

func TestCreateAndGetPersona(t *testing.T) {
	r, _ := newTestRouter()

	body := bytes.NewBufferString(`{"name":"Calm Coach","base_prompt":"You are calm.","voice_id":"v-123"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/personas", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created persona.Persona
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Name != "Calm Coach" {
		t.Fatalf("unexpected created persona %+v", created)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/personas/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestCreatePersonaRequiresName(t *testing.T) {
	r, _ := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/personas", bytes.NewBufferString(`{"voice_id":"v-1"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUpdatePersona(t *testing.T) {
	r, store := newTestRouter()
	created := store.Create(persona.CreateParams{Name: "Old Name"})

	body := bytes.NewBufferString(`{"name":"New Name"}`)
	req := httptest.NewRequest(http.MethodPut, "/personas/"+created.ID, body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated persona.Persona
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "New Name" || updated.ID != created.ID {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestUpdateUnknownPersona(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/personas/ghost", bytes.NewBufferString(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeletePersona(t *testing.T) {
	r, store := newTestRouter()
	created := store.Create(persona.CreateParams{Name: "Temp"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/personas/"+created.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := store.FindByID(created.ID); ok {
		t.Fatal("persona still present after delete")
	}
}

func TestDeleteUnknownPersona(t *testing.T) {
	r, _ := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/personas/ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
