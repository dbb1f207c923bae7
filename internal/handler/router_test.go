package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	harmrules "github.com/raghujhts13/sunoji-hackathon/internal/analysis/safety"
	personaModel "github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/fun"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/phrases"
	safetysvc "github.com/raghujhts13/sunoji-hackathon/internal/service/safety"
)

func newTestDeps() Deps {
	return Deps{
		Personas: personaModel.NewMemoryStore(),
		Safety:   safetysvc.NewChecker(harmrules.NewMatcher(), safetysvc.NewCatalog("missing.json")),
		Phrases:  phrases.NewCatalog("missing.txt"),
		Fun:      fun.NewService(),
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(newTestDeps())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatUnavailableWithoutPipeline(t *testing.T) {
	router := NewRouter(newTestDeps())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSafetyCheckEndpoint(t *testing.T) {
	router := NewRouter(newTestDeps())

	body := bytes.NewBufferString(`{"text":"I want to kill myself"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/safety/check", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var verdict safetysvc.Verdict
	if err := json.Unmarshal(rec.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !verdict.IsHarmful || verdict.Category != harmrules.SuicideSelfHarm {
		t.Fatalf("unexpected verdict %+v", verdict)
	}
}

func TestJokeAndQuoteEndpoints(t *testing.T) {
	router := NewRouter(newTestDeps())

	for _, path := range []string{"/api/joke", "/api/quote"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		var payload map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s decode: %v", path, err)
		}
		if len(payload) != 1 {
			t.Fatalf("%s unexpected payload %v", path, payload)
		}
	}
}

func TestReloadEndpoint(t *testing.T) {
	router := NewRouter(newTestDeps())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(newTestDeps())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/personas", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}
