package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	companionhandler "github.com/raghujhts13/sunoji-hackathon/internal/handler/companion"
	personahandler "github.com/raghujhts13/sunoji-hackathon/internal/handler/persona"
	speechhandler "github.com/raghujhts13/sunoji-hackathon/internal/handler/speech"
	middlewarePkg "github.com/raghujhts13/sunoji-hackathon/internal/middleware"
	personaModel "github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/fun"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/phrases"
	safetysvc "github.com/raghujhts13/sunoji-hackathon/internal/service/safety"
	"github.com/raghujhts13/sunoji-hackathon/internal/service/weather"
	"github.com/raghujhts13/sunoji-hackathon/pkg/utils"
)

// Deps carries the services the router exposes. Turns and Speech may
// be nil when the speech providers are not configured; their routes
// degrade instead of panicking.
type Deps struct {
	Personas personaModel.Store
	Turns    companionhandler.TurnRunner
	Speech   speechhandler.SpeechService
	Safety   *safetysvc.Checker
	Phrases  *phrases.Catalog
	Weather  *weather.Service
	Fun      *fun.Service
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/health", handleHealth)

	r.Route("/api", func(api chi.Router) {
		personahandler.New(deps.Personas).RegisterRoutes(api)

		if deps.Turns != nil {
			companionhandler.New(deps.Turns).RegisterRoutes(api)
		} else {
			api.Post("/chat", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "voice pipeline unavailable")
			})
		}

		if deps.Speech != nil {
			speechhandler.New(deps.Speech, deps.Turns).RegisterRoutes(api)
		}

		if deps.Safety != nil {
			api.Post("/safety/check", handleSafetyCheck(deps.Safety))
		}

		if deps.Fun != nil {
			api.Get("/joke", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondJSON(w, http.StatusOK, map[string]string{"joke": deps.Fun.Joke()})
			})
			api.Get("/quote", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondJSON(w, http.StatusOK, map[string]string{"quote": deps.Fun.Quote()})
			})
		}

		if deps.Weather != nil {
			api.Get("/weather", handleWeather(deps.Weather))
		}

		api.Post("/admin/reload", handleReload(deps.Safety, deps.Phrases))
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleSafetyCheck(checker *safetysvc.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		utils.RespondJSON(w, http.StatusOK, checker.Evaluate(req.Text))
	}
}

// handleWeather accepts either a free-text place or lat/lon pair.
func handleWeather(svc *weather.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if latStr, lonStr := q.Get("lat"), q.Get("lon"); latStr != "" && lonStr != "" {
			lat, latErr := strconv.ParseFloat(latStr, 64)
			lon, lonErr := strconv.ParseFloat(lonStr, 64)
			if latErr != nil || lonErr != nil {
				utils.RespondError(w, http.StatusBadRequest, "lat and lon must be numbers")
				return
			}
			report, err := svc.CurrentAt(r.Context(), lat, lon)
			if err != nil {
				log.Warn().Err(err).Msg("weather lookup failed")
				utils.RespondError(w, http.StatusBadGateway, "weather lookup failed")
				return
			}
			utils.RespondJSON(w, http.StatusOK, report)
			return
		}

		place := q.Get("place")
		if place == "" {
			utils.RespondError(w, http.StatusBadRequest, "place or lat/lon query parameters are required")
			return
		}
		report, err := svc.Current(r.Context(), place)
		if err != nil {
			log.Warn().Err(err).Str("place", place).Msg("weather lookup failed")
			utils.RespondError(w, http.StatusBadGateway, "weather lookup failed")
			return
		}
		utils.RespondJSON(w, http.StatusOK, report)
	}
}

// handleReload re-reads the crisis resource and phrase catalog files
// so text edits take effect without a restart.
func handleReload(checker *safetysvc.Checker, phraseCatalog *phrases.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if checker != nil {
			checker.Reload()
		}
		if phraseCatalog != nil {
			phraseCatalog.Reload()
		}
		log.Info().Msg("catalogs reloaded")
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
	}
}
