package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	speechmodel "github.com/raghujhts13/sunoji-hackathon/internal/model/speech"
	companionsvc "github.com/raghujhts13/sunoji-hackathon/internal/service/companion"
	"github.com/raghujhts13/sunoji-hackathon/pkg/utils"
)

// SpeechService abstracts the provider calls so handlers can be tested
// against fakes.
type SpeechService interface {
	Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResponse, error)
	Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResponse, error)
}

// TurnRunner drives the realtime websocket conversation.
type TurnRunner interface {
	ProcessTurn(ctx context.Context, input companionsvc.TurnInput) (*companionsvc.TurnResult, error)
}

// Handler exposes the raw provider endpoints plus the realtime
// websocket loop.
type Handler struct {
	speechSvc SpeechService
	turns     TurnRunner
}

func New(speechSvc SpeechService, turns TurnRunner) *Handler {
	return &Handler{speechSvc: speechSvc, turns: turns}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(speechRouter chi.Router) {
		speechRouter.Post("/transcribe", h.handleTranscribe)
		speechRouter.Post("/synthesize", h.handleSynthesize)
		speechRouter.Get("/health", h.handleHealth)

		if h.turns != nil {
			wsHandler := NewWebSocketHandler(h.turns)
			wsHandler.RegisterWebSocketRoutes(speechRouter)
		} else {
			speechRouter.Get("/ws/{sessionID}", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusNotImplemented, "speech websocket not available")
			})
		}
	})
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, 32<<20))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	sessionID := r.FormValue("sessionId")
	if sessionID == "" {
		sessionID = "default"
	}

	resp, err := h.speechSvc.Transcribe(r.Context(), &speechmodel.ASRRequest{
		SessionID: sessionID,
		AudioData: data,
		Format:    inferAudioFormat(header.Filename),
		Language:  r.FormValue("language"),
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("transcription failed")
		utils.RespondError(w, http.StatusInternalServerError, "speech recognition failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req speechmodel.TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	resp, err := h.speechSvc.Synthesize(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("synthesis failed")
		utils.RespondError(w, http.StatusInternalServerError, "speech synthesis failed")
		return
	}

	format := resp.Format
	if format == "" {
		format = "octet-stream"
	}
	w.Header().Set("Content-Type", "audio/"+format)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.AudioData)))
	w.Header().Set("Content-Disposition", "attachment; filename=speech."+format)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.AudioData); err != nil {
		log.Error().Err(err).Msg("failed to write audio response")
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func inferAudioFormat(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "wav"
	}
	return ext
}
