package companion

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	companionsvc "github.com/raghujhts13/sunoji-hackathon/internal/service/companion"
	"github.com/raghujhts13/sunoji-hackathon/pkg/utils"
)

const maxAudioUpload = 32 << 20

// TurnRunner abstracts the turn pipeline for testing.
type TurnRunner interface {
	ProcessTurn(ctx context.Context, input companionsvc.TurnInput) (*companionsvc.TurnResult, error)
}

// Handler exposes the voice turn pipeline as a single multipart POST.
type Handler struct {
	turns TurnRunner
}

func New(turns TurnRunner) *Handler {
	return &Handler{turns: turns}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// chatResponse mirrors TurnResult with the audio carried as base64 so
// the whole turn fits in one JSON body.
type chatResponse struct {
	*companionsvc.TurnResult
	AudioBase64 string `json:"audio_base64"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	audio, format, err := readAudioFile(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := companionsvc.TurnInput{
		SessionID:        r.FormValue("session_id"),
		Audio:            audio,
		Format:           format,
		PersonaID:        r.FormValue("persona_id"),
		FirstInteraction: r.FormValue("first_interaction") == "true",
		Timezone:         r.FormValue("timezone"),
	}

	result, err := h.turns.ProcessTurn(r.Context(), input)
	if err != nil {
		if errors.Is(err, companionsvc.ErrEmptyAudio) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("session_id", input.SessionID).Msg("turn failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to process turn")
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		TurnResult:  result,
		AudioBase64: base64.StdEncoding.EncodeToString(result.Audio),
	})
}

// readAudioFile pulls the uploaded audio from the "file" part, falling
// back to "audio" for older clients. The format comes from the
// filename extension when present.
func readAudioFile(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("audio")
	}
	if err != nil {
		return nil, "", errors.New("audio file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		return nil, "", errors.New("failed to read audio file")
	}

	format := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if format == "" {
		format = "wav"
	}
	return data, strings.ToLower(format), nil
}
