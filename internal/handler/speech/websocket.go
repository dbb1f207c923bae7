package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	companionsvc "github.com/raghujhts13/sunoji-hackathon/internal/service/companion"
)

// WebSocketHandler runs the realtime voice loop: clients stream audio
// chunks, the final chunk triggers a full turn, and the result comes
// back as transcript, response text, and synthesized audio.
type WebSocketHandler struct {
	turns    TurnRunner
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(turns TurnRunner) *WebSocketHandler {
	return &WebSocketHandler{
		turns: turns,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// AudioMessage carries one audio chunk. AudioData is base64 on the
// wire; encoding/json decodes it into the byte slice.
type AudioMessage struct {
	AudioData  []byte `json:"audioData"`
	Format     string `json:"format"`
	IsFinal    bool   `json:"isFinal"`
	ChunkIndex int    `json:"chunkIndex"`
}

// ConfigMessage adjusts per-connection conversation settings.
type ConfigMessage struct {
	PersonaID string `json:"personaId"`
	Timezone  string `json:"timezone"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type connectionState struct {
	sessionID   string
	personaID   string
	timezone    string
	audioFormat string
	firstTurn   bool
	buffer      bytes.Buffer
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Info().Str("session_id", sessionID).Msg("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	state := &connectionState{
		sessionID: sessionID,
		personaID: r.URL.Query().Get("personaId"),
		timezone:  r.URL.Query().Get("timezone"),
		firstTurn: true,
	}

	h.send(conn, sessionID, "connected", map[string]any{"persona": state.personaID})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warn().Err(err).Str("session_id", sessionID).Msg("websocket read error")
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				h.sendError(conn, "session mismatch")
				continue
			}

			h.handleMessage(ctx, conn, state, &msg)
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *websocket.Conn, state *connectionState, msg *inboundMessage) {
	switch msg.Type {
	case "audio":
		h.handleAudioMessage(ctx, conn, state, msg.Data)
	case "config":
		h.handleConfigMessage(conn, state, msg.Data)
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) handleAudioMessage(ctx context.Context, conn *websocket.Conn, state *connectionState, raw json.RawMessage) {
	var audio AudioMessage
	if err := json.Unmarshal(raw, &audio); err != nil {
		h.sendError(conn, "invalid audio payload")
		return
	}

	if len(audio.AudioData) > 0 {
		state.buffer.Write(audio.AudioData)
	}
	if audio.Format != "" {
		state.audioFormat = audio.Format
	}

	if audio.IsFinal {
		h.runTurn(ctx, conn, state)
	}
}

func (h *WebSocketHandler) runTurn(ctx context.Context, conn *websocket.Conn, state *connectionState) {
	audioBytes := make([]byte, state.buffer.Len())
	copy(audioBytes, state.buffer.Bytes())
	state.buffer.Reset()

	if len(audioBytes) == 0 {
		return
	}

	format := state.audioFormat
	if format == "" {
		format = "wav"
	}

	result, err := h.turns.ProcessTurn(ctx, companionsvc.TurnInput{
		SessionID:        state.sessionID,
		Audio:            audioBytes,
		Format:           format,
		PersonaID:        state.personaID,
		FirstInteraction: state.firstTurn,
		Timezone:         state.timezone,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", state.sessionID).Msg("websocket turn failed")
		h.sendError(conn, "failed to process turn")
		return
	}
	state.firstTurn = false

	h.send(conn, state.sessionID, "transcript", map[string]any{
		"text":    result.Transcript,
		"isFinal": true,
	})
	h.send(conn, state.sessionID, "response", map[string]any{
		"text":             result.ResponseText,
		"intent":           result.Intent,
		"tone":             result.Tone,
		"confidence":       result.Confidence,
		"isSafetyResponse": result.IsSafetyResponse,
		"safetyCategory":   result.SafetyCategory,
	})
	if len(result.Audio) > 0 {
		h.send(conn, state.sessionID, "tts", map[string]any{
			"audioData": base64.StdEncoding.EncodeToString(result.Audio),
			"format":    result.AudioFormat,
			"isFinal":   true,
		})
	}
}

func (h *WebSocketHandler) handleConfigMessage(conn *websocket.Conn, state *connectionState, raw json.RawMessage) {
	var cfg ConfigMessage
	if err := json.Unmarshal(raw, &cfg); err != nil {
		h.sendError(conn, "invalid config payload")
		return
	}

	if cfg.PersonaID != "" {
		state.personaID = cfg.PersonaID
	}
	if cfg.Timezone != "" {
		state.timezone = cfg.Timezone
	}

	h.send(conn, state.sessionID, "config", map[string]any{
		"persona":  state.personaID,
		"timezone": state.timezone,
	})
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, sessionID, msgType string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("websocket write failed")
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, "", "error", map[string]string{"message": message})
}
