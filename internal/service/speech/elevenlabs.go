package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	speechmodel "github.com/raghujhts13/sunoji-hackathon/internal/model/speech"
)

// ElevenLabsClient synthesizes speech through the ElevenLabs REST API.
type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewElevenLabsClient builds a synthesis client from configuration.
func NewElevenLabsClient(cfg speechmodel.Config) *ElevenLabsClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ElevenLabsClient{
		apiKey:  cfg.ElevenLabsAPIKey,
		baseURL: strings.TrimSuffix(cfg.ElevenLabsBaseURL, "/"),
		model:   cfg.TTSModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

type elevenLabsTTSRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id,omitempty"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// Synthesize voices the text with the per-turn voice parameters. When
// no API key is configured it returns placeholder audio so development
// environments stay usable.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, req *speechmodel.TTSRequest) (*speechmodel.TTSResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	if c.apiKey == "" {
		log.Warn().Msg("elevenlabs api key missing, returning placeholder audio")
		return &speechmodel.TTSResponse{
			SessionID: req.SessionID,
			AudioData: []byte("dummy_audio"),
			Format:    "mp3",
			CreatedAt: time.Now().UTC(),
		}, nil
	}

	payload := elevenLabsTTSRequest{
		Text:    req.Text,
		ModelID: c.model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       req.Params.Stability,
			SimilarityBoost: req.Params.SimilarityBoost,
			Style:           req.Params.Style,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, req.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create tts request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("elevenlabs api error: status %d, body: %s", resp.StatusCode, string(detail))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}

	format := req.Format
	if format == "" {
		format = "mp3"
	}
	return &speechmodel.TTSResponse{
		SessionID: req.SessionID,
		AudioData: audio,
		Format:    format,
		CreatedAt: time.Now().UTC(),
	}, nil
}
