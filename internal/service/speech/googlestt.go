package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	speechmodel "github.com/raghujhts13/sunoji-hackathon/internal/model/speech"
)

// GoogleSTTClient transcribes audio through the Google Cloud
// speech:recognize REST endpoint using an API key.
type GoogleSTTClient struct {
	apiKey     string
	baseURL    string
	language   string
	sampleRate int
	httpClient *http.Client
}

// NewGoogleSTTClient builds a transcription client from configuration.
func NewGoogleSTTClient(cfg speechmodel.Config) *GoogleSTTClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleSTTClient{
		apiKey:     cfg.GoogleSpeechAPIKey,
		baseURL:    strings.TrimSuffix(cfg.GoogleSpeechBaseURL, "/"),
		language:   cfg.ASRLanguage,
		sampleRate: cfg.ASRSampleRateHertz,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe converts complete-utterance audio into text. Empty audio
// is the one hard failure of the pipeline.
func (c *GoogleSTTClient) Transcribe(ctx context.Context, req *speechmodel.ASRRequest) (*speechmodel.ASRResponse, error) {
	if len(req.AudioData) == 0 {
		return nil, fmt.Errorf("audio content is empty")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("transcription not configured: GOOGLE_SPEECH_API_KEY missing")
	}

	language := req.Language
	if language == "" {
		language = c.language
	}

	payload := recognizeRequest{
		Config: recognizeConfig{
			Encoding:                   "LINEAR16",
			SampleRateHertz:            c.sampleRate,
			LanguageCode:               language,
			EnableAutomaticPunctuation: true,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(req.AudioData)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recognize request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/speech:recognize?key=%s", c.baseURL, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create recognize request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("recognize request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("speech api error: status %d, body: %s", resp.StatusCode, string(detail))
	}

	var recognized recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&recognized); err != nil {
		return nil, fmt.Errorf("failed to decode recognize response: %w", err)
	}

	var transcript strings.Builder
	confidence := 0.0
	for i, result := range recognized.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		transcript.WriteString(result.Alternatives[0].Transcript)
		if i == 0 {
			confidence = result.Alternatives[0].Confidence
		}
	}

	return &speechmodel.ASRResponse{
		SessionID:  req.SessionID,
		Text:       transcript.String(),
		Confidence: confidence,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
