package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"voicebridge/internal/translation"
)

const (
	defaultRecognizeEndpoint = "https://speech.googleapis.com/v1/speech:recognize"

	audioEncoding   = "WEBM_OPUS"
	sampleRateHertz = 16000
	languageCode    = "en-US"
)

// GoogleOptions configures optional client behavior.
type GoogleOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// GoogleClient implements translation.Transcriber using Google's Speech-to-Text API.
type GoogleClient struct {
	logger     *slog.Logger
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewGoogleClient creates a new speech recognition client.
func NewGoogleClient(logger *slog.Logger, apiKey string, opts *GoogleOptions) *GoogleClient {
	if opts == nil {
		opts = &GoogleOptions{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	endpoint := opts.BaseURL
	if endpoint == "" {
		endpoint = defaultRecognizeEndpoint
	}

	return &GoogleClient{
		logger:     logger,
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

type recognizeRequest struct {
	Config struct {
		Encoding        string `json:"encoding"`
		SampleRateHertz int    `json:"sampleRateHertz"`
		LanguageCode    string `json:"languageCode"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe reads the captured audio file, submits it base64-encoded, and
// returns the first transcript alternative of the first result. A response
// with no results yields an empty transcript, not an error.
func (c *GoogleClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read capture: %w", err)
	}

	var reqPayload recognizeRequest
	reqPayload.Config.Encoding = audioEncoding
	reqPayload.Config.SampleRateHertz = sampleRateHertz
	reqPayload.Config.LanguageCode = languageCode
	reqPayload.Audio.Content = base64.StdEncoding.EncodeToString(audio)

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: call speech api: %w", translation.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", translation.ErrRemoteService, err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: speech api status=%d body=%s", translation.ErrRemoteService, resp.StatusCode, truncate(respBody, 512))
	}

	var result recognizeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", translation.ErrRemoteService, err)
	}

	if len(result.Results) == 0 || len(result.Results[0].Alternatives) == 0 {
		c.logger.Debug("speech api returned no results", slog.Int("audio_bytes", len(audio)))
		return "", nil
	}

	transcript := result.Results[0].Alternatives[0].Transcript
	c.logger.Debug("transcription received",
		slog.Int("audio_bytes", len(audio)),
		slog.Int("transcript_length", len(transcript)),
	)
	return transcript, nil
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "…"
}
