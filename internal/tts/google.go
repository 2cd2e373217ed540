package tts

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
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"voicebridge/internal/audio"
	"voicebridge/internal/lang"
	"voicebridge/internal/translation"
)

const (
	defaultSynthesizeEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

	ssmlGender       = "NEUTRAL"
	outAudioEncoding = "MP3"
)

// GoogleOptions configures optional client behavior.
type GoogleOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// GoogleClient implements translation.Synthesizer using Google's
// Text-to-Speech API. Synthesized audio is written to a scratch file and
// handed to the player.
type GoogleClient struct {
	logger     *slog.Logger
	apiKey     string
	endpoint   string
	httpClient *http.Client
	scratchDir string
	player     audio.Player
}

// NewGoogleClient creates a new synthesis client.
func NewGoogleClient(logger *slog.Logger, apiKey, scratchDir string, player audio.Player, opts *GoogleOptions) *GoogleClient {
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
		endpoint = defaultSynthesizeEndpoint
	}

	return &GoogleClient{
		logger:     logger,
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: httpClient,
		scratchDir: scratchDir,
		player:     player,
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Speak synthesizes text in the voice mapped from language and plays it
// back. A response with no audio payload skips playback without error.
func (c *GoogleClient) Speak(ctx context.Context, text, language string) error {
	var reqPayload synthesizeRequest
	reqPayload.Input.Text = text
	reqPayload.Voice.LanguageCode = lang.VoiceLocale(language)
	reqPayload.Voice.SSMLGender = ssmlGender
	reqPayload.AudioConfig.AudioEncoding = outAudioEncoding

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: call tts api: %w", translation.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", translation.ErrRemoteService, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: tts api status=%d body=%s", translation.ErrRemoteService, resp.StatusCode, truncate(respBody, 512))
	}

	var result synthesizeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("%w: decode response: %w", translation.ErrRemoteService, err)
	}

	if result.AudioContent == "" {
		c.logger.Warn("tts api returned no audio",
			slog.String("locale", reqPayload.Voice.LanguageCode),
			slog.Int("text_length", len(text)),
		)
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return fmt.Errorf("%w: decode audio: %w", translation.ErrRemoteService, err)
	}

	if err := os.MkdirAll(c.scratchDir, 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	path := filepath.Join(c.scratchDir, "speech-"+uuid.NewString()+".mp3")
	if err := os.WriteFile(path, decoded, 0o644); err != nil {
		return fmt.Errorf("write scratch audio: %w", err)
	}

	c.logger.Debug("synthesis received",
		slog.String("locale", reqPayload.Voice.LanguageCode),
		slog.Int("audio_bytes", len(decoded)),
		slog.String("path", path),
	)

	if err := c.player.Play(ctx, path); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "…"
}
