package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"voicebridge/internal/translation"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel    = "gpt-3.5-turbo"
	defaultMaxTokens      = 500
)

// OpenAIOptions allows overriding HTTP behavior.
type OpenAIOptions struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	MaxTokens  int
}

// OpenAIClient implements translation.Translator against OpenAI's Chat
// Completions API.
type OpenAIClient struct {
	logger     *slog.Logger
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	maxTokens  int
}

// NewOpenAIClient constructs a new OpenAIClient.
func NewOpenAIClient(logger *slog.Logger, apiKey string, opts *OpenAIOptions) *OpenAIClient {
	if opts == nil {
		opts = &OpenAIOptions{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 45 * time.Second,
		}
	}

	endpoint := opts.BaseURL
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}

	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAIClient{
		logger:     logger,
		apiKey:     apiKey,
		model:      model,
		endpoint:   endpoint,
		httpClient: httpClient,
		maxTokens:  maxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
	Model     string        `json:"model"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Translate sends a single-turn instruction embedding the text and language
// pair, and returns the first choice's content verbatim.
func (c *OpenAIClient) Translate(ctx context.Context, req translation.Request) (string, error) {
	reqPayload := completionRequest{
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: fmt.Sprintf(`Translate the following %s text into %s: "%s"`, req.From, req.To, req.Text),
			},
		},
		MaxTokens: c.maxTokens,
		Model:     c.model,
	}

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: call openai: %w", translation.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", translation.ErrRemoteService, err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: openai status=%d body=%s", translation.ErrRemoteService, resp.StatusCode, truncate(respBody, 512))
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", translation.ErrRemoteService, err)
	}

	if completion.Error != nil {
		return "", fmt.Errorf("%w: openai error: %s (%s)", translation.ErrRemoteService, completion.Error.Message, completion.Error.Type)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", translation.ErrRemoteService)
	}

	translated := completion.Choices[0].Message.Content
	c.logger.Debug("translation received",
		slog.String("from", req.From),
		slog.String("to", req.To),
		slog.Int("output_length", len(translated)),
	)

	return translated, nil
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "…"
}
