package llm

import (
	"context"
	"fmt"
	"log/slog"

	"voicebridge/internal/translation"
)

// StubClient implements translation.Translator with deterministic output for
// development.
type StubClient struct {
	logger *slog.Logger
}

// NewStubClient returns a stubbed translation client.
func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

// Translate echoes the input tagged with the language pair.
func (s *StubClient) Translate(ctx context.Context, req translation.Request) (string, error) {
	s.logger.Debug("stub translation",
		slog.String("from", req.From),
		slog.String("to", req.To),
	)
	return fmt.Sprintf("[%s→%s] %s", req.From, req.To, req.Text), nil
}
