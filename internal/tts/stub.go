package tts

import (
	"context"
	"log/slog"

	"voicebridge/internal/lang"
)

// StubClient implements translation.Synthesizer for development. It logs the
// request instead of producing sound.
type StubClient struct {
	logger *slog.Logger
}

// NewStubClient constructs a StubClient.
func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

// Speak logs the synthesis request.
func (s *StubClient) Speak(ctx context.Context, text, language string) error {
	s.logger.Info("stub synthesis",
		slog.String("locale", lang.VoiceLocale(language)),
		slog.Int("text_length", len(text)),
	)
	return nil
}
