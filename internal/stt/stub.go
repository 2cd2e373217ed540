package stt

import (
	"context"
	"log/slog"
)

// StubClient implements translation.Transcriber for development. It returns
// a fixed transcript regardless of the capture.
type StubClient struct {
	logger     *slog.Logger
	Transcript string
}

// NewStubClient returns a stubbed transcription client.
func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger, Transcript: "hello from the stub recognizer"}
}

// Transcribe ignores the capture and returns the configured transcript.
func (s *StubClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.logger.Debug("stub transcription", slog.String("capture", audioPath))
	return s.Transcript, nil
}
