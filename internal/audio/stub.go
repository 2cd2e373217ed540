package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// StubRecorder simulates microphone capture for development: each recording
// produces an empty file in the capture directory.
type StubRecorder struct {
	logger *slog.Logger
	dir    string
}

// NewStubRecorder constructs a StubRecorder writing captures under dir.
func NewStubRecorder(logger *slog.Logger, dir string) *StubRecorder {
	return &StubRecorder{logger: logger, dir: dir}
}

// Start begins a simulated capture.
func (r *StubRecorder) Start(ctx context.Context) (Recording, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}
	path := filepath.Join(r.dir, "capture-"+uuid.NewString()+".webm")
	r.logger.Debug("stub recording started", slog.String("path", path))
	return &stubRecording{path: path}, nil
}

type stubRecording struct {
	path string

	mu      sync.Mutex
	stopped bool
}

// Stop finalizes the capture file and returns its path.
func (r *stubRecording) Stop(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return "", fmt.Errorf("recording already stopped")
	}
	r.stopped = true

	if err := os.WriteFile(r.path, nil, 0o644); err != nil {
		return "", fmt.Errorf("write capture: %w", err)
	}
	return r.path, nil
}

// StubPlayer logs playback instead of producing sound.
type StubPlayer struct {
	logger *slog.Logger
}

// NewStubPlayer constructs a StubPlayer.
func NewStubPlayer(logger *slog.Logger) *StubPlayer {
	return &StubPlayer{logger: logger}
}

// Play records the playback request in the log.
func (p *StubPlayer) Play(ctx context.Context, path string) error {
	p.logger.Info("stub playback", slog.String("path", path))
	return nil
}
