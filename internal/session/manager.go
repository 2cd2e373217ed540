package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"voicebridge/internal/audio"
	"voicebridge/internal/history"
	"voicebridge/internal/translation"
)

// Deps bundles the collaborators every session shares.
type Deps struct {
	Logger      *slog.Logger
	Translator  translation.Translator
	Transcriber translation.Transcriber
	Synthesizer translation.Synthesizer
	Recorder    audio.Recorder
	History     *history.Store
}

// Manager tracks live sessions. A session is created when a translation
// screen mounts and removed when it unmounts; its state never outlives it.
type Manager struct {
	deps Deps

	mu       sync.Mutex
	sessions map[uuid.UUID]*Orchestrator
}

// NewManager constructs a Manager.
func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[uuid.UUID]*Orchestrator),
	}
}

// Create starts a fresh session and returns its id.
func (m *Manager) Create() (uuid.UUID, *Orchestrator) {
	id := uuid.New()
	orch := NewOrchestrator(
		m.deps.Logger.With(slog.String("session", id.String())),
		m.deps.Translator,
		m.deps.Transcriber,
		m.deps.Synthesizer,
		m.deps.Recorder,
		m.deps.History,
	)

	m.mu.Lock()
	m.sessions[id] = orch
	m.mu.Unlock()

	return id, orch
}

// Get returns the session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Orchestrator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orch, ok := m.sessions[id]
	return orch, ok
}

// Remove discards a session, releasing any recording it holds.
func (m *Manager) Remove(ctx context.Context, id uuid.UUID) bool {
	m.mu.Lock()
	orch, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		orch.Close(ctx)
	}
	return ok
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
