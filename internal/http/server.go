package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"voicebridge/internal/history"
	"voicebridge/internal/lang"
	"voicebridge/internal/session"
	"voicebridge/internal/translation"
)

// Server wires HTTP routing for voicebridge.
type Server struct {
	logger   *slog.Logger
	sessions *session.Manager
	history  *history.Store
}

// NewServer constructs a chi router implementing http.Handler.
func NewServer(logger *slog.Logger, sessions *session.Manager, store *history.Store) http.Handler {
	srv := &Server{
		logger:   logger,
		sessions: sessions,
		history:  store,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/languages", srv.handleLanguages)

	r.Post("/sessions", srv.handleCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", srv.handleGetSession)
		r.Delete("/", srv.handleDeleteSession)
		r.Post("/input", srv.handleSetInput)
		r.Post("/language", srv.handleSelectLanguage)
		r.Post("/translate", srv.handleTranslate)
		r.Post("/speak", srv.handleSpeak)
		r.Post("/recording/start", srv.handleStartRecording)
		r.Post("/recording/stop", srv.handleStopRecording)
	})

	r.Get("/history", srv.handleHistory)
	r.Delete("/history", srv.handleClearHistory)
	r.Delete("/history/{index}", srv.handleDeleteHistoryEntry)

	return r
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"languages":    lang.Supported,
		"default_from": lang.DefaultFrom,
		"default_to":   lang.DefaultTo,
	})
}

type sessionResponse struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, orch := s.sessions.Create()
	s.respondJSON(w, http.StatusCreated, sessionResponse{ID: id.String(), State: orch.State()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, orch.State())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.clientError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	if !s.sessions.Remove(r.Context(), id) {
		s.clientError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type inputRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.session(w, r)
	if !ok {
		return
	}

	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orch.SetInput(req.Text)
	s.respondJSON(w, http.StatusOK, orch.State())
}

type languageRequest struct {
	Slot   string `json:"slot"`
	Choice string `json:"choice"`
}

func (s *Server) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.session(w, r)
	if !ok {
		return
	}

	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := orch.SelectLanguage(session.Slot(req.Slot), req.Choice); err != nil {
		s.operationError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, orch.State())
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := orch.Translate(r.Context()); err != nil {
		s.operationError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, orch.State())
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := orch.Speak(r.Context()); err != nil {
		s.operationError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, orch.State())
}

func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := orch.StartRecording(r.Context()); err != nil {
		s.operationError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, orch.State())
}

func (s *Server) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	orch, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := orch.StopRecording(r.Context()); err != nil {
		s.operationError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, orch.State())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.LoadDisplay(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	if records == nil {
		records = []translation.Record{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.clientError(w, http.StatusBadRequest, "invalid history index")
		return
	}

	if err := s.history.DeleteAt(r.Context(), index); err != nil {
		if errors.Is(err, history.ErrIndexOutOfRange) {
			s.clientError(w, http.StatusNotFound, "history entry not found")
			return
		}
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Orchestrator, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.clientError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	orch, ok := s.sessions.Get(id)
	if !ok {
		s.clientError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return orch, true
}

// operationError maps orchestrator failures to statuses. Remote failures are
// reported, never fatal: prior session state is always preserved.
func (s *Server) operationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, translation.ErrBusy):
		s.clientError(w, http.StatusConflict, "operation already in flight")
	case errors.Is(err, translation.ErrEmptyInput):
		s.clientError(w, http.StatusUnprocessableEntity, "input text is empty")
	case errors.Is(err, translation.ErrUnknownLanguage):
		s.clientError(w, http.StatusUnprocessableEntity, "unknown language")
	case errors.Is(err, translation.ErrRemoteService):
		s.logger.Error("remote service error", slog.String("error", err.Error()))
		s.clientError(w, http.StatusBadGateway, "remote service failure")
	default:
		s.serverError(w, err)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response failed", slog.String("error", err.Error()))
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("request error", slog.String("error", err.Error()))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) clientError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}
