// Package http exposes the inbound JSON API for the presentation layer:
// session start, message submission, transcript and triage history reads.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"salud-chatbot/internal/core"
	"salud-chatbot/internal/logger"
	"salud-chatbot/internal/store"
	"salud-chatbot/pkg"
)

// Server bundles the dependencies required by the HTTP handlers. It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	core   *core.Service
	log    *logger.Logger
	router chi.Router
}

// NewServer constructs a Server and mounts its routes.
func NewServer(svc *core.Service, log *logger.Logger) *Server {
	s := &Server{core: svc, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleStartSession)
		r.Route("/conversations/{id}", func(r chi.Router) {
			r.Post("/messages", s.handleSubmitMessage)
			r.Get("/messages", s.handleListMessages)
			r.Get("/triage", s.handleListTriage)
			r.Post("/close", s.handleCloseConversation)
		})
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleStartSession resolves the user for a phone number and their open
// conversation, creating either on first contact.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req pkg.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de la petición inválido")
		return
	}
	user, conversation, err := s.core.StartSession(r.Context(), req.Phone, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrInvalidPhone) {
			writeError(w, http.StatusBadRequest, "número de teléfono inválido")
			return
		}
		s.log.Error("start session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "no se pudo iniciar la sesión")
		return
	}
	writeJSON(w, http.StatusOK, pkg.StartSessionResponse{User: *user, Conversation: *conversation})
}

// handleSubmitMessage runs one conversation turn and returns the bot reply
// together with the triage verdict.
func (s *Server) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de la petición inválido")
		return
	}
	reply, verdict, err := s.core.HandleTurn(r.Context(), conversationID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "el mensaje está vacío")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "conversación no encontrada")
		default:
			// Persistence failure that survived its retry: an explicit
			// failure indication, never a tier verdict.
			s.log.Error("turn failed", "conversation_id", conversationID, "error", err)
			writeError(w, http.StatusInternalServerError, "no pudimos procesar tu mensaje, inténtalo de nuevo")
		}
		return
	}
	writeJSON(w, http.StatusOK, pkg.ChatResponse{Reply: reply, Triage: verdict})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.core.Messages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("list messages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "no se pudieron obtener los mensajes")
		return
	}
	if messages == nil {
		messages = []pkg.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleListTriage(w http.ResponseWriter, r *http.Request) {
	results, err := s.core.TriageHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("list triage failed", "error", err)
		writeError(w, http.StatusInternalServerError, "no se pudieron obtener los resultados")
		return
	}
	if results == nil {
		results = []pkg.TriageResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCloseConversation(w http.ResponseWriter, r *http.Request) {
	err := s.core.CloseConversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversación no encontrada")
			return
		}
		s.log.Error("close conversation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "no se pudo cerrar la conversación")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs each request through the service logger instead of
// chi's default stdlib logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
