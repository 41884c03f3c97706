// Package rest exposes the demo over HTTP: stateless scoring, the
// jurisdiction table and per-visitor demo sessions.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/session"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/chat"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/feedback"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/reveal"
)

// Handler serves the demo API. Session work is executed through runner so
// it happens on the scheduler's thread.
type Handler struct {
	assess        *usecase.AssessTransaction
	jurisdictions *usecase.ListJurisdictions
	sessions      *session.Registry
	runner        session.Runner
	logger        *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	assess *usecase.AssessTransaction,
	jurisdictions *usecase.ListJurisdictions,
	sessions *session.Registry,
	runner session.Runner,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		assess:        assess,
		jurisdictions: jurisdictions,
		sessions:      sessions,
		runner:        runner,
		logger:        logger,
	}
}

// Request and response bodies.

type useCaseRequest struct {
	Target string `json:"target"`
}

type navCloseRequest struct {
	Href string `json:"href"`
}

type chatRequest struct {
	Text string `json:"text"`
}

// ChatResponse reports whether a question was accepted and the chat state.
type ChatResponse struct {
	Accepted bool       `json:"accepted"`
	Chat     chat.State `json:"chat"`
}

type revealRequest struct {
	Visible []string `json:"visible"`
}

// RevealResponse lists the sections that will be revealed and when.
type RevealResponse struct {
	Plans []reveal.Plan `json:"plans"`
}

// RegisterRoutes registers the API endpoints on the provided ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/assessments", h.AssessTransaction)
	mux.HandleFunc("GET /api/v1/jurisdictions", h.ListJurisdictions)

	mux.HandleFunc("POST /api/v1/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.DeleteSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/submit", h.Submit)
	mux.HandleFunc("POST /api/v1/sessions/{id}/reset", h.Reset)
	mux.HandleFunc("POST /api/v1/sessions/{id}/use-case", h.SelectUseCase)
	mux.HandleFunc("POST /api/v1/sessions/{id}/nav/toggle", h.ToggleNav)
	mux.HandleFunc("POST /api/v1/sessions/{id}/nav/close", h.CloseNav)
	mux.HandleFunc("POST /api/v1/sessions/{id}/chat/toggle", h.ToggleChat)
	mux.HandleFunc("POST /api/v1/sessions/{id}/chat/messages", h.SendChat)
	mux.HandleFunc("POST /api/v1/sessions/{id}/reveal", h.Reveal)
	mux.HandleFunc("POST /api/v1/sessions/{id}/feedback", h.SubmitFeedback)
}

// AssessTransaction scores a form without staging.
func (h *Handler) AssessTransaction(w http.ResponseWriter, r *http.Request) {
	var form dto.SubmissionForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := h.assess.Execute(r.Context(), form)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListJurisdictions returns the active jurisdiction table.
func (h *Handler) ListJurisdictions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.jurisdictions.Execute(r.Context()))
}

// CreateSession opens a demo session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var (
		page session.PageState
		err  error
	)
	// err and page belong to the loop until Call returns nil.
	if callErr := h.runner.Call(r.Context(), func() {
		var s *session.Session
		if s, err = h.sessions.Create(); err == nil {
			page = s.Page()
		}
	}); callErr != nil {
		writeError(w, r, h.logger, callErr)
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+page.ID)
	writeJSON(w, http.StatusCreated, page)
}

// GetSession returns the page state of a session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	var page session.PageState
	err := h.withSession(r, func(s *session.Session) error {
		page = s.Page()
		return nil
	})
	h.respond(w, r, err, http.StatusOK, &page)
}

// DeleteSession closes a session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err == nil {
		var deleteErr error
		if err = h.runner.Call(r.Context(), func() { deleteErr = h.sessions.Delete(id) }); err == nil {
			err = deleteErr
		}
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit starts a demo cycle and returns the loading view.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form dto.SubmissionForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	var view sequencer.View
	err := h.withSession(r, func(s *session.Session) error {
		if err := s.Submit(form); err != nil {
			return err
		}
		view = s.Demo()
		return nil
	})
	h.respond(w, r, err, http.StatusAccepted, &view)
}

// Reset returns the demo to the form.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var view sequencer.View
	err := h.withSession(r, func(s *session.Session) error {
		s.Reset()
		view = s.Demo()
		return nil
	})
	h.respond(w, r, err, http.StatusOK, &view)
}

// SelectUseCase switches the active use-case panel.
func (h *Handler) SelectUseCase(w http.ResponseWriter, r *http.Request) {
	var req useCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	var page session.PageState
	err := h.withSession(r, func(s *session.Session) error {
		if err := s.SelectUseCase(req.Target); err != nil {
			return err
		}
		page = s.Page()
		return nil
	})
	h.respond(w, r, err, http.StatusOK, &page.UseCase)
}

// ToggleNav opens or closes the navigation panel.
func (h *Handler) ToggleNav(w http.ResponseWriter, r *http.Request) {
	var page session.PageState
	err := h.withSession(r, func(s *session.Session) error {
		s.ToggleNav()
		page = s.Page()
		return nil
	})
	h.respond(w, r, err, http.StatusOK, &page.Nav)
}

// CloseNav closes the navigation panel, following href when given.
func (h *Handler) CloseNav(w http.ResponseWriter, r *http.Request) {
	var req navCloseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	var page session.PageState
	err := h.withSession(r, func(s *session.Session) error {
		if _, err := s.CloseNav(req.Href); err != nil {
			return err
		}
		page = s.Page()
		return nil
	})
	h.respond(w, r, err, http.StatusOK, &page.Nav)
}

// ToggleChat opens or closes the chat window.
func (h *Handler) ToggleChat(w http.ResponseWriter, r *http.Request) {
	var state chat.State
	err := h.withSession(r, func(s *session.Session) error {
		state = s.ToggleChat()
		return nil
	})
	h.respond(w, r, err, http.StatusOK, &state)
}

// SendChat posts a question to the assistant.
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	var resp ChatResponse
	err := h.withSession(r, func(s *session.Session) error {
		resp.Chat, resp.Accepted = s.SendChat(req.Text)
		return nil
	})
	code := http.StatusOK
	if resp.Accepted {
		code = http.StatusAccepted
	}
	h.respond(w, r, err, code, &resp)
}

// Reveal schedules the activation of newly visible sections.
func (h *Handler) Reveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	resp := RevealResponse{Plans: []reveal.Plan{}}
	err := h.withSession(r, func(s *session.Session) error {
		if plans := s.Observe(req.Visible); len(plans) > 0 {
			resp.Plans = plans
		}
		return nil
	})
	h.respond(w, r, err, http.StatusOK, &resp)
}

// SubmitFeedback submits the feedback form.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var entry feedback.Entry
	if err := decodeJSON(w, r, &entry); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	var state feedback.State
	err := h.withSession(r, func(s *session.Session) error {
		var err error
		state, err = s.SubmitFeedback(entry)
		return err
	})
	h.respond(w, r, err, http.StatusAccepted, &state)
}

// withSession runs fn against the session named in the path on the
// scheduler's thread.
func (h *Handler) withSession(r *http.Request, fn func(*session.Session) error) error {
	id, err := sessionID(r)
	if err != nil {
		return err
	}
	var result error
	if err := h.runner.Call(r.Context(), func() {
		s, err := h.sessions.Get(id)
		if err != nil {
			result = err
			return
		}
		result = fn(s)
	}); err != nil {
		return err
	}
	return result
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, err error, status int, body any) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, status, body)
}

// sessionID parses the {id} path value. Malformed ids cannot name a live
// session.
func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, session.ErrNotFound
	}
	return id, nil
}
