package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/metrics"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/chat"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/feedback"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/nav"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/reveal"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/toggle"
)

// Session is one visitor's page: the demo panel plus the widgets. Every
// method must run on the scheduler's thread.
type Session struct {
	id        uuid.UUID
	createdAt time.Time
	lastSeen  time.Time

	demo     *sequencer.Sequencer
	useCase  *toggle.Toggle
	nav      *nav.Nav
	chat     *chat.Widget
	reveal   *reveal.Reveal
	feedback *feedback.Form
	hub      *Broadcaster
}

// PageState is the full rendering of a session.
type PageState struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Demo      sequencer.View `json:"demo"`
	UseCase   toggle.State   `json:"useCase"`
	Nav       nav.State      `json:"nav"`
	Chat      chat.State     `json:"chat"`
	Revealed  []string       `json:"revealed"`
	Feedback  feedback.State `json:"feedback"`
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID { return s.id }

// Hub returns the session's realtime broadcaster.
func (s *Session) Hub() *Broadcaster { return s.hub }

// Page renders the whole session.
func (s *Session) Page() PageState {
	return PageState{
		ID:        s.id.String(),
		CreatedAt: s.createdAt,
		Demo:      s.demo.View(),
		UseCase:   s.useCase.State(),
		Nav:       s.nav.State(),
		Chat:      s.chat.State(),
		Revealed:  s.reveal.Activated(),
		Feedback:  s.feedback.State(),
	}
}

// Demo returns the current demo view.
func (s *Session) Demo() sequencer.View {
	return s.demo.View()
}

// Submit starts a demo cycle.
func (s *Session) Submit(form dto.SubmissionForm) error {
	err := s.demo.Submit(form)
	var verr *dto.ValidationError
	switch {
	case err == nil:
		metrics.SubmissionsTotal.WithLabelValues(metrics.SubmissionAccepted).Inc()
	case errors.As(err, &verr):
		metrics.SubmissionsTotal.WithLabelValues(metrics.SubmissionInvalid).Inc()
	case errors.Is(err, sequencer.ErrSubmissionInFlight):
		metrics.SubmissionsTotal.WithLabelValues(metrics.SubmissionInFlight).Inc()
	}
	return err
}

// Reset returns the demo panel to the form.
func (s *Session) Reset() {
	s.demo.Reset()
}

// SelectUseCase activates a use-case panel.
func (s *Session) SelectUseCase(id string) error {
	if err := s.useCase.Select(id); err != nil {
		return err
	}
	s.hub.Publish(EventUseCase, s.useCase.State())
	return nil
}

// ToggleNav opens or closes the navigation panel.
func (s *Session) ToggleNav() nav.State {
	s.nav.Toggle()
	state := s.nav.State()
	s.hub.Publish(EventNav, state)
	return state
}

// CloseNav closes the navigation panel, optionally following a link.
func (s *Session) CloseNav(href string) (nav.State, error) {
	if href != "" {
		if _, err := s.nav.Follow(href); err != nil {
			return s.nav.State(), err
		}
	} else {
		s.nav.Close()
	}
	state := s.nav.State()
	s.hub.Publish(EventNav, state)
	return state, nil
}

// ToggleChat opens or closes the chat window.
func (s *Session) ToggleChat() chat.State {
	s.chat.Toggle()
	return s.chat.State()
}

// SendChat posts a chat question. Blank questions are ignored.
func (s *Session) SendChat(text string) (chat.State, bool) {
	topic, ok := s.chat.Send(text)
	if ok {
		metrics.ChatMessagesTotal.WithLabelValues(string(topic)).Inc()
	}
	return s.chat.State(), ok
}

// Observe schedules the reveal of newly visible sections.
func (s *Session) Observe(visible []string) []reveal.Plan {
	return s.reveal.Observe(visible)
}

// SubmitFeedback starts a feedback submission.
func (s *Session) SubmitFeedback(entry feedback.Entry) (feedback.State, error) {
	err := s.feedback.Submit(entry)
	result := "accepted"
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		result = "invalid"
	case errors.Is(err, feedback.ErrSubmitting):
		result = "busy"
	}
	metrics.FeedbackTotal.WithLabelValues(result).Inc()
	return s.feedback.State(), err
}

// close stops every timer and disconnects realtime subscribers.
func (s *Session) close() {
	s.demo.Stop()
	s.chat.Stop()
	s.reveal.Stop()
	s.feedback.Stop()
	s.hub.Close()
}
