// Package feedback implements the visitor feedback form.
package feedback

import (
	"errors"
	"strings"
	"time"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
)

// DefaultSubmitDelay is the synthetic submission latency.
const DefaultSubmitDelay = time.Second

// ErrSubmitting is returned when a submission is already being processed.
var ErrSubmitting = errors.New("feedback is already being submitted")

// Status of the form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusThanked    Status = "thanked"
)

// ThankYou is shown once a submission completes.
const ThankYou = "Thank you for your feedback! 🎉"

// Entry is the submitted form.
type Entry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate requires every field to be non-blank.
func (e Entry) Validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return &dto.ValidationError{Field: "name", Reason: "is required"}
	case strings.TrimSpace(e.Email) == "":
		return &dto.ValidationError{Field: "email", Reason: "is required"}
	case strings.TrimSpace(e.Message) == "":
		return &dto.ValidationError{Field: "message", Reason: "is required"}
	}
	return nil
}

// State is the rendered form.
type State struct {
	Status  Status `json:"status"`
	Button  string `json:"button"`
	Notice  string `json:"notice,omitempty"`
	Entry   Entry  `json:"entry"`
	Entries int    `json:"entries"`
}

// Form is the feedback form. It must be used from the scheduler's thread.
type Form struct {
	scheduler port.Scheduler
	delay     time.Duration
	onChange  func(State)

	status  Status
	entry   Entry
	entries []Entry
	pending port.Handle
}

// Option configures a Form.
type Option func(*Form)

// WithDelay overrides DefaultSubmitDelay.
func WithDelay(d time.Duration) Option {
	return func(f *Form) { f.delay = d }
}

// WithListener registers fn to receive the state after every change.
func WithListener(fn func(State)) Option {
	return func(f *Form) { f.onChange = fn }
}

// New creates an idle form.
func New(scheduler port.Scheduler, opts ...Option) *Form {
	f := &Form{
		scheduler: scheduler,
		delay:     DefaultSubmitDelay,
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit validates entry and starts the synthetic submission.
func (f *Form) Submit(entry Entry) error {
	if f.status == StatusSubmitting {
		return ErrSubmitting
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	f.status = StatusSubmitting
	f.entry = entry
	f.pending = f.scheduler.Schedule(f.delay, f.complete)
	f.changed()
	return nil
}

// Entries returns every accepted submission.
func (f *Form) Entries() []Entry {
	return append([]Entry(nil), f.entries...)
}

// Stop cancels a submission in progress.
func (f *Form) Stop() {
	if f.pending != nil {
		f.pending.Cancel()
		f.pending = nil
	}
}

// State returns the current rendering.
func (f *Form) State() State {
	s := State{Status: f.status, Button: "Submit Feedback", Entry: f.entry, Entries: len(f.entries)}
	switch f.status {
	case StatusSubmitting:
		s.Button = "Submitting..."
	case StatusThanked:
		s.Notice = ThankYou
	}
	return s
}

func (f *Form) complete() {
	if f.status != StatusSubmitting {
		return
	}
	f.pending = nil
	f.entries = append(f.entries, f.entry)
	f.entry = Entry{}
	f.status = StatusThanked
	f.changed()
}

func (f *Form) changed() {
	if f.onChange != nil {
		f.onChange(f.State())
	}
}
