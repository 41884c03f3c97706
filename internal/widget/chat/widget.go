package chat

import (
	"strings"
	"time"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
)

// Typing delay bounds, in milliseconds.
const (
	minTypingMs  = 800
	typingSpanMs = 700
)

// Author of a chat message.
type Author string

const (
	AuthorUser Author = "user"
	AuthorAI   Author = "ai"
)

// TypingText is shown while a reply is pending.
const TypingText = "Typing..."

// Message is one chat bubble.
type Message struct {
	ID     int    `json:"id"`
	Author Author `json:"author"`
	Text   string `json:"text"`
	Typing bool   `json:"typing,omitempty"`
}

// State is the rendered chat window.
type State struct {
	Open     bool      `json:"open"`
	Messages []Message `json:"messages"`
}

// Widget is the chat window. It must be used from the scheduler's thread.
type Widget struct {
	scheduler port.Scheduler
	random    port.RandomSource
	responder *Responder
	onChange  func(State)

	open     bool
	messages []Message
	nextID   int
	pending  map[int]port.Handle
}

// Option configures a Widget.
type Option func(*Widget)

// WithListener registers fn to receive the state after every change.
func WithListener(fn func(State)) Option {
	return func(w *Widget) { w.onChange = fn }
}

// New creates a closed, empty chat window.
func New(scheduler port.Scheduler, random port.RandomSource, opts ...Option) *Widget {
	w := &Widget{
		scheduler: scheduler,
		random:    random,
		responder: NewResponder(random),
		pending:   make(map[int]port.Handle),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Toggle opens or closes the window and reports whether it is now open.
func (w *Widget) Toggle() bool {
	w.open = !w.open
	w.changed()
	return w.open
}

// Close closes the window. Pending replies still arrive.
func (w *Widget) Close() {
	w.open = false
	w.changed()
}

// Send posts a visitor question. Blank text is ignored and reported as false.
// The reply replaces a typing indicator after a random delay.
func (w *Widget) Send(text string) (Topic, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	w.append(Message{Author: AuthorUser, Text: text})
	typing := w.append(Message{Author: AuthorAI, Text: TypingText, Typing: true})
	topic := Classify(text)

	delay := time.Duration(minTypingMs+w.random.IntN(typingSpanMs)) * time.Millisecond
	w.pending[typing.ID] = w.scheduler.Schedule(delay, func() { w.reply(typing.ID, topic) })

	w.changed()
	return topic, true
}

// Stop cancels every pending reply.
func (w *Widget) Stop() {
	for id, h := range w.pending {
		h.Cancel()
		delete(w.pending, id)
	}
}

// State returns the current rendering.
func (w *Widget) State() State {
	return State{Open: w.open, Messages: append([]Message{}, w.messages...)}
}

func (w *Widget) reply(typingID int, topic Topic) {
	if _, ok := w.pending[typingID]; !ok {
		return
	}
	delete(w.pending, typingID)

	for i, m := range w.messages {
		if m.ID == typingID {
			w.messages = append(w.messages[:i], w.messages[i+1:]...)
			break
		}
	}
	w.append(Message{Author: AuthorAI, Text: w.responder.Answer(topic)})
	w.changed()
}

func (w *Widget) append(m Message) Message {
	w.nextID++
	m.ID = w.nextID
	w.messages = append(w.messages, m)
	return m
}

func (w *Widget) changed() {
	if w.onChange != nil {
		w.onChange(w.State())
	}
}
