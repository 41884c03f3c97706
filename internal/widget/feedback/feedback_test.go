package feedback_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/scheduler"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/feedback"
	"github.com/ahesenov7-ai/paysphate.demo/pkg/testutil"
)

func validEntry() feedback.Entry {
	return feedback.Entry{Name: "Ada", Email: "ada@example.com", Message: "Great demo"}
}

func TestForm_SubmitFlow(t *testing.T) {
	clock := scheduler.NewManualScheduler()
	var statuses []feedback.Status
	f := feedback.New(clock, feedback.WithListener(func(s feedback.State) { statuses = append(statuses, s.Status) }))

	assert.Equal(t, feedback.StatusIdle, f.State().Status)
	assert.Equal(t, "Submit Feedback", f.State().Button)

	require.NoError(t, f.Submit(validEntry()))
	state := f.State()
	assert.Equal(t, feedback.StatusSubmitting, state.Status)
	assert.Equal(t, "Submitting...", state.Button)
	assert.Equal(t, "Ada", state.Entry.Name)

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, feedback.StatusSubmitting, f.State().Status)

	clock.Advance(time.Millisecond)
	state = f.State()
	assert.Equal(t, feedback.StatusThanked, state.Status)
	assert.Equal(t, feedback.ThankYou, state.Notice)
	assert.Equal(t, feedback.Entry{}, state.Entry, "form clears")
	assert.Equal(t, "Submit Feedback", state.Button)
	assert.Equal(t, 1, state.Entries)
	assert.Equal(t, []feedback.Entry{validEntry()}, f.Entries())

	assert.Equal(t, []feedback.Status{feedback.StatusSubmitting, feedback.StatusThanked}, statuses)
}

func TestForm_RequiresAllFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*feedback.Entry)
	}{
		{"name", func(e *feedback.Entry) { e.Name = "" }},
		{"email", func(e *feedback.Entry) { e.Email = "  " }},
		{"message", func(e *feedback.Entry) { e.Message = "\n" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			clock := scheduler.NewManualScheduler()
			f := feedback.New(clock)
			entry := validEntry()
			tt.mutate(&entry)

			err := f.Submit(entry)

			testutil.RequireValidationError(t, err, tt.field)
			assert.Equal(t, feedback.StatusIdle, f.State().Status)
			assert.Zero(t, clock.Pending())
		})
	}
}

func TestForm_RejectsSecondSubmitWhileSubmitting(t *testing.T) {
	clock := scheduler.NewManualScheduler()
	f := feedback.New(clock)
	require.NoError(t, f.Submit(validEntry()))

	err := f.Submit(validEntry())

	assert.True(t, errors.Is(err, feedback.ErrSubmitting))
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(time.Second)
	require.NoError(t, f.Submit(validEntry()), "accepted again once thanked")
}

func TestForm_Stop(t *testing.T) {
	clock := scheduler.NewManualScheduler()
	f := feedback.New(clock, feedback.WithDelay(10*time.Millisecond))
	require.NoError(t, f.Submit(validEntry()))

	f.Stop()
	clock.Advance(time.Second)

	assert.Equal(t, feedback.StatusSubmitting, f.State().Status)
	assert.Empty(t, f.Entries())
}
