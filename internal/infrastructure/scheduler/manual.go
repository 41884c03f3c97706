package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
)

// ManualScheduler is a virtual clock. Callbacks run only when the clock is
// advanced, in due-time order, on the goroutine that advances it.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*manualTask
}

type manualTask struct {
	due       time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
	owner     *ManualScheduler
}

// NewManualScheduler creates a virtual clock starting at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule registers fn to run once the clock reaches now+delay. Negative
// delays are treated as zero.
func (m *ManualScheduler) Schedule(delay time.Duration, fn func()) port.Handle {
	if delay < 0 {
		delay = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{due: m.now + delay, seq: m.seq, fn: fn, owner: m}
	m.pending = append(m.pending, t)
	return t
}

func (t *manualTask) Cancel() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

// Now returns the elapsed virtual time.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of callbacks that have neither run nor been
// cancelled.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every callback that falls
// due, including callbacks scheduled by other callbacks within the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()
}

// Next runs the earliest pending callback, moving the clock to its due time.
// It reports false when nothing is pending.
func (m *ManualScheduler) Next() bool {
	t := m.popDue(-1)
	if t == nil {
		return false
	}
	t.fn()
	return true
}

// RunUntilIdle runs callbacks until none remain, up to limit callbacks. It
// returns the number of callbacks run.
func (m *ManualScheduler) RunUntilIdle(limit int) int {
	n := 0
	for n < limit && m.Next() {
		n++
	}
	return n
}

// popDue removes and returns the earliest live task due at or before limit,
// or any live task when limit is negative. The lock is released before the
// caller runs the callback.
func (m *ManualScheduler) popDue(limit time.Duration) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled && !t.fired {
			live = append(live, t)
		}
	}
	m.pending = live
	if len(m.pending) == 0 {
		return nil
	}

	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].due != m.pending[j].due {
			return m.pending[i].due < m.pending[j].due
		}
		return m.pending[i].seq < m.pending[j].seq
	})

	t := m.pending[0]
	if limit >= 0 && t.due > limit {
		return nil
	}
	t.fired = true
	m.pending = m.pending[1:]
	if t.due > m.now {
		m.now = t.due
	}
	return t
}
