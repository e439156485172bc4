// Package debounce coalesces bursts of values into a single trailing-edge
// delivery.
package debounce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultWindow is the quiescence window used when none is configured.
const DefaultWindow = 400 * time.Millisecond

// Phase is the state of a Debouncer.
type Phase int

const (
	Idle Phase = iota
	Armed
	Fired
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Token identifies one arming of a Debouncer. Only the latest token can
// fire.
type Token uint64

// FiredMsg is delivered by the command returned from Schedule once the
// window has elapsed.
type FiredMsg struct {
	ID    string
	Token Token
}

// Debouncer holds at most one pending value. Each Push replaces the pending
// value and restarts the window; Fire delivers the value exactly once and
// only for the most recent token.
type Debouncer struct {
	mu       sync.Mutex
	id       string
	window   time.Duration
	now      func() time.Time
	phase    Phase
	token    Token
	value    string
	deadline time.Time
}

// New creates a Debouncer. The id is echoed in FiredMsg so several
// debouncers can share one message loop.
func New(id string, window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		id:     id,
		window: window,
		now:    time.Now,
	}
}

// Push arms the debouncer with value. A value arriving while armed replaces
// the pending one. After Cancel, Push is a no-op and returns the zero token.
func (d *Debouncer) Push(value string) Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase == Cancelled {
		return 0
	}

	d.token++
	d.value = value
	d.deadline = d.now().Add(d.window)
	d.phase = Armed
	return d.token
}

// Fire delivers the pending value if token is the latest arming and the
// debouncer has neither fired for it nor been cancelled.
func (d *Debouncer) Fire(token Token) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase != Armed || token != d.token {
		return "", false
	}

	d.phase = Fired
	return d.value, true
}

// Cancel disarms the debouncer for good. A pending value is dropped and
// later timers never fire.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.phase = Cancelled
	d.value = ""
}

// Discard drops a pending value without disarming for good. Ticks already
// scheduled no longer match the latest token.
func (d *Debouncer) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase == Cancelled {
		return
	}
	d.token++
	d.value = ""
	d.phase = Idle
}

// Pending returns the armed value, if any.
func (d *Debouncer) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase != Armed {
		return "", false
	}
	return d.value, true
}

// Phase reports the current state.
func (d *Debouncer) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Deadline is when the pending value becomes due. It is zero unless armed.
func (d *Debouncer) Deadline() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase != Armed {
		return time.Time{}
	}
	return d.deadline
}

// Schedule arms the debouncer with value and returns a command that reports
// back after the window. Stale ticks are filtered by Fire.
func (d *Debouncer) Schedule(value string) tea.Cmd {
	token := d.Push(value)
	if token == 0 {
		return nil
	}

	id := d.id
	return tea.Tick(d.window, func(time.Time) tea.Msg {
		return FiredMsg{ID: id, Token: token}
	})
}

// Matches reports whether msg belongs to this debouncer.
func (d *Debouncer) Matches(msg FiredMsg) bool {
	return msg.ID == d.id
}
