package location

import "sync"

// Router is the navigable address collaborator.
type Router interface {
	Current() Location
	Push(Location)
	Replace(Location)
	Back() bool
	OnNavigate(Listener)
}

// Listener is notified after every navigation.
type Listener func(Location)

// History is an in-memory Router with a back stack. Navigations never
// reload anything; they only record the new address and notify listeners.
type History struct {
	mu        sync.Mutex
	entries   []Location
	listeners []Listener
}

// NewHistory starts a history at start.
func NewHistory(start Location) *History {
	return &History{entries: []Location{start.Clone()}}
}

// Current returns a copy of the address on top of the stack.
func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1].Clone()
}

// Push records a new navigation entry.
func (h *History) Push(l Location) {
	h.mu.Lock()
	h.entries = append(h.entries, l.Clone())
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	notify(listeners, l)
}

// Replace swaps the current entry without growing the stack.
func (h *History) Replace(l Location) {
	h.mu.Lock()
	h.entries[len(h.entries)-1] = l.Clone()
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	notify(listeners, l)
}

// Back pops the current entry. It reports false when already at the first
// entry.
func (h *History) Back() bool {
	h.mu.Lock()
	if len(h.entries) <= 1 {
		h.mu.Unlock()
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	current := h.entries[len(h.entries)-1].Clone()
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	notify(listeners, current)
	return true
}

// Len is the number of entries on the stack.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// OnNavigate registers fn to run after every navigation.
func (h *History) OnNavigate(fn Listener) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

func (h *History) snapshotListeners() []Listener {
	return append([]Listener(nil), h.listeners...)
}

func notify(listeners []Listener, l Location) {
	for _, fn := range listeners {
		fn(l.Clone())
	}
}
