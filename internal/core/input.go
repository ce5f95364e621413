package core

import (
	"sort"
	"sync"
	"time"
)

// Key names an input code, using the host's key names ("left", "space", "a").
type Key string

// Keys used by the demo scenes.
const (
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
	KeySpace Key = "space"
)

// KeySet is a snapshot of input codes that are currently held.
type KeySet map[Key]struct{}

// NewKeySet creates a set holding the given keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is held.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Keys returns the held keys in sorted order.
func (s KeySet) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ActiveKeys lets a fixed KeySet serve as an InputSource.
func (s KeySet) ActiveKeys() KeySet {
	return s
}

// InputSource produces the set of currently held keys on demand.
// Scenes only iterate the snapshot and never see how it was collected.
type InputSource interface {
	ActiveKeys() KeySet
}

// DefaultHoldWindow is how long a key counts as held after its last press.
const DefaultHoldWindow = 150 * time.Millisecond

// HeldKeys bridges key events to held-key snapshots. Terminals report key
// presses and auto-repeat but no releases, so a key stays held for a hold
// window after its most recent press. Repeated presses of the same key only
// refresh its timestamp.
//
// HeldKeys is safe for concurrent use: the host goroutine presses keys while
// the render loop reads snapshots.
type HeldKeys struct {
	mu      sync.Mutex
	pressed map[Key]time.Time
	hold    time.Duration
	now     func() time.Time
}

// NewHeldKeys creates a bridge with the given hold window.
// A non-positive window uses DefaultHoldWindow.
func NewHeldKeys(hold time.Duration) *HeldKeys {
	if hold <= 0 {
		hold = DefaultHoldWindow
	}
	return &HeldKeys{
		pressed: make(map[Key]time.Time),
		hold:    hold,
		now:     time.Now,
	}
}

// Press marks k as held from now.
func (h *HeldKeys) Press(k Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pressed[k] = h.now()
}

// Release drops k immediately.
func (h *HeldKeys) Release(k Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pressed, k)
}

// Clear drops all keys.
func (h *HeldKeys) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for k := range h.pressed {
		delete(h.pressed, k)
	}
}

// ActiveKeys returns the keys pressed within the hold window and forgets
// expired ones.
func (h *HeldKeys) ActiveKeys() KeySet {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	active := make(KeySet, len(h.pressed))
	for k, at := range h.pressed {
		if now.Sub(at) > h.hold {
			delete(h.pressed, k)
			continue
		}
		active[k] = struct{}{}
	}
	return active
}

var (
	_ InputSource = (*HeldKeys)(nil)
	_ InputSource = KeySet(nil)
)
