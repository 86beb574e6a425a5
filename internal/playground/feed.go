package playground

import (
	"sync"
	"time"

	"github.com/phinze/overmouse/internal/action"
	"github.com/phinze/overmouse/internal/event"
)

const feedSize = 8

// Entry is one performed action.
type Entry struct {
	Action action.Action
	At     time.Time
}

// Feed records performed actions and momentum scroll output instead of
// posting them to the OS.
type Feed struct {
	mu      sync.Mutex
	entries []Entry
	scrollX float64
	scrollY float64
	steps   int
	now     func() time.Time
}

// NewFeed returns an empty Feed.
func NewFeed() *Feed {
	return &Feed{now: time.Now}
}

// Execute records a.
func (f *Feed) Execute(a action.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, Entry{Action: a, At: f.now()})
	if n := len(f.entries); n > feedSize {
		f.entries = append(f.entries[:0], f.entries[n-feedSize:]...)
	}
}

// PostScroll accumulates a synthetic scroll step.
func (f *Feed) PostScroll(d event.ScrollDelta) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrollX += d.DX
	f.scrollY += d.DY
	f.steps++
}

// AddScroll accumulates scroll that reached the OS directly, such as a
// modified wheel event.
func (f *Feed) AddScroll(d event.ScrollDelta) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrollX += d.DX
	f.scrollY += d.DY
}

// Entries returns the most recent actions, oldest first.
func (f *Feed) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Entry(nil), f.entries...)
}

// Scroll returns the accumulated scroll offset and the number of momentum
// steps posted.
func (f *Feed) Scroll() (x, y float64, steps int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scrollX, f.scrollY, f.steps
}
