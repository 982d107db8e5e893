// Package prediction holds the client's unconfirmed input history and
// reconciles it against authoritative confirmations.
package prediction

import (
	"errors"
	"fmt"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

var (
	ErrNonMonotonicTick = errors.New("input tick not strictly increasing")
	ErrTickGap          = errors.New("input tick leaves a gap")
)

// Entry is one predicted tick: the intent and the state after applying it.
type Entry struct {
	Tick   uint64
	Intent model.Intent
	State  model.PredictionState
}

// Buffer is a bounded ring of entries in strictly increasing, contiguous tick
// order. When full, Push drops the oldest entry and marks the buffer as
// needing a resync. The newest tick ever pushed is remembered across
// discards, so the stream stays strictly increasing even after the buffer
// empties. Not safe for concurrent use.
type Buffer struct {
	ring  []Entry
	head  int
	n     int
	stale bool

	lastTick uint64
	hasLast  bool
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{ring: make([]Entry, capacity)}
}

func (b *Buffer) Cap() int { return len(b.ring) }
func (b *Buffer) Len() int { return b.n }

// Push appends e. e.Tick must be newer than every tick pushed before, and
// while the buffer is non-empty it must equal the last tick plus one.
func (b *Buffer) Push(e Entry) error {
	if b.hasLast && e.Tick <= b.lastTick {
		return fmt.Errorf("%w: %d after %d", ErrNonMonotonicTick, e.Tick, b.lastTick)
	}
	if b.n > 0 && e.Tick != b.lastTick+1 {
		return fmt.Errorf("%w: %d after %d", ErrTickGap, e.Tick, b.lastTick)
	}
	if b.n == len(b.ring) {
		b.ring[b.head] = Entry{}
		b.head = (b.head + 1) % len(b.ring)
		b.n--
		b.stale = true
	}
	b.ring[(b.head+b.n)%len(b.ring)] = e
	b.n++
	b.lastTick, b.hasLast = e.Tick, true
	return nil
}

// DiscardUpTo removes the contiguous prefix of entries with Tick <= tick and
// returns how many were removed.
func (b *Buffer) DiscardUpTo(tick uint64) int {
	removed := 0
	for b.n > 0 && b.ring[b.head].Tick <= tick {
		b.ring[b.head] = Entry{}
		b.head = (b.head + 1) % len(b.ring)
		b.n--
		removed++
	}
	return removed
}

// Find returns the entry for tick, if buffered.
func (b *Buffer) Find(tick uint64) (Entry, bool) {
	if b.n == 0 {
		return Entry{}, false
	}
	first := b.ring[b.head].Tick
	if tick < first || tick-first >= uint64(b.n) {
		return Entry{}, false
	}
	return b.at(int(tick - first)), true
}

// Entries returns a tick-ordered copy of the buffered entries.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, b.n)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}

// Last returns the newest entry.
func (b *Buffer) Last() (Entry, bool) {
	if b.n == 0 {
		return Entry{}, false
	}
	return b.at(b.n - 1), true
}

// Overflowed reports whether entries were dropped since the last TakeOverflow.
func (b *Buffer) Overflowed() bool { return b.stale }

// TakeOverflow reports and clears the overflow mark.
func (b *Buffer) TakeOverflow() bool {
	s := b.stale
	b.stale = false
	return s
}

// replace swaps the buffered entries for recomputed ones covering the same
// ticks. The newest pushed tick is kept.
func (b *Buffer) replace(entries []Entry) {
	for i := range b.ring {
		b.ring[i] = Entry{}
	}
	b.head, b.n = 0, 0
	for _, e := range entries {
		b.ring[b.n] = e
		b.n++
	}
}

func (b *Buffer) at(i int) Entry {
	return b.ring[(b.head+i)%len(b.ring)]
}
