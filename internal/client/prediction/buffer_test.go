package prediction

import (
	"errors"
	"testing"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

func mv(dx int32) model.Intent { return model.Move{PlayerID: 1, Delta: model.Vec3{X: dx}} }

func TestBuffer_PushOrdering(t *testing.T) {
	b := NewBuffer(8)
	if err := b.Push(Entry{Tick: 5, Intent: mv(1)}); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := b.Push(Entry{Tick: 5}); !errors.Is(err, ErrNonMonotonicTick) {
		t.Fatalf("duplicate: expected ErrNonMonotonicTick, got %v", err)
	}
	if err := b.Push(Entry{Tick: 3}); !errors.Is(err, ErrNonMonotonicTick) {
		t.Fatalf("older: expected ErrNonMonotonicTick, got %v", err)
	}
	if err := b.Push(Entry{Tick: 7}); !errors.Is(err, ErrTickGap) {
		t.Fatalf("gap: expected ErrTickGap, got %v", err)
	}
	if err := b.Push(Entry{Tick: 6}); err != nil {
		t.Fatalf("next: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("len=%d", b.Len())
	}
}

func TestBuffer_DiscardUpTo(t *testing.T) {
	b := NewBuffer(8)
	for tick := uint64(1); tick <= 5; tick++ {
		if err := b.Push(Entry{Tick: tick, Intent: mv(20)}); err != nil {
			t.Fatalf("push %d: %v", tick, err)
		}
	}
	if n := b.DiscardUpTo(0); n != 0 {
		t.Fatalf("discard 0 removed %d", n)
	}
	if n := b.DiscardUpTo(3); n != 3 {
		t.Fatalf("removed=%d want 3", n)
	}
	es := b.Entries()
	if len(es) != 2 || es[0].Tick != 4 || es[1].Tick != 5 {
		t.Fatalf("entries=%+v", es)
	}
	if n := b.DiscardUpTo(100); n != 2 || b.Len() != 0 {
		t.Fatalf("removed=%d len=%d", n, b.Len())
	}
	// An empty buffer accepts a later tick, gap or not.
	if err := b.Push(Entry{Tick: 42}); err != nil {
		t.Fatalf("push after drain: %v", err)
	}
}

func TestBuffer_PushAfterFullDiscardStaysMonotonic(t *testing.T) {
	b := NewBuffer(8)
	for tick := uint64(1); tick <= 5; tick++ {
		if err := b.Push(Entry{Tick: tick, Intent: mv(20)}); err != nil {
			t.Fatalf("push %d: %v", tick, err)
		}
	}
	b.DiscardUpTo(5)
	if err := b.Push(Entry{Tick: 3}); !errors.Is(err, ErrNonMonotonicTick) {
		t.Fatalf("older tick after discard: err=%v len=%d", err, b.Len())
	}
	if err := b.Push(Entry{Tick: 5}); !errors.Is(err, ErrNonMonotonicTick) {
		t.Fatalf("repeated tick after discard: err=%v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("len=%d", b.Len())
	}
	if err := b.Push(Entry{Tick: 6}); err != nil {
		t.Fatalf("next tick: %v", err)
	}
}

func TestBuffer_EntriesIsACopy(t *testing.T) {
	b := NewBuffer(4)
	_ = b.Push(Entry{Tick: 1, State: model.PredictionState{Tick: 1, Position: model.Vec3{X: 20}}})
	es := b.Entries()
	es[0].State.Position.X = 999
	if got, _ := b.Find(1); got.State.Position.X != 20 {
		t.Fatalf("buffer mutated through Entries: %+v", got)
	}
}

func TestBuffer_OverflowDropsOldestAndFlags(t *testing.T) {
	b := NewBuffer(3)
	for tick := uint64(1); tick <= 5; tick++ {
		if err := b.Push(Entry{Tick: tick}); err != nil {
			t.Fatalf("push %d: %v", tick, err)
		}
	}
	es := b.Entries()
	if len(es) != 3 || es[0].Tick != 3 || es[2].Tick != 5 {
		t.Fatalf("entries=%+v", es)
	}
	if !b.Overflowed() {
		t.Fatalf("expected overflow flag")
	}
	if !b.TakeOverflow() || b.Overflowed() {
		t.Fatalf("TakeOverflow should report and clear")
	}
}

func TestBuffer_FindAcrossWrap(t *testing.T) {
	b := NewBuffer(3)
	for tick := uint64(10); tick <= 14; tick++ {
		_ = b.Push(Entry{Tick: tick, Intent: mv(int32(tick))})
	}
	e, ok := b.Find(13)
	if !ok || e.Tick != 13 || e.Intent.(model.Move).Delta.X != 13 {
		t.Fatalf("find 13: %+v ok=%v", e, ok)
	}
	if _, ok := b.Find(11); ok {
		t.Fatalf("tick 11 was dropped, should not be found")
	}
	if _, ok := b.Find(15); ok {
		t.Fatalf("tick 15 not pushed yet")
	}
}
