package prediction

import (
	"errors"
	"testing"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/movement"
)

// predictN fills buf with n Move{dx} intents starting at tick 1 from the origin.
func predictN(t *testing.T, buf *Buffer, n int, dx int32) model.PredictionState {
	t.Helper()
	var cur model.PredictionState
	for i := 1; i <= n; i++ {
		in := mv(dx)
		cur = movement.Predict(cur, uint64(i), in)
		if err := buf.Push(Entry{Tick: uint64(i), Intent: in, State: cur}); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	return cur
}

func confirm(tick uint64, x int32) model.AuthoritativePlayerState {
	return model.AuthoritativePlayerState{PlayerID: 1, Tick: tick, Position: model.Vec3{X: x}, Velocity: model.Vec3{X: 20}}
}

func TestReconcile_MatchIsIdempotent(t *testing.T) {
	buf := NewBuffer(16)
	predictN(t, buf, 5, 20)

	srv := confirm(3, 60)
	res := Reconcile(buf, srv)
	if res.Corrected || res.Replayed != 0 {
		t.Fatalf("expected no correction: %+v", res)
	}
	if res.State.Tick != 3 || res.State.Position != srv.Position || res.State.Velocity != srv.Velocity {
		t.Fatalf("state=%+v want server state", res.State)
	}
	es := buf.Entries()
	if len(es) != 2 || es[0].Tick != 4 || es[0].State.Position.X != 80 {
		t.Fatalf("entries after match=%+v", es)
	}
}

func TestReconcile_MismatchReplays(t *testing.T) {
	buf := NewBuffer(16)
	predictN(t, buf, 5, 20)

	// Server saw tick 2 at x=1000; ticks 3..5 replay from there.
	res := Reconcile(buf, confirm(2, 1000))
	if !res.Corrected || res.Replayed != 3 {
		t.Fatalf("expected correction with 3 replays: %+v", res)
	}
	if res.State.Tick != 5 || res.State.Position.X != 1060 {
		t.Fatalf("state=%+v want x=1060 at tick 5", res.State)
	}
	// The rebuilt buffer now matches a server that agrees with the correction.
	if e, ok := buf.Find(4); !ok || e.State.Position.X != 1040 {
		t.Fatalf("rebuilt entry 4=%+v ok=%v", e, ok)
	}
	again := Reconcile(buf, confirm(4, 1040))
	if again.Corrected {
		t.Fatalf("second confirmation should match: %+v", again)
	}
}

func TestReconcile_ReplayIsBaselinePlusKDelta(t *testing.T) {
	for k := 0; k <= 10; k++ {
		buf := NewBuffer(32)
		predictN(t, buf, 1+k, 7)
		res := Reconcile(buf, confirm(1, -500))
		want := int32(-500 + 7*k)
		if !res.Corrected || res.State.Position.X != want {
			t.Fatalf("k=%d: %+v want x=%d", k, res, want)
		}
	}
}

func TestReconcile_MissingEntryIsMismatch(t *testing.T) {
	buf := NewBuffer(16)
	res := Reconcile(buf, confirm(9, 0))
	if !res.Corrected || res.State.Position.X != 0 || res.State.Tick != 9 {
		t.Fatalf("empty buffer: %+v", res)
	}
}

func TestReconcile_OverflowForcesResync(t *testing.T) {
	buf := NewBuffer(4)
	predictN(t, buf, 6, 20) // ticks 1,2 dropped

	// Tick 3's prediction (x=60) matches, but the overflow still forces replay.
	res := Reconcile(buf, confirm(3, 60))
	if !res.Corrected || res.Replayed != 3 || res.State.Position.X != 120 {
		t.Fatalf("forced resync: %+v", res)
	}
	if buf.Overflowed() {
		t.Fatalf("overflow flag should be cleared")
	}
	if next := Reconcile(buf, confirm(4, 80)); next.Corrected {
		t.Fatalf("after resync a matching confirmation should not correct: %+v", next)
	}
}

func TestReconcile_NonMoveIntentsReplayUnchanged(t *testing.T) {
	buf := NewBuffer(8)
	var cur model.PredictionState
	intents := []model.Intent{
		mv(20),
		model.Rotate{PlayerID: 1, DeltaYaw: 100},
		model.PlaceVoxel{PlayerID: 1, Voxel: 2},
		mv(20),
	}
	for i, in := range intents {
		cur = movement.Predict(cur, uint64(i+1), in)
		_ = buf.Push(Entry{Tick: uint64(i + 1), Intent: in, State: cur})
	}
	res := Reconcile(buf, confirm(1, 0))
	if res.State.Position.X != 20 || res.State.Velocity.X != 20 {
		t.Fatalf("state=%+v", res.State)
	}
}

func TestReconcile_RebuiltBufferKeepsTickOrder(t *testing.T) {
	buf := NewBuffer(16)
	predictN(t, buf, 5, 20)
	if res := Reconcile(buf, confirm(5, 400)); !res.Corrected || buf.Len() != 0 {
		t.Fatalf("res=%+v len=%d", res, buf.Len())
	}
	if err := buf.Push(Entry{Tick: 4, Intent: mv(20)}); !errors.Is(err, ErrNonMonotonicTick) {
		t.Fatalf("confirmed tick re-pushed: %v", err)
	}

	pushRange := func(from, to uint64) {
		for tick := from; tick <= to; tick++ {
			if err := buf.Push(Entry{Tick: tick, Intent: mv(20)}); err != nil {
				t.Fatalf("push %d: %v", tick, err)
			}
		}
	}
	pushRange(6, 8)
	if res := Reconcile(buf, confirm(6, 0)); !res.Corrected || res.Replayed != 2 {
		t.Fatalf("res=%+v", res)
	}
	if err := buf.Push(Entry{Tick: 8, Intent: mv(20)}); !errors.Is(err, ErrNonMonotonicTick) {
		t.Fatalf("replayed tick re-pushed: %v", err)
	}
	if err := buf.Push(Entry{Tick: 9, Intent: mv(20)}); err != nil {
		t.Fatalf("next tick after rebuild: %v", err)
	}
}
