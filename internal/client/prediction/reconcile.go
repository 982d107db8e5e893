package prediction

import (
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/movement"
)

// Result is the outcome of one reconciliation.
type Result struct {
	Corrected bool
	// Replayed is the number of unconfirmed intents re-simulated.
	Replayed int
	State    model.PredictionState
}

// Reconcile resolves the confirmation for server.Tick against buf.
//
// If the buffered prediction for that tick matches the server position exactly
// the server state is returned uncorrected and the newer predictions stand.
// Otherwise the client rewinds to the
// server state and replays every remaining buffered intent; the buffer is
// rebuilt with the recomputed predictions so later confirmations compare
// against the corrected history. A prior buffer overflow always forces the
// replay path.
//
// Confirmed entries (Tick <= server.Tick) are discarded in both cases.
func Reconcile(buf *Buffer, server model.AuthoritativePlayerState) Result {
	base := model.PredictionState{
		Tick:     server.Tick,
		Position: server.Position,
		Velocity: server.Velocity,
	}

	forced := buf.TakeOverflow()
	pred, found := buf.Find(server.Tick)
	matched := found && !forced && pred.State.Position == server.Position

	buf.DiscardUpTo(server.Tick)

	if matched {
		return Result{State: base}
	}

	pending := buf.Entries()
	cur := base
	for i, e := range pending {
		cur = movement.Predict(cur, e.Tick, e.Intent)
		pending[i] = Entry{Tick: e.Tick, Intent: e.Intent, State: cur}
	}
	buf.replace(pending)
	return Result{Corrected: true, Replayed: len(pending), State: cur}
}
