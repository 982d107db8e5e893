package movement

import (
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/mathx"
)

// Simulate advances (pos, vel) by one tick under intent. It must stay a pure
// function: the server applies it once and clients replay it during
// reconciliation, so both sides have to reach the same result from the same inputs.
//
// A Move adds its delta to the position (saturating per axis) and the delta
// becomes the velocity in mm/tick. Every other intent leaves both unchanged.
func Simulate(pos, vel model.Vec3, intent model.Intent) (model.Vec3, model.Vec3) {
	switch it := intent.(type) {
	case model.Move:
		return pos.Add(it.Delta), it.Delta
	default:
		return pos, vel
	}
}

// Orient applies a Rotate additively, wrapping both angles into [0, FullTurnMilliRad).
func Orient(yaw, pitch int32, r model.Rotate) (int32, int32) {
	return mathx.WrapAdd(yaw, r.DeltaYaw, model.FullTurnMilliRad),
		mathx.WrapAdd(pitch, r.DeltaPitch, model.FullTurnMilliRad)
}

// Predict runs Simulate on a prediction and stamps the result with tick.
func Predict(prev model.PredictionState, tick uint64, intent model.Intent) model.PredictionState {
	pos, vel := Simulate(prev.Position, prev.Velocity, intent)
	return model.PredictionState{Tick: tick, Position: pos, Velocity: vel}
}
