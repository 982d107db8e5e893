package model

// FullTurnMilliRad is one full revolution (2*pi rad) rounded to whole milliradians.
const FullTurnMilliRad = 6283

// PlayerState is the authoritative per-player record owned by the world.
type PlayerState struct {
	Position Vec3
	Velocity Vec3 // mm/tick
	Yaw      int32
	Pitch    int32

	// LastInputTick is the client tick of the last intent the world processed
	// for this player, whether it was applied or rejected.
	LastInputTick uint64
}

// AuthoritativePlayerState is the confirmation sent back to the owning client.
// Tick is the client tick it confirms; ServerTick is the world tick it was produced on.
type AuthoritativePlayerState struct {
	PlayerID   PlayerID
	Tick       uint64
	ServerTick uint64
	Position   Vec3
	Velocity   Vec3
	Yaw        int32
	Pitch      int32
}

// PredictionState is the client's locally simulated state after Tick's intent.
type PredictionState struct {
	Tick     uint64
	Position Vec3
	Velocity Vec3
}
