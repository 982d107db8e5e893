package validation

import (
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/mathx"
)

// Players is the read side of the authoritative world the validator consults.
type Players interface {
	Player(id model.PlayerID) (model.PlayerState, bool)
}

type Limits struct {
	// MaxMoveMM is the largest accepted Move delta length per tick.
	MaxMoveMM int64
	// InteractionRadiusMM bounds the distance from the player to an edited voxel.
	InteractionRadiusMM int64
	// VoxelSizeMM converts voxel coordinates to millimeters; <= 0 means 1.
	VoxelSizeMM int64
	// MoveBurstTicks is how many ticks of unused movement a player may bank;
	// <= 0 means 1.
	MoveBurstTicks int64
}

// LimitsFor derives the per-tick move cap from a speed and tick rate,
// rounding down. 12000 mm/s at 60 Hz gives 200 mm/tick.
func LimitsFor(maxSpeedMMPerS int64, tickRateHz int, interactionRadiusMM, voxelSizeMM int64) Limits {
	perTick := maxSpeedMMPerS
	if tickRateHz > 0 {
		perTick = maxSpeedMMPerS / int64(tickRateHz)
	}
	return Limits{
		MaxMoveMM:           perTick,
		InteractionRadiusMM: interactionRadiusMM,
		VoxelSizeMM:         voxelSizeMM,
	}
}

// Validate decides whether intent may be applied against the current
// authoritative state. It reads only the acting player's own record.
func Validate(intent model.Intent, players Players, lim Limits) error {
	if intent == nil {
		return ErrUnknownPlayer
	}
	p, ok := players.Player(intent.Player())
	if !ok {
		return ErrUnknownPlayer
	}

	switch it := intent.(type) {
	case model.Move:
		return checkMove(it.Delta, lim.MaxMoveMM)
	case model.PlaceVoxel:
		if it.Voxel == model.VoxelAir {
			return ErrInvalidVoxelType
		}
		return checkReach(p.Position, it.Pos, lim)
	case model.BreakVoxel:
		return checkReach(p.Position, it.Pos, lim)
	case model.Interact, model.Rotate:
		return nil
	default:
		return ErrUnknownPlayer
	}
}

func checkMove(delta model.Vec3, maxMM int64) error {
	max := nonNeg(maxMM)
	if delta.LenSq() <= sq(max) {
		return nil
	}
	return &Error{Reason: ReasonMoveTooFast, Distance: ceilDist(delta.LenSq()), Max: max}
}

func checkReach(from model.Vec3, target model.VoxelPos, lim Limits) error {
	c := VoxelCenterMM(target, lim.VoxelSizeMM)
	dsq := mathx.LenSq3(c[0]-int64(from.X), c[1]-int64(from.Y), c[2]-int64(from.Z))
	max := nonNeg(lim.InteractionRadiusMM)
	if dsq <= sq(max) {
		return nil
	}
	return &Error{Reason: ReasonOutOfRange, Distance: ceilDist(dsq), Max: max}
}

// VoxelCenterMM is the millimeter coordinate of a voxel's center.
func VoxelCenterMM(p model.VoxelPos, voxelSizeMM int64) [3]int64 {
	size := voxelSizeMM
	if size <= 0 {
		return [3]int64{int64(p.X), int64(p.Y), int64(p.Z)}
	}
	half := size / 2
	return [3]int64{
		int64(p.X)*size + half,
		int64(p.Y)*size + half,
		int64(p.Z)*size + half,
	}
}

func sq(v int64) uint64 { return mathx.LenSq3(v, 0, 0) }

func ceilDist(dsq uint64) int64 {
	d := mathx.SqrtCeil(dsq)
	if d > 1<<62 {
		return 1 << 62
	}
	return int64(d)
}

func nonNeg(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
