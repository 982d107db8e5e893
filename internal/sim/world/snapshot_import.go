package world

import (
	"fmt"

	"github.com/xztyle/nebula-engine-sub000/internal/persistence/snapshot"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/validation"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/terrain/store"
)

// ImportSnapshot replaces the current in-memory world state with the snapshot.
// It sets the world's tick to snapshotTick+1 (the next tick to simulate).
//
// Restored players have no session attached. Run expires them on its first
// tick so the departure is recorded like any other leave; StepOnce-based
// replays keep them until the recorded leave arrives.
//
// This must be called only when the world is stopped or from the world loop goroutine.
func (w *World) ImportSnapshot(s snapshot.SnapshotV1) error {
	if s.Header.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version: %d", s.Header.Version)
	}

	// Rule parameters must match or replayed validation would diverge.
	if s.TickRateHz != w.cfg.TickRateHz {
		return fmt.Errorf("snapshot tick_rate_hz mismatch: cfg=%d snap=%d", w.cfg.TickRateHz, s.TickRateHz)
	}
	if s.MaxMoveMMPerTick != w.limits.MaxMoveMM {
		return fmt.Errorf("snapshot max_move_mm_per_tick mismatch: cfg=%d snap=%d", w.limits.MaxMoveMM, s.MaxMoveMMPerTick)
	}
	if s.InteractionRadiusMM != w.limits.InteractionRadiusMM {
		return fmt.Errorf("snapshot interaction_radius_mm mismatch: cfg=%d snap=%d", w.limits.InteractionRadiusMM, s.InteractionRadiusMM)
	}
	if s.VoxelSizeMM != w.limits.VoxelSizeMM {
		return fmt.Errorf("snapshot voxel_size_mm mismatch: cfg=%d snap=%d", w.limits.VoxelSizeMM, s.VoxelSizeMM)
	}
	if s.MoveBurstTicks != w.cfg.MoveBurstTicks {
		return fmt.Errorf("snapshot move_burst_ticks mismatch: cfg=%d snap=%d", w.cfg.MoveBurstTicks, s.MoveBurstTicks)
	}

	// Operational parameters: snapshot is authoritative when present.
	if s.SnapshotEveryTicks > 0 {
		w.cfg.SnapshotEveryTicks = s.SnapshotEveryTicks
	}

	voxels, err := store.ImportEdits(s.Voxels)
	if err != nil {
		return err
	}

	players := newPlayerTable()
	orphans := make([]model.PlayerID, 0, len(s.Players))
	for _, ps := range s.Players {
		if ps.ID == 0 || ps.ID > s.Counters.NextPlayer {
			return fmt.Errorf("snapshot player id %d outside counter %d", ps.ID, s.Counters.NextPlayer)
		}
		id := model.PlayerID(ps.ID)
		if players.get(id) != nil {
			return fmt.Errorf("snapshot player %d listed twice", ps.ID)
		}
		players.add(&player{
			ID:   id,
			Name: ps.Name,
			State: model.PlayerState{
				Position:      model.Vec3FromArray(ps.Pos),
				Velocity:      model.Vec3FromArray(ps.Vel),
				Yaw:           ps.Yaw,
				Pitch:         ps.Pitch,
				LastInputTick: ps.LastInputTick,
			},
			moves: validation.MoveBudget{CreditMM: ps.MoveCreditMM, Tick: ps.MoveTick},
		})
		orphans = append(orphans, id)
	}

	w.players = players
	w.voxels = voxels
	w.clients = map[model.PlayerID]*clientState{}
	w.orphans = orphans
	w.nextPlayerNum.Store(s.Counters.NextPlayer)
	w.tick.Store(s.Header.Tick + 1)
	return nil
}
