package world

import (
	"github.com/xztyle/nebula-engine-sub000/internal/persistence/snapshot"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/terrain/store"
)

// ExportSnapshot captures the state after nowTick has been stepped.
// It must be called from the world loop goroutine.
func (w *World) ExportSnapshot(nowTick uint64) snapshot.SnapshotV1 {
	ids := w.players.sortedIDs()
	players := make([]snapshot.PlayerV1, 0, len(ids))
	for _, id := range ids {
		p := w.players.get(id)
		players = append(players, snapshot.PlayerV1{
			ID:            uint32(p.ID),
			Name:          p.Name,
			Pos:           p.State.Position.Array(),
			Vel:           p.State.Velocity.Array(),
			Yaw:           p.State.Yaw,
			Pitch:         p.State.Pitch,
			LastInputTick: p.State.LastInputTick,
			MoveCreditMM:  p.moves.CreditMM,
			MoveTick:      p.moves.Tick,
		})
	}

	return snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			WorldID: w.cfg.ID,
			Tick:    nowTick,
		},
		TickRateHz:          w.cfg.TickRateHz,
		MaxMoveMMPerTick:    w.limits.MaxMoveMM,
		InteractionRadiusMM: w.limits.InteractionRadiusMM,
		VoxelSizeMM:         w.limits.VoxelSizeMM,
		MoveBurstTicks:      w.cfg.MoveBurstTicks,
		SnapshotEveryTicks:  w.cfg.SnapshotEveryTicks,
		Players:             players,
		Voxels:              store.ExportEdits(w.voxels),
		Counters:            snapshot.CountersV1{NextPlayer: w.nextPlayerNum.Load()},
	}
}
