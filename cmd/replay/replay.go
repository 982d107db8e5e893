package main

import (
	"errors"
	"fmt"
	"io"

	persistlog "github.com/xztyle/nebula-engine-sub000/internal/persistence/log"
	"github.com/xztyle/nebula-engine-sub000/internal/persistence/snapshot"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/tuning"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world"
)

var errNoTicks = errors.New("no recorded ticks after the starting point")

type result struct {
	Checked  uint64
	LastTick uint64
}

// openWorld builds the starting world: the snapshot state when snapPath is
// set, otherwise a fresh world from tuning. The summary line goes to out.
func openWorld(snapPath, tuningPath, worldID string, out io.Writer) (*world.World, uint64, error) {
	if snapPath == "" {
		tune, err := tuning.Load(tuningPath)
		if err != nil {
			return nil, 0, fmt.Errorf("load tuning: %w", err)
		}
		w, err := world.New(world.ConfigFromTuning(worldID, tune))
		if err != nil {
			return nil, 0, fmt.Errorf("world: %w", err)
		}
		fmt.Fprintf(out, "fresh world=%s tick_rate=%d max_move=%d\n", worldID, tune.TickRateHz, tune.MaxMoveMMPerTick())
		return w, 0, nil
	}

	snap, err := snapshot.ReadSnapshot(snapPath)
	if err != nil {
		return nil, 0, fmt.Errorf("read snapshot: %w", err)
	}
	fmt.Fprintf(out, "snapshot v%d world=%s tick=%d tick_rate=%d max_move=%d players=%d voxels=%d\n",
		snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.TickRateHz, snap.MaxMoveMMPerTick,
		len(snap.Players), len(snap.Voxels))

	w, err := world.New(configFromSnapshot(snap))
	if err != nil {
		return nil, 0, fmt.Errorf("world: %w", err)
	}
	if err := w.ImportSnapshot(snap); err != nil {
		return nil, 0, fmt.Errorf("import snapshot: %w", err)
	}
	return w, snap.Header.Tick, nil
}

// configFromSnapshot reconstructs the rule parameters recorded in snap.
// Max speed is derived back from the per-tick limit.
func configFromSnapshot(snap snapshot.SnapshotV1) world.WorldConfig {
	return world.WorldConfig{
		ID:                  snap.Header.WorldID,
		TickRateHz:          snap.TickRateHz,
		MaxSpeedMMPerS:      snap.MaxMoveMMPerTick * int64(snap.TickRateHz),
		InteractionRadiusMM: snap.InteractionRadiusMM,
		VoxelSizeMM:         snap.VoxelSizeMM,
		MoveBurstTicks:      snap.MoveBurstTicks,
		SnapshotEveryTicks:  snap.SnapshotEveryTicks,
	}
}

// replay re-drives w through the recorded ticks under worldDir and compares
// digests from verifyFrom on. Entries before the world's current tick are
// skipped so a snapshot can be combined with a full log.
func replay(w *world.World, worldDir string, verifyFrom, toTick uint64) (result, error) {
	var res result
	startTick := w.CurrentTick()
	if verifyFrom == 0 {
		verifyFrom = startTick
	}
	stepped := false

	err := persistlog.ScanTicks(worldDir, func(entry world.TickLogEntry) error {
		if entry.Tick < startTick {
			return nil
		}
		if toTick != 0 && entry.Tick > toTick {
			return persistlog.ErrStop
		}
		if entry.Tick != w.CurrentTick() {
			return fmt.Errorf("tick gap: want=%d got=%d", w.CurrentTick(), entry.Tick)
		}
		joins, leaves, intents, err := entry.Inputs()
		if err != nil {
			return err
		}
		tick, digest := w.StepOnce(joins, leaves, intents)
		if tick != entry.Tick {
			return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d", tick, entry.Tick)
		}
		stepped = true
		res.LastTick = tick
		if tick >= verifyFrom {
			res.Checked++
			if digest != entry.Digest {
				return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, digest, entry.Digest)
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if !stepped {
		return res, errNoTicks
	}
	return res, nil
}
