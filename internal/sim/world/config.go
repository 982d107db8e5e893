package world

import (
	"fmt"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/tuning"
)

type WorldConfig struct {
	ID         string
	TickRateHz int

	MaxSpeedMMPerS      int64
	InteractionRadiusMM int64
	VoxelSizeMM         int64

	// MoveBurstTicks is how many ticks of unused movement a player may bank.
	MoveBurstTicks int

	// MaxCatchUpTicks bounds how many owed ticks Run executes per poll after a
	// stall. Excess owed ticks are dropped.
	MaxCatchUpTicks int
	// Operational parameters. These are included in snapshots for deterministic replay/resume.
	SnapshotEveryTicks int

	// InputBufferCapacity is advertised to clients in WELCOME.
	InputBufferCapacity int

	// SpawnSpacingMM separates consecutive spawn points along X.
	SpawnSpacingMM int32
}

// ConfigFromTuning maps tuning.yaml onto a world config.
func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                  id,
		TickRateHz:          t.TickRateHz,
		MaxSpeedMMPerS:      t.MaxSpeedMMPerS,
		InteractionRadiusMM: t.InteractionRadiusMM,
		VoxelSizeMM:         t.VoxelSizeMM,
		MoveBurstTicks:      t.MoveBurstTicks,
		MaxCatchUpTicks:     t.MaxCatchUpTicks,
		SnapshotEveryTicks:  t.SnapshotEveryTicks,
		InputBufferCapacity: t.InputBufferCapacity,
	}
}

func (c *WorldConfig) applyDefaults() {
	d := tuning.Defaults()
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = d.TickRateHz
	}
	if c.MaxSpeedMMPerS <= 0 {
		c.MaxSpeedMMPerS = d.MaxSpeedMMPerS
	}
	if c.InteractionRadiusMM <= 0 {
		c.InteractionRadiusMM = d.InteractionRadiusMM
	}
	if c.VoxelSizeMM <= 0 {
		c.VoxelSizeMM = d.VoxelSizeMM
	}
	if c.MoveBurstTicks <= 0 {
		c.MoveBurstTicks = d.MoveBurstTicks
	}
	if c.MaxCatchUpTicks <= 0 {
		c.MaxCatchUpTicks = d.MaxCatchUpTicks
	}
	if c.SnapshotEveryTicks <= 0 {
		c.SnapshotEveryTicks = d.SnapshotEveryTicks
	}
	if c.InputBufferCapacity <= 0 {
		c.InputBufferCapacity = d.InputBufferCapacity
	}
	if c.SpawnSpacingMM <= 0 {
		c.SpawnSpacingMM = 2000
	}
}

func (c WorldConfig) validate() error {
	if c.TickRateHz > 1000 {
		return fmt.Errorf("tick_rate_hz too high: %d", c.TickRateHz)
	}
	if c.SpawnSpacingMM > 1<<20 {
		return fmt.Errorf("spawn spacing too large: %d", c.SpawnSpacingMM)
	}
	return nil
}
