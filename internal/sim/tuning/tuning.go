package tuning

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz          int   `yaml:"tick_rate_hz"`
	MaxSpeedMMPerS      int64 `yaml:"max_speed_mm_per_s"`
	InteractionRadiusMM int64 `yaml:"interaction_radius_mm"`
	VoxelSizeMM         int64 `yaml:"voxel_size_mm"`
	MoveBurstTicks      int   `yaml:"move_burst_ticks"`
	MaxCatchUpTicks     int   `yaml:"max_catch_up_ticks"`
	SnapshotEveryTicks  int   `yaml:"snapshot_every_ticks"`
	InputBufferCapacity int   `yaml:"input_buffer_capacity"`

	Smoothing  Smoothing  `yaml:"smoothing"`
	RateLimits RateLimits `yaml:"rate_limits"`
}

type Smoothing struct {
	SnapThresholdMM float64 `yaml:"snap_threshold_mm"`
	DecayRatePerS   float64 `yaml:"decay_rate_per_s"`
	EpsilonMM       float64 `yaml:"epsilon_mm"`
}

type RateLimits struct {
	IntentsPerSecond float64 `yaml:"intents_per_second"`
	IntentBurst      int     `yaml:"intent_burst"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:     "1.0",
		TickRateHz:          60,
		MaxSpeedMMPerS:      12000,
		InteractionRadiusMM: 5000,
		VoxelSizeMM:         1000,
		MoveBurstTicks:      4,
		MaxCatchUpTicks:     30,
		SnapshotEveryTicks:  3600,
		InputBufferCapacity: 256,
		Smoothing: Smoothing{
			SnapThresholdMM: 500,
			DecayRatePerS:   10,
			EpsilonMM:       0.5,
		},
		RateLimits: RateLimits{
			IntentsPerSecond: 60,
			IntentBurst:      8,
		},
	}
}

// MaxMoveMMPerTick is the largest Move delta accepted in one tick.
func (t Tuning) MaxMoveMMPerTick() int64 {
	if t.TickRateHz <= 0 {
		return t.MaxSpeedMMPerS
	}
	return t.MaxSpeedMMPerS / int64(t.TickRateHz)
}

// Load reads a tuning file. Fields left at zero take their defaults.
func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) applyDefaults() {
	d := Defaults()
	if t.ProtocolVersion == "" {
		t.ProtocolVersion = d.ProtocolVersion
	}
	if t.TickRateHz == 0 {
		t.TickRateHz = d.TickRateHz
	}
	if t.MaxSpeedMMPerS == 0 {
		t.MaxSpeedMMPerS = d.MaxSpeedMMPerS
	}
	if t.InteractionRadiusMM == 0 {
		t.InteractionRadiusMM = d.InteractionRadiusMM
	}
	if t.VoxelSizeMM == 0 {
		t.VoxelSizeMM = d.VoxelSizeMM
	}
	if t.MoveBurstTicks == 0 {
		t.MoveBurstTicks = d.MoveBurstTicks
	}
	if t.MaxCatchUpTicks == 0 {
		t.MaxCatchUpTicks = d.MaxCatchUpTicks
	}
	if t.SnapshotEveryTicks == 0 {
		t.SnapshotEveryTicks = d.SnapshotEveryTicks
	}
	if t.InputBufferCapacity == 0 {
		t.InputBufferCapacity = d.InputBufferCapacity
	}
	if t.Smoothing.SnapThresholdMM == 0 {
		t.Smoothing.SnapThresholdMM = d.Smoothing.SnapThresholdMM
	}
	if t.Smoothing.DecayRatePerS == 0 {
		t.Smoothing.DecayRatePerS = d.Smoothing.DecayRatePerS
	}
	if t.Smoothing.EpsilonMM == 0 {
		t.Smoothing.EpsilonMM = d.Smoothing.EpsilonMM
	}
	if t.RateLimits.IntentsPerSecond == 0 {
		// One intent per client tick.
		t.RateLimits.IntentsPerSecond = float64(t.TickRateHz)
	}
	if t.RateLimits.IntentBurst == 0 {
		t.RateLimits.IntentBurst = d.RateLimits.IntentBurst
	}
}

func (t Tuning) Validate() error {
	var errs []error
	if t.TickRateHz <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate_hz must be > 0 (got %d)", t.TickRateHz))
	}
	if t.MaxSpeedMMPerS <= 0 {
		errs = append(errs, fmt.Errorf("max_speed_mm_per_s must be > 0 (got %d)", t.MaxSpeedMMPerS))
	}
	if t.InteractionRadiusMM <= 0 {
		errs = append(errs, fmt.Errorf("interaction_radius_mm must be > 0 (got %d)", t.InteractionRadiusMM))
	}
	if t.VoxelSizeMM <= 0 {
		errs = append(errs, fmt.Errorf("voxel_size_mm must be > 0 (got %d)", t.VoxelSizeMM))
	}
	if t.InputBufferCapacity <= 0 {
		errs = append(errs, fmt.Errorf("input_buffer_capacity must be > 0 (got %d)", t.InputBufferCapacity))
	}
	if t.MoveBurstTicks <= 0 {
		errs = append(errs, fmt.Errorf("move_burst_ticks must be > 0 (got %d)", t.MoveBurstTicks))
	}
	if t.MaxCatchUpTicks < 0 || t.SnapshotEveryTicks < 0 {
		errs = append(errs, fmt.Errorf("max_catch_up_ticks and snapshot_every_ticks must be >= 0"))
	}
	if t.Smoothing.SnapThresholdMM < 0 || t.Smoothing.DecayRatePerS < 0 || t.Smoothing.EpsilonMM < 0 {
		errs = append(errs, fmt.Errorf("smoothing values must be >= 0"))
	}
	if t.RateLimits.IntentsPerSecond < 0 || t.RateLimits.IntentBurst < 0 {
		errs = append(errs, fmt.Errorf("rate_limits must be >= 0"))
	}
	return errors.Join(errs...)
}
