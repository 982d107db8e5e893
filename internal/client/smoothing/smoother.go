// Package smoothing hides small reconciliation corrections by rendering the
// player at a decaying offset from its logical position. It never feeds back
// into simulation.
package smoothing

import (
	"math"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

const (
	DefaultSnapThresholdMM = 500
	DefaultDecayRatePerS   = 10
	DefaultEpsilonMM       = 0.5
)

type Config struct {
	// Corrections at or above this length snap instead of smoothing.
	SnapThresholdMM float64
	DecayRatePerS   float64
	EpsilonMM       float64
}

func DefaultConfig() Config {
	return Config{
		SnapThresholdMM: DefaultSnapThresholdMM,
		DecayRatePerS:   DefaultDecayRatePerS,
		EpsilonMM:       DefaultEpsilonMM,
	}
}

// Offset is a visual displacement in millimeters.
type Offset struct {
	X, Y, Z float64
}

func (o Offset) Len() float64 { return math.Sqrt(o.X*o.X + o.Y*o.Y + o.Z*o.Z) }

func (o Offset) IsZero() bool { return o == Offset{} }

type Smoother struct {
	cfg    Config
	offset Offset
}

func New(cfg Config) *Smoother {
	d := DefaultConfig()
	if cfg.SnapThresholdMM <= 0 {
		cfg.SnapThresholdMM = d.SnapThresholdMM
	}
	if cfg.DecayRatePerS <= 0 {
		cfg.DecayRatePerS = d.DecayRatePerS
	}
	if cfg.EpsilonMM <= 0 {
		cfg.EpsilonMM = d.EpsilonMM
	}
	return &Smoother{cfg: cfg}
}

// ApplyCorrection records that the logical position jumped by delta
// (new - old). Small jumps are absorbed into the offset so the rendered
// position stays put; large ones clear it.
func (s *Smoother) ApplyCorrection(delta model.Vec3) {
	d := Offset{X: float64(delta.X), Y: float64(delta.Y), Z: float64(delta.Z)}
	if d.Len() >= s.cfg.SnapThresholdMM {
		s.offset = Offset{}
		return
	}
	s.offset.X -= d.X
	s.offset.Y -= d.Y
	s.offset.Z -= d.Z
}

// Update decays the offset by dt seconds of frame time.
func (s *Smoother) Update(dt float64) {
	if dt <= 0 || s.offset.IsZero() {
		return
	}
	k := math.Exp(-s.cfg.DecayRatePerS * dt)
	s.offset.X *= k
	s.offset.Y *= k
	s.offset.Z *= k
	if s.offset.Len() < s.cfg.EpsilonMM {
		s.offset = Offset{}
	}
}

func (s *Smoother) Offset() Offset { return s.offset }

func (s *Smoother) Reset() { s.offset = Offset{} }

// Rendered is logical + offset, in millimeters.
func (s *Smoother) Rendered(logical model.Vec3) Offset {
	return Offset{
		X: float64(logical.X) + s.offset.X,
		Y: float64(logical.Y) + s.offset.Y,
		Z: float64(logical.Z) + s.offset.Z,
	}
}
