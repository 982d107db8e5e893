// Package tick converts variable wall-clock frame time into whole fixed-rate
// simulation steps.
package tick

import (
	"fmt"
	"math"
	"time"
)

// Schedule is a fixed-rate accumulator. It is owned by whichever loop drives
// the simulation and is not safe for concurrent use.
type Schedule struct {
	step  float64 // seconds per tick
	eps   float64
	acc   float64
	total uint64
}

// New returns a schedule running at rateHz ticks per second.
func New(rateHz float64) (*Schedule, error) {
	if !(rateHz > 0) || math.IsInf(rateHz, 0) {
		return nil, fmt.Errorf("tick rate must be positive, got %v", rateHz)
	}
	step := 1 / rateHz
	return &Schedule{step: step, eps: step * 1e-6}, nil
}

// Accumulate adds dt seconds and returns the number of ticks now owed.
// Leftover time is carried to the next call. Negative or NaN dt is ignored.
//
// Fractions that sum to a whole tick fire it even when float rounding leaves
// the accumulator a hair short.
func (s *Schedule) Accumulate(dt float64) int {
	if dt > 0 && !math.IsInf(dt, 1) {
		s.acc += dt
	}
	n := 0
	if s.acc+s.eps >= s.step {
		owed := math.Floor((s.acc + s.eps) / s.step)
		if owed >= maxOwed {
			// The remainder is lost below float precision at this size.
			owed = maxOwed
			s.acc = 0
		} else {
			s.acc -= owed * s.step
			if s.acc+s.eps >= s.step {
				s.acc -= s.step
				owed++
			}
		}
		n = int(owed)
	}
	if s.acc < 0 {
		s.acc = 0
	}
	s.total += uint64(n)
	return n
}

// maxOwed caps one Accumulate result so it fits an int on every platform.
const maxOwed = float64(math.MaxInt32)

func (s *Schedule) AccumulateDuration(d time.Duration) int {
	return s.Accumulate(d.Seconds())
}

// Total is the cumulative number of ticks produced.
func (s *Schedule) Total() uint64 { return s.total }

// Leftover is the carried fraction of a tick, in seconds.
func (s *Schedule) Leftover() float64 { return s.acc }

func (s *Schedule) TickSeconds() float64 { return s.step }

func (s *Schedule) TickDuration() time.Duration {
	return time.Duration(s.step * float64(time.Second))
}

// Alpha is the leftover as a fraction of one tick in [0,1), for render interpolation.
func (s *Schedule) Alpha() float64 {
	a := s.acc / s.step
	if a < 0 {
		return 0
	}
	if a >= 1 {
		return math.Nextafter(1, 0)
	}
	return a
}
