package tick

import (
	"testing"
	"time"
)

func TestNew_RejectsNonPositiveRate(t *testing.T) {
	for _, hz := range []float64{0, -1} {
		if _, err := New(hz); err == nil {
			t.Fatalf("rate %v: expected error", hz)
		}
	}
}

func TestAccumulate_WholeTicks(t *testing.T) {
	s, err := New(60)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := 0
	for i := 0; i < 600; i++ {
		got += s.Accumulate(1.0 / 60)
	}
	if got != 600 || s.Total() != 600 {
		t.Fatalf("got=%d total=%d want 600", got, s.Total())
	}
}

func TestAccumulate_FractionsCarry(t *testing.T) {
	s, _ := New(60)
	step := s.TickSeconds()

	if n := s.Accumulate(0.4 * step); n != 0 {
		t.Fatalf("0.4 tick fired %d", n)
	}
	if n := s.Accumulate(0.7 * step); n != 1 {
		t.Fatalf("0.4+0.7 tick fired %d want 1", n)
	}
	if n := s.Accumulate(0.9 * step); n != 1 {
		t.Fatalf("carried 0.1 + 0.9 fired %d want 1", n)
	}
	if s.Total() != 2 {
		t.Fatalf("total=%d", s.Total())
	}
}

func TestAccumulate_FractionsSumExactly(t *testing.T) {
	s, _ := New(60)
	step := s.TickSeconds()
	got := 0
	// 1000 repetitions of 0.1+0.2+0.3+0.4 = 1000 ticks.
	for i := 0; i < 1000; i++ {
		for _, f := range []float64{0.1, 0.2, 0.3, 0.4} {
			got += s.Accumulate(f * step)
		}
	}
	if got != 1000 {
		t.Fatalf("got=%d want 1000", got)
	}
	if s.Leftover() > step/2 {
		t.Fatalf("leftover drifted: %v", s.Leftover())
	}
}

func TestAccumulate_LongStallIsNotClamped(t *testing.T) {
	s, _ := New(60)
	if n := s.AccumulateDuration(2 * time.Second); n != 120 {
		t.Fatalf("n=%d want 120", n)
	}
}

func TestAccumulate_HugeDeltaTerminates(t *testing.T) {
	s, _ := New(60)
	n := s.Accumulate(1e20)
	if n <= 0 || uint64(n) != s.Total() {
		t.Fatalf("n=%d total=%d", n, s.Total())
	}
	if s.Leftover() >= s.TickSeconds() {
		t.Fatalf("leftover=%v not below one tick", s.Leftover())
	}
	if n := s.Accumulate(s.TickSeconds()); n != 1 {
		t.Fatalf("after huge delta n=%d want 1", n)
	}
}

func TestAccumulate_IgnoresNegative(t *testing.T) {
	s, _ := New(10)
	s.Accumulate(0.05)
	if n := s.Accumulate(-1); n != 0 {
		t.Fatalf("n=%d", n)
	}
	if n := s.Accumulate(0.05); n != 1 {
		t.Fatalf("n=%d want 1", n)
	}
}

func TestAlpha(t *testing.T) {
	s, _ := New(10)
	s.Accumulate(0.025)
	if a := s.Alpha(); a < 0.249 || a > 0.251 {
		t.Fatalf("alpha=%v", a)
	}
	if d := s.TickDuration(); d != 100*time.Millisecond {
		t.Fatalf("tick duration=%v", d)
	}
}
