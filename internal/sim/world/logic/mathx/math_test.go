package mathx

import (
	"math"
	"testing"
)

func TestSatAdd32_Saturates(t *testing.T) {
	if got := SatAdd32(math.MaxInt32, 1); got != math.MaxInt32 {
		t.Fatalf("SatAdd32(max,1)=%d", got)
	}
	if got := SatAdd32(math.MinInt32, -1); got != math.MinInt32 {
		t.Fatalf("SatAdd32(min,-1)=%d", got)
	}
	if got := SatAdd32(100, -250); got != -150 {
		t.Fatalf("SatAdd32(100,-250)=%d", got)
	}
	if got := SatSub32(math.MinInt32, 1); got != math.MinInt32 {
		t.Fatalf("SatSub32(min,1)=%d", got)
	}
}

func TestWrapAdd(t *testing.T) {
	cases := []struct {
		v, d int32
		want int32
	}{
		{0, 10, 10},
		{6280, 10, 7},
		{5, -10, 6278},
		{0, -6283, 0},
		{100, 3 * 6283, 100},
	}
	for _, c := range cases {
		if got := WrapAdd(c.v, c.d, 6283); got != c.want {
			t.Fatalf("WrapAdd(%d,%d)=%d want %d", c.v, c.d, got, c.want)
		}
	}
}

func TestLenSq3(t *testing.T) {
	if got := LenSq3(3, -4, 0); got != 25 {
		t.Fatalf("LenSq3(3,-4,0)=%d", got)
	}
	big := int64(math.MinInt32)
	want := uint64(big*big) * 3
	if got := LenSq3(big, big, big); got != want {
		t.Fatalf("LenSq3 big=%d want %d", got, want)
	}
	if got := LenSq3(math.MinInt64, 0, 0); got != math.MaxUint64 {
		t.Fatalf("expected saturation, got %d", got)
	}
}

func TestSqrtCeil(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 1, 2: 2, 4: 2, 40000: 200, 40001: 201, 25000000: 5000}
	for in, want := range cases {
		if got := SqrtCeil(in); got != want {
			t.Fatalf("SqrtCeil(%d)=%d want %d", in, got, want)
		}
	}
}

func TestFloorDivMod(t *testing.T) {
	if FloorDiv(-1, 16) != -1 || Mod(-1, 16) != 15 {
		t.Fatalf("FloorDiv/Mod negative mismatch")
	}
}
