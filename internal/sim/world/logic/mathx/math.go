package mathx

import (
	"math"
	"math/bits"
)

func FloorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func Mod(a, b int) int {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs64(x int64) uint64 {
	if x < 0 {
		return uint64(-(x + 1)) + 1
	}
	return uint64(x)
}

// SatAdd32 adds without wrapping; results clamp to the int32 range.
func SatAdd32(a, b int32) int32 {
	return clamp32(int64(a) + int64(b))
}

func SatSub32(a, b int32) int32 {
	return clamp32(int64(a) - int64(b))
}

func clamp32(s int64) int32 {
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	if s < math.MinInt32 {
		return math.MinInt32
	}
	return int32(s)
}

// WrapAdd adds delta to v modulo m (m > 0). The result is in [0, m).
func WrapAdd(v, delta int32, m int) int32 {
	return int32(Mod(int(v)+int(delta), m))
}

// LenSq3 returns dx^2+dy^2+dz^2, saturating at MaxUint64.
func LenSq3(dx, dy, dz int64) uint64 {
	var sum uint64
	for _, d := range [3]int64{dx, dy, dz} {
		a := abs64(d)
		hi, lo := bits.Mul64(a, a)
		if hi != 0 {
			return math.MaxUint64
		}
		var carry uint64
		sum, carry = bits.Add64(sum, lo, 0)
		if carry != 0 {
			return math.MaxUint64
		}
	}
	return sum
}

// SqrtCeil returns the smallest r with r*r >= v.
func SqrtCeil(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(v)))
	for r > 0 && mulSat(r, r) >= v {
		r--
	}
	for mulSat(r, r) < v {
		r++
	}
	return r
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
