package validation

import "github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"

// MoveBudget is a player's movement allowance across server ticks. Each
// elapsed tick adds MaxMoveMM of credit, up to MoveBurstTicks ticks' worth,
// and every accepted Move spends its length. It bounds the distance covered
// per server tick no matter how many client ticks arrive at once.
type MoveBudget struct {
	CreditMM int64
	// Tick is the server tick the credit was last refilled at.
	Tick uint64
}

// FullMoveBudget is the budget of a player that has been idle long enough.
func FullMoveBudget(nowTick uint64, lim Limits) MoveBudget {
	return MoveBudget{CreditMM: lim.moveCapacity(), Tick: nowTick}
}

// Spend refills b up to nowTick and charges the length of delta, rounded up.
// A move that does not fit is refused with a MoveTooFast error whose Max is
// the remaining credit; b keeps the refill but is not charged.
func (b *MoveBudget) Spend(delta model.Vec3, nowTick uint64, lim Limits) error {
	b.refill(nowTick, lim)
	cost := ceilDist(delta.LenSq())
	if cost > b.CreditMM {
		return &Error{Reason: ReasonMoveTooFast, Distance: cost, Max: b.CreditMM}
	}
	b.CreditMM -= cost
	return nil
}

func (b *MoveBudget) refill(nowTick uint64, lim Limits) {
	if nowTick <= b.Tick {
		return
	}
	elapsed := nowTick - b.Tick
	b.Tick = nowTick
	capacity := lim.moveCapacity()
	if elapsed >= uint64(lim.burstTicks()) {
		b.CreditMM = capacity
		return
	}
	b.CreditMM = min(capacity, b.CreditMM+int64(elapsed)*nonNeg(lim.MaxMoveMM))
}

func (l Limits) burstTicks() int64 {
	if l.MoveBurstTicks <= 0 {
		return 1
	}
	return l.MoveBurstTicks
}

func (l Limits) moveCapacity() int64 {
	return nonNeg(l.MaxMoveMM) * l.burstTicks()
}
