package world

import (
	"context"
	"time"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/tick"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

// Run drives the world from wall-clock time until ctx is done or Stop is called.
// A Tick Schedule converts elapsed time into owed ticks; after a stall at most
// MaxCatchUpTicks are run and the rest are dropped. Intents received between
// polls are applied on the first owed tick, in arrival order.
func (w *World) Run(ctx context.Context) error {
	sched, err := tick.New(float64(w.cfg.TickRateHz))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(sched.TickDuration())
	defer ticker.Stop()

	var pendingIntents []IntentEnvelope
	var pendingJoins []JoinRequest
	pendingLeaves := append([]model.PlayerID(nil), w.orphans...)
	w.orphans = nil

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-w.leave:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-w.inbox:
			pendingIntents = append(pendingIntents, env)
		case now := <-ticker.C:
			owed := sched.AccumulateDuration(now.Sub(last))
			last = now
			if owed > w.cfg.MaxCatchUpTicks {
				w.counters.droppedTicks += uint64(owed - w.cfg.MaxCatchUpTicks)
				owed = w.cfg.MaxCatchUpTicks
			}
			for i := 0; i < owed; i++ {
				if i == 0 {
					w.step(pendingJoins, pendingLeaves, pendingIntents)
				} else {
					w.step(nil, nil, nil)
				}
			}
			if owed > 0 {
				pendingJoins = pendingJoins[:0]
				pendingLeaves = pendingLeaves[:0]
				pendingIntents = pendingIntents[:0]
			}
		}
	}
}

func (w *World) Stop() { close(w.stop) }

func (w *World) step(joins []JoinRequest, leaves []model.PlayerID, intents []IntentEnvelope) {
	w.stepInternal(joins, leaves, intents)
}

// StepOnce advances the world by a single tick using the same ordering semantics as the server.
// It is primarily intended for deterministic replays/tests.
func (w *World) StepOnce(joins []JoinRequest, leaves []model.PlayerID, intents []IntentEnvelope) (tick uint64, digest string) {
	tick = w.tick.Load()
	w.step(joins, leaves, intents)
	return tick, w.stateDigest(tick)
}

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) TickRateHz() int {
	if w == nil {
		return 0
	}
	return w.cfg.TickRateHz
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
