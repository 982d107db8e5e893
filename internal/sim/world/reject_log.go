package world

import (
	"time"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

const rejectLogWindow = 5 * time.Second

type rejectKey struct {
	player model.PlayerID
	code   string
}

// rejectLimiter lets one log line per player and code through per window.
type rejectLimiter struct {
	window time.Duration
	last   map[rejectKey]time.Time
	now    func() time.Time
}

func newRejectLimiter(window time.Duration) *rejectLimiter {
	return &rejectLimiter{window: window, last: map[rejectKey]time.Time{}, now: time.Now}
}

func (r *rejectLimiter) allow(player model.PlayerID, code string) bool {
	k := rejectKey{player: player, code: code}
	now := r.now()
	if t, ok := r.last[k]; ok && now.Sub(t) < r.window {
		return false
	}
	r.last[k] = now
	return true
}

func (r *rejectLimiter) forget(player model.PlayerID) {
	for k := range r.last {
		if k.player == player {
			delete(r.last, k)
		}
	}
}

func (w *World) logReject(env IntentEnvelope, nowTick uint64, err error) {
	if w.logger == nil {
		return
	}
	code := CodeFor(err)
	if !w.rejectLog.allow(env.PlayerID, code) {
		return
	}
	kind := "nil"
	if env.Intent != nil {
		kind = string(env.Intent.Kind())
	}
	w.logger.Printf("tick=%d player=%s intent=%s client_tick=%d rejected %s: %v", nowTick, env.PlayerID, kind, env.Tick, code, err)
}
