package world

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

func (w *World) stepInternal(joins []JoinRequest, leaves []model.PlayerID, intents []IntentEnvelope) {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	w.voxels.BeginTick()

	// Apply leaves and joins deterministically at tick boundary.
	recordedLeaves := make([]model.PlayerID, 0, len(leaves))
	for _, id := range leaves {
		if w.handleLeave(id) {
			recordedLeaves = append(recordedLeaves, id)
		}
	}
	recordedJoins := make([]RecordedJoin, 0, len(joins))
	for _, req := range joins {
		resp := w.joinPlayer(req.Name, req.Out)
		if req.Resp != nil {
			req.Resp <- resp
		}
		recordedJoins = append(recordedJoins, RecordedJoin{PlayerID: model.PlayerID(resp.Welcome.PlayerID), Name: req.Name})
	}

	// Apply intents in arrival order. Every intent is fully validated and
	// applied before the next one is looked at.
	recorded := make([]RecordedIntent, 0, len(intents))
	touched := map[model.PlayerID]struct{}{}
	for _, env := range intents {
		processed, err := w.validateAndApply(env, nowTick)
		code := CodeFor(err)
		recorded = append(recorded, RecordedIntent{
			PlayerID: env.PlayerID,
			Intent:   protocol.IntentMsgFrom(env.Intent, env.Tick),
			Code:     code,
		})
		if processed {
			touched[env.PlayerID] = struct{}{}
		}
		if err != nil {
			w.counters.reject(code)
			w.logReject(env, nowTick, err)
			w.sendTo(env.PlayerID, rejectMsg(env, nowTick, err))
			continue
		}
		w.counters.accepted++
	}

	// Confirm the latest processed input of every player that had one.
	ids := make([]model.PlayerID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if p := w.players.get(id); p != nil {
			w.sendTo(id, protocol.ConfirmFrom(w.confirmation(p, nowTick)))
		}
	}

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{Tick: nowTick, Joins: recordedJoins, Leaves: recordedLeaves, Intents: recorded, Digest: digest})
	}

	// Snapshot every N ticks, starting after tick 0.
	if w.snapshotSink != nil && nowTick != 0 && w.cfg.SnapshotEveryTicks > 0 {
		every := uint64(w.cfg.SnapshotEveryTicks)
		if nowTick%every == 0 {
			snap := w.ExportSnapshot(nowTick)
			select {
			case w.snapshotSink <- snap:
			default:
				// Drop snapshot if sink is backed up.
			}
		}
	}

	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	nextTick := w.tick.Add(1)
	w.storeMetrics(nextTick, digest, stepMS)
}

func (w *World) sendTo(id model.PlayerID, msg any) {
	cl := w.clients[id]
	if cl == nil || cl.Out == nil {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	sendLatest(cl.Out, b)
}
