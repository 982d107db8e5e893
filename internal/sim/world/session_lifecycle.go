package world

import (
	"fmt"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/validation"
)

func (w *World) joinPlayer(name string, out chan []byte) JoinResponse {
	idNum := w.nextPlayerNum.Add(1)
	id := model.PlayerID(idNum)
	if name == "" {
		name = fmt.Sprintf("player%d", idNum)
	}

	p := &player{
		ID:    id,
		Name:  name,
		State: model.PlayerState{Position: w.spawnFor(id)},
		moves: validation.FullMoveBudget(w.tick.Load(), w.limits),
	}
	w.players.add(p)
	if out != nil {
		w.clients[id] = &clientState{Out: out}
	}

	return JoinResponse{Welcome: w.buildWelcome(p)}
}

// spawnFor spreads players along X so they do not start inside each other.
func (w *World) spawnFor(id model.PlayerID) model.Vec3 {
	n := int32(id % 1024)
	return model.Vec3{X: n * w.cfg.SpawnSpacingMM}
}

func (w *World) buildWelcome(p *player) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        uint32(p.ID),
		ServerTick:      w.tick.Load(),
		Spawn:           p.State.Position.Array(),
		WorldParams: protocol.WorldParams{
			TickRateHz:          w.cfg.TickRateHz,
			MaxMoveMMPerTick:    w.limits.MaxMoveMM,
			InteractionRadiusMM: w.limits.InteractionRadiusMM,
			VoxelSizeMM:         w.limits.VoxelSizeMM,
			InputBufferCapacity: w.cfg.InputBufferCapacity,
		},
	}
}

// handleLeave removes the player's authoritative state; it does not survive disconnect.
func (w *World) handleLeave(id model.PlayerID) bool {
	delete(w.clients, id)
	w.rejectLog.forget(id)
	return w.players.remove(id)
}
