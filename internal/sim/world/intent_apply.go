package world

import (
	"errors"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/movement"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/validation"
)

var (
	ErrStale        = errors.New("intent tick already processed")
	ErrBadIntent    = errors.New("intent does not belong to its session")
	ErrVoxelClaimed = errors.New("voxel already edited this tick")
)

// CodeFor maps an intent outcome to its protocol code. nil maps to "".
func CodeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validation.ErrUnknownPlayer):
		return protocol.ErrUnknownPlayer
	case errors.Is(err, validation.ErrMoveTooFast):
		return protocol.ErrMoveTooFast
	case errors.Is(err, validation.ErrOutOfRange):
		return protocol.ErrOutOfRange
	case errors.Is(err, validation.ErrInvalidVoxelType):
		return protocol.ErrInvalidVoxelType
	case errors.Is(err, ErrStale):
		return protocol.ErrStale
	case errors.Is(err, ErrBadIntent):
		return protocol.ErrProtoBadRequest
	case errors.Is(err, ErrVoxelClaimed), errors.Is(err, ErrEntityUnavailable):
		return protocol.ErrConflict
	default:
		return protocol.ErrInternal
	}
}

// validateAndApply gates env through the validator and applies it only on
// success. It reports whether the player's input tick advanced, which is
// what makes the player owed a confirmation.
func (w *World) validateAndApply(env IntentEnvelope, nowTick uint64) (processed bool, err error) {
	if env.Intent == nil || env.Intent.Player() != env.PlayerID {
		return false, ErrBadIntent
	}
	p := w.players.get(env.PlayerID)
	if p == nil {
		return false, validation.ErrUnknownPlayer
	}
	if env.Tick <= p.State.LastInputTick {
		return false, ErrStale
	}
	p.State.LastInputTick = env.Tick

	if err := validation.Validate(env.Intent, w.players, w.limits); err != nil {
		return true, err
	}
	// Each Move is within the per-tick cap on its own; the budget keeps the
	// sum of moves within it when several client ticks land in one server tick.
	if mv, ok := env.Intent.(model.Move); ok {
		if err := p.moves.Spend(mv.Delta, nowTick, w.limits); err != nil {
			return true, err
		}
	}
	return true, w.apply(p, env.Intent, nowTick)
}

func (w *World) apply(p *player, in model.Intent, nowTick uint64) error {
	switch it := in.(type) {
	case model.Move:
		p.State.Position, p.State.Velocity = movement.Simulate(p.State.Position, p.State.Velocity, it)
	case model.Rotate:
		p.State.Yaw, p.State.Pitch = movement.Orient(p.State.Yaw, p.State.Pitch, it)
	case model.PlaceVoxel:
		return w.editVoxel(p.ID, it.Pos, it.Voxel, nowTick)
	case model.BreakVoxel:
		return w.editVoxel(p.ID, it.Pos, model.VoxelAir, nowTick)
	case model.Interact:
		return w.interactor.Interact(nowTick, p.ID, it.Target)
	}
	return nil
}

// editVoxel hands a validated edit to the voxel store. Within one tick the
// first player to touch a voxel owns it; later edits by others are refused.
func (w *World) editVoxel(actor model.PlayerID, pos model.VoxelPos, v model.VoxelType, nowTick uint64) error {
	if _, ok := w.voxels.Claim(pos, actor); !ok {
		return ErrVoxelClaimed
	}
	from := w.voxels.Set(pos, v, actor, nowTick)
	w.audit(AuditEntry{
		Tick:   nowTick,
		Actor:  actor,
		Action: "SET_VOXEL",
		Pos:    pos.Array(),
		From:   from,
		To:     v,
	})
	return nil
}

func (w *World) audit(e AuditEntry) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(e)
}

func (w *World) confirmation(p *player, nowTick uint64) model.AuthoritativePlayerState {
	return model.AuthoritativePlayerState{
		PlayerID:   p.ID,
		Tick:       p.State.LastInputTick,
		ServerTick: nowTick,
		Position:   p.State.Position,
		Velocity:   p.State.Velocity,
		Yaw:        p.State.Yaw,
		Pitch:      p.State.Pitch,
	}
}

func rejectMsg(env IntentEnvelope, nowTick uint64, err error) protocol.RejectMsg {
	m := protocol.RejectMsg{
		Type:            protocol.TypeReject,
		ProtocolVersion: protocol.Version,
		Tick:            env.Tick,
		ServerTick:      nowTick,
		Code:            CodeFor(err),
		Message:         err.Error(),
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		m.Distance, m.Max = verr.Distance, verr.Max
	}
	return m
}
