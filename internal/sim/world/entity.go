package world

import (
	"errors"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

// ErrEntityUnavailable is returned by an EntityInteractor when the target
// cannot be interacted with right now. It is reported as a conflict.
var ErrEntityUnavailable = errors.New("entity unavailable")

// EntityInteractor receives validated INTERACT intents on the world goroutine.
type EntityInteractor interface {
	Interact(tick uint64, actor model.PlayerID, target model.EntityID) error
}

// auditInteractor has no entities of its own; it records the interaction.
type auditInteractor struct{ w *World }

func (a auditInteractor) Interact(tick uint64, actor model.PlayerID, target model.EntityID) error {
	a.w.audit(AuditEntry{Tick: tick, Actor: actor, Action: "INTERACT", Target: target})
	return nil
}
