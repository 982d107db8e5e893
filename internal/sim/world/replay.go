package world

import (
	"fmt"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

// Inputs rebuilds the StepOnce arguments that produced e. Intents recorded
// as malformed are replayed as nil so they are rejected the same way again.
func (e TickLogEntry) Inputs() (joins []JoinRequest, leaves []model.PlayerID, intents []IntentEnvelope, err error) {
	joins = make([]JoinRequest, 0, len(e.Joins))
	for _, j := range e.Joins {
		joins = append(joins, JoinRequest{Name: j.Name})
	}
	intents = make([]IntentEnvelope, 0, len(e.Intents))
	for i, ri := range e.Intents {
		env := IntentEnvelope{PlayerID: ri.PlayerID, Tick: ri.Intent.Tick}
		if ri.Code != protocol.ErrProtoBadRequest {
			in, err := ri.Intent.ToIntent(ri.PlayerID)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("tick %d intent %d: %w", e.Tick, i, err)
			}
			env.Intent = in
		}
		intents = append(intents, env)
	}
	return joins, e.Leaves, intents, nil
}
