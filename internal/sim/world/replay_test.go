package world

import (
	"testing"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

func TestTickLogEntryInputs(t *testing.T) {
	delta := [3]int32{5, 0, 0}
	e := TickLogEntry{
		Tick:   9,
		Joins:  []RecordedJoin{{PlayerID: 3, Name: "c"}},
		Leaves: []model.PlayerID{1},
		Intents: []RecordedIntent{
			{PlayerID: 2, Intent: protocol.IntentMsg{Tick: 4, Kind: string(model.KindMove), Delta: &delta}},
			{PlayerID: 2, Intent: protocol.IntentMsg{Tick: 5}, Code: protocol.ErrProtoBadRequest},
		},
	}
	joins, leaves, intents, err := e.Inputs()
	if err != nil {
		t.Fatalf("inputs: %v", err)
	}
	if len(joins) != 1 || joins[0].Name != "c" || len(leaves) != 1 || leaves[0] != 1 {
		t.Fatalf("joins=%+v leaves=%v", joins, leaves)
	}
	if len(intents) != 2 {
		t.Fatalf("intents=%d", len(intents))
	}
	mv, ok := intents[0].Intent.(model.Move)
	if !ok || mv.PlayerID != 2 || mv.Delta.X != 5 || intents[0].Tick != 4 {
		t.Fatalf("intent[0]=%+v", intents[0])
	}
	if intents[1].Intent != nil || intents[1].Tick != 5 {
		t.Fatalf("malformed intent should replay as nil: %+v", intents[1])
	}

	// A malformed intent is rejected again with the same code.
	w := newTestWorld(t)
	id, _ := joinNow(t, w, "p")
	_, err = w.validateAndApply(IntentEnvelope{PlayerID: id, Tick: 1}, 0)
	if CodeFor(err) != protocol.ErrProtoBadRequest {
		t.Fatalf("code=%s", CodeFor(err))
	}
}

func TestTickLogEntryInputs_UndecodableIntent(t *testing.T) {
	e := TickLogEntry{
		Tick:    2,
		Intents: []RecordedIntent{{PlayerID: 1, Intent: protocol.IntentMsg{Tick: 1, Kind: "JUMP"}}},
	}
	if _, _, _, err := e.Inputs(); err == nil {
		t.Fatalf("expected decode error")
	}
}
