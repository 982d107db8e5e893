package world

import (
	"encoding/json"
	"testing"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := New(WorldConfig{ID: "test", TickRateHz: 60})
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

// joinNow joins a player immediately (outside a tick) and returns its id and outbox.
func joinNow(t *testing.T, w *World, name string) (model.PlayerID, chan []byte) {
	t.Helper()
	out := make(chan []byte, 64)
	resp := w.joinPlayer(name, out)
	if resp.Welcome.PlayerID == 0 {
		t.Fatalf("join %s: no player id", name)
	}
	return model.PlayerID(resp.Welcome.PlayerID), out
}

func setPos(w *World, id model.PlayerID, pos model.Vec3) {
	w.players.get(id).State.Position = pos
}

func env(tick uint64, in model.Intent) IntentEnvelope {
	return IntentEnvelope{PlayerID: in.Player(), Tick: tick, Intent: in}
}

func move(id model.PlayerID, dx, dy, dz int32) model.Move {
	return model.Move{PlayerID: id, Delta: model.Vec3{X: dx, Y: dy, Z: dz}}
}

// drain decodes every queued message on out by type.
func drain(t *testing.T, out chan []byte) (confirms []protocol.ConfirmMsg, rejects []protocol.RejectMsg) {
	t.Helper()
	for {
		select {
		case b := <-out:
			base, err := protocol.DecodeBase(b)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			switch base.Type {
			case protocol.TypeConfirm:
				var m protocol.ConfirmMsg
				if err := json.Unmarshal(b, &m); err != nil {
					t.Fatalf("confirm: %v", err)
				}
				confirms = append(confirms, m)
			case protocol.TypeReject:
				var m protocol.RejectMsg
				if err := json.Unmarshal(b, &m); err != nil {
					t.Fatalf("reject: %v", err)
				}
				rejects = append(rejects, m)
			default:
				t.Fatalf("unexpected message type %q", base.Type)
			}
		default:
			return confirms, rejects
		}
	}
}

type memTickLogger struct{ entries []TickLogEntry }

func (l *memTickLogger) WriteTick(e TickLogEntry) error {
	l.entries = append(l.entries, e)
	return nil
}

type memAuditLogger struct{ entries []AuditEntry }

func (l *memAuditLogger) WriteAudit(e AuditEntry) error {
	l.entries = append(l.entries, e)
	return nil
}
