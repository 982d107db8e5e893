package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

func compile(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	p := filepath.Join("..", "..", "schemas", name)
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

// roundTrip marshals v and decodes it generically so the schema sees what goes on the wire.
func roundTrip(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestSchemas_ValidateSamples(t *testing.T) {
	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile(t, "hello.schema.json")
	welcomeSchema := compile(t, "welcome.schema.json")
	intentSchema := compile(t, "intent.schema.json")
	confirmSchema := compile(t, "confirm.schema.json")
	rejectSchema := compile(t, "reject.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"bot1"
	}`), &hello)
	validate(helloSchema, hello)

	validate(welcomeSchema, roundTrip(t, protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        1,
		ServerTick:      120,
		Spawn:           [3]int32{0, 0, 0},
		WorldParams: protocol.WorldParams{
			TickRateHz:          60,
			MaxMoveMMPerTick:    200,
			InteractionRadiusMM: 5000,
			VoxelSizeMM:         1000,
			InputBufferCapacity: 256,
		},
	}))

	intents := []model.Intent{
		model.Move{PlayerID: 1, Delta: model.Vec3{X: 20}},
		model.PlaceVoxel{PlayerID: 1, Pos: model.VoxelPos{X: 1}, Voxel: 3},
		model.BreakVoxel{PlayerID: 1, Pos: model.VoxelPos{Z: 2}},
		model.Interact{PlayerID: 1, Target: 5},
		model.Rotate{PlayerID: 1, DeltaYaw: 10},
	}
	for i, in := range intents {
		validate(intentSchema, roundTrip(t, protocol.IntentMsgFrom(in, uint64(i+1))))
	}

	validate(confirmSchema, roundTrip(t, protocol.ConfirmFrom(model.AuthoritativePlayerState{
		PlayerID: 1, Tick: 5, ServerTick: 130, Position: model.Vec3{X: 400},
	})))

	validate(rejectSchema, roundTrip(t, protocol.RejectMsg{
		Type:            protocol.TypeReject,
		ProtocolVersion: protocol.Version,
		Tick:            6,
		ServerTick:      131,
		Code:            protocol.ErrMoveTooFast,
		Distance:        450,
		Max:             200,
	}))
}

func TestSchemas_RejectBadIntent(t *testing.T) {
	s := compile(t, "intent.schema.json")
	for _, raw := range []string{
		`{"type":"INTENT","protocol_version":"1.0","tick":1,"kind":"JUMP"}`,
		`{"type":"INTENT","protocol_version":"1.0","tick":1,"kind":"MOVE"}`,
		`{"type":"INTENT","protocol_version":"1.0","tick":-1,"kind":"ROTATE"}`,
	} {
		var v any
		_ = json.Unmarshal([]byte(raw), &v)
		if err := s.Validate(v); err == nil {
			t.Fatalf("expected schema rejection: %s", raw)
		}
	}
}
