package protocol

import (
	"fmt"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

// ToIntent decodes the tagged intent on behalf of player. The player is
// assigned by the connection, never taken from the message.
func (m IntentMsg) ToIntent(player model.PlayerID) (model.Intent, error) {
	switch model.IntentKind(m.Kind) {
	case model.KindMove:
		if m.Delta == nil {
			return nil, fmt.Errorf("MOVE missing delta")
		}
		return model.Move{PlayerID: player, Delta: model.Vec3FromArray(*m.Delta)}, nil
	case model.KindPlaceVoxel:
		if m.Pos == nil {
			return nil, fmt.Errorf("PLACE_VOXEL missing pos")
		}
		return model.PlaceVoxel{PlayerID: player, Pos: model.VoxelPosFromArray(*m.Pos), Voxel: model.VoxelType(m.Voxel)}, nil
	case model.KindBreakVoxel:
		if m.Pos == nil {
			return nil, fmt.Errorf("BREAK_VOXEL missing pos")
		}
		return model.BreakVoxel{PlayerID: player, Pos: model.VoxelPosFromArray(*m.Pos)}, nil
	case model.KindInteract:
		return model.Interact{PlayerID: player, Target: model.EntityID(m.Target)}, nil
	case model.KindRotate:
		return model.Rotate{PlayerID: player, DeltaYaw: m.DeltaYaw, DeltaPitch: m.DeltaPitch}, nil
	default:
		return nil, fmt.Errorf("unknown intent kind %q", m.Kind)
	}
}

// IntentMsgFrom encodes intent for the given client tick.
func IntentMsgFrom(in model.Intent, tick uint64) IntentMsg {
	m := IntentMsg{Type: TypeIntent, ProtocolVersion: Version, Tick: tick}
	switch it := in.(type) {
	case model.Move:
		d := it.Delta.Array()
		m.Kind, m.Delta = string(model.KindMove), &d
	case model.PlaceVoxel:
		p := it.Pos.Array()
		m.Kind, m.Pos, m.Voxel = string(model.KindPlaceVoxel), &p, uint16(it.Voxel)
	case model.BreakVoxel:
		p := it.Pos.Array()
		m.Kind, m.Pos = string(model.KindBreakVoxel), &p
	case model.Interact:
		m.Kind, m.Target = string(model.KindInteract), uint64(it.Target)
	case model.Rotate:
		m.Kind, m.DeltaYaw, m.DeltaPitch = string(model.KindRotate), it.DeltaYaw, it.DeltaPitch
	}
	return m
}

func ConfirmFrom(st model.AuthoritativePlayerState) ConfirmMsg {
	return ConfirmMsg{
		Type:            TypeConfirm,
		ProtocolVersion: Version,
		PlayerID:        uint32(st.PlayerID),
		Tick:            st.Tick,
		ServerTick:      st.ServerTick,
		Pos:             st.Position.Array(),
		Vel:             st.Velocity.Array(),
		Yaw:             st.Yaw,
		Pitch:           st.Pitch,
	}
}

func (m ConfirmMsg) State() model.AuthoritativePlayerState {
	return model.AuthoritativePlayerState{
		PlayerID:   model.PlayerID(m.PlayerID),
		Tick:       m.Tick,
		ServerTick: m.ServerTick,
		Position:   model.Vec3FromArray(m.Pos),
		Velocity:   model.Vec3FromArray(m.Vel),
		Yaw:        m.Yaw,
		Pitch:      m.Pitch,
	}
}
