package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	PlayerID        uint32      `json:"player_id"`
	ServerTick      uint64      `json:"server_tick"`
	Spawn           [3]int32    `json:"spawn"`
	WorldParams     WorldParams `json:"world_params"`
}

// WorldParams tells the client what it needs to predict like the server.
type WorldParams struct {
	TickRateHz          int   `json:"tick_rate_hz"`
	MaxMoveMMPerTick    int64 `json:"max_move_mm_per_tick"`
	InteractionRadiusMM int64 `json:"interaction_radius_mm"`
	VoxelSizeMM         int64 `json:"voxel_size_mm"`
	InputBufferCapacity int   `json:"input_buffer_capacity"`
}

// INTENT (client -> server). Tick is the client tick the intent was predicted for.
// Only the fields relevant to Kind are set.
type IntentMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	Tick            uint64    `json:"tick"`
	Kind            string    `json:"kind"`
	Delta           *[3]int32 `json:"delta,omitempty"`
	Pos             *[3]int32 `json:"pos,omitempty"`
	Voxel           uint16    `json:"voxel,omitempty"`
	Target          uint64    `json:"target,omitempty"`
	DeltaYaw        int32     `json:"delta_yaw,omitempty"`
	DeltaPitch      int32     `json:"delta_pitch,omitempty"`
}

// CONFIRM (server -> client): the authoritative state after the client's
// intent for Tick was processed.
type ConfirmMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	PlayerID        uint32   `json:"player_id"`
	Tick            uint64   `json:"tick"`
	ServerTick      uint64   `json:"server_tick"`
	Pos             [3]int32 `json:"pos"`
	Vel             [3]int32 `json:"vel"`
	Yaw             int32    `json:"yaw"`
	Pitch           int32    `json:"pitch"`
}

// REJECT (server -> client). Distance and Max are set for range/speed rejections.
type RejectMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	ServerTick      uint64 `json:"server_tick"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
	Distance        int64  `json:"distance,omitempty"`
	Max             int64  `json:"max,omitempty"`
}
