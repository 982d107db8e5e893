package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// World admission.
	ErrWorldBusy = "E_WORLD_BUSY"

	// Intent validation.
	ErrUnknownPlayer    = "E_UNKNOWN_PLAYER"
	ErrMoveTooFast      = "E_MOVE_TOO_FAST"
	ErrOutOfRange       = "E_OUT_OF_RANGE"
	ErrInvalidVoxelType = "E_INVALID_VOXEL_TYPE"

	// Delivery/arbitration.
	ErrRateLimit = "E_RATE_LIMIT"
	ErrConflict  = "E_CONFLICT"
	ErrStale     = "E_STALE"
	ErrInternal  = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:  {},
	ErrWorldBusy:        {},
	ErrUnknownPlayer:    {},
	ErrMoveTooFast:      {},
	ErrOutOfRange:       {},
	ErrInvalidVoxelType: {},
	ErrRateLimit:        {},
	ErrConflict:         {},
	ErrStale:            {},
	ErrInternal:         {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
