package validation

import "fmt"

type Reason string

const (
	ReasonUnknownPlayer    Reason = "UNKNOWN_PLAYER"
	ReasonMoveTooFast      Reason = "MOVE_TOO_FAST"
	ReasonOutOfRange       Reason = "OUT_OF_RANGE"
	ReasonInvalidVoxelType Reason = "INVALID_VOXEL_TYPE"
)

// Error is a rejection. Distance and Max are in millimeters and only set for
// MoveTooFast and OutOfRange.
type Error struct {
	Reason   Reason
	Distance int64
	Max      int64
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonMoveTooFast:
		return fmt.Sprintf("move too fast: %dmm > %dmm per tick", e.Distance, e.Max)
	case ReasonOutOfRange:
		return fmt.Sprintf("target out of range: %dmm > %dmm", e.Distance, e.Max)
	case ReasonInvalidVoxelType:
		return "invalid voxel type"
	case ReasonUnknownPlayer:
		return "unknown player"
	default:
		return string(e.Reason)
	}
}

// Is matches on Reason only, so errors.Is(err, ErrOutOfRange) holds for any distance.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

var (
	ErrUnknownPlayer    = &Error{Reason: ReasonUnknownPlayer}
	ErrMoveTooFast      = &Error{Reason: ReasonMoveTooFast}
	ErrOutOfRange       = &Error{Reason: ReasonOutOfRange}
	ErrInvalidVoxelType = &Error{Reason: ReasonInvalidVoxelType}
)
