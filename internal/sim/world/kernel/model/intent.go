package model

import "fmt"

// PlayerID identifies a player for the lifetime of its session. Zero is never assigned.
type PlayerID uint32

func (id PlayerID) String() string { return fmt.Sprintf("P%d", uint32(id)) }

// EntityID identifies an interactable entity owned by the entity subsystem.
type EntityID uint64

type IntentKind string

const (
	KindMove       IntentKind = "MOVE"
	KindPlaceVoxel IntentKind = "PLACE_VOXEL"
	KindBreakVoxel IntentKind = "BREAK_VOXEL"
	KindInteract   IntentKind = "INTERACT"
	KindRotate     IntentKind = "ROTATE"
)

// Intent is a declared action for one tick. The set of implementations is closed:
// Move, PlaceVoxel, BreakVoxel, Interact and Rotate.
type Intent interface {
	Player() PlayerID
	Kind() IntentKind
	isIntent()
}

// Move displaces the player by Delta millimeters.
type Move struct {
	PlayerID PlayerID
	Delta    Vec3
}

type PlaceVoxel struct {
	PlayerID PlayerID
	Pos      VoxelPos
	Voxel    VoxelType
}

type BreakVoxel struct {
	PlayerID PlayerID
	Pos      VoxelPos
}

type Interact struct {
	PlayerID PlayerID
	Target   EntityID
}

// Rotate turns the player by yaw/pitch deltas in milliradians.
type Rotate struct {
	PlayerID   PlayerID
	DeltaYaw   int32
	DeltaPitch int32
}

func (i Move) Player() PlayerID       { return i.PlayerID }
func (i PlaceVoxel) Player() PlayerID { return i.PlayerID }
func (i BreakVoxel) Player() PlayerID { return i.PlayerID }
func (i Interact) Player() PlayerID   { return i.PlayerID }
func (i Rotate) Player() PlayerID     { return i.PlayerID }

func (Move) Kind() IntentKind       { return KindMove }
func (PlaceVoxel) Kind() IntentKind { return KindPlaceVoxel }
func (BreakVoxel) Kind() IntentKind { return KindBreakVoxel }
func (Interact) Kind() IntentKind   { return KindInteract }
func (Rotate) Kind() IntentKind     { return KindRotate }

func (Move) isIntent()       {}
func (PlaceVoxel) isIntent() {}
func (BreakVoxel) isIntent() {}
func (Interact) isIntent()   {}
func (Rotate) isIntent()     {}
