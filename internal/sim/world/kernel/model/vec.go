package model

import "github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/mathx"

// Vec3 is an integer position or displacement in millimeters.
type Vec3 struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}

// Add returns v+o, saturating each axis instead of wrapping.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{
		X: mathx.SatAdd32(v.X, o.X),
		Y: mathx.SatAdd32(v.Y, o.Y),
		Z: mathx.SatAdd32(v.Z, o.Z),
	}
}

// Sub returns v-o, saturating each axis instead of wrapping.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{
		X: mathx.SatSub32(v.X, o.X),
		Y: mathx.SatSub32(v.Y, o.Y),
		Z: mathx.SatSub32(v.Z, o.Z),
	}
}

// LenSq is the squared Euclidean length in mm^2. It never overflows.
func (v Vec3) LenSq() uint64 {
	return mathx.LenSq3(int64(v.X), int64(v.Y), int64(v.Z))
}

func (v Vec3) IsZero() bool { return v == Vec3{} }

func (v Vec3) Array() [3]int32 { return [3]int32{v.X, v.Y, v.Z} }

func Vec3FromArray(a [3]int32) Vec3 { return Vec3{X: a[0], Y: a[1], Z: a[2]} }

// VoxelPos is a coordinate on the voxel grid (not millimeters).
type VoxelPos struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	Z int32 `json:"z"`
}

func (p VoxelPos) Array() [3]int32 { return [3]int32{p.X, p.Y, p.Z} }

func VoxelPosFromArray(a [3]int32) VoxelPos { return VoxelPos{X: a[0], Y: a[1], Z: a[2]} }

// VoxelType is a palette index. Zero is air.
type VoxelType uint16

const VoxelAir VoxelType = 0
