package store

import (
	"sort"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/mathx"
)

func split(p model.VoxelPos) (ChunkKey, uint16) {
	x, y, z := int(p.X), int(p.Y), int(p.Z)
	k := ChunkKey{
		CX: mathx.FloorDiv(x, ChunkSize),
		CY: mathx.FloorDiv(y, ChunkSize),
		CZ: mathx.FloorDiv(z, ChunkSize),
	}
	return k, localIndex(mathx.Mod(x, ChunkSize), mathx.Mod(y, ChunkSize), mathx.Mod(z, ChunkSize))
}

func join(k ChunkKey, i uint16) model.VoxelPos {
	lx := int(i) % ChunkSize
	ly := (int(i) / ChunkSize) % ChunkSize
	lz := int(i) / (ChunkSize * ChunkSize)
	return model.VoxelPos{
		X: int32(k.CX*ChunkSize + lx),
		Y: int32(k.CY*ChunkSize + ly),
		Z: int32(k.CZ*ChunkSize + lz),
	}
}

// Get returns the edit at p, if the voxel was ever edited.
func (s *EditStore) Get(p model.VoxelPos) (Edit, bool) {
	k, i := split(p)
	ch := s.Chunks[k]
	if ch == nil {
		return Edit{}, false
	}
	e, ok := ch.Edits[i]
	return e, ok
}

// Voxel returns the current voxel type at p. Unedited voxels read as air.
func (s *EditStore) Voxel(p model.VoxelPos) model.VoxelType {
	e, _ := s.Get(p)
	return e.Voxel
}

// Set records an edit and returns the previous voxel type.
func (s *EditStore) Set(p model.VoxelPos, v model.VoxelType, editor model.PlayerID, tick uint64) model.VoxelType {
	k, i := split(p)
	ch := s.Chunks[k]
	if ch == nil {
		ch = newChunk(k)
		s.Chunks[k] = ch
	}
	prev, existed := ch.Edits[i]
	if !existed {
		s.count++
	}
	ch.set(i, Edit{Voxel: v, Editor: editor, Tick: tick})
	return prev.Voxel
}

// Len is the number of edited voxels.
func (s *EditStore) Len() int { return s.count }

func (s *EditStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.Chunks))
	for k := range s.Chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}
