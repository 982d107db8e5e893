package store

import (
	"fmt"

	snapv1 "github.com/xztyle/nebula-engine-sub000/internal/persistence/snapshot"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

// ExportEdits lists every edit in chunk order then local index order.
func ExportEdits(s *EditStore) []snapv1.VoxelV1 {
	out := make([]snapv1.VoxelV1, 0, s.Len())
	for _, k := range s.LoadedChunkKeys() {
		ch := s.Chunks[k]
		for _, i := range ch.sortedIndices() {
			e := ch.Edits[i]
			out = append(out, snapv1.VoxelV1{
				Pos:    join(k, i).Array(),
				Voxel:  uint16(e.Voxel),
				Editor: uint32(e.Editor),
				Tick:   e.Tick,
			})
		}
	}
	return out
}

// ImportEdits rebuilds an edit store from snapshot voxels.
func ImportEdits(voxels []snapv1.VoxelV1) (*EditStore, error) {
	s := NewEditStore()
	for _, v := range voxels {
		p := model.VoxelPosFromArray(v.Pos)
		if _, dup := s.Get(p); dup {
			return nil, fmt.Errorf("snapshot voxel %v listed twice", v.Pos)
		}
		s.Set(p, model.VoxelType(v.Voxel), model.PlayerID(v.Editor), v.Tick)
	}
	return s, nil
}
