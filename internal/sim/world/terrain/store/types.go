package store

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

// ChunkSize is the edge length of a chunk in voxels.
const ChunkSize = 16

type ChunkKey struct {
	CX, CY, CZ int
}

// Edit is the current value of one edited voxel and who set it.
type Edit struct {
	Voxel  model.VoxelType
	Editor model.PlayerID
	Tick   uint64
}

// Chunk holds the sparse edits inside one ChunkSize^3 cube, keyed by local index.
type Chunk struct {
	Key   ChunkKey
	Edits map[uint16]Edit

	dirty bool
	hash  [32]byte
}

func newChunk(k ChunkKey) *Chunk {
	return &Chunk{Key: k, Edits: map[uint16]Edit{}, dirty: true}
}

func localIndex(lx, ly, lz int) uint16 {
	return uint16(lx + ly*ChunkSize + lz*ChunkSize*ChunkSize)
}

func (c *Chunk) set(i uint16, e Edit) {
	c.Edits[i] = e
	c.dirty = true
}

func (c *Chunk) sortedIndices() []uint16 {
	idx := make([]uint16, 0, len(c.Edits))
	for i := range c.Edits {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })
	return idx
}

// Digest hashes the chunk's edits in index order. Cached until the chunk changes.
func (c *Chunk) Digest() [32]byte {
	if c.dirty {
		h := sha256.New()
		var tmp [8]byte
		for _, i := range c.sortedIndices() {
			e := c.Edits[i]
			binary.LittleEndian.PutUint16(tmp[:2], i)
			binary.LittleEndian.PutUint16(tmp[2:4], uint16(e.Voxel))
			binary.LittleEndian.PutUint32(tmp[4:8], uint32(e.Editor))
			h.Write(tmp[:])
			binary.LittleEndian.PutUint64(tmp[:], e.Tick)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

// EditStore is the voxel edit collaborator: a sparse map of edited voxels
// plus the per-tick claim set used to arbitrate same-voxel contention.
// Owned by the world goroutine.
type EditStore struct {
	Chunks map[ChunkKey]*Chunk

	claims map[model.VoxelPos]model.PlayerID
	count  int
}

func NewEditStore() *EditStore {
	return &EditStore{
		Chunks: map[ChunkKey]*Chunk{},
		claims: map[model.VoxelPos]model.PlayerID{},
	}
}
