package world

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/io/digestcodec"
)

// stateDigest hashes everything that defines the authoritative history at
// nowTick: the tick, every player in id order and every voxel edit chunk.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestcodec.WriteU64(h, &tmp, nowTick)
	digestcodec.WriteU64(h, &tmp, uint64(w.nextPlayerNum.Load()))

	ids := w.players.sortedIDs()
	digestcodec.WriteU64(h, &tmp, uint64(len(ids)))
	for _, id := range ids {
		p := w.players.get(id)
		digestcodec.WriteU64(h, &tmp, uint64(id))
		digestcodec.WriteVec3(h, &tmp, p.State.Position)
		digestcodec.WriteVec3(h, &tmp, p.State.Velocity)
		digestcodec.WriteI64(h, &tmp, int64(p.State.Yaw))
		digestcodec.WriteI64(h, &tmp, int64(p.State.Pitch))
		digestcodec.WriteU64(h, &tmp, p.State.LastInputTick)
		digestcodec.WriteI64(h, &tmp, p.moves.CreditMM)
		digestcodec.WriteU64(h, &tmp, p.moves.Tick)
	}

	keys := w.voxels.LoadedChunkKeys()
	digestcodec.WriteU64(h, &tmp, uint64(len(keys)))
	for _, k := range keys {
		digestcodec.WriteI64(h, &tmp, int64(k.CX))
		digestcodec.WriteI64(h, &tmp, int64(k.CY))
		digestcodec.WriteI64(h, &tmp, int64(k.CZ))
		d := w.voxels.Chunks[k].Digest()
		h.Write(d[:])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// StateDigest is stateDigest for the current tick. Call only from the world goroutine or when stopped.
func (w *World) StateDigest() string { return w.stateDigest(w.tick.Load()) }
