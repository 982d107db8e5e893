// Package digestcodec holds the fixed-width little-endian encoders shared by
// the state digest. Every value is written as 8 bytes so field boundaries
// never depend on magnitude.
package digestcodec

import (
	"encoding/binary"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

type Writer interface {
	Write(p []byte) (n int, err error)
}

func WriteU64(w Writer, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.Write(tmp[:])
}

func WriteI64(w Writer, tmp *[8]byte, v int64) {
	WriteU64(w, tmp, uint64(v))
}

func WriteVec3(w Writer, tmp *[8]byte, v model.Vec3) {
	for _, c := range v.Array() {
		WriteI64(w, tmp, int64(c))
	}
}
