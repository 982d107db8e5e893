package digestcodec

import (
	"bytes"
	"testing"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

func TestWriteFixedWidth(t *testing.T) {
	var buf bytes.Buffer
	var tmp [8]byte
	WriteU64(&buf, &tmp, 1)
	WriteI64(&buf, &tmp, -1)
	if buf.Len() != 16 {
		t.Fatalf("len=%d", buf.Len())
	}
	b := buf.Bytes()
	if b[0] != 1 || b[7] != 0 {
		t.Fatalf("u64 not little-endian: %v", b[:8])
	}
	for i := 8; i < 16; i++ {
		if b[i] != 0xff {
			t.Fatalf("i64(-1) byte %d = %x", i, b[i])
		}
	}
}

func TestWriteVec3_DistinguishesAxes(t *testing.T) {
	var a, b bytes.Buffer
	var tmp [8]byte
	WriteVec3(&a, &tmp, model.Vec3{X: 1})
	WriteVec3(&b, &tmp, model.Vec3{Y: 1})
	if a.Len() != 24 || bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("vec encodings collide")
	}
}
