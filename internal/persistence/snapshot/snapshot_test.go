package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func sample(tick uint64) SnapshotV1 {
	return SnapshotV1{
		Header:              Header{Version: Version, WorldID: "w1", Tick: tick},
		TickRateHz:          60,
		MaxMoveMMPerTick:    200,
		InteractionRadiusMM: 5000,
		VoxelSizeMM:         1000,
		Players: []PlayerV1{
			{ID: 1, Name: "a", Pos: [3]int32{100, 0, -5}, Vel: [3]int32{20, 0, 0}, Yaw: 17, LastInputTick: 9},
		},
		Voxels:   []VoxelV1{{Pos: [3]int32{1, 2, 3}, Voxel: 4, Editor: 1, Tick: 7}},
		Counters: CountersV1{NextPlayer: 2},
	}
}

func TestWriteReadSnapshot(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, FileName(120))
	want := sample(120)
	if err := WriteSnapshot(p, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	got, err := ReadSnapshot(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Header != want.Header || got.Counters != want.Counters {
		t.Fatalf("header/counters mismatch: %+v", got)
	}
	if len(got.Players) != 1 || got.Players[0] != want.Players[0] {
		t.Fatalf("players=%+v", got.Players)
	}
	if len(got.Voxels) != 1 || got.Voxels[0] != want.Voxels[0] {
		t.Fatalf("voxels=%+v", got.Voxels)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	for _, tick := range []uint64{100, 3600, 720} {
		if err := WriteSnapshot(filepath.Join(dir, FileName(tick)), sample(tick)); err != nil {
			t.Fatalf("write %d: %v", tick, err)
		}
	}
	_ = os.WriteFile(filepath.Join(dir, "junk.snap.zst"), []byte("x"), 0o644)
	p, tick, err := Latest(dir)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if tick != 3600 || filepath.Base(p) != "3600.snap.zst" {
		t.Fatalf("latest=%s tick=%d", p, tick)
	}
}

func TestLatest_Empty(t *testing.T) {
	if _, _, err := Latest(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadSnapshot_NotZstd(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.snap.zst")
	_ = os.WriteFile(p, []byte("not zstd"), 0o644)
	if _, err := ReadSnapshot(p); err == nil {
		t.Fatalf("expected error")
	}
}
