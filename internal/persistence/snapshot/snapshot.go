package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

// SnapshotV1 is the persisted world state after Header.Tick was stepped.
type SnapshotV1 struct {
	Header Header `json:"header"`

	// Operational parameters (captured for deterministic replay/resume).
	TickRateHz          int   `json:"tick_rate_hz"`
	MaxMoveMMPerTick    int64 `json:"max_move_mm_per_tick"`
	InteractionRadiusMM int64 `json:"interaction_radius_mm"`
	VoxelSizeMM         int64 `json:"voxel_size_mm"`
	MoveBurstTicks      int   `json:"move_burst_ticks"`
	SnapshotEveryTicks  int   `json:"snapshot_every_ticks,omitempty"`

	Players []PlayerV1 `json:"players"`
	Voxels  []VoxelV1  `json:"voxels"`

	Counters CountersV1 `json:"counters"`
}

type PlayerV1 struct {
	ID            uint32   `json:"id"`
	Name          string   `json:"name"`
	Pos           [3]int32 `json:"pos"`
	Vel           [3]int32 `json:"vel"`
	Yaw           int32    `json:"yaw"`
	Pitch         int32    `json:"pitch"`
	LastInputTick uint64   `json:"last_input_tick"`
	MoveCreditMM  int64    `json:"move_credit_mm"`
	MoveTick      uint64   `json:"move_tick"`
}

// VoxelV1 is one edited voxel; untouched voxels are not stored.
type VoxelV1 struct {
	Pos    [3]int32 `json:"pos"`
	Voxel  uint16   `json:"voxel"`
	Editor uint32   `json:"editor"`
	Tick   uint64   `json:"tick"`
}

type CountersV1 struct {
	NextPlayer uint32 `json:"next_player"`
}

// FileName is the canonical snapshot file name for tick.
func FileName(tick uint64) string {
	return fmt.Sprintf("%d.snap.zst", tick)
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if err := encode(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func encode(f *os.File, snap SnapshotV1) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	var hdr Header
	if err := json.Unmarshal(line, &hdr); err != nil {
		return snap, fmt.Errorf("decode header: %w", err)
	}
	if hdr.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", hdr.Version)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// Latest returns the path of the highest-tick snapshot in dir.
func Latest(dir string) (string, uint64, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, err
	}
	type cand struct {
		tick uint64
		name string
	}
	var cands []cand
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		cands = append(cands, cand{tick: tick, name: name})
	}
	if len(cands) == 0 {
		return "", 0, fmt.Errorf("no snapshots in %s", dir)
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].tick > cands[j].tick })
	return filepath.Join(dir, cands[0].name), cands[0].tick, nil
}
