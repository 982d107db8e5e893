package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xztyle/nebula-engine-sub000/internal/persistence/indexdb"
	"github.com/xztyle/nebula-engine-sub000/internal/persistence/snapshot"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/tuning"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world"
)

type runtimeIndex interface {
	world.TickLogger
	world.AuditLogger
	Close() error
	UpsertTuning(tuningPath string, tune tuning.Tuning) error
	RecordSnapshot(path string, snap snapshot.SnapshotV1)
	Stats() indexdb.Stats
}

func openRuntimeIndex(worldDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("NEBULA_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		dbPath := filepath.Join(worldDir, "index", "world.sqlite")
		return indexdb.OpenSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unsupported NEBULA_INDEX_BACKEND: %s", backend)
	}
}
