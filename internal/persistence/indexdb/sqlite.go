package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xztyle/nebula-engine-sub000/internal/persistence/snapshot"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/tuning"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world"
)

// SQLiteIndex is a queryable read model of the tick and audit logs. Writes
// are queued to a single writer goroutine and dropped when it falls behind;
// the JSONL logs remain the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTick     atomic.Uint64
	dropAudit    atomic.Uint64
	dropSnapshot atomic.Uint64
	writeErrors  atomic.Uint64
}

type Stats struct {
	QueueDepth        int
	QueueCapacity     int
	DropTickTotal     uint64
	DropAuditTotal    uint64
	DropSnapshotTotal uint64
	WriteErrorTotal   uint64
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqAudit
	reqSnapshot
)

type req struct {
	kind reqKind

	tick     world.TickLogEntry
	audit    world.AuditEntry
	snapshot snapshotRow
}

type snapshotRow struct {
	Tick    uint64
	Path    string
	WorldID string
	Players int
	Voxels  int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	return openSQLite(path, 262144)
}

func openSQLite(path string, queue int) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// Sized for bursts of intents from many players without stalling the sim.
		ch: make(chan req, queue),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			tick INTEGER PRIMARY KEY,
			digest TEXT NOT NULL,
			joins INTEGER NOT NULL,
			leaves INTEGER NOT NULL,
			intents INTEGER NOT NULL,
			rejected INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS joins (
			tick INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (tick, player_id)
		);`,
		`CREATE TABLE IF NOT EXISTS leaves (
			tick INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			PRIMARY KEY (tick, player_id)
		);`,
		`CREATE TABLE IF NOT EXISTS intents (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			client_tick INTEGER NOT NULL,
			code TEXT NOT NULL,
			intent_json TEXT NOT NULL,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_intents_player_tick ON intents(player_id, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_intents_code ON intents(code, tick);`,
		`CREATE TABLE IF NOT EXISTS audits (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			actor INTEGER NOT NULL,
			action TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			from_voxel INTEGER NOT NULL,
			to_voxel INTEGER NOT NULL,
			target INTEGER NOT NULL,
			reason TEXT,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_actor_tick ON audits(actor, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_pos_tick ON audits(x, z, y, tick);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			tick INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			world_id TEXT NOT NULL,
			players INTEGER NOT NULL,
			voxels INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:        len(s.ch),
		QueueCapacity:     cap(s.ch),
		DropTickTotal:     s.dropTick.Load(),
		DropAuditTotal:    s.dropAudit.Load(),
		DropSnapshotTotal: s.dropSnapshot.Load(),
		WriteErrorTotal:   s.writeErrors.Load(),
	}
}

func (s *SQLiteIndex) WriteTick(entry world.TickLogEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqTick, tick: entry}:
	default:
		s.dropTick.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) WriteAudit(entry world.AuditEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqAudit, audit: entry}:
	default:
		s.dropAudit.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.SnapshotV1) {
	if s == nil || s.closed.Load() {
		return
	}
	r := snapshotRow{
		Tick:    snap.Header.Tick,
		Path:    path,
		WorldID: snap.Header.WorldID,
		Players: len(snap.Players),
		Voxels:  len(snap.Voxels),
	}
	select {
	case s.ch <- req{kind: reqSnapshot, snapshot: r}:
	default:
		s.dropSnapshot.Add(1)
	}
}

// UpsertTuning records the active tuning and the digest of its YAML source
// in the meta table. It writes synchronously and is meant for startup.
func (s *SQLiteIndex) UpsertTuning(tuningPath string, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(tune)
	if err != nil {
		return err
	}
	digest := ""
	if tuningPath != "" {
		raw, err := os.ReadFile(tuningPath)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(raw)
		digest = hex.EncodeToString(sum[:])
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	rows := [][2]string{
		{"tuning_json", string(b)},
		{"tuning_digest", digest},
		{"tuning_updated_at", now},
	}
	for _, kv := range rows {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES(?,?)`, kv[0], kv[1]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Meta returns a meta value, or "" if unset.
func (s *SQLiteIndex) Meta(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key=?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	// Prepared statements (on db; executed within tx).
	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(tick,digest,joins,leaves,intents,rejected,raw_json) VALUES(?,?,?,?,?,?,?)`)
	insertJoin, _ := s.db.Prepare(`INSERT OR REPLACE INTO joins(tick,player_id,name) VALUES(?,?,?)`)
	insertLeave, _ := s.db.Prepare(`INSERT OR REPLACE INTO leaves(tick,player_id) VALUES(?,?)`)
	insertIntent, _ := s.db.Prepare(`INSERT OR REPLACE INTO intents(tick,seq,player_id,kind,client_tick,code,intent_json) VALUES(?,?,?,?,?,?,?)`)
	insertAudit, _ := s.db.Prepare(`INSERT OR REPLACE INTO audits(tick,seq,actor,action,x,y,z,from_voxel,to_voxel,target,reason,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(tick,path,world_id,players,voxels) VALUES(?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertTick, insertJoin, insertLeave, insertIntent, insertAudit, insertSnapshot} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second

		lastAuditTick uint64
		auditSeq      int
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			s.writeErrors.Add(1)
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.writeErrors.Add(1)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		s.writeErrors.Add(1)
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) bool {
		if st == nil {
			return true
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return false
		}
		opCount++
		return true
	}

	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTick:
			e := r.tick
			b, _ := json.Marshal(e)
			rejected := 0
			for _, in := range e.Intents {
				if in.Code != "" {
					rejected++
				}
			}
			if !exec(insertTick, int64(e.Tick), e.Digest, len(e.Joins), len(e.Leaves), len(e.Intents), rejected, string(b)) {
				continue
			}
			ok := true
			for _, j := range e.Joins {
				if ok = exec(insertJoin, int64(e.Tick), int64(j.PlayerID), j.Name); !ok {
					break
				}
			}
			for _, id := range e.Leaves {
				if !ok {
					break
				}
				ok = exec(insertLeave, int64(e.Tick), int64(id))
			}
			for i, in := range e.Intents {
				if !ok {
					break
				}
				ib, _ := json.Marshal(in.Intent)
				ok = exec(insertIntent, int64(e.Tick), i, int64(in.PlayerID), in.Intent.Kind, int64(in.Intent.Tick), in.Code, string(ib))
			}
			if !ok {
				continue
			}

		case reqAudit:
			e := r.audit
			if e.Tick != lastAuditTick {
				lastAuditTick = e.Tick
				auditSeq = 0
			}
			seq := auditSeq
			auditSeq++
			b, _ := json.Marshal(e)
			if !exec(insertAudit,
				int64(e.Tick),
				seq,
				int64(e.Actor),
				e.Action,
				e.Pos[0], e.Pos[1], e.Pos[2],
				int64(e.From),
				int64(e.To),
				int64(e.Target),
				e.Reason,
				string(b),
			) {
				continue
			}

		case reqSnapshot:
			sr := r.snapshot
			if !exec(insertSnapshot, int64(sr.Tick), sr.Path, sr.WorldID, sr.Players, sr.Voxels) {
				continue
			}
		}
		flushIfNeeded()
	}

	commit()
}
