package world

import (
	"log"
	"sync/atomic"

	"github.com/xztyle/nebula-engine-sub000/internal/persistence/snapshot"
	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/validation"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/terrain/store"
)

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

// IntentEnvelope is one decoded intent as received from a session. Tick is
// the client tick it was predicted for.
type IntentEnvelope struct {
	PlayerID model.PlayerID
	Tick     uint64
	Intent   model.Intent
}

type RecordedJoin struct {
	PlayerID model.PlayerID `json:"player_id"`
	Name     string         `json:"name"`
}

// RecordedIntent is an intent in arrival order plus the outcome code
// ("" when applied).
type RecordedIntent struct {
	PlayerID model.PlayerID     `json:"player_id"`
	Intent   protocol.IntentMsg `json:"intent"`
	Code     string             `json:"code,omitempty"`
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg    WorldConfig
	limits validation.Limits

	tick atomic.Uint64

	players *playerTable
	clients map[model.PlayerID]*clientState
	voxels  *store.EditStore

	interactor EntityInteractor

	inbox chan IntentEnvelope
	join  chan JoinRequest
	leave chan model.PlayerID
	stop  chan struct{}

	nextPlayerNum atomic.Uint32

	// Players restored from a snapshot without a session; Run expires them.
	orphans []model.PlayerID

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger
	logger      *log.Logger
	rejectLog   *rejectLimiter

	// Optional snapshot sink (may be nil). Snapshot writing should be off-thread.
	snapshotSink chan<- snapshot.SnapshotV1

	metrics  atomic.Value // WorldMetrics
	counters intentCounters
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick    uint64           `json:"tick"`
	Joins   []RecordedJoin   `json:"joins,omitempty"`
	Leaves  []model.PlayerID `json:"leaves,omitempty"`
	Intents []RecordedIntent `json:"intents,omitempty"`
	Digest  string           `json:"digest"`
}

type AuditEntry struct {
	Tick   uint64          `json:"tick"`
	Actor  model.PlayerID  `json:"actor"`
	Action string          `json:"action"` // "SET_VOXEL" or "INTERACT"
	Pos    [3]int32        `json:"pos,omitempty"`
	From   model.VoxelType `json:"from,omitempty"`
	To     model.VoxelType `json:"to,omitempty"`
	Target model.EntityID  `json:"target,omitempty"`
	Reason string          `json:"reason,omitempty"`
}

type clientState struct {
	Out chan []byte
}

func New(cfg WorldConfig) (*World, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:     cfg,
		limits:  limitsFor(cfg),
		players: newPlayerTable(),
		clients: map[model.PlayerID]*clientState{},
		voxels:  store.NewEditStore(),
		inbox:   make(chan IntentEnvelope, 1024),
		join:    make(chan JoinRequest, 64),
		leave:   make(chan model.PlayerID, 64),
		stop:    make(chan struct{}),
	}
	w.interactor = auditInteractor{w: w}
	w.rejectLog = newRejectLimiter(rejectLogWindow)
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger)                    { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger)                  { w.auditLogger = l }
func (w *World) SetLogger(l *log.Logger)                       { w.logger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

// SetEntityInteractor replaces the default INTERACT handler. Must be called before Run.
func (w *World) SetEntityInteractor(in EntityInteractor) {
	if in == nil {
		in = auditInteractor{w: w}
	}
	w.interactor = in
}

func (w *World) Inbox() chan<- IntentEnvelope  { return w.inbox }
func (w *World) Join() chan<- JoinRequest      { return w.join }
func (w *World) Leave() chan<- model.PlayerID  { return w.leave }
func (w *World) CurrentTick() uint64           { return w.tick.Load() }
func (w *World) Limits() validation.Limits     { return w.limits }
func (w *World) Config() WorldConfig           { return w.cfg }

func limitsFor(cfg WorldConfig) validation.Limits {
	lim := validation.LimitsFor(cfg.MaxSpeedMMPerS, cfg.TickRateHz, cfg.InteractionRadiusMM, cfg.VoxelSizeMM)
	lim.MoveBurstTicks = int64(cfg.MoveBurstTicks)
	return lim
}
