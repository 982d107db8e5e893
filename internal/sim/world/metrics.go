package world

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from HTTP handlers/tests.
type WorldMetrics struct {
	Tick uint64 `json:"tick"`
	// Digest is the state digest of the last stepped tick (Tick-1).
	Digest string `json:"digest,omitempty"`

	Players    int `json:"players"`
	Clients    int `json:"clients"`
	VoxelEdits int `json:"voxel_edits"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS float64 `json:"step_ms"`

	IntentsAccepted uint64            `json:"intents_accepted"`
	IntentsRejected map[string]uint64 `json:"intents_rejected"`
	// CatchUpDroppedTicks counts owed ticks skipped by the catch-up clamp.
	CatchUpDroppedTicks uint64 `json:"catch_up_dropped_ticks"`
}

type QueueDepths struct {
	Inbox int `json:"inbox"`
	Join  int `json:"join"`
	Leave int `json:"leave"`
}

// intentCounters is owned by the world goroutine; storeMetrics publishes copies.
type intentCounters struct {
	accepted     uint64
	rejected     map[string]uint64
	droppedTicks uint64
}

func (c *intentCounters) reject(code string) {
	if c.rejected == nil {
		c.rejected = map[string]uint64{}
	}
	c.rejected[code]++
}

func (w *World) storeMetrics(nextTick uint64, digest string, stepMS float64) {
	rejected := make(map[string]uint64, len(w.counters.rejected))
	for k, v := range w.counters.rejected {
		rejected[k] = v
	}
	w.metrics.Store(WorldMetrics{
		Tick:       nextTick,
		Digest:     digest,
		Players:    w.players.len(),
		Clients:    len(w.clients),
		VoxelEdits: w.voxels.Len(),
		QueueDepths: QueueDepths{
			Inbox: len(w.inbox),
			Join:  len(w.join),
			Leave: len(w.leave),
		},
		StepMS:              stepMS,
		IntentsAccepted:     w.counters.accepted,
		IntentsRejected:     rejected,
		CatchUpDroppedTicks: w.counters.droppedTicks,
	})
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}
