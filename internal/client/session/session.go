// Package session is the client-side prediction loop for one local player.
package session

import (
	"sync"

	"github.com/xztyle/nebula-engine-sub000/internal/client/prediction"
	"github.com/xztyle/nebula-engine-sub000/internal/client/smoothing"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/logic/movement"
)

type Config struct {
	BufferCapacity int
	Smoothing      smoothing.Config
}

// Predictor owns the local tick counter, current prediction, input buffer and
// correction smoother. All methods lock one mutex, so the network reader may
// call OnConfirm while the simulation loop calls Step and Frame.
type Predictor struct {
	mu sync.Mutex

	player model.PlayerID
	tick   uint64
	cur    model.PredictionState
	yaw    int32
	pitch  int32

	buf    *prediction.Buffer
	smooth *smoothing.Smoother

	corrections uint64
	lastConfirm uint64
}

// New starts a predictor at spawn. The first Step predicts tick 1.
func New(player model.PlayerID, spawn model.Vec3, cfg Config) *Predictor {
	if cfg.BufferCapacity <= 0 {
		cfg.BufferCapacity = 256
	}
	return &Predictor{
		player: player,
		cur:    model.PredictionState{Position: spawn},
		buf:    prediction.NewBuffer(cfg.BufferCapacity),
		smooth: smoothing.New(cfg.Smoothing),
	}
}

func (p *Predictor) Player() model.PlayerID { return p.player }

// Step predicts the next tick under intent and buffers it. The returned tick
// must be sent with the intent so the server can confirm it.
func (p *Predictor) Step(intent model.Intent) (uint64, model.PredictionState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tick := p.tick + 1
	next := movement.Predict(p.cur, tick, intent)
	if err := p.buf.Push(prediction.Entry{Tick: tick, Intent: intent, State: next}); err != nil {
		return 0, p.cur, err
	}
	if r, ok := intent.(model.Rotate); ok {
		p.yaw, p.pitch = movement.Orient(p.yaw, p.pitch, r)
	}
	p.tick = tick
	p.cur = next
	return tick, next, nil
}

// OnConfirm reconciles an authoritative confirmation. Confirmations for ticks
// already confirmed, or never predicted, are ignored and reported uncorrected.
func (p *Predictor) OnConfirm(st model.AuthoritativePlayerState) prediction.Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st.Tick > p.tick || (st.Tick <= p.lastConfirm && p.lastConfirm != 0) {
		return prediction.Result{State: p.cur}
	}
	p.lastConfirm = st.Tick

	before := p.cur.Position
	res := prediction.Reconcile(p.buf, st)
	if !res.Corrected {
		if p.buf.Len() == 0 {
			p.cur = res.State
		}
		return res
	}

	p.corrections++
	yaw, pitch := st.Yaw, st.Pitch
	for _, e := range p.buf.Entries() {
		if r, ok := e.Intent.(model.Rotate); ok {
			yaw, pitch = movement.Orient(yaw, pitch, r)
		}
	}
	p.yaw, p.pitch = yaw, pitch

	p.cur = res.State
	p.smooth.ApplyCorrection(p.cur.Position.Sub(before))
	return res
}

// Frame advances cosmetic smoothing by dt seconds.
func (p *Predictor) Frame(dt float64) {
	p.mu.Lock()
	p.smooth.Update(dt)
	p.mu.Unlock()
}

// Rendered is the position to draw: logical prediction plus smoothing offset.
func (p *Predictor) Rendered() smoothing.Offset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.smooth.Rendered(p.cur.Position)
}

func (p *Predictor) Offset() smoothing.Offset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.smooth.Offset()
}

func (p *Predictor) State() model.PredictionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

func (p *Predictor) Orientation() (yaw, pitch int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.yaw, p.pitch
}

type Stats struct {
	Tick        uint64
	Pending     int
	Corrections uint64
	LastConfirm uint64
}

func (p *Predictor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Tick: p.tick, Pending: p.buf.Len(), Corrections: p.corrections, LastConfirm: p.lastConfirm}
}
