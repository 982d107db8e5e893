package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xztyle/nebula-engine-sub000/internal/client/session"
	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/tick"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

type botConfig struct {
	Name       string
	Speed      float64
	CheatEvery int
	Frame      time.Duration
	// MaxTicks stops the bot after predicting this many ticks (0 = unbounded).
	MaxTicks uint64
}

// walker walks a square whose side is sideTicks moves long.
type walker struct {
	step       int32
	max        int32
	cheatEvery int
	sideTicks  uint64
}

func newWalker(maxMove int64, speed float64, cheatEvery int) walker {
	step := int32(float64(maxMove) * speed)
	if step < 1 {
		step = 1
	}
	if int64(step) > maxMove {
		step = int32(maxMove)
	}
	return walker{step: step, max: int32(maxMove), cheatEvery: cheatEvery, sideTicks: 60}
}

func (w walker) intent(t uint64) model.Intent {
	if w.cheatEvery > 0 && t%uint64(w.cheatEvery) == 0 {
		return model.Move{Delta: model.Vec3{X: w.max + 1}}
	}
	if t%w.sideTicks == 0 {
		return model.Rotate{DeltaYaw: model.FullTurnMilliRad / 4}
	}
	var d model.Vec3
	switch (t / w.sideTicks) % 4 {
	case 0:
		d.X = w.step
	case 1:
		d.Z = w.step
	case 2:
		d.X = -w.step
	default:
		d.Z = -w.step
	}
	return model.Move{Delta: d}
}

// run performs the handshake and then drives the predictor until ctx ends,
// the connection drops, or cfg.MaxTicks is reached.
func run(ctx context.Context, conn *websocket.Conn, logger *log.Logger, cfg botConfig) (session.Stats, error) {
	if err := conn.WriteJSON(protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      cfg.Name,
	}); err != nil {
		return session.Stats{}, fmt.Errorf("send HELLO: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		return session.Stats{}, fmt.Errorf("read WELCOME: %w", err)
	}
	if welcome.Type != protocol.TypeWelcome {
		return session.Stats{}, fmt.Errorf("expected WELCOME, got %q", welcome.Type)
	}
	_ = conn.SetReadDeadline(time.Time{})
	params := welcome.WorldParams
	logger.Printf("WELCOME player_id=%d server_tick=%d tick_rate=%d max_move=%dmm", welcome.PlayerID, welcome.ServerTick, params.TickRateHz, params.MaxMoveMMPerTick)

	pred := session.New(model.PlayerID(welcome.PlayerID), model.Vec3FromArray(welcome.Spawn), session.Config{
		BufferCapacity: params.InputBufferCapacity,
	})

	sched, err := tick.New(float64(params.TickRateHz))
	if err != nil {
		return pred.Stats(), err
	}
	walk := newWalker(params.MaxMoveMMPerTick, cfg.Speed, cfg.CheatEvery)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readErr := make(chan error, 1)
	go func() {
		readErr <- readLoop(ctx, conn, logger, pred)
		cancel()
	}()

	frame := cfg.Frame
	if frame <= 0 {
		frame = sched.TickDuration()
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	var drainUntil time.Time
	for {
		select {
		case <-ctx.Done():
			select {
			case err := <-readErr:
				return pred.Stats(), err
			default:
				return pred.Stats(), nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			pred.Frame(dt.Seconds())
			if !drainUntil.IsZero() {
				// Done predicting; wait for the last confirmation.
				if st := pred.Stats(); st.LastConfirm >= st.Tick || now.After(drainUntil) {
					return st, nil
				}
				continue
			}
			for i, owed := 0, sched.AccumulateDuration(dt); i < owed; i++ {
				next := pred.Stats().Tick + 1
				in := walk.intent(next)
				t, _, err := pred.Step(in)
				if err != nil {
					return pred.Stats(), fmt.Errorf("predict tick %d: %w", next, err)
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteJSON(protocol.IntentMsgFrom(in, t)); err != nil {
					return pred.Stats(), fmt.Errorf("send INTENT: %w", err)
				}
				if cfg.MaxTicks > 0 && t >= cfg.MaxTicks {
					drainUntil = now.Add(2 * time.Second)
					break
				}
			}
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, logger *log.Logger, pred *session.Predictor) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeConfirm:
			var c protocol.ConfirmMsg
			if err := json.Unmarshal(msg, &c); err != nil {
				continue
			}
			res := pred.OnConfirm(c.State())
			if res.Corrected {
				off := pred.Offset()
				logger.Printf("correction at tick=%d replayed=%d offset=%.0fmm", c.Tick, res.Replayed, off.Len())
			}
		case protocol.TypeReject:
			var r protocol.RejectMsg
			if err := json.Unmarshal(msg, &r); err != nil {
				continue
			}
			logger.Printf("REJECT tick=%d code=%s %s", r.Tick, r.Code, r.Message)
		}
	}
}
