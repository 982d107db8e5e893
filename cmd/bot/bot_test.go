package main

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xztyle/nebula-engine-sub000/internal/sim/world"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
	"github.com/xztyle/nebula-engine-sub000/internal/transport/ws"
)

func TestWalker_StaysWithinLimit(t *testing.T) {
	w := newWalker(200, 0.8, 0)
	for tick := uint64(1); tick <= 400; tick++ {
		in := w.intent(tick)
		mv, ok := in.(model.Move)
		if !ok {
			if _, rot := in.(model.Rotate); !rot || tick%60 != 0 {
				t.Fatalf("tick %d: unexpected intent %T", tick, in)
			}
			continue
		}
		if mv.Delta.LenSq() > 200*200 {
			t.Fatalf("tick %d: delta %+v exceeds limit", tick, mv.Delta)
		}
		if mv.Delta.IsZero() {
			t.Fatalf("tick %d: zero delta", tick)
		}
	}
}

func TestWalker_CheatExceedsLimit(t *testing.T) {
	w := newWalker(200, 2.0, 7)
	if w.step != 200 {
		t.Fatalf("step=%d want clamp to 200", w.step)
	}
	mv, ok := w.intent(14).(model.Move)
	if !ok || mv.Delta.X != 201 {
		t.Fatalf("cheat intent=%+v", w.intent(14))
	}
}

func startWorld(t *testing.T) string {
	t.Helper()
	w, err := world.New(world.WorldConfig{ID: "bot-test", TickRateHz: 60})
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	srv := httptest.NewServer(ws.NewServer(w, nil, ws.Options{}).Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func runBot(t *testing.T, url string, cfg botConfig) (uint64, uint64, uint64) {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st, err := run(ctx, conn, log.New(io.Discard, "", 0), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return st.Tick, st.LastConfirm, st.Corrections
}

func TestBot_HonestPredictionNeverCorrects(t *testing.T) {
	url := startWorld(t)
	tick, confirmed, corrections := runBot(t, url, botConfig{Name: "honest", Speed: 0.8, Frame: 5 * time.Millisecond, MaxTicks: 90})
	if tick != 90 {
		t.Fatalf("tick=%d want 90", tick)
	}
	if confirmed != 90 {
		t.Fatalf("last confirm=%d want 90", confirmed)
	}
	if corrections != 0 {
		t.Fatalf("corrections=%d want 0", corrections)
	}
}

func TestBot_OverLimitMoveIsCorrected(t *testing.T) {
	url := startWorld(t)
	_, confirmed, corrections := runBot(t, url, botConfig{Name: "cheat", Speed: 0.5, CheatEvery: 10, Frame: 5 * time.Millisecond, MaxTicks: 30})
	if confirmed != 30 {
		t.Fatalf("last confirm=%d want 30", confirmed)
	}
	if corrections == 0 {
		t.Fatalf("expected at least one correction")
	}
}
