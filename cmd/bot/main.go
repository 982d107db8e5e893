package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	var (
		url        = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name       = flag.String("name", "bot", "player name")
		speed      = flag.Float64("speed", 0.8, "fraction of the server's max move per tick")
		cheatEvery = flag.Int("cheat_every", 0, "every N ticks send an over-limit move to provoke a correction (0 disables)")
		fps        = flag.Int("fps", 120, "local frame rate")
		duration   = flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *duration > 0 {
		var cancelT context.CancelFunc
		ctx, cancelT = context.WithTimeout(ctx, *duration)
		defer cancelT()
	}

	st, err := run(ctx, conn, logger, botConfig{
		Name:       *name,
		Speed:      *speed,
		CheatEvery: *cheatEvery,
		Frame:      time.Second / time.Duration(max(*fps, 1)),
	})
	if err != nil {
		logger.Printf("stopped: %v", err)
	}
	logger.Printf("done tick=%d pending=%d corrections=%d last_confirm=%d", st.Tick, st.Pending, st.Corrections, st.LastConfirm)
}
