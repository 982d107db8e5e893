package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/xztyle/nebula-engine-sub000/internal/protocol"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world/kernel/model"
)

type Options struct {
	// IntentsPerSecond and IntentBurst bound how fast one connection may submit
	// intents. Zero IntentsPerSecond disables the limit.
	IntentsPerSecond float64
	IntentBurst      int

	// OutQueue is the per-connection outgoing buffer; the world drops the
	// oldest message when it is full.
	OutQueue int
}

type Stats struct {
	Connections    int64
	RateLimited    uint64
	BadRequests    uint64
	WorldBusyDrops uint64
}

type Server struct {
	world *world.World
	log   *log.Logger
	opts  Options

	upgrader websocket.Upgrader

	conns       atomic.Int64
	rateLimited atomic.Uint64
	badRequests atomic.Uint64
	busyDrops   atomic.Uint64
}

func NewServer(w *world.World, logger *log.Logger, opts Options) *Server {
	if opts.OutQueue <= 0 {
		opts.OutQueue = 64
	}
	if opts.IntentBurst <= 0 {
		opts.IntentBurst = 1
	}
	s := &Server{
		world: w,
		log:   logger,
		opts:  opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Stats() Stats {
	return Stats{
		Connections:    s.conns.Load(),
		RateLimited:    s.rateLimited.Load(),
		BadRequests:    s.badRequests.Load(),
		WorldBusyDrops: s.busyDrops.Load(),
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		playerID, out := s.handshake(conn)
		if playerID == 0 {
			return
		}
		s.conns.Add(1)
		defer s.conns.Add(-1)
		s.logf("player %s connected from %s", playerID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine. It is the only writer on conn after the handshake.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		var limiter *rate.Limiter
		if s.opts.IntentsPerSecond > 0 {
			limiter = rate.NewLimiter(rate.Limit(s.opts.IntentsPerSecond), s.opts.IntentBurst)
		}

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			env, tick, err := decodeIntent(msg, playerID)
			if err != nil {
				s.badRequests.Add(1)
				s.reject(out, tick, protocol.ErrProtoBadRequest, err.Error())
				continue
			}
			if limiter != nil && !limiter.Allow() {
				s.rateLimited.Add(1)
				s.reject(out, tick, protocol.ErrRateLimit, "too many intents")
				continue
			}
			select {
			case s.world.Inbox() <- env:
			default:
				s.busyDrops.Add(1)
				s.reject(out, tick, protocol.ErrWorldBusy, "world inbox full")
			}
		}

		// Cleanup.
		s.world.Leave() <- playerID
		s.logf("player %s disconnected", playerID)
	}
}

// decodeIntent parses one INTENT frame. The returned tick is the client tick
// when it could be read, for use in a rejection.
func decodeIntent(msg []byte, player model.PlayerID) (world.IntentEnvelope, uint64, error) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return world.IntentEnvelope{}, 0, fmt.Errorf("bad json: %w", err)
	}
	if base.Type != protocol.TypeIntent {
		return world.IntentEnvelope{}, 0, fmt.Errorf("unexpected message type %q", base.Type)
	}
	var im protocol.IntentMsg
	if err := json.Unmarshal(msg, &im); err != nil {
		return world.IntentEnvelope{}, 0, fmt.Errorf("bad intent: %w", err)
	}
	if im.ProtocolVersion != protocol.Version {
		return world.IntentEnvelope{}, im.Tick, fmt.Errorf("bad protocol_version %q", im.ProtocolVersion)
	}
	in, err := im.ToIntent(player)
	if err != nil {
		return world.IntentEnvelope{}, im.Tick, err
	}
	return world.IntentEnvelope{PlayerID: player, Tick: im.Tick, Intent: in}, im.Tick, nil
}

func (s *Server) reject(out chan []byte, tick uint64, code, message string) {
	b, err := json.Marshal(protocol.RejectMsg{
		Type:            protocol.TypeReject,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		ServerTick:      s.world.CurrentTick(),
		Code:            code,
		Message:         message,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func (s *Server) handshake(conn *websocket.Conn) (playerID model.PlayerID, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return 0, nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return 0, nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return 0, nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return 0, nil
	}

	out = make(chan []byte, s.opts.OutQueue)
	respCh := make(chan world.JoinResponse, 1)
	s.world.Join() <- world.JoinRequest{
		Name: hello.ClientName,
		Out:  out,
		Resp: respCh,
	}
	resp := <-respCh

	// The welcome is written before the writer goroutine starts.
	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.world.Leave() <- model.PlayerID(resp.Welcome.PlayerID)
		return 0, nil
	}
	return model.PlayerID(resp.Welcome.PlayerID), out
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	}
	return nil
}
