package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"sort"
	"strings"

	"github.com/xztyle/nebula-engine-sub000/internal/persistence/indexdb"
	"github.com/xztyle/nebula-engine-sub000/internal/sim/world"
	"github.com/xztyle/nebula-engine-sub000/internal/transport/ws"
)

func newMux(worldID string, w *world.World, wsSrv *ws.Server, idx runtimeIndex) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := w.Metrics()
		if m.Tick == 0 {
			m.Tick = w.CurrentTick()
		}
		writeWorldMetrics(rw, worldID, m)
		if wsSrv != nil {
			writeTransportMetrics(rw, worldID, wsSrv.Stats())
		}
		if idx != nil {
			writeIndexMetrics(rw, worldID, idx.Stats())
		}
	})
	// Local-only state dump (does not affect simulation determinism).
	mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		resp := struct {
			WorldID string             `json:"world_id"`
			Tick    uint64             `json:"tick"`
			Metrics world.WorldMetrics `json:"metrics"`
		}{
			WorldID: worldID,
			Tick:    w.CurrentTick(),
			Metrics: w.Metrics(),
		}
		_ = json.NewEncoder(rw).Encode(resp)
	})
	if wsSrv != nil {
		mux.HandleFunc("/v1/ws", wsSrv.Handler())
	}
	return mux
}

func registerPprof(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

// Minimal Prometheus exposition format.
func writeWorldMetrics(rw io.Writer, worldID string, m world.WorldMetrics) {
	fmt.Fprintf(rw, "# HELP nebula_world_tick Current world tick.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_tick gauge\n")
	fmt.Fprintf(rw, "nebula_world_tick{world=%q} %d\n", worldID, m.Tick)

	fmt.Fprintf(rw, "# HELP nebula_world_players Current number of players in the world.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_players gauge\n")
	fmt.Fprintf(rw, "nebula_world_players{world=%q} %d\n", worldID, m.Players)

	fmt.Fprintf(rw, "# HELP nebula_world_clients Current number of connected clients.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_clients gauge\n")
	fmt.Fprintf(rw, "nebula_world_clients{world=%q} %d\n", worldID, m.Clients)

	fmt.Fprintf(rw, "# HELP nebula_world_voxel_edits Edited voxel count.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_voxel_edits gauge\n")
	fmt.Fprintf(rw, "nebula_world_voxel_edits{world=%q} %d\n", worldID, m.VoxelEdits)

	fmt.Fprintf(rw, "# HELP nebula_world_queue_depth Channel backlog depth.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_queue_depth gauge\n")
	fmt.Fprintf(rw, "nebula_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "inbox", m.QueueDepths.Inbox)
	fmt.Fprintf(rw, "nebula_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "join", m.QueueDepths.Join)
	fmt.Fprintf(rw, "nebula_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "leave", m.QueueDepths.Leave)

	fmt.Fprintf(rw, "# HELP nebula_world_step_ms Last tick step duration in milliseconds.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_step_ms gauge\n")
	fmt.Fprintf(rw, "nebula_world_step_ms{world=%q} %.3f\n", worldID, m.StepMS)

	fmt.Fprintf(rw, "# HELP nebula_world_intents_accepted_total Intents applied.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_intents_accepted_total counter\n")
	fmt.Fprintf(rw, "nebula_world_intents_accepted_total{world=%q} %d\n", worldID, m.IntentsAccepted)

	fmt.Fprintf(rw, "# HELP nebula_world_intents_rejected_total Intents rejected, by code.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_intents_rejected_total counter\n")
	codes := make([]string, 0, len(m.IntentsRejected))
	for code := range m.IntentsRejected {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(rw, "nebula_world_intents_rejected_total{world=%q,code=%q} %d\n", worldID, code, m.IntentsRejected[code])
	}

	fmt.Fprintf(rw, "# HELP nebula_world_catch_up_dropped_ticks_total Owed ticks skipped after a stall.\n")
	fmt.Fprintf(rw, "# TYPE nebula_world_catch_up_dropped_ticks_total counter\n")
	fmt.Fprintf(rw, "nebula_world_catch_up_dropped_ticks_total{world=%q} %d\n", worldID, m.CatchUpDroppedTicks)
}

func writeTransportMetrics(rw io.Writer, worldID string, s ws.Stats) {
	fmt.Fprintf(rw, "# HELP nebula_ws_connections Open websocket sessions.\n")
	fmt.Fprintf(rw, "# TYPE nebula_ws_connections gauge\n")
	fmt.Fprintf(rw, "nebula_ws_connections{world=%q} %d\n", worldID, s.Connections)

	fmt.Fprintf(rw, "# HELP nebula_ws_dropped_intents_total Intents refused before reaching the world.\n")
	fmt.Fprintf(rw, "# TYPE nebula_ws_dropped_intents_total counter\n")
	fmt.Fprintf(rw, "nebula_ws_dropped_intents_total{world=%q,reason=%q} %d\n", worldID, "rate_limit", s.RateLimited)
	fmt.Fprintf(rw, "nebula_ws_dropped_intents_total{world=%q,reason=%q} %d\n", worldID, "bad_request", s.BadRequests)
	fmt.Fprintf(rw, "nebula_ws_dropped_intents_total{world=%q,reason=%q} %d\n", worldID, "world_busy", s.WorldBusyDrops)
}

func writeIndexMetrics(rw io.Writer, worldID string, s indexdb.Stats) {
	fmt.Fprintf(rw, "# HELP nebula_index_queue_depth SQLite index queue depth.\n")
	fmt.Fprintf(rw, "# TYPE nebula_index_queue_depth gauge\n")
	fmt.Fprintf(rw, "nebula_index_queue_depth{world=%q} %d\n", worldID, s.QueueDepth)

	fmt.Fprintf(rw, "# HELP nebula_index_dropped_total Index writes dropped under backpressure.\n")
	fmt.Fprintf(rw, "# TYPE nebula_index_dropped_total counter\n")
	fmt.Fprintf(rw, "nebula_index_dropped_total{world=%q,kind=%q} %d\n", worldID, "tick", s.DropTickTotal)
	fmt.Fprintf(rw, "nebula_index_dropped_total{world=%q,kind=%q} %d\n", worldID, "audit", s.DropAuditTotal)
	fmt.Fprintf(rw, "nebula_index_dropped_total{world=%q,kind=%q} %d\n", worldID, "snapshot", s.DropSnapshotTotal)

	fmt.Fprintf(rw, "# HELP nebula_index_write_errors_total Failed index transactions.\n")
	fmt.Fprintf(rw, "# TYPE nebula_index_write_errors_total counter\n")
	fmt.Fprintf(rw, "nebula_index_write_errors_total{world=%q} %d\n", worldID, s.WriteErrorTotal)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
