// Package server exposes the router over HTTP.
//
// Endpoints:
//
//	POST /api/route    body RouteRequest, answers RouteResponse
//	GET  /api/health   liveness check
//
// Every request builds its own routing context, so requests run concurrently.
// A design that fails to parse is a 400; a design that parses but cannot be
// routed is a 200 with Success false and the failure reason.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/katalvlaran/lvroute/router"
	"github.com/katalvlaran/lvroute/rrfile"
	"github.com/katalvlaran/lvroute/timing"
)

// RouteRequest carries a design in rrfile text form and per-request overrides.
type RouteRequest struct {
	Design               string   `json:"design"`
	MaxIterations        int      `json:"max_iterations,omitempty"`
	AstarFac             *float64 `json:"astar_fac,omitempty"`
	MinIncrementalFanout *int     `json:"min_incremental_reroute_fanout,omitempty"`
	Predictor            string   `json:"predictor,omitempty"`
	TimingDriven         bool     `json:"timing_driven,omitempty"`
}

// IterationRow is one line of the progress table.
type IterationRow struct {
	Iteration  int     `json:"iteration"`
	Overused   int     `json:"overused"`
	Wirelength int     `json:"wirelength"`
	CPD        float64 `json:"cpd"`
}

// RouteResponse is the routing outcome.
type RouteResponse struct {
	Success           bool           `json:"success"`
	Iterations        int            `json:"iterations"`
	Reason            string         `json:"reason,omitempty"`
	CriticalPathDelay float64        `json:"critical_path_delay"`
	OverusedNodes     int            `json:"overused_nodes"`
	CongestedNodes    []int          `json:"congested_nodes,omitempty"`
	Wirelength        int            `json:"wirelength"`
	Stats             []IterationRow `json:"stats"`
	Routes            string         `json:"routes,omitempty"`
}

// Server routes designs posted to it.
type Server struct {
	log  *slog.Logger
	opts []router.Option
}

// New returns a server applying opts to every request before its overrides.
func New(log *slog.Logger, opts ...router.Option) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{log: log, opts: opts}
}

// RegisterRoutes mounts the endpoints on r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/route", s.Route).Methods(http.MethodPost)
	r.HandleFunc("/api/health", s.Health).Methods(http.MethodGet)
}

// Handler returns a router with every endpoint mounted.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.RegisterRoutes(r)

	return r
}

// Health answers liveness checks.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Route parses the posted design, routes it and returns the result.
func (s *Server) Route(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	d, err := rrfile.Read("request", strings.NewReader(req.Design))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := append([]router.Option{router.WithLogger(s.log)}, s.opts...)
	if req.MaxIterations > 0 {
		opts = append(opts, router.WithMaxIterations(req.MaxIterations))
	}
	if req.AstarFac != nil {
		if *req.AstarFac < 0 {
			writeError(w, http.StatusBadRequest, router.ErrBadFactor.Error())
			return
		}
		opts = append(opts, router.WithAstarFac(*req.AstarFac))
	}
	if req.MinIncrementalFanout != nil {
		if *req.MinIncrementalFanout < 0 {
			writeError(w, http.StatusBadRequest, router.ErrBadFactor.Error())
			return
		}
		opts = append(opts, router.WithMinIncrementalRerouteFanout(*req.MinIncrementalFanout))
	}
	if req.Predictor != "" {
		m, err := router.ParsePredictorMode(req.Predictor)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts = append(opts, router.WithPredictor(m))
	}
	if req.TimingDriven {
		sta, err := timing.New(d.Netlist, d.Links...)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts = append(opts, router.WithTiming(sta))
	}

	res, err := router.RouteFixed(r.Context(), d.Graph, d.Netlist, d.Fixed, opts...)
	switch {
	case errors.Is(err, router.ErrCanceled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case res == nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Info("routed request", "nets", d.Netlist.Len(), "success", res.Success, "iterations", res.Iterations)

	resp := RouteResponse{
		Success:           res.Success,
		Iterations:        res.Iterations,
		Reason:            res.Reason,
		CriticalPathDelay: res.CriticalPathDelay,
		OverusedNodes:     res.Overuse.OverusedNodes,
		CongestedNodes:    res.Congested,
		Wirelength:        res.Wirelength.Used,
		Stats:             make([]IterationRow, len(res.Stats)),
	}
	for i, st := range res.Stats {
		resp.Stats[i] = IterationRow{st.Iteration, st.Overuse.OverusedNodes, st.Wirelength.Used, st.CPD}
	}
	if res.Success {
		var buf bytes.Buffer
		if err := rrfile.WriteRoutes(&buf, d.Graph, d.Netlist, res.Tracebacks); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Routes = buf.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
