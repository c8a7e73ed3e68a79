package router

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/lvroute/rrgraph"
)

// Sentinel errors returned by Route.
var (
	// ErrUnroutable indicates a sink that cannot be reached from its source
	// even when congestion is ignored.
	ErrUnroutable = errors.New("router: connection has no possible path")

	// ErrCongested indicates the iteration cap was reached with over-used nodes.
	ErrCongested = errors.New("router: routing is congested after the last iteration")

	// ErrAborted indicates an early exit by the wirelength or predictor heuristic.
	ErrAborted = errors.New("router: routing aborted early, unlikely to converge")

	// ErrCanceled indicates the caller's context ended the run.
	ErrCanceled = errors.New("router: routing canceled")

	// ErrNetDelayMismatch indicates incrementally computed net delays disagree
	// with delays recomputed from the final routing.
	ErrNetDelayMismatch = errors.New("router: incremental net delay does not match recomputation")

	// ErrBadIterations indicates MaxRouterIterations < 1.
	ErrBadIterations = errors.New("router: MaxRouterIterations must be at least 1")

	// ErrBadCriticality indicates MaxCriticality outside [0,1] or CriticalityExp < 0.
	ErrBadCriticality = errors.New("router: criticality options out of range")

	// ErrBadFactor indicates a negative cost factor.
	ErrBadFactor = errors.New("router: cost factors must be non-negative")
)

// ConnectionError describes the connection that made routing impossible.
type ConnectionError struct {
	Net    string
	NetIdx int
	Source *rrgraph.Node
	Sink   *rrgraph.Node
	SrcIdx int
	DstIdx int
}

// Error implements error.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("net %q: cannot route from rr-node %d (%s) to rr-node %d (%s)",
		e.Net, e.SrcIdx, e.Source, e.DstIdx, e.Sink)
}

// Unwrap makes errors.Is(err, ErrUnroutable) hold.
func (e *ConnectionError) Unwrap() error { return ErrUnroutable }

// TimingAnalyzer supplies connection criticalities from per-pin net delays.
type TimingAnalyzer interface {
	// Update recomputes timing from delays indexed [net][pin], pin 0 unused.
	Update(netDelays [][]float64)
	// Criticality returns the raw criticality in [0,1] of sink pin of net.
	Criticality(net, pin int) float64
	// CriticalPathDelay returns the critical path delay of the last Update.
	CriticalPathDelay() float64
}

// constantTiming is the criticality source used for iteration 1 and for
// routability-driven runs.
type constantTiming float64

func (constantTiming) Update([][]float64) {}

func (c constantTiming) Criticality(int, int) float64 { return float64(c) }

func (constantTiming) CriticalPathDelay() float64 { return 0 }

// PredictorMode selects how eagerly a hopeless run is abandoned.
type PredictorMode int

const (
	// PredictorSafe aborts when success is predicted beyond 3× the iteration cap.
	PredictorSafe PredictorMode = iota
	// PredictorAggressive aborts beyond 1.5× the iteration cap.
	PredictorAggressive
	// PredictorOff never aborts on prediction.
	PredictorOff
)

// String returns the lower-case mode name.
func (m PredictorMode) String() string {
	switch m {
	case PredictorSafe:
		return "safe"
	case PredictorAggressive:
		return "aggressive"
	case PredictorOff:
		return "off"
	}

	return fmt.Sprintf("PredictorMode(%d)", int(m))
}

// ParsePredictorMode converts "safe", "aggressive" or "off".
func ParsePredictorMode(s string) (PredictorMode, error) {
	for _, m := range []PredictorMode{PredictorSafe, PredictorAggressive, PredictorOff} {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("router: unknown predictor mode %q", s)
}

// Options configures a routing run.
//
// MaxRouterIterations          – iteration cap. Must be ≥ 1.
// FirstIterPresFac             – pres_fac during iteration 1 (0 ignores congestion).
// InitialPresFac               – pres_fac during iteration 2.
// PresFacMult                  – pres_fac growth per later iteration.
// AccFac                       – historical cost weight.
// AstarFac                     – lookahead weight.
// MaxCriticality               – criticality cap, also the shift applied to raw criticality.
// CriticalityExp               – sharpening exponent.
// BendCost                     – penalty per CHANX↔CHANY turn.
// BBFactor                     – route bounding-box slack.
// MinIncrementalRerouteFanout  – fanout from which nets are rerouted incrementally.
// HighFanoutNetLimit           – fanout from which searches are confined to a bin.
// BinSlack                     – channels added around a found bin.
// FirstIterWirelengthLimit     – iteration-1 used/available wirelength abort ratio.
// Predictor                    – failure predictor policy; the abort threshold
// is PredictorSafeFactor or PredictorAggressiveFactor × MaxRouterIterations,
// checked only above PredictorMinOveruse over-used nodes.
// CheckNetDelays               – cross-check incremental delays at success.
type Options struct {
	MaxRouterIterations         int
	FirstIterPresFac            float64
	InitialPresFac              float64
	PresFacMult                 float64
	AccFac                      float64
	AstarFac                    float64
	MaxCriticality              float64
	CriticalityExp              float64
	BendCost                    float64
	BBFactor                    int
	MinIncrementalRerouteFanout int
	HighFanoutNetLimit          int
	BinSlack                    int
	FirstIterWirelengthLimit    float64
	Predictor                   PredictorMode
	PredictorMinOveruse         int
	PredictorSafeFactor         float64
	PredictorAggressiveFactor   float64
	CheckNetDelays              bool

	Timing   TimingAnalyzer
	Logger   *slog.Logger
	Observer Observer
}

// Option configures Options.
type Option func(*Options)

// WithMaxIterations sets the iteration cap. Panics if n < 1.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic(ErrBadIterations.Error())
		}
		o.MaxRouterIterations = n
	}
}

// WithPresFac sets the congestion schedule: iteration-1 factor, iteration-2
// factor and growth multiplier. Panics on negative values.
func WithPresFac(first, initial, mult float64) Option {
	return func(o *Options) {
		if first < 0 || initial < 0 || mult < 0 {
			panic(ErrBadFactor.Error())
		}
		o.FirstIterPresFac, o.InitialPresFac, o.PresFacMult = first, initial, mult
	}
}

// WithAccFac sets the historical cost weight. Panics on a negative value.
func WithAccFac(f float64) Option {
	return func(o *Options) {
		if f < 0 {
			panic(ErrBadFactor.Error())
		}
		o.AccFac = f
	}
}

// WithAstarFac sets the lookahead weight. Panics on a negative value.
func WithAstarFac(f float64) Option {
	return func(o *Options) {
		if f < 0 {
			panic(ErrBadFactor.Error())
		}
		o.AstarFac = f
	}
}

// WithCriticality sets MaxCriticality and CriticalityExp.
func WithCriticality(maxCrit, exp float64) Option {
	return func(o *Options) {
		if maxCrit < 0 || maxCrit > 1 || exp < 0 {
			panic(ErrBadCriticality.Error())
		}
		o.MaxCriticality, o.CriticalityExp = maxCrit, exp
	}
}

// WithBendCost sets the turn penalty.
func WithBendCost(c float64) Option {
	return func(o *Options) {
		if c < 0 {
			panic(ErrBadFactor.Error())
		}
		o.BendCost = c
	}
}

// WithBBFactor sets the bounding-box slack in channels.
func WithBBFactor(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadFactor.Error())
		}
		o.BBFactor = n
	}
}

// WithMinIncrementalRerouteFanout sets the incremental reroute threshold.
// Panics on a negative value.
func WithMinIncrementalRerouteFanout(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadFactor.Error())
		}
		o.MinIncrementalRerouteFanout = n
	}
}

// WithHighFanout sets the high-fanout bin threshold and slack. Panics on
// negative values.
func WithHighFanout(limit, slack int) Option {
	return func(o *Options) {
		if limit < 0 || slack < 0 {
			panic(ErrBadFactor.Error())
		}
		o.HighFanoutNetLimit, o.BinSlack = limit, slack
	}
}

// WithPredictor selects the failure predictor policy.
func WithPredictor(m PredictorMode) Option {
	return func(o *Options) { o.Predictor = m }
}

// WithFirstIterWirelengthLimit sets the iteration-1 wirelength abort ratio.
func WithFirstIterWirelengthLimit(r float64) Option {
	return func(o *Options) { o.FirstIterWirelengthLimit = r }
}

// WithTiming routes timing-driven with criticalities from a.
func WithTiming(a TimingAnalyzer) Option {
	return func(o *Options) { o.Timing = a }
}

// WithCheckNetDelays toggles the final delay cross-check.
func WithCheckNetDelays(on bool) Option {
	return func(o *Options) { o.CheckNetDelays = on }
}

// WithLogger sends progress to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithObserver installs profiling hooks.
func WithObserver(obs Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// DefaultOptions returns the classic timing-driven router defaults.
func DefaultOptions() Options {
	return Options{
		MaxRouterIterations:         50,
		FirstIterPresFac:            0.0,
		InitialPresFac:              0.5,
		PresFacMult:                 1.3,
		AccFac:                      1.0,
		AstarFac:                    1.2,
		MaxCriticality:              0.99,
		CriticalityExp:              1.0,
		BendCost:                    0.0,
		BBFactor:                    3,
		MinIncrementalRerouteFanout: 16,
		HighFanoutNetLimit:          64,
		BinSlack:                    4,
		FirstIterWirelengthLimit:    0.85,
		Predictor:                   PredictorSafe,
		PredictorMinOveruse:         100,
		PredictorSafeFactor:         3.0,
		PredictorAggressiveFactor:   1.5,
		CheckNetDelays:              true,
		Logger:                      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Observer:                    NopObserver{},
	}
}

// normalize fills nil collaborators and rejects inconsistent values that
// bypassed the With constructors.
func (o *Options) normalize() error {
	if o.MaxRouterIterations < 1 {
		return ErrBadIterations
	}
	if o.MaxCriticality < 0 || o.MaxCriticality > 1 || o.CriticalityExp < 0 {
		return ErrBadCriticality
	}
	if o.AstarFac < 0 || o.AccFac < 0 || o.BendCost < 0 ||
		o.FirstIterPresFac < 0 || o.InitialPresFac < 0 || o.PresFacMult < 0 {
		return ErrBadFactor
	}
	if o.BBFactor < 0 || o.MinIncrementalRerouteFanout < 0 || o.HighFanoutNetLimit < 0 || o.BinSlack < 0 {
		return ErrBadFactor
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}

	return nil
}
