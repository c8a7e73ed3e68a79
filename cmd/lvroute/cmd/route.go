package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvroute/router"
	"github.com/katalvlaran/lvroute/rrfile"
	"github.com/katalvlaran/lvroute/timing"
)

// routeFlags mirrors the tunable router.Options.
type routeFlags struct {
	maxIterations int
	firstPresFac  float64
	presFac       float64
	presFacMult   float64
	accFac        float64
	astarFac      float64
	maxCrit       float64
	critExp       float64
	bendCost      float64
	bbFactor      int
	minIncFanout  int
	predictor     string
	timingDriven  bool
	checkDelays   bool
	routesPath    string
	profile       bool
}

var routeOpts routeFlags

var routeCmd = &cobra.Command{
	Use:   "route <design-file>",
	Short: "Route the nets of a design file",
	Long: `Route every net of a design file on its routing-resource graph and
print the per-iteration congestion table.

Examples:
  lvroute route fabric.rr
  lvroute route --timing --max-iterations 30 fabric.rr
  lvroute route --astar-fac 0 --predictor off --routes out.route fabric.rr`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	bindRouteFlags(routeCmd, &routeOpts)
	routeCmd.Flags().BoolVar(&routeOpts.timingDriven, "timing", false,
		"route timing-driven using the design's links")
	routeCmd.Flags().StringVarP(&routeOpts.routesPath, "routes", "o", "",
		"write the final routing to this file")
	routeCmd.Flags().BoolVar(&routeOpts.profile, "profile", false,
		"print routing event counters")
}

// bindRouteFlags registers the router tuning flags shared by route and serve.
func bindRouteFlags(c *cobra.Command, f *routeFlags) {
	d := router.DefaultOptions()
	fs := c.Flags()
	fs.IntVar(&f.maxIterations, "max-iterations", d.MaxRouterIterations, "routing iteration cap")
	fs.Float64Var(&f.firstPresFac, "first-pres-fac", d.FirstIterPresFac, "present congestion factor of iteration 1")
	fs.Float64Var(&f.presFac, "pres-fac", d.InitialPresFac, "present congestion factor of iteration 2")
	fs.Float64Var(&f.presFacMult, "pres-fac-mult", d.PresFacMult, "present congestion growth per iteration")
	fs.Float64Var(&f.accFac, "acc-fac", d.AccFac, "historical congestion weight")
	fs.Float64Var(&f.astarFac, "astar-fac", d.AstarFac, "lookahead weight, 0 for plain Dijkstra")
	fs.Float64Var(&f.maxCrit, "max-criticality", d.MaxCriticality, "criticality cap")
	fs.Float64Var(&f.critExp, "criticality-exp", d.CriticalityExp, "criticality sharpening exponent")
	fs.Float64Var(&f.bendCost, "bend-cost", d.BendCost, "penalty per channel turn")
	fs.IntVar(&f.bbFactor, "bb-factor", d.BBFactor, "bounding box slack in channels")
	fs.IntVar(&f.minIncFanout, "min-incremental-fanout", d.MinIncrementalRerouteFanout,
		"smallest fanout whose legal routing is kept across iterations")
	fs.StringVar(&f.predictor, "predictor", d.Predictor.String(), "failure predictor: safe, aggressive or off")
	fs.BoolVar(&f.checkDelays, "check-delays", d.CheckNetDelays, "cross-check net delays at success")
}

// options turns the flags into router options. Range errors surface from
// the router when the context is built.
func (f *routeFlags) options() ([]router.Option, error) {
	mode, err := router.ParsePredictorMode(f.predictor)
	if err != nil {
		return nil, err
	}

	return []router.Option{func(o *router.Options) {
		o.MaxRouterIterations = f.maxIterations
		o.FirstIterPresFac = f.firstPresFac
		o.InitialPresFac = f.presFac
		o.PresFacMult = f.presFacMult
		o.AccFac = f.accFac
		o.AstarFac = f.astarFac
		o.MaxCriticality = f.maxCrit
		o.CriticalityExp = f.critExp
		o.BendCost = f.bendCost
		o.BBFactor = f.bbFactor
		o.MinIncrementalRerouteFanout = f.minIncFanout
		o.Predictor = mode
		o.CheckNetDelays = f.checkDelays
	}}, nil
}

func runRoute(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	out := cmd.OutOrStdout()

	d, err := rrfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load design: %w", err)
	}
	log.Debug("design loaded", "file", args[0], "nodes", d.Graph.NumNodes(), "nets", d.Netlist.Len())

	opts, err := routeOpts.options()
	if err != nil {
		return err
	}
	opts = append(opts, router.WithLogger(log))
	var sta *timing.Analyzer
	if routeOpts.timingDriven {
		if sta, err = timing.New(d.Netlist, d.Links...); err != nil {
			return fmt.Errorf("failed to build timing graph: %w", err)
		}
		opts = append(opts, router.WithTiming(sta))
	}
	prof := &router.Profile{}
	if routeOpts.profile {
		opts = append(opts, router.WithObserver(prof))
	}

	res, err := router.RouteFixed(cmd.Context(), d.Graph, d.Netlist, d.Fixed, opts...)
	if res == nil {
		return err
	}
	if rerr := router.Report(out, res); rerr != nil {
		return rerr
	}
	if sta != nil && res.Success {
		fmt.Fprintf(out, "Critical path delay: %g s\n", res.CriticalPathDelay)
		if inet := latestDriver(sta, d.Netlist.Len()); inet >= 0 {
			fmt.Fprintf(out, "Latest driver arrival: net %d (%s) at %g s\n",
				inet, d.Netlist.Nets[inet].Name, sta.Arrival(inet))
		}
	}
	if routeOpts.profile {
		if _, perr := prof.WriteTo(out); perr != nil {
			return perr
		}
		h := res.Heap
		fmt.Fprintf(out, "heap pushes %d, pops %d, invalidated %d, allocs %d, reuses %d\n",
			h.Pushes, h.Pops, h.Invalidated, h.Allocs, h.Reuses)
	}
	if err != nil {
		if errors.Is(err, router.ErrUnroutable) {
			return fmt.Errorf("design is unroutable: %w", err)
		}
		return err
	}

	if routeOpts.routesPath != "" {
		if err = writeRoutesFile(routeOpts.routesPath, d, res); err != nil {
			return err
		}
		log.Info("routes written", "file", routeOpts.routesPath)
	}

	return nil
}

func writeRoutesFile(path string, d *rrfile.Design, res *router.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create routes file: %w", err)
	}
	if err = rrfile.WriteRoutes(f, d.Graph, d.Netlist, res.Tracebacks); err != nil {
		f.Close()
		return fmt.Errorf("failed to write routes: %w", err)
	}

	return f.Close()
}

// latestDriver returns the net whose driver arrives last, or -1 without nets.
func latestDriver(sta *timing.Analyzer, nets int) int {
	best := -1
	for inet := 0; inet < nets; inet++ {
		if best < 0 || sta.Arrival(inet) > sta.Arrival(best) {
			best = inet
		}
	}

	return best
}
