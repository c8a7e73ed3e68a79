// Package lvroute is a timing-driven PathFinder router for FPGA
// routing-resource graphs.
//
// What is lvroute?
//
//	A negotiated-congestion router in the VPR tradition that brings together:
//		• Routing-resource graphs: typed nodes, switches, cost indices, island fabrics
//		• Netlists: resolved SOURCE/SINK terminals, bounding boxes, OPIN reservations
//		• Search: A*-directed connection routing over a pooled binary heap
//		• Congestion: present/historical costs with a growing pres_fac schedule
//		• Route trees: incremental rip-up, pruning of congested branches, Elmore delays
//		• Timing: criticality feedback from a net-level static timing analyzer
//
// Under the hood, everything is organized into subpackages:
//
//	rrgraph/     routing-resource graph, node/switch/cost-index types, BuildIsland
//	netlist/     nets, pin numbering, route bounding boxes, synthetic netlists
//	pqueue/      min-heap of search entries with pooling and tagged invalidation
//	congestion/  occupancy, acc_cost, pres_cost and the pres_fac schedule
//	routetree/   per-net route tree, tracebacks, pruning and delay annotation
//	timing/      static timing analysis producing slacks and criticalities
//	router/      connection router, net router and the iteration driver
//	rrfile/      text design format (graph + netlist + fixed routes) and route output
//	server/      HTTP endpoint routing posted designs
//	cmd/lvroute/ command line: grid, route, serve
//
// Quick start:
//
//	g, is, _ := rrgraph.BuildIsland(rrgraph.DefaultIslandOptions())
//	nl := netlist.Ring(is)
//	res, err := router.Route(ctx, g, nl, router.WithMaxIterations(30))
//	if err != nil {
//		// errors.Is(err, router.ErrCongested), router.ErrUnroutable, ...
//	}
//	router.Report(os.Stdout, res)
//
// Routing outcomes are reported through sentinel errors; a failed run still
// returns its Result with the per-iteration statistics.
package lvroute
