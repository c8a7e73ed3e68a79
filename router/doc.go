// Package router implements timing-driven negotiated-congestion (PathFinder)
// routing over an rrgraph.Graph.
//
// Route runs up to MaxRouterIterations passes. Every pass rips up and reroutes
// each net whose previous routing is congested (or flagged for a timing
// reroute). A net is routed one sink at a time, most critical first, with a
// directed search that starts from the whole partial routing tree and
// minimizes
//
//	crit × delay + (1 − crit) × congestion
//
// where congestion = base × acc_cost × pres_cost. After a pass the present
// congestion factor grows and over-used nodes accumulate historical cost, so
// nets gradually negotiate shared resources away from each other.
//
// Complexity:
//
//	– One connection search: O(E' log E') for E' edges inside the net's
//	  bounding box (or high-fanout bin).
//	– One pass: Σ over rerouted nets of sinks × connection search.
//	– Space: O(V) search state, reused across all searches of one Context.
//
// Options:
//
//	– MaxRouterIterations          iteration cap (50).
//	– FirstIterPresFac, InitialPresFac, PresFacMult, AccFac: congestion schedule.
//	– AstarFac                     weight of the lookahead; 0 is plain Dijkstra.
//	– MaxCriticality, CriticalityExp: criticality shaping.
//	– BendCost                     extra cost for CHANX↔CHANY turns.
//	– BBFactor                     route bounding-box slack in channels.
//	– MinIncrementalRerouteFanout  nets at least this wide are rerouted
//	  incrementally from their pruned previous tree.
//	– Predictor                    early abort policy (Off, Safe, Aggressive).
//	– Timing                       criticality source; nil routes for wirelength.
//	– Logger, Observer             progress reporting and profiling hooks.
//
// Errors:
//
//	– ErrUnroutable  a connection has no path even ignoring congestion. The
//	  wrapped *ConnectionError names the net and both terminals.
//	– ErrCongested   the iteration cap was reached with resources over-used.
//	– ErrAborted     routing gave up early (wirelength or predictor heuristics).
//	– ErrCanceled    the context was canceled between nets.
//	– ErrNetDelayMismatch  incremental delays disagree with a full recompute.
//
// On every failure the returned *Result still carries the iteration history
// and the (invalid) partial tracebacks for inspection.
package router
