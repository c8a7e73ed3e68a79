// Package congestion implements the PathFinder negotiated-congestion cost model.
//
// Every routing-resource node carries three quantities, stored in a Model that
// is separate from the (read-only) rrgraph.Graph:
//
//   - Occupancy: how many nets currently use the node.
//   - PresCost:  the present-congestion penalty, 1 while occupancy < capacity and
//     1 + (occupancy + 1 − capacity) × pres_fac otherwise. The +1 prices the node
//     as if the net now deciding were added to it.
//   - AccCost:   the accumulated (historical) penalty. It starts at 1 and grows by
//     (occupancy − capacity) × acc_fac for every over-used node once per routing
//     iteration; it never decreases.
//
// The cost of using a node is base_cost × AccCost × PresCost.
//
// UpdateNode is called once per node when a net is ripped up (−1) or committed
// (+1) and recomputes PresCost from scratch with the current pres_fac, so the
// penalty never drifts from the occupancy. UpdateCost is the end-of-iteration
// global update. Schedule produces the pres_fac/acc_fac sequence.
//
// Occupancy below zero means a net was ripped up twice; the model panics.
package congestion
