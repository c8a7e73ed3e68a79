// Package netlist describes what must be routed: nets whose pins are already
// resolved to routing-resource terminals.
//
// Pin numbering follows the routing convention: pin 0 is the driver (a SOURCE
// node) and pins 1..NumSinks() are the receivers (SINK nodes), in netlist order.
// Global nets (clocks, resets) are carried on dedicated networks and are never
// routed; fixed nets arrive pre-routed and are committed as-is.
//
// The package also computes the rectangular search region of each net
// (RouteBB): the terminal bounding box grown by one channel on the low sides,
// expanded by bb_factor and clipped to the device.
//
// Ring and Random generate synthetic netlists for an rrgraph.Island.
package netlist
