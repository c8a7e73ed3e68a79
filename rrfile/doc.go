// Package rrfile reads and writes lvroute design files: a line-oriented text
// format holding a routing-resource graph, the netlist to route on it, routes
// of pre-routed nets and the timing links between nets.
//
// Format (one declaration per line, '#' starts a comment):
//
//	grid 4 4
//	switch 0 "routing" R 551 Cin 0 Tdel 5.8e-11 buffered
//	cost_index 4 base 1 ortho 5 inv_length 1 t_linear 1.2e-10
//	node 12 CHANX (1,0) cap 1 cost 4 R 101 C 2.25e-14 ptc 3
//	node 40 SOURCE (1,1) (1,1) cap 1 cost 0
//	edge 40 -> 41 via 2
//	net "clk_en" source 40 sinks 77 91 fixed
//	route "clk_en" 40:2 41:0 12:1 77
//	reserve 40 1
//	link "clk_en" 1 -> "q" delay 1e-10
//
// Switches, cost indices and nodes carry their index, which must equal their
// position among declarations of the same kind. Node types are upper case.
// A node given one coordinate is a single tile. In a route, "n:s" means node
// n left through switch s; a bare node ends a branch.
//
// Parse only checks syntax; Build resolves the declarations into an
// rrgraph.Graph, a netlist.Netlist, fixed routes and timing links. Write is
// the inverse of Build; WriteRoutes prints routing results in the classic
// per-net "Node:" listing.
//
// Errors:
//
//   - ErrSyntax        the text does not match the grammar.
//   - ErrBadIndex      a declaration index is out of sequence.
//   - ErrUnknownAttr   an attribute key is not valid for its declaration.
//   - ErrUnknownNet    a route or link names an undeclared net.
//   - ErrMissingGrid   no grid declaration.
package rrfile
