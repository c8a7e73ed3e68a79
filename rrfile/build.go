package rrfile

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvroute/netlist"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
	"github.com/katalvlaran/lvroute/timing"
)

var (
	// ErrSyntax indicates text that does not match the grammar.
	ErrSyntax = errors.New("rrfile: syntax error")

	// ErrBadIndex indicates a switch, cost index or node declared out of sequence.
	ErrBadIndex = errors.New("rrfile: declaration index out of sequence")

	// ErrUnknownAttr indicates an attribute key not valid for its declaration.
	ErrUnknownAttr = errors.New("rrfile: unknown attribute")

	// ErrUnknownNet indicates a route or link naming an undeclared net.
	ErrUnknownNet = errors.New("rrfile: unknown net")

	// ErrMissingGrid indicates a design without a grid declaration.
	ErrMissingGrid = errors.New("rrfile: missing grid declaration")
)

// Design is everything a routing run needs.
type Design struct {
	Graph   *rrgraph.Graph
	Netlist *netlist.Netlist
	Fixed   map[int]routetree.Traceback // routes keyed by net index
	Links   []timing.Link
}

// attrSet maps attribute keys of one declaration kind to setters.
type attrSet map[string]func(v float64)

func (s attrSet) apply(kind string, attrs []*Attr) error {
	for _, a := range attrs {
		set, ok := s[a.Key]
		if !ok {
			return fmt.Errorf("%w: %s has no %q (%s)", ErrUnknownAttr, kind, a.Key, a.Pos)
		}
		set(a.Value)
	}

	return nil
}

// Build resolves parsed declarations into a validated Design.
func Build(f *File) (*Design, error) {
	var (
		grid     *GridDecl
		switches []*SwitchDecl
		costs    []*CostIndexDecl
		nodes    []*NodeDecl
		edges    []*EdgeDecl
		nets     []*NetDecl
		routes   []*RouteDecl
		reserves []*ReserveDecl
		links    []*LinkDecl
	)
	for _, d := range f.Decls {
		switch {
		case d.Grid != nil:
			grid = d.Grid
		case d.Switch != nil:
			switches = append(switches, d.Switch)
		case d.CostIndex != nil:
			costs = append(costs, d.CostIndex)
		case d.Node != nil:
			nodes = append(nodes, d.Node)
		case d.Edge != nil:
			edges = append(edges, d.Edge)
		case d.Net != nil:
			nets = append(nets, d.Net)
		case d.Route != nil:
			routes = append(routes, d.Route)
		case d.Reserve != nil:
			reserves = append(reserves, d.Reserve)
		case d.Link != nil:
			links = append(links, d.Link)
		}
	}
	if grid == nil {
		return nil, ErrMissingGrid
	}

	// 1) Graph tables.
	g, err := rrgraph.New(grid.NX, grid.NY)
	if err != nil {
		return nil, fmt.Errorf("rrfile: %s: %w", grid.Pos, err)
	}
	for i, s := range switches {
		if s.ID != i {
			return nil, fmt.Errorf("%w: switch %d declared %d-th (%s)", ErrBadIndex, s.ID, i, s.Pos)
		}
		sw := rrgraph.Switch{Name: s.Name, Buffered: s.Buffered}
		err = attrSet{
			"R":    func(v float64) { sw.R = v },
			"Cin":  func(v float64) { sw.Cinternal = v },
			"Tdel": func(v float64) { sw.Tdel = v },
		}.apply("switch", s.Attrs)
		if err != nil {
			return nil, err
		}
		g.AddSwitch(sw)
	}
	for i, c := range costs {
		if c.ID != i {
			return nil, fmt.Errorf("%w: cost_index %d declared %d-th (%s)", ErrBadIndex, c.ID, i, c.Pos)
		}
		var d rrgraph.CostIndexData
		err = attrSet{
			"base":        func(v float64) { d.BaseCost = v },
			"saved":       func(v float64) { d.SavedBaseCost = v },
			"ortho":       func(v float64) { d.OrthoCostIndex = int(v) },
			"inv_length":  func(v float64) { d.InvLength = v },
			"t_linear":    func(v float64) { d.TLinear = v },
			"t_quadratic": func(v float64) { d.TQuadratic = v },
			"c_load":      func(v float64) { d.CLoad = v },
		}.apply("cost_index", c.Attrs)
		if err != nil {
			return nil, err
		}
		g.AddCostIndex(d)
	}
	for i, nd := range nodes {
		if nd.ID != i {
			return nil, fmt.Errorf("%w: node %d declared %d-th (%s)", ErrBadIndex, nd.ID, i, nd.Pos)
		}
		typ, err := rrgraph.ParseNodeType(nd.Type)
		if err != nil {
			return nil, fmt.Errorf("rrfile: %s: %w", nd.Pos, err)
		}
		n := rrgraph.Node{Type: typ, XLow: nd.Low.X, YLow: nd.Low.Y, XHigh: nd.Low.X, YHigh: nd.Low.Y}
		if nd.High != nil {
			n.XHigh, n.YHigh = nd.High.X, nd.High.Y
		}
		err = attrSet{
			"cap":  func(v float64) { n.Capacity = int(v) },
			"cost": func(v float64) { n.CostIndex = int(v) },
			"R":    func(v float64) { n.R = v },
			"C":    func(v float64) { n.C = v },
			"ptc":  func(v float64) { n.PTC = int(v) },
		}.apply("node", nd.Attrs)
		if err != nil {
			return nil, err
		}
		g.AddNode(n)
	}
	for _, e := range edges {
		if err = g.AddEdge(e.From, e.To, e.Switch); err != nil {
			return nil, fmt.Errorf("rrfile: %s: %w", e.Pos, err)
		}
	}
	if err = g.Validate(); err != nil {
		return nil, err
	}

	// 2) Netlist.
	nl := &netlist.Netlist{}
	byName := make(map[string]int, len(nets))
	for _, nd := range nets {
		net := netlist.Net{Name: nd.Name, Source: nd.Source, Sinks: nd.Sinks}
		for _, flag := range nd.Flags {
			switch flag {
			case "global":
				net.Global = true
			case "fixed":
				net.Fixed = true
			}
		}
		byName[nd.Name] = nl.Add(net)
	}
	for _, r := range reserves {
		nl.Reservations = append(nl.Reservations, netlist.OPinReservation{Source: r.Source, Count: r.Count})
	}
	if err = nl.Validate(g); err != nil {
		return nil, err
	}

	// 3) Fixed routes and timing links.
	d := &Design{Graph: g, Netlist: nl, Fixed: make(map[int]routetree.Traceback, len(routes))}
	for _, r := range routes {
		inet, ok := byName[r.Net]
		if !ok {
			return nil, fmt.Errorf("%w: route %q (%s)", ErrUnknownNet, r.Net, r.Pos)
		}
		tb := make(routetree.Traceback, len(r.Elems))
		for k, el := range r.Elems {
			tb[k] = routetree.Elem{Node: el.Node, Switch: rrgraph.NoSwitch}
			if el.Switch != nil {
				tb[k].Switch = *el.Switch
			}
		}
		d.Fixed[inet] = tb
	}
	for _, l := range links {
		from, ok := byName[l.From]
		if !ok {
			return nil, fmt.Errorf("%w: link from %q (%s)", ErrUnknownNet, l.From, l.Pos)
		}
		to, ok := byName[l.To]
		if !ok {
			return nil, fmt.Errorf("%w: link to %q (%s)", ErrUnknownNet, l.To, l.Pos)
		}
		d.Links = append(d.Links, timing.Link{From: from, Pin: l.Pin, To: to, Delay: l.Delay})
	}

	return d, nil
}
