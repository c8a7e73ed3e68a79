package rrfile

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvroute/netlist"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
)

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// netLabel is the name a net is referred to by. Unnamed nets get net<i>.
func netLabel(nl *netlist.Netlist, inet int) string {
	if name := nl.Nets[inet].Name; name != "" {
		return name
	}

	return "net" + strconv.Itoa(inet)
}

// Write emits d so that Read returns an equivalent design.
func Write(w io.Writer, d *Design) error {
	bw := bufio.NewWriter(w)
	g, nl := d.Graph, d.Netlist

	fmt.Fprintf(bw, "grid %d %d\n", g.NX, g.NY)
	for i, sw := range g.Switches() {
		fmt.Fprintf(bw, "switch %d %s R %s Cin %s Tdel %s", i, strconv.Quote(sw.Name), num(sw.R), num(sw.Cinternal), num(sw.Tdel))
		if sw.Buffered {
			bw.WriteString(" buffered")
		}
		bw.WriteByte('\n')
	}
	for i, c := range g.CostIndices() {
		fmt.Fprintf(bw, "cost_index %d base %s saved %s ortho %d inv_length %s t_linear %s t_quadratic %s c_load %s\n",
			i, num(c.BaseCost), num(c.SavedBaseCost), c.OrthoCostIndex, num(c.InvLength),
			num(c.TLinear), num(c.TQuadratic), num(c.CLoad))
	}
	nodes := g.Nodes()
	for i := range nodes {
		n := &nodes[i]
		fmt.Fprintf(bw, "node %d %s (%d,%d)", i, n.Type, n.XLow, n.YLow)
		if n.XHigh != n.XLow || n.YHigh != n.YLow {
			fmt.Fprintf(bw, " (%d,%d)", n.XHigh, n.YHigh)
		}
		fmt.Fprintf(bw, " cap %d cost %d", n.Capacity, n.CostIndex)
		if n.R != 0 || n.C != 0 {
			fmt.Fprintf(bw, " R %s C %s", num(n.R), num(n.C))
		}
		fmt.Fprintf(bw, " ptc %d\n", n.PTC)
	}
	for i := range nodes {
		for _, e := range nodes[i].Edges {
			fmt.Fprintf(bw, "edge %d -> %d via %d\n", i, e.To, e.Switch)
		}
	}

	for i := range nl.Nets {
		net := &nl.Nets[i]
		fmt.Fprintf(bw, "net %s source %d", strconv.Quote(netLabel(nl, i)), net.Source)
		if len(net.Sinks) > 0 {
			bw.WriteString(" sinks")
			for _, s := range net.Sinks {
				fmt.Fprintf(bw, " %d", s)
			}
		}
		if net.Global {
			bw.WriteString(" global")
		}
		if net.Fixed {
			bw.WriteString(" fixed")
		}
		bw.WriteByte('\n')
	}
	for _, r := range nl.Reservations {
		fmt.Fprintf(bw, "reserve %d %d\n", r.Source, r.Count)
	}

	fixed := make([]int, 0, len(d.Fixed))
	for inet := range d.Fixed {
		fixed = append(fixed, inet)
	}
	slices.Sort(fixed)
	for _, inet := range fixed {
		fmt.Fprintf(bw, "route %s", strconv.Quote(netLabel(nl, inet)))
		for _, el := range d.Fixed[inet] {
			if el.Switch == rrgraph.NoSwitch {
				fmt.Fprintf(bw, " %d", el.Node)
			} else {
				fmt.Fprintf(bw, " %d:%d", el.Node, el.Switch)
			}
		}
		bw.WriteByte('\n')
	}
	for _, l := range d.Links {
		fmt.Fprintf(bw, "link %s %d -> %s delay %s\n",
			strconv.Quote(netLabel(nl, l.From)), l.Pin, strconv.Quote(netLabel(nl, l.To)), num(l.Delay))
	}

	return bw.Flush()
}

// WriteRoutes prints the routing of every net as a node-by-node listing.
func WriteRoutes(w io.Writer, g *rrgraph.Graph, nl *netlist.Netlist, routes []routetree.Traceback) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Array size: %d x %d logic blocks.\n\nRouting:\n", g.NX, g.NY)
	for inet := range nl.Nets {
		net := &nl.Nets[inet]
		if net.Global {
			fmt.Fprintf(bw, "\nNet %d (%s): global net, not routed.\n", inet, netLabel(nl, inet))
			continue
		}
		fmt.Fprintf(bw, "\nNet %d (%s)\n\n", inet, netLabel(nl, inet))
		if inet >= len(routes) {
			continue
		}
		for _, el := range routes[inet] {
			bw.WriteString(routeLine(g, el))
		}
	}

	return bw.Flush()
}

func routeLine(g *rrgraph.Graph, el routetree.Elem) string {
	n := g.Node(el.Node)
	var b strings.Builder
	fmt.Fprintf(&b, "Node:\t%d\t%s (%d,%d)", el.Node, n.Type, n.XLow, n.YLow)
	if n.XHigh != n.XLow || n.YHigh != n.YLow {
		fmt.Fprintf(&b, " to (%d,%d)", n.XHigh, n.YHigh)
	}
	switch n.Type {
	case rrgraph.Source, rrgraph.Sink:
		fmt.Fprintf(&b, "  Class: %d", n.PTC)
	case rrgraph.OPin, rrgraph.IPin:
		fmt.Fprintf(&b, "  Pin: %d", n.PTC)
	default:
		fmt.Fprintf(&b, "  Track: %d", n.PTC)
	}
	fmt.Fprintf(&b, "  Switch: %d\n", el.Switch)

	return b.String()
}
