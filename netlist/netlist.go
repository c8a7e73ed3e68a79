package netlist

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvroute/rrgraph"
)

var (
	// ErrBadTerminal indicates a pin mapped to a node of the wrong type or a
	// node that does not exist.
	ErrBadTerminal = errors.New("netlist: pin is not mapped to a valid terminal node")

	// ErrDuplicateNet indicates two nets sharing a name.
	ErrDuplicateNet = errors.New("netlist: duplicate net name")

	// ErrBadReservation indicates an OPIN reservation that cannot be satisfied.
	ErrBadReservation = errors.New("netlist: invalid local OPIN reservation")
)

// Net is a single signal: one driver terminal and zero or more receivers.
type Net struct {
	Name   string
	Source int   // SOURCE rr-node driving the net (pin 0)
	Sinks  []int // SINK rr-nodes, pins 1..len(Sinks)
	Global bool  // routed on a dedicated network, skipped by the router
	Fixed  bool  // pre-routed, its route is supplied with the design
}

// NumSinks returns the fanout of the net.
func (n *Net) NumSinks() int { return len(n.Sinks) }

// Pin returns the rr-node of pin ipin (0 is the driver).
func (n *Net) Pin(ipin int) int {
	if ipin == 0 {
		return n.Source
	}

	return n.Sinks[ipin-1]
}

// OPinReservation asks the router to keep Count output pins of a block output
// class for signals that are consumed inside the block and never leave it.
type OPinReservation struct {
	Source int // SOURCE rr-node of the output class
	Count  int
}

// Netlist is the routing workload.
type Netlist struct {
	Nets         []Net
	Reservations []OPinReservation
}

// Add appends a net and returns its index.
func (nl *Netlist) Add(n Net) int {
	nl.Nets = append(nl.Nets, n)

	return len(nl.Nets) - 1
}

// Len returns the number of nets.
func (nl *Netlist) Len() int { return len(nl.Nets) }

// MaxSinks returns the largest fanout of any non-global net.
func (nl *Netlist) MaxSinks() int {
	best := 0
	for i := range nl.Nets {
		if !nl.Nets[i].Global && nl.Nets[i].NumSinks() > best {
			best = nl.Nets[i].NumSinks()
		}
	}

	return best
}

// Validate checks every pin against g.
func (nl *Netlist) Validate(g *rrgraph.Graph) error {
	names := make(map[string]struct{}, len(nl.Nets))
	for i := range nl.Nets {
		n := &nl.Nets[i]
		if n.Name != "" {
			if _, dup := names[n.Name]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateNet, n.Name)
			}
			names[n.Name] = struct{}{}
		}
		if err := checkTerminal(g, n.Source, rrgraph.Source); err != nil {
			return fmt.Errorf("net %q driver: %w", n.Name, err)
		}
		for k, s := range n.Sinks {
			if err := checkTerminal(g, s, rrgraph.Sink); err != nil {
				return fmt.Errorf("net %q pin %d: %w", n.Name, k+1, err)
			}
		}
	}
	for _, r := range nl.Reservations {
		if err := checkTerminal(g, r.Source, rrgraph.Source); err != nil {
			return fmt.Errorf("%w: %w", ErrBadReservation, err)
		}
		if r.Count < 0 || r.Count > len(g.Node(r.Source).Edges) {
			return fmt.Errorf("%w: %d OPINs requested from node %d", ErrBadReservation, r.Count, r.Source)
		}
	}

	return nil
}

func checkTerminal(g *rrgraph.Graph, inode int, want rrgraph.NodeType) error {
	if inode < 0 || inode >= g.NumNodes() {
		return fmt.Errorf("%w: node %d does not exist", ErrBadTerminal, inode)
	}
	if got := g.Node(inode).Type; got != want {
		return fmt.Errorf("%w: node %d is %s, want %s", ErrBadTerminal, inode, got, want)
	}

	return nil
}
