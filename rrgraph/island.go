package rrgraph

import "fmt"

// IslandOptions parameterizes BuildIsland.
type IslandOptions struct {
	NX, NY       int     // logic blocks per row / column
	ChannelWidth int     // tracks per channel
	Inputs       int     // IPINs per block (one logically-equivalent input class)
	Outputs      int     // OPINs per block (one logically-equivalent output class)
	WireR        float64 // resistance of a unit-length wire
	WireC        float64 // capacitance of a unit-length wire
	SwitchR      float64 // routing switch resistance
	SwitchTdel   float64 // routing switch intrinsic delay
	SwitchCin    float64 // routing switch internal capacitance
	IPinTdel     float64 // connection-box delay into an input pin
}

// DefaultIslandOptions returns a 4×4 fabric with channel width 4, four inputs and
// one output per block, and buffered switches with figures typical of a 0.13µm
// process.
func DefaultIslandOptions() IslandOptions {
	return IslandOptions{
		NX:           4,
		NY:           4,
		ChannelWidth: 4,
		Inputs:       4,
		Outputs:      1,
		WireR:        101,
		WireC:        22.5e-15,
		SwitchR:      551,
		SwitchTdel:   58e-12,
		SwitchCin:    0,
		IPinTdel:     72e-12,
	}
}

// Block lists the rr-nodes belonging to the logic block at (X, Y).
type Block struct {
	X, Y   int
	Source int
	Sink   int
	OPins  []int
	IPins  []int
}

// Island indexes the nodes BuildIsland created.
type Island struct {
	Opts   IslandOptions
	blocks [][]Block // [x-1][y-1]
	chanX  [][][]int // [x][y] -> tracks, x in 1..NX, y in 0..NY
	chanY  [][][]int // [x][y] -> tracks, x in 0..NX, y in 1..NY
}

// Block returns the block at (x, y) and whether it exists.
func (is *Island) Block(x, y int) (Block, bool) {
	if x < 1 || y < 1 || x > is.Opts.NX || y > is.Opts.NY {
		return Block{}, false
	}

	return is.blocks[x-1][y-1], true
}

// ChanX returns the track nodes of the horizontal channel segment at (x, y).
func (is *Island) ChanX(x, y int) []int {
	if x < 1 || x > is.Opts.NX || y < 0 || y > is.Opts.NY {
		return nil
	}

	return is.chanX[x][y]
}

// ChanY returns the track nodes of the vertical channel segment at (x, y).
func (is *Island) ChanY(x, y int) []int {
	if x < 0 || x > is.Opts.NX || y < 1 || y > is.Opts.NY {
		return nil
	}

	return is.chanY[x][y]
}

// Switch indices created by BuildIsland.
const (
	IslandRoutingSwitch = 0
	IslandIPinSwitch    = 1
	IslandDelaylessSw   = 2
)

// BuildIsland synthesizes an island-style rr-graph:
//
//   - every block owns SOURCE→OPIN* and IPIN*→SINK (capacities equal the pin counts);
//   - OPINs drive every track of the four adjacent channel segments, IPINs are
//     driven by every track of the four adjacent segments (Fc = 1);
//   - unit-length wires meet at switch boxes where track t connects to track t of
//     every other incident segment (subset/disjoint topology).
//
// Complexity: O(nx·ny·W·(I+O)) nodes and edges.
func BuildIsland(opts IslandOptions) (*Graph, *Island, error) {
	// 1) Validate dimensions.
	if opts.NX < 1 || opts.NY < 1 || opts.ChannelWidth < 1 || opts.Inputs < 1 || opts.Outputs < 1 {
		return nil, nil, fmt.Errorf("%w: %+v", ErrBadIslandOption, opts)
	}
	g, err := New(opts.NX, opts.NY)
	if err != nil {
		return nil, nil, err
	}

	// 2) Switch and cost tables.
	g.AddSwitch(Switch{Name: "routing", R: opts.SwitchR, Cinternal: opts.SwitchCin, Tdel: opts.SwitchTdel, Buffered: true})
	g.AddSwitch(Switch{Name: "ipin_cblock", Tdel: opts.IPinTdel, Buffered: true})
	g.AddSwitch(Switch{Name: "delayless", Buffered: true})

	segTdel := opts.SwitchTdel + opts.WireC*(opts.SwitchR+0.5*opts.WireR)
	g.AddCostIndex(CostIndexData{BaseCost: 1, OrthoCostIndex: SourceCostIndex})
	g.AddCostIndex(CostIndexData{BaseCost: 0, OrthoCostIndex: SinkCostIndex})
	g.AddCostIndex(CostIndexData{BaseCost: 1, OrthoCostIndex: OPinCostIndex})
	g.AddCostIndex(CostIndexData{BaseCost: 0.95, OrthoCostIndex: IPinCostIndex, TLinear: opts.IPinTdel})
	chanXIdx := g.AddCostIndex(CostIndexData{BaseCost: 1, OrthoCostIndex: ChanXCostIndexStart + 1, InvLength: 1, TLinear: segTdel})
	chanYIdx := g.AddCostIndex(CostIndexData{BaseCost: 1, OrthoCostIndex: ChanXCostIndexStart, InvLength: 1, TLinear: segTdel})

	is := &Island{Opts: opts}

	// 3) Channel wires.
	is.chanX = make([][][]int, opts.NX+1)
	for x := 1; x <= opts.NX; x++ {
		is.chanX[x] = make([][]int, opts.NY+1)
		for y := 0; y <= opts.NY; y++ {
			for t := 0; t < opts.ChannelWidth; t++ {
				id := g.AddNode(Node{Type: ChanX, XLow: x, XHigh: x, YLow: y, YHigh: y,
					Capacity: 1, CostIndex: chanXIdx, R: opts.WireR, C: opts.WireC, PTC: t})
				is.chanX[x][y] = append(is.chanX[x][y], id)
			}
		}
	}
	is.chanY = make([][][]int, opts.NX+1)
	for x := 0; x <= opts.NX; x++ {
		is.chanY[x] = make([][]int, opts.NY+1)
		for y := 1; y <= opts.NY; y++ {
			for t := 0; t < opts.ChannelWidth; t++ {
				id := g.AddNode(Node{Type: ChanY, XLow: x, XHigh: x, YLow: y, YHigh: y,
					Capacity: 1, CostIndex: chanYIdx, R: opts.WireR, C: opts.WireC, PTC: t})
				is.chanY[x][y] = append(is.chanY[x][y], id)
			}
		}
	}

	// 4) Blocks and their pins.
	is.blocks = make([][]Block, opts.NX)
	for x := 1; x <= opts.NX; x++ {
		is.blocks[x-1] = make([]Block, opts.NY)
		for y := 1; y <= opts.NY; y++ {
			b := Block{X: x, Y: y}
			at := func(t NodeType, capacity, costIdx, ptc int) int {
				return g.AddNode(Node{Type: t, XLow: x, XHigh: x, YLow: y, YHigh: y,
					Capacity: capacity, CostIndex: costIdx, PTC: ptc})
			}
			b.Source = at(Source, opts.Outputs, SourceCostIndex, 0)
			b.Sink = at(Sink, opts.Inputs, SinkCostIndex, 1)
			adjacent := is.adjacentTracks(x, y)
			for p := 0; p < opts.Outputs; p++ {
				pin := at(OPin, 1, OPinCostIndex, opts.Inputs+p)
				b.OPins = append(b.OPins, pin)
				mustEdge(g, b.Source, pin, IslandDelaylessSw)
				for _, w := range adjacent {
					mustEdge(g, pin, w, IslandRoutingSwitch)
				}
			}
			for p := 0; p < opts.Inputs; p++ {
				pin := at(IPin, 1, IPinCostIndex, p)
				b.IPins = append(b.IPins, pin)
				for _, w := range adjacent {
					mustEdge(g, w, pin, IslandIPinSwitch)
				}
				mustEdge(g, pin, b.Sink, IslandDelaylessSw)
			}
			is.blocks[x-1][y-1] = b
		}
	}

	// 5) Switch boxes at every channel intersection (i, j).
	for i := 0; i <= opts.NX; i++ {
		for j := 0; j <= opts.NY; j++ {
			segs := make([][]int, 0, 4)
			for _, s := range [][]int{is.ChanX(i, j), is.ChanX(i+1, j), is.ChanY(i, j), is.ChanY(i, j+1)} {
				if s != nil {
					segs = append(segs, s)
				}
			}
			for a := range segs {
				for b := range segs {
					if a == b {
						continue
					}
					for t := 0; t < opts.ChannelWidth; t++ {
						mustEdge(g, segs[a][t], segs[b][t], IslandRoutingSwitch)
					}
				}
			}
		}
	}

	if err = g.Validate(); err != nil {
		return nil, nil, err
	}

	return g, is, nil
}

// adjacentTracks returns every track of the up-to-four channel segments
// bordering block (x, y).
func (is *Island) adjacentTracks(x, y int) []int {
	var out []int
	for _, s := range [][]int{is.ChanX(x, y), is.ChanX(x, y-1), is.ChanY(x, y), is.ChanY(x-1, y)} {
		out = append(out, s...)
	}

	return out
}

// mustEdge adds an edge whose endpoints were just created by the caller.
func mustEdge(g *Graph, from, to, sw int) {
	if err := g.AddEdge(from, to, sw); err != nil {
		panic(err)
	}
}
