package netlist

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/lvroute/rrgraph"
)

// Ring has every block of is drive the blocks to its right and above it,
// wrapping at the device edge.
func Ring(is *rrgraph.Island) *Netlist {
	nx, ny := is.Opts.NX, is.Opts.NY
	nl := &Netlist{}
	for x := 1; x <= nx; x++ {
		for y := 1; y <= ny; y++ {
			src, _ := is.Block(x, y)
			right, _ := is.Block(x%nx+1, y)
			up, _ := is.Block(x, y%ny+1)
			var sinks []int
			if right.Sink != src.Sink {
				sinks = append(sinks, right.Sink)
			}
			if up.Sink != src.Sink && up.Sink != right.Sink {
				sinks = append(sinks, up.Sink)
			}
			nl.Add(Net{Name: fmt.Sprintf("b%d_%d", x, y), Source: src.Source, Sinks: sinks})
		}
	}

	return nl
}

// Random has every block of is drive up to fanout distinct other blocks
// drawn from seed. No block receives more nets than it has input pins.
func Random(is *rrgraph.Island, fanout int, seed int64) *Netlist {
	rng := rand.New(rand.NewSource(seed))
	nx, ny := is.Opts.NX, is.Opts.NY
	load := make(map[int]int)
	nl := &Netlist{}
	for x := 1; x <= nx; x++ {
		for y := 1; y <= ny; y++ {
			src, _ := is.Block(x, y)
			seen := make(map[int]bool, fanout)
			var sinks []int
			for k := 0; k < fanout; k++ {
				dst, _ := is.Block(rng.Intn(nx)+1, rng.Intn(ny)+1)
				if dst.Sink == src.Sink || seen[dst.Sink] || load[dst.Sink] >= is.Opts.Inputs {
					continue
				}
				seen[dst.Sink] = true
				load[dst.Sink]++
				sinks = append(sinks, dst.Sink)
			}
			nl.Add(Net{Name: fmt.Sprintf("b%d_%d", x, y), Source: src.Source, Sinks: sinks})
		}
	}

	return nl
}
