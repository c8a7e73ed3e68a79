package router

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// reportCongested caps the overused rr-nodes listed by a failure report.
const reportCongested = 16

// Report writes the iteration table of r followed by a one-line verdict.
func Report(w io.Writer, r *Result) error {
	rule := strings.Repeat("-", 86)
	if _, err := fmt.Fprintf(w, "%s\n%5s %10s %19s %17s %12s %16s\n%s\n", rule,
		"Iter.", "Time (ms)", "Overused RR Nodes", "Wirelength", "CPD", "Est. Succ. Iter.", rule); err != nil {
		return err
	}
	for _, st := range r.Stats {
		est := "N/A"
		switch {
		case math.IsInf(st.EstSuccessIteration, 1):
			est = "inf"
		case !math.IsNaN(st.EstSuccessIteration):
			est = fmt.Sprintf("%.1f", st.EstSuccessIteration)
		}
		_, err := fmt.Fprintf(w, "%5d %10.3f %8d (%6.3f%%) %8d (%5.1f%%) %12.4g %16s\n",
			st.Iteration,
			float64(st.Elapsed.Microseconds())/1000,
			st.Overuse.OverusedNodes, 100*st.Overuse.OverusedRatio(),
			st.Wirelength.Used, 100*st.Wirelength.UsedRatio(),
			st.CPD, est)
		if err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, rule); err != nil {
		return err
	}

	if r.Success {
		_, err := fmt.Fprintf(w, "Successfully routed after %d routing iterations.\n", r.Iterations)
		return err
	}
	if _, err := fmt.Fprintf(w, "Routing failed after %d iterations: %s\n", r.Iterations, r.Reason); err != nil {
		return err
	}
	if len(r.Congested) == 0 {
		return nil
	}
	shown := r.Congested[:min(len(r.Congested), reportCongested)]
	var b strings.Builder
	for _, inode := range shown {
		fmt.Fprintf(&b, " %d", inode)
	}
	if len(shown) < len(r.Congested) {
		fmt.Fprintf(&b, " ... (%d more)", len(r.Congested)-len(shown))
	}
	_, err := fmt.Fprintf(w, "Overused rr-nodes:%s\n", b.String())

	return err
}
