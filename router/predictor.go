package router

import "math"

const (
	// predictorHistoryFraction is the most recent share of iterations fitted.
	predictorHistoryFraction = 0.5
	// predictorMinPoints is the least number of fitted iterations.
	predictorMinPoints = 8
)

// successPredictor extrapolates the over-used node count of recent
// iterations to the iteration where it reaches zero.
type successPredictor struct {
	iters    []float64
	overused []float64
}

func (p *successPredictor) add(itry, overused int) {
	p.iters = append(p.iters, float64(itry))
	p.overused = append(p.overused, float64(overused))
}

// estimate fits a least-squares line through the recent history and returns
// its zero crossing. It returns NaN without enough history and +Inf when
// overuse is not falling.
func (p *successPredictor) estimate() float64 {
	n := len(p.iters)
	start := int(float64(n) * (1 - predictorHistoryFraction))
	if n-start < predictorMinPoints {
		return math.NaN()
	}
	xs, ys := p.iters[start:], p.overused[start:]

	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	m := float64(len(xs))
	den := m*sxx - sx*sx
	if den == 0 {
		return math.NaN()
	}
	slope := (m*sxy - sx*sy) / den
	if slope >= 0 {
		return math.Inf(1)
	}
	intercept := (sy - slope*sx) / m

	return -intercept / slope
}

// abortThreshold is the predicted success iteration beyond which the run is
// abandoned.
func (c *Context) abortThreshold() float64 {
	iters := float64(c.opts.MaxRouterIterations)
	switch c.opts.Predictor {
	case PredictorSafe:
		return c.opts.PredictorSafeFactor * iters
	case PredictorAggressive:
		return c.opts.PredictorAggressiveFactor * iters
	}

	return math.Inf(1)
}
