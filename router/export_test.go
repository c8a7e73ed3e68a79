package router

// Internals exercised by the external tests.
var (
	RoundUp      = roundUp
	ExpectedSegs = expectedSegs
)

// PredictSuccess feeds history (over-used nodes of iterations 1, 2, ...) to a
// fresh predictor and returns its estimate.
func PredictSuccess(history []int) float64 {
	p := &successPredictor{}
	for i, h := range history {
		p.add(i+1, h)
	}

	return p.estimate()
}
