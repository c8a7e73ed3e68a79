package congestion

// MaxPresFac caps pres_fac so that pres_fac × acc_cost stays finite for long runs.
const MaxPresFac = 1e30 / 1e5

// Schedule is the iteration-over-iteration congestion penalty policy.
type Schedule struct {
	FirstIterPresFac float64 // iteration 1; near zero so the first pass optimizes delay only
	InitialPresFac   float64 // iteration 2
	PresFacMult      float64 // growth per later iteration
	AccFac           float64 // historical cost weight
}

// First returns pres_fac for iteration 1.
func (s Schedule) First() float64 { return s.FirstIterPresFac }

// Next returns the pres_fac and acc_fac to apply at the end of iteration itry,
// given the pres_fac that iteration used. Historical cost is not charged after
// the first iteration because that pass ignored congestion.
func (s Schedule) Next(itry int, presFac float64) (float64, float64) {
	if itry == 1 {
		return s.InitialPresFac, 0
	}

	return min(presFac*s.PresFacMult, MaxPresFac), s.AccFac
}

// Advance applies Next to m and returns the new pres_fac.
func (s Schedule) Advance(m *Model, itry int, presFac float64) float64 {
	next, acc := s.Next(itry, presFac)
	m.UpdateCost(next, acc)

	return next
}
