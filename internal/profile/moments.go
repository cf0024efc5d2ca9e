package profile

import "math"

// moments accumulates count, extrema and the first three central moments in
// one pass (Welford's update extended to the third moment).
type moments struct {
	n    int
	min  float64
	max  float64
	mean float64
	m2   float64
	m3   float64
}

func newMoments() *moments {
	return &moments{min: math.Inf(1), max: math.Inf(-1)}
}

func (m *moments) add(x float64) {
	if x < m.min {
		m.min = x
	}
	if x > m.max {
		m.max = x
	}
	n1 := float64(m.n)
	m.n++
	n := float64(m.n)
	delta := x - m.mean
	deltaN := delta / n
	term1 := delta * deltaN * n1
	m.mean += deltaN
	m.m3 += term1*deltaN*(n-2) - 3*deltaN*m.m2
	m.m2 += term1
}

func (m *moments) stats() NumericalStats {
	if m.n == 0 {
		return NumericalStats{}
	}
	s := NumericalStats{
		Mean: Def(m.mean),
		Min:  Def(m.min),
		Max:  Def(m.max),
	}
	n := float64(m.n)
	if m.n >= 2 {
		s.Std = Def(math.Sqrt(m.m2 / (n - 1)))
	}
	if m.n >= 3 && m.m2 > 0 {
		g1 := math.Sqrt(n) * m.m3 / math.Pow(m.m2, 1.5)
		s.Skew = Def(math.Sqrt(n*(n-1)) / (n - 2) * g1)
	}
	return s
}
