package profile

import (
	"math"

	"github.com/KaramelBytes/tabprof/internal/table"
)

// vector is a numeric column with a per-row validity mask.
type vector struct {
	x  []float64
	ok []bool
}

func toVector(c *table.Column) vector {
	v := vector{x: make([]float64, len(c.Values)), ok: make([]bool, len(c.Values))}
	for i, cell := range c.Values {
		if !usable(Numerical, cell) {
			continue
		}
		v.x[i], _ = cell.Float()
		v.ok[i] = true
	}
	return v
}

// correlate computes Pearson's r for every ordered pair of the given numeric
// columns, self pairs included. Each pair uses only the rows present in both
// columns.
func correlate(cols []*table.Column) Correlations {
	out := make(Correlations, len(cols))
	vecs := make([]vector, len(cols))
	for i, c := range cols {
		vecs[i] = toVector(c)
		if _, ok := out[c.Name]; !ok {
			out[c.Name] = make(map[string]Stat, len(cols))
		}
	}
	for a := range cols {
		for b := a; b < len(cols); b++ {
			r := pearson(vecs[a], vecs[b], a == b)
			out[cols[a].Name][cols[b].Name] = r
			out[cols[b].Name][cols[a].Name] = r
		}
	}
	return out
}

// pearson returns r over the rows present in both vectors. A side whose
// aligned values are all equal has zero variance and yields Undefined.
func pearson(a, b vector, self bool) Stat {
	var n int
	var sumA, sumB float64
	minA, maxA := math.Inf(1), math.Inf(-1)
	minB, maxB := math.Inf(1), math.Inf(-1)
	for i := range a.x {
		if a.ok[i] && b.ok[i] {
			n++
			sumA += a.x[i]
			sumB += b.x[i]
			minA, maxA = math.Min(minA, a.x[i]), math.Max(maxA, a.x[i])
			minB, maxB = math.Min(minB, b.x[i]), math.Max(maxB, b.x[i])
		}
	}
	if n < 2 || minA == maxA || minB == maxB {
		return Undefined
	}
	meanA, meanB := sumA/float64(n), sumB/float64(n)
	var saa, sbb, sab float64
	for i := range a.x {
		if a.ok[i] && b.ok[i] {
			da, db := a.x[i]-meanA, b.x[i]-meanB
			saa += da * da
			sbb += db * db
			sab += da * db
		}
	}
	if saa == 0 || sbb == 0 {
		return Undefined
	}
	if self {
		return Def(1)
	}
	r := sab / math.Sqrt(saa*sbb)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return Def(r)
}
