package profile

import (
	"time"

	"github.com/KaramelBytes/tabprof/internal/table"
)

// DefaultSampleSize is how many distinct values a column preview holds.
const DefaultSampleSize = 5

type distinct struct {
	value any
	count int
}

// summarize profiles a single column. It cannot fail: statistics that do not
// exist for the column's values are reported as undefined.
func summarize(c *table.Column, sampleSize int) ColumnProfile {
	kind := Classify(c.Type)
	cp := ColumnProfile{
		Name:         c.Name,
		DeclaredType: c.Type,
		Kind:         kind,
		SampleValues: []any{},
	}

	index := make(map[string]int)
	var seen []distinct
	var num *moments
	if kind == Numerical {
		num = newMoments()
	}
	var tmin, tmax time.Time
	var nTimes int

	for _, v := range c.Values {
		if !usable(kind, v) {
			cp.MissingCount++
			continue
		}
		key := v.Key()
		if i, ok := index[key]; ok {
			seen[i].count++
		} else {
			index[key] = len(seen)
			seen = append(seen, distinct{value: v.Interface(), count: 1})
		}
		switch kind {
		case Numerical:
			x, _ := v.Float()
			num.add(x)
		case Datetime:
			t, _ := v.Time()
			if nTimes == 0 || t.Before(tmin) {
				tmin = t
			}
			if nTimes == 0 || t.After(tmax) {
				tmax = t
			}
			nTimes++
		}
	}

	cp.DistinctCount = len(seen)
	for i := 0; i < len(seen) && i < sampleSize; i++ {
		cp.SampleValues = append(cp.SampleValues, seen[i].value)
	}

	switch kind {
	case Numerical:
		cp.Stats = num.stats()
	case Categorical:
		cp.Stats = mode(seen)
	case Datetime:
		var s DatetimeStats
		if nTimes > 0 {
			lo, hi := tmin.Format(time.RFC3339Nano), tmax.Format(time.RFC3339Nano)
			s.Min, s.Max = &lo, &hi
		}
		cp.Stats = s
	}
	return cp
}

// usable reports whether a cell contributes to the column's statistics.
// Cells whose Go value does not fit the column's kind are treated like
// unparseable ones.
func usable(kind Kind, v table.Value) bool {
	if v.Missing() {
		return false
	}
	switch kind {
	case Numerical:
		_, ok := v.Float()
		return ok
	case Datetime:
		_, ok := v.Time()
		return ok
	}
	return true
}

// mode picks the most frequent value; ties go to the value seen first.
func mode(seen []distinct) CategoricalStats {
	var s CategoricalStats
	for _, d := range seen {
		if d.count > s.FreqTop {
			s.Top, s.FreqTop = d.value, d.count
		}
	}
	return s
}
