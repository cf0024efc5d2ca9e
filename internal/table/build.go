package table

import (
	"fmt"
	"strings"
)

// Build turns a header and text rows into a typed Table. Each column's declared
// type is inferred from its non-null cells unless opt.Types overrides it.
// The returned warnings describe lossy steps such as MaxRows truncation.
func Build(name string, header []string, rows [][]string, opt ParseOptions) (*Table, []string, error) {
	var warnings []string
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		warnings = append(warnings, fmt.Sprintf("processed only %d/%d rows due to max_rows", opt.MaxRows, len(rows)))
		rows = rows[:opt.MaxRows]
	}
	names := uniqueNames(header)
	nulls := opt.nullSet()
	ncol := len(names)

	types := make([]DType, ncol)
	forced := make([]bool, ncol)
	for j, n := range names {
		if t, ok := opt.Types[n]; ok {
			types[j] = t
			forced[j] = true
		}
	}
	for k := range opt.Types {
		if !contains(names, k) {
			warnings = append(warnings, fmt.Sprintf("type override for unknown column %q ignored", k))
		}
	}

	cell := func(row []string, j int) (string, bool) {
		if j >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[j])
		if _, null := nulls[v]; null {
			return "", false
		}
		return v, true
	}

	for j := 0; j < ncol; j++ {
		if forced[j] {
			continue
		}
		t := UnknownType
		for _, row := range rows {
			v, ok := cell(row, j)
			if !ok {
				continue
			}
			t = Generalize(t, inferCell(v, opt))
			// Short circuit. Already most general type.
			if t == StringType {
				break
			}
		}
		if t == UnknownType {
			// An all-null column reads as float, matching how dataframe
			// libraries load empty CSV columns.
			t = FloatType
		}
		types[j] = t
	}

	cols := make([]*Column, ncol)
	for j, n := range names {
		vals := make([]Value, len(rows))
		for i, row := range rows {
			if v, ok := cell(row, j); ok {
				vals[i] = convert(v, types[j], opt)
			}
		}
		cols[j] = NewColumn(n, types[j], vals...)
	}
	t, err := New(name, cols...)
	if err != nil {
		return nil, nil, err
	}
	return t, warnings, nil
}

// uniqueNames trims header cells, names blank ones by position and suffixes
// repeated names with ".1", ".2", ...
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			n = fmt.Sprintf("column_%d", i+1)
		}
		if k, dup := seen[n]; dup {
			for {
				k++
				cand := fmt.Sprintf("%s.%d", n, k)
				if _, taken := seen[cand]; !taken {
					seen[n] = k
					n = cand
					break
				}
			}
		}
		seen[n] = 0
		out[i] = n
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
