package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/tabprof/internal/table"
)

// Kind is the coarse semantic class of a column.
type Kind uint8

const (
	Other Kind = iota
	Numerical
	Categorical
	Datetime
)

func (k Kind) String() string {
	switch k {
	case Numerical:
		return "numerical"
	case Categorical:
		return "categorical"
	case Datetime:
		return "datetime"
	}
	return "other"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "numerical":
		*k = Numerical
	case "categorical":
		*k = Categorical
	case "datetime":
		*k = Datetime
	case "other":
		*k = Other
	default:
		return fmt.Errorf("unknown column kind %q", b)
	}
	return nil
}

// Stat is a statistic that may be undefined for its input (too few values,
// zero variance). Undefined statistics encode as null.
type Stat struct {
	Value   float64
	Defined bool
}

// Undefined is the Stat for a statistic that cannot be computed.
var Undefined = Stat{}

// Def wraps a computed value. NaN becomes Undefined.
func Def(v float64) Stat {
	if math.IsNaN(v) {
		return Undefined
	}
	return Stat{Value: v, Defined: true}
}

// Float64 returns the value, or NaN when undefined.
func (s Stat) Float64() float64 {
	if !s.Defined {
		return math.NaN()
	}
	return s.Value
}

func (s Stat) String() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4g", s.Value)
}

func (s Stat) MarshalJSON() ([]byte, error) {
	switch {
	case !s.Defined:
		return []byte("null"), nil
	case math.IsInf(s.Value, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(s.Value, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(s.Value)
}

func (s *Stat) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*s = Undefined
		return nil
	case `"+Inf"`:
		*s = Def(math.Inf(1))
		return nil
	case `"-Inf"`:
		*s = Def(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Def(v)
	return nil
}

func (s Stat) MarshalYAML() (any, error) {
	if !s.Defined {
		return nil, nil
	}
	return s.Value, nil
}

// Stats is the kind-specific payload of a ColumnProfile. It is one of
// NumericalStats, CategoricalStats or DatetimeStats; columns of kind Other
// carry no payload.
type Stats interface {
	Kind() Kind
}

// NumericalStats are computed over non-missing values only. Std uses the N-1
// denominator; Skew is the adjusted Fisher-Pearson coefficient.
type NumericalStats struct {
	Mean Stat `json:"mean" yaml:"mean"`
	Std  Stat `json:"std" yaml:"std"`
	Min  Stat `json:"min" yaml:"min"`
	Max  Stat `json:"max" yaml:"max"`
	Skew Stat `json:"skew" yaml:"skew"`
}

func (NumericalStats) Kind() Kind { return Numerical }

// CategoricalStats holds the mode. Top is nil when the column has no values.
type CategoricalStats struct {
	Top     any `json:"top" yaml:"top"`
	FreqTop int `json:"freq_top" yaml:"freq_top"`
}

func (CategoricalStats) Kind() Kind { return Categorical }

// DatetimeStats holds the earliest and latest timestamps in RFC 3339 form.
type DatetimeStats struct {
	Min *string `json:"min" yaml:"min"`
	Max *string `json:"max" yaml:"max"`
}

func (DatetimeStats) Kind() Kind { return Datetime }

// ColumnProfile summarizes a single column.
type ColumnProfile struct {
	Name          string
	DeclaredType  table.DType
	MissingCount  int
	DistinctCount int
	SampleValues  []any
	Kind          Kind
	Stats         Stats
}

// Numerical returns the numerical payload, if the column is numerical.
func (c ColumnProfile) Numerical() (NumericalStats, bool) {
	s, ok := c.Stats.(NumericalStats)
	return s, ok
}

// Categorical returns the categorical payload, if the column is categorical.
func (c ColumnProfile) Categorical() (CategoricalStats, bool) {
	s, ok := c.Stats.(CategoricalStats)
	return s, ok
}

// Datetime returns the datetime payload, if the column is datetime.
func (c ColumnProfile) Datetime() (DatetimeStats, bool) {
	s, ok := c.Stats.(DatetimeStats)
	return s, ok
}

type columnFields struct {
	Name          string      `json:"name" yaml:"name"`
	DeclaredType  table.DType `json:"declared_type" yaml:"declared_type"`
	MissingCount  int         `json:"missing_count" yaml:"missing_count"`
	DistinctCount int         `json:"distinct_count" yaml:"distinct_count"`
	SampleValues  []any       `json:"sample_values" yaml:"sample_values"`
	Kind          Kind        `json:"type" yaml:"type"`
}

// document flattens the kind payload next to the universal fields.
func (c ColumnProfile) document() any {
	base := columnFields{
		Name:          c.Name,
		DeclaredType:  c.DeclaredType,
		MissingCount:  c.MissingCount,
		DistinctCount: c.DistinctCount,
		SampleValues:  c.SampleValues,
		Kind:          c.Kind,
	}
	if base.SampleValues == nil {
		base.SampleValues = []any{}
	}
	switch s := c.Stats.(type) {
	case NumericalStats:
		return struct {
			columnFields   `yaml:",inline"`
			NumericalStats `yaml:",inline"`
		}{base, s}
	case CategoricalStats:
		return struct {
			columnFields     `yaml:",inline"`
			CategoricalStats `yaml:",inline"`
		}{base, s}
	case DatetimeStats:
		return struct {
			columnFields  `yaml:",inline"`
			DatetimeStats `yaml:",inline"`
		}{base, s}
	}
	return base
}

func (c ColumnProfile) MarshalJSON() ([]byte, error) { return json.Marshal(c.document()) }

func (c ColumnProfile) MarshalYAML() (any, error) { return c.document(), nil }

// Correlations maps column name to column name to Pearson's r.
type Correlations map[string]map[string]Stat

// Get returns corr[a][b] and whether both columns are present.
func (c Correlations) Get(a, b string) (Stat, bool) {
	row, ok := c[a]
	if !ok {
		return Undefined, false
	}
	s, ok := row[b]
	return s, ok
}

// Profile is the structural and statistical summary of one table.
type Profile struct {
	RowCount     int             `json:"row_count" yaml:"row_count"`
	ColumnCount  int             `json:"column_count" yaml:"column_count"`
	Columns      []ColumnProfile `json:"columns" yaml:"columns"`
	Correlations Correlations    `json:"correlations" yaml:"correlations"`
}

// Column returns the profile of the first column with the given name.
func (p *Profile) Column(name string) (ColumnProfile, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnProfile{}, false
}
