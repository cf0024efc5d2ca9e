package table

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// FromDataFrame adapts a gota DataFrame. gota series carry no datetime or
// category types, so text columns map to StringType.
func FromDataFrame(name string, df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("dataframe: %w", df.Err)
	}
	names := df.Names()
	cols := make([]*Column, len(names))
	for j, n := range names {
		s := df.Col(n)
		if s.Err != nil {
			return nil, fmt.Errorf("dataframe column %q: %w", n, s.Err)
		}
		vals := make([]Value, s.Len())
		for i := range vals {
			vals[i] = fromElement(s.Type(), s.Elem(i))
		}
		cols[j] = NewColumn(n, seriesType(s.Type()), vals...)
	}
	return New(name, cols...)
}

func seriesType(t series.Type) DType {
	switch t {
	case series.Int:
		return IntType
	case series.Float:
		return FloatType
	case series.Bool:
		return BoolType
	case series.String:
		return StringType
	}
	return ObjectType
}

func fromElement(t series.Type, e series.Element) Value {
	if e.IsNA() {
		return Null()
	}
	switch t {
	case series.Int:
		i, err := e.Int()
		if err != nil {
			return Unparseable(e.String())
		}
		return Int(int64(i))
	case series.Float:
		return Float(e.Float())
	case series.Bool:
		b, err := e.Bool()
		if err != nil {
			return Unparseable(e.String())
		}
		return Bool(b)
	}
	return Str(e.String())
}
