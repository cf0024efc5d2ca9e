package table

import (
	"math"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInfersDeclaredTypes(t *testing.T) {
	header := []string{"age", "city", "joined", "score", "active", "zip", "empty"}
	rows := [][]string{
		{"25", "NYC", "2024-01-02", "1.5", "true", "02134", ""},
		{"30", "LA", "2024-02-03 10:00:00", "2", "false", "10001", "NA"},
		{"", "NYC", "", "3.25", "TRUE", "94105", ""},
		{"40", "SF", "2024-03-04T05:06:07Z", "", "false", "60601", ""},
	}

	tbl, warnings, err := Build("people.csv", header, rows, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, 7, tbl.Width())
	assert.Equal(t, "people.csv", tbl.Name())

	want := map[string]DType{
		"age":    IntType,
		"city":   StringType,
		"joined": DateTimeType,
		"score":  FloatType,
		"active": BoolType,
		"zip":    StringType,
		"empty":  FloatType,
	}
	for name, typ := range want {
		c, err := tbl.Column(name)
		require.NoError(t, err)
		assert.Equal(t, typ, c.Type, "column %s", name)
	}

	age, _ := tbl.Column("age")
	assert.True(t, age.Values[2].Missing())
	assert.Equal(t, Absent, age.Values[2].State())
	f, ok := age.Values[0].Float()
	require.True(t, ok)
	assert.Equal(t, 25.0, f)

	joined, _ := tbl.Column("joined")
	ts, ok := joined.Values[3].Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC), ts.UTC())
}

func TestBuildTypeOverridesMarkUnparseableCells(t *testing.T) {
	header := []string{"qty", "city"}
	rows := [][]string{{"1", "NYC"}, {"two", "LA"}, {"3", "NYC"}}

	tbl, warnings, err := Build("t", header, rows, ParseOptions{
		Types: map[string]DType{"qty": FloatType, "city": CategoryType, "ghost": IntType},
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"ghost"`)

	qty, err := tbl.Column("qty")
	require.NoError(t, err)
	assert.Equal(t, FloatType, qty.Type)
	assert.Equal(t, Invalid, qty.Values[1].State())
	assert.Equal(t, "two", qty.Values[1].Raw())
	assert.True(t, qty.Values[1].Missing())

	city, _ := tbl.Column("city")
	assert.Equal(t, CategoryType, city.Type)
	assert.Equal(t, "LA", city.Values[1].Interface())
}

func TestBuildMaxRowsAndShortRows(t *testing.T) {
	header := []string{"a", "b"}
	rows := [][]string{{"1", "x"}, {"2"}, {"3", "z"}}

	tbl, warnings, err := Build("t", header, rows, ParseOptions{MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"processed only 2/3 rows due to max_rows"}, warnings)
	assert.Equal(t, 2, tbl.Len())
	b, _ := tbl.Column("b")
	assert.True(t, b.Values[1].Missing())
}

func TestBuildLocaleNumbers(t *testing.T) {
	header := []string{"amount"}
	rows := [][]string{{"1.000,5"}, {"2.500,25"}, {"12,5%"}}

	tbl, _, err := Build("t", header, rows, ParseOptions{DecimalSeparator: ',', ThousandsSeparator: '.'})
	require.NoError(t, err)
	c, _ := tbl.Column("amount")
	require.Equal(t, FloatType, c.Type)
	got := make([]float64, 0, 3)
	for _, v := range c.Values {
		f, ok := v.Float()
		require.True(t, ok)
		got = append(got, f)
	}
	assert.Equal(t, []float64{1000.5, 2500.25, 12.5}, got)
}

func TestUniqueNames(t *testing.T) {
	got := uniqueNames([]string{" a ", "a", "", "a.1", "a"})
	assert.Equal(t, []string{"a", "a.1", "column_3", "a.1.1", "a.2"}, got)
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New("t",
		NewColumn("a", IntType, Int(1), Int(2)),
		NewColumn("b", IntType, Int(1)),
	)
	require.Error(t, err)

	tbl, err := New("t", NewColumn("a", IntType, Int(1)))
	require.NoError(t, err)
	_, err = tbl.ColumnAt(3)
	assert.ErrorIs(t, err, ErrNoColumn)
	_, err = tbl.Column("nope")
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestValueKeyAndStates(t *testing.T) {
	assert.Equal(t, Int(3).Key(), Float(3).Key())
	assert.Equal(t, Float(0).Key(), Float(math.Copysign(0, -1)).Key())
	assert.NotEqual(t, Str("3").Key(), Int(3).Key())

	utc := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))
	assert.Equal(t, Time(utc).Key(), Time(est).Key())

	nan := Float(math.NaN())
	assert.Equal(t, Invalid, nan.State())
	assert.True(t, nan.Missing())
	assert.Nil(t, nan.Interface())

	for _, f := range []float64{math.Inf(1), math.Inf(-1)} {
		inf := Float(f)
		assert.Equal(t, Invalid, inf.State())
		assert.True(t, inf.Missing())
		_, ok := inf.Float()
		assert.False(t, ok)
	}
	assert.Equal(t, Invalid, Object(math.Inf(1)).State())

	assert.Equal(t, Absent, Object(nil).State())
	assert.Equal(t, Absent, Null().State())
	assert.Equal(t, "<null>", Null().String())
}

func TestBuildReadsInfinityAsInvalid(t *testing.T) {
	tbl, _, err := Build("inf.csv", []string{"a"}, [][]string{{"1"}, {"inf"}, {"-Infinity"}, {"3"}}, ParseOptions{})
	require.NoError(t, err)
	a, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, FloatType, a.Type)
	assert.Equal(t, Present, a.Values[0].State())
	assert.Equal(t, Invalid, a.Values[1].State())
	assert.Equal(t, Invalid, a.Values[2].State())
	assert.Equal(t, `<invalid "+Inf">`, a.Values[1].String())
}

func TestGeneralize(t *testing.T) {
	tests := []struct {
		a, b, want DType
	}{
		{IntType, IntType, IntType},
		{UnknownType, BoolType, BoolType},
		{IntType, FloatType, FloatType},
		{FloatType, IntType, FloatType},
		{IntType, DateTimeType, StringType},
		{BoolType, IntType, StringType},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Generalize(tt.a, tt.b), "%s+%s", tt.a, tt.b)
	}
}

func TestParseDType(t *testing.T) {
	for _, typ := range []DType{IntType, FloatType, BoolType, StringType, CategoryType, DateTimeType, ObjectType} {
		got, err := ParseDType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := ParseDType("complex")
	assert.Error(t, err)
}

func TestFromDataFrame(t *testing.T) {
	df := dataframe.New(
		series.New([]int{1, 2, 3}, series.Int, "n"),
		series.New([]float64{1.5, math.NaN(), 3}, series.Float, "x"),
		series.New([]string{"a", "b", "a"}, series.String, "s"),
		series.New([]bool{true, false, true}, series.Bool, "flag"),
	)

	tbl, err := FromDataFrame("frame", df)
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "x", "s", "flag"}, tbl.Names())
	assert.Equal(t, 3, tbl.Len())

	n, _ := tbl.Column("n")
	assert.Equal(t, IntType, n.Type)
	assert.Equal(t, int64(2), n.Values[1].Interface())

	x, _ := tbl.Column("x")
	assert.Equal(t, FloatType, x.Type)
	assert.True(t, x.Values[1].Missing())

	s, _ := tbl.Column("s")
	assert.Equal(t, StringType, s.Type)
	flag, _ := tbl.Column("flag")
	assert.Equal(t, BoolType, flag.Type)
	assert.Equal(t, false, flag.Values[1].Interface())
}
