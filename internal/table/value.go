package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// State says whether a cell carries a usable value.
type State uint8

const (
	// Absent is a null cell.
	Absent State = iota
	// Present is a valid value of the column's type.
	Present
	// Invalid is a cell that had content which could not be read as the
	// column's type (including NaN and infinite floats).
	Invalid
)

func (s State) String() string {
	switch s {
	case Present:
		return "present"
	case Invalid:
		return "invalid"
	}
	return "absent"
}

// Value is a single cell. The zero Value is Absent.
type Value struct {
	state State
	data  any
	raw   string
}

func Null() Value { return Value{} }

func Int(i int64) Value { return Value{state: Present, data: i} }

// Float returns a present float, or an Invalid value for NaN and ±Inf.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{state: Invalid, raw: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return Value{state: Present, data: f}
}

func Bool(b bool) Value { return Value{state: Present, data: b} }

func Str(s string) Value { return Value{state: Present, data: s} }

func Time(t time.Time) Value { return Value{state: Present, data: t} }

// Object wraps an arbitrary value; a nil v is Absent.
func Object(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case float64:
		return Float(x)
	}
	return Value{state: Present, data: v}
}

// Unparseable records raw content that did not parse as the column type.
func Unparseable(raw string) Value { return Value{state: Invalid, raw: raw} }

func (v Value) State() State { return v.state }

// Missing reports whether the cell counts as missing: Absent or Invalid.
func (v Value) Missing() bool { return v.state != Present }

// Raw returns the original text of an Invalid cell.
func (v Value) Raw() string { return v.raw }

// Interface returns the underlying Go value, or nil when missing.
func (v Value) Interface() any {
	if v.state != Present {
		return nil
	}
	return v.data
}

// Float returns the value as float64 for numeric cells.
func (v Value) Float() (float64, bool) {
	if v.state != Present {
		return 0, false
	}
	switch x := v.data.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// Time returns the value for datetime cells.
func (v Value) Time() (time.Time, bool) {
	if v.state != Present {
		return time.Time{}, false
	}
	t, ok := v.data.(time.Time)
	return t, ok
}

// Key is a canonical identity used for distinct counting. Integers and floats
// with the same numeric value share a key, and times are compared by instant.
func (v Value) Key() string {
	if v.state != Present {
		return ""
	}
	switch x := v.data.(type) {
	case int64:
		return "n:" + strconv.FormatInt(x, 10)
	case float64:
		if x == 0 {
			x = 0 // fold -0
		}
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return "n:" + strconv.FormatInt(int64(x), 10)
		}
		return "n:" + strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	case string:
		return "s:" + x
	case time.Time:
		return "t:" + strconv.FormatInt(x.UnixNano(), 10)
	}
	return fmt.Sprintf("o:%T:%v", v.data, v.data)
}

func (v Value) String() string {
	switch v.state {
	case Absent:
		return "<null>"
	case Invalid:
		return fmt.Sprintf("<invalid %q>", v.raw)
	}
	if t, ok := v.data.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v.data)
}
