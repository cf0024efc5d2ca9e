package table

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	UnknownType DType = iota
	IntType
	FloatType
	BoolType
	StringType
	CategoryType
	DateTimeType
	ObjectType
)

// DType is the declared element type of a column.
type DType uint8

func (t DType) String() string {
	switch t {
	case IntType:
		return "integer"
	case FloatType:
		return "float"
	case BoolType:
		return "boolean"
	case StringType:
		return "string"
	case CategoryType:
		return "category"
	case DateTimeType:
		return "datetime"
	case ObjectType:
		return "object"
	}
	return "unknown"
}

// Numeric reports whether the type holds integer or floating-point values.
func (t DType) Numeric() bool { return t == IntType || t == FloatType }

// ParseDType maps a type name (as printed by String, plus a few aliases) to a DType.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "int64":
		return IntType, nil
	case "float", "float64", "double", "number":
		return FloatType, nil
	case "bool", "boolean":
		return BoolType, nil
	case "str", "string", "text":
		return StringType, nil
	case "category", "categorical", "enum":
		return CategoryType, nil
	case "date", "datetime", "timestamp", "time":
		return DateTimeType, nil
	case "object", "any":
		return ObjectType, nil
	}
	return UnknownType, fmt.Errorf("unknown column type %q", s)
}

func (t DType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *DType) UnmarshalText(b []byte) error {
	if strings.EqualFold(string(b), "unknown") {
		*t = UnknownType
		return nil
	}
	v, err := ParseDType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t DType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// generalizations lists the pairs of inferred types that widen to something
// narrower than string.
var generalizations = map[[2]DType]DType{
	{IntType, FloatType}: FloatType,
}

// Generalize returns the more general of two inferred types. Unknown acts as
// the identity; any pair without a known widening becomes string.
func Generalize(t1, t2 DType) DType {
	if t1 == t2 {
		return t1
	}
	if t1 == UnknownType {
		return t2
	}
	if t2 == UnknownType {
		return t1
	}
	if t, ok := generalizations[[2]DType{t1, t2}]; ok {
		return t
	}
	if t, ok := generalizations[[2]DType{t2, t1}]; ok {
		return t
	}
	return StringType
}
