package profile

import "github.com/KaramelBytes/tabprof/internal/table"

// Classify maps a declared column type to its kind. The first matching rule
// wins: numeric types, then category/free-form types, then datetimes; every
// other type (booleans, unknown) is Other.
func Classify(t table.DType) Kind {
	switch {
	case t.Numeric():
		return Numerical
	case t == table.CategoryType || t == table.StringType || t == table.ObjectType:
		return Categorical
	case t == table.DateTimeType:
		return Datetime
	}
	return Other
}
