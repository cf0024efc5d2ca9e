package table

import (
	"strconv"
	"strings"
	"time"
)

// DefaultNullValues are the cell tokens read as null when ParseOptions.NullValues is empty.
var DefaultNullValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A", "-"}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// ParseOptions controls how text cells become typed values.
type ParseOptions struct {
	// NullValues are tokens (after trimming, case-sensitive) read as null.
	NullValues []string
	// DecimalSeparator and ThousandsSeparator enable locale-aware numbers.
	// When both are 0 numbers are parsed strictly.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// Types forces the declared type of named columns, skipping inference.
	Types map[string]DType
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
}

func (o ParseOptions) nullSet() map[string]struct{} {
	vals := o.NullValues
	if len(vals) == 0 {
		vals = DefaultNullValues
	}
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return set
}

// inferCell detects the narrowest type a single non-null cell satisfies.
func inferCell(s string, opt ParseOptions) DType {
	if _, ok := parseInt(s, opt); ok {
		if hasLeadingZeros(s) {
			// zero-padded codes are identifiers, not numbers
			return StringType
		}
		return IntType
	}
	if _, ok := parseNumeric(s, opt); ok {
		return FloatType
	}
	if _, ok := parseBool(s); ok {
		return BoolType
	}
	if _, ok := parseTime(s); ok {
		return DateTimeType
	}
	return StringType
}

// hasLeadingZeros checks if an integer literal is zero padded, e.g. "007".
func hasLeadingZeros(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0'
}

func parseInt(s string, opt ParseOptions) (int64, bool) {
	raw := strings.TrimSpace(s)
	if opt.ThousandsSeparator != 0 && opt.ThousandsSeparator != opt.DecimalSeparator {
		raw = strings.ReplaceAll(raw, string(opt.ThousandsSeparator), "")
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseNumeric(s string, opt ParseOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec, thou := opt.DecimalSeparator, opt.ThousandsSeparator
	if dec != 0 || thou != 0 {
		if dec == 0 {
			dec = '.'
		}
		if thou != 0 && thou != dec {
			raw = strings.ReplaceAll(raw, string(thou), "")
		}
		if dec != '.' {
			if strings.Contains(raw, ".") {
				return 0, false
			}
			raw = strings.ReplaceAll(raw, string(dec), ".")
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// convert reads a non-null cell as the given type.
func convert(s string, typ DType, opt ParseOptions) Value {
	switch typ {
	case IntType:
		if i, ok := parseInt(s, opt); ok {
			return Int(i)
		}
	case FloatType:
		if f, ok := parseNumeric(s, opt); ok {
			return Float(f)
		}
	case BoolType:
		if b, ok := parseBool(s); ok {
			return Bool(b)
		}
	case DateTimeType:
		if t, ok := parseTime(s); ok {
			return Time(t)
		}
	default:
		return Str(s)
	}
	return Unparseable(s)
}
