package bookshelf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Row struct {
	Index  int                    // sheet row number (2 for the first data row; row 1 is the header)
	Values map[string]interface{} // column name -> cell value
}

// GetAsString returns the value as string or defaultValue if not found
func (r Row) GetAsString(col string, defaultValue string) string {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// GetAsInt64 returns the value as int64 or defaultValue if not found
func (r Row) GetAsInt64(col string, defaultValue int64) int64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}
	if i, ok := toInt64(v); ok {
		return i
	}
	return defaultValue
}

// GetAsFloat64 returns the value as float64 or defaultValue if not found
func (r Row) GetAsFloat64(col string, defaultValue float64) float64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}

	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// copyRow creates a deep copy of a row
func copyRow(row Row) Row {
	c := Row{
		Index:  row.Index,
		Values: make(map[string]interface{}, len(row.Values)),
	}
	for k, v := range row.Values {
		c.Values[k] = v
	}
	return c
}

// ParseCell converts the text of a cell into the Go type the store works with:
// int64 for integers, float64 for decimals and bool for true/false. A
// conversion only happens when formatting the result gives back the exact
// text, so "007", "1.10", "+81", "1e3" and "TRUE" stay strings.
func ParseCell(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) &&
		strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// NormalizeCell maps a typed cell value read from a backend onto int64,
// float64, bool or string. Text cells are kept as they are.
func NormalizeCell(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case float32:
		return NormalizeCell(float64(val))
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int64, bool:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toInt64 converts integral values, and strings holding them, to int64
func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case float64:
		if val == float64(int64(val)) {
			return int64(val), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
