package bookshelf

import (
	"fmt"
)

// matches reports whether the cell in column equals want. Book ids compare
// as integers so "002" matches 2; other columns compare numerically when
// both sides are numbers and by their text otherwise.
func matches(column string, cell, want interface{}) bool {
	if column == ColumnBookID {
		a, okA := toInt64(cell)
		b, okB := toInt64(want)
		return okA && okB && a == b
	}
	return compareEqual(cell, queryValue(want))
}

// queryValue types a lookup value the way ParseCell types cell text
func queryValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return ParseCell(s)
	}
	return NormalizeCell(v)
}

// compareEqual compares two values for equality
func compareEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	// 数値の比較は型変換を考慮
	if isNumeric(a) && isNumeric(b) {
		return toFloat64(a) == toFloat64(b)
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// isNumeric checks if a value is numeric
func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

// toFloat64 converts a numeric value to float64
func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}

// findOne returns the first row whose column equals value
func (c *cache) findOne(column string, value interface{}) (Row, bool) {
	if !c.hasColumn(column) {
		return Row{}, false
	}
	for _, row := range c.rows {
		if matches(column, row.Values[column], value) {
			return copyRow(row), true
		}
	}
	return Row{}, false
}

// filter returns every row whose column equals value, in cache order
func (c *cache) filter(column string, value interface{}) (View, bool) {
	if !c.hasColumn(column) {
		return View{}, false
	}
	return c.view(c.columns, func(row Row) bool {
		return matches(column, row.Values[column], value)
	}), true
}

// distinct returns the unique values of column in first-seen order. For
// findable columns blanks and "-" placeholders are left out.
func (c *cache) distinct(column string) ([]interface{}, bool) {
	findable := isFindable(column)
	if !findable && !isFilterable(column) {
		return nil, false
	}

	values := []interface{}{}
	seen := make(map[interface{}]bool)
	for _, row := range c.rows {
		v, ok := row.Values[column]
		if !ok {
			continue
		}
		if findable && (v == "" || v == "-") {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values, true
}
