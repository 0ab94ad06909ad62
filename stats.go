package bookshelf

import (
	"fmt"
	"sort"
)

// Group is one bucket of a CountBy or MeanRatingBy result
type Group struct {
	Key   interface{}
	Count int
	Mean  float64 // mean rating, only set by MeanRatingBy
}

// groupBy buckets rows by column, sorted by key
func (c *cache) groupBy(column string) ([]Group, map[interface{}][]Row, bool) {
	if !isFilterable(column) || !c.hasColumn(column) {
		return nil, nil, false
	}

	buckets := make(map[interface{}][]Row)
	groups := []Group{}
	for _, row := range c.rows {
		key := row.Values[column]
		if _, ok := buckets[key]; !ok {
			groups = append(groups, Group{Key: key})
		}
		buckets[key] = append(buckets[key], row)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return lessValue(groups[i].Key, groups[j].Key)
	})
	for i := range groups {
		groups[i].Count = len(buckets[groups[i].Key])
	}
	return groups, buckets, true
}

func (c *cache) countBy(column string) ([]Group, bool) {
	groups, _, ok := c.groupBy(column)
	return groups, ok
}

func (c *cache) meanRatingBy(column string) ([]Group, bool) {
	groups, buckets, ok := c.groupBy(column)
	if !ok {
		return nil, false
	}
	for i, g := range groups {
		var sum float64
		for _, row := range buckets[g.Key] {
			sum += row.GetAsFloat64(ColumnRating, 0)
		}
		groups[i].Mean = sum / float64(g.Count)
	}
	return groups, true
}

func (c *cache) ratingRange() (float64, float64, bool) {
	if len(c.rows) == 0 || !c.hasColumn(ColumnRating) {
		return 0, 0, false
	}
	min := c.rows[0].GetAsFloat64(ColumnRating, 0)
	max := min
	for _, row := range c.rows[1:] {
		r := row.GetAsFloat64(ColumnRating, 0)
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	return min, max, true
}

// lessValue orders numbers before text, numbers numerically and text lexically
func lessValue(a, b interface{}) bool {
	na, nb := isNumeric(a), isNumeric(b)
	switch {
	case na && nb:
		return toFloat64(a) < toFloat64(b)
	case na != nb:
		return na
	default:
		return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
	}
}
