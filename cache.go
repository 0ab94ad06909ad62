package bookshelf

// cache is the in-memory snapshot of the active table. It is only ever
// replaced wholesale by load.
type cache struct {
	columns []string // column names in sheet order
	rows    []Row    // data rows in sheet order
}

func newCache() *cache {
	return &cache{
		columns: []string{},
		rows:    []Row{},
	}
}

// load replaces all data with the provided rows. Cells missing from a row
// are filled with "" so every row carries every column.
func (c *cache) load(columns []string, rows []Row) {
	c.columns = append(make([]string, 0, len(columns)), columns...)
	c.rows = make([]Row, 0, len(rows))
	for _, row := range rows {
		r := copyRow(row)
		for _, col := range c.columns {
			if _, ok := r.Values[col]; !ok {
				r.Values[col] = ""
			}
		}
		c.rows = append(c.rows, r)
	}
}

func (c *cache) size() int {
	return len(c.rows)
}

// at returns a copy of the row at a 0-based position
func (c *cache) at(i int) (Row, bool) {
	if i < 0 || i >= len(c.rows) {
		return Row{}, false
	}
	return copyRow(c.rows[i]), true
}

func (c *cache) last() (Row, bool) {
	return c.at(len(c.rows) - 1)
}

func (c *cache) hasColumn(col string) bool {
	return contains(c.columns, col)
}

func (c *cache) schema() []string {
	return append([]string(nil), c.columns...)
}

// view projects rows that satisfy keep onto columns
func (c *cache) view(columns []string, keep func(Row) bool) View {
	v := View{
		Columns: append([]string(nil), columns...),
		Rows:    []Row{},
	}
	for _, row := range c.rows {
		if keep != nil && !keep(row) {
			continue
		}
		r := Row{Index: row.Index, Values: make(map[string]interface{}, len(columns))}
		for _, col := range columns {
			r.Values[col] = row.Values[col]
		}
		v.Rows = append(v.Rows, r)
	}
	return v
}

// View is an ordered projection of the cached table
type View struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows
func (v View) Len() int {
	return len(v.Rows)
}

// Values returns row i's values in column order
func (v View) Values(i int) []interface{} {
	row := v.Rows[i]
	values := make([]interface{}, len(v.Columns))
	for j, col := range v.Columns {
		values[j] = row.Values[col]
	}
	return values
}
