// Package memory implements an in-process spreadsheet backend. It keeps
// every written cell in maps and records styling calls, which makes it the
// backend of choice for tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	bookshelf "github.com/ideamans/go-bookshelf"
)

// Backend holds spreadsheets in memory. The zero value is not usable; call New.
type Backend struct {
	mu           sync.Mutex
	spreadsheets map[string]*Spreadsheet
	autoCreate   bool
	authErr      error
}

// Option configures a Backend
type Option func(*Backend)

// WithAutoCreate makes OpenSpreadsheet and OpenTable create missing entries
func WithAutoCreate() Option {
	return func(b *Backend) { b.autoCreate = true }
}

// WithAuthError makes Authenticate fail with err
func WithAuthError(err error) Option {
	return func(b *Backend) { b.authErr = err }
}

// New creates an empty backend
func New(opts ...Option) *Backend {
	b := &Backend{spreadsheets: make(map[string]*Spreadsheet)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Authenticate implements bookshelf.Authenticator
func (b *Backend) Authenticate(ctx context.Context) (bookshelf.Backend, error) {
	if b.authErr != nil {
		return nil, b.authErr
	}
	return b, nil
}

// AddSpreadsheet creates (or returns) the named spreadsheet
func (b *Backend) AddSpreadsheet(name string) *Spreadsheet {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addSpreadsheetLocked(name)
}

func (b *Backend) addSpreadsheetLocked(name string) *Spreadsheet {
	if s, ok := b.spreadsheets[name]; ok {
		return s
	}
	s := &Spreadsheet{backend: b, name: name, tables: make(map[string]*Table)}
	b.spreadsheets[name] = s
	return s
}

// OpenSpreadsheet implements bookshelf.Backend
func (b *Backend) OpenSpreadsheet(ctx context.Context, name string) (bookshelf.Spreadsheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.spreadsheets[name]; ok {
		return s, nil
	}
	if b.autoCreate {
		return b.addSpreadsheetLocked(name), nil
	}
	return nil, fmt.Errorf("%w: %s", bookshelf.ErrSpreadsheetNotFound, name)
}

// Spreadsheet is an in-memory workbook
type Spreadsheet struct {
	backend *Backend
	name    string
	tables  map[string]*Table
}

func (s *Spreadsheet) Name() string {
	return s.name
}

// AddTable creates (or returns) the named table
func (s *Spreadsheet) AddTable(name string) *Table {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	return s.addTableLocked(name)
}

func (s *Spreadsheet) addTableLocked(name string) *Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	t := &Table{mu: &s.backend.mu, name: name, rows: make(map[int][]interface{})}
	s.tables[name] = t
	return t
}

// OpenTable implements bookshelf.Spreadsheet
func (s *Spreadsheet) OpenTable(ctx context.Context, name string) (bookshelf.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if t, ok := s.tables[name]; ok {
		return t, nil
	}
	if s.backend.autoCreate {
		return s.addTableLocked(name), nil
	}
	return nil, fmt.Errorf("%w: %s", bookshelf.ErrTableNotFound, name)
}

// Table is an in-memory worksheet
type Table struct {
	mu     *sync.Mutex
	name   string
	rows   map[int][]interface{} // 1-based row number -> cells
	writes []int                 // row numbers in write order

	headerColor *bookshelf.Color
	styledCols  int
	frozenRows  int

	readErr  error
	writeErr error
}

func (t *Table) Name() string {
	return t.name
}

// ReadAll implements bookshelf.Table
func (t *Table) ReadAll(ctx context.Context) ([]string, []bookshelf.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.readErr != nil {
		return nil, nil, t.readErr
	}

	schema := []string{}
	for _, v := range t.rows[1] {
		if s := fmt.Sprintf("%v", v); v != nil && s != "" {
			schema = append(schema, s)
		}
	}

	last := 0
	for i := range t.rows {
		if i > last {
			last = i
		}
	}

	rows := []bookshelf.Row{}
	for i := 2; i <= last; i++ {
		cells, ok := t.rows[i]
		if !ok || len(cells) == 0 {
			continue
		}
		row := bookshelf.Row{Index: i, Values: make(map[string]interface{})}
		for j := 0; j < len(cells) && j < len(schema); j++ {
			row.Values[schema[j]] = bookshelf.NormalizeCell(cells[j])
		}
		rows = append(rows, row)
	}
	return schema, rows, nil
}

// WriteRow implements bookshelf.Table
func (t *Table) WriteRow(ctx context.Context, index int, values []interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if index < 1 {
		return fmt.Errorf("invalid row index %d", index)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writeErr != nil {
		return t.writeErr
	}
	t.rows[index] = append([]interface{}(nil), values...)
	t.writes = append(t.writes, index)
	return nil
}

// StyleHeaderCells implements bookshelf.Table
func (t *Table) StyleHeaderCells(ctx context.Context, columns int, color bookshelf.Color) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writeErr != nil {
		return t.writeErr
	}
	c := color
	t.headerColor = &c
	t.styledCols = columns
	return nil
}

// FreezeRows implements bookshelf.Table
func (t *Table) FreezeRows(ctx context.Context, count int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writeErr != nil {
		return t.writeErr
	}
	t.frozenRows = count
	return nil
}

// SetRow stores raw cells without recording a write
func (t *Table) SetRow(index int, values ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[index] = append([]interface{}(nil), values...)
}

// Row returns the raw cells of a row
func (t *Table) Row(index int) []interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]interface{}(nil), t.rows[index]...)
}

// Writes returns the row numbers written so far, in order
func (t *Table) Writes() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.writes...)
}

// HeaderStyle returns the colour and column count of the last header styling
func (t *Table) HeaderStyle() (*bookshelf.Color, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.headerColor, t.styledCols
}

// FrozenRows returns the number of frozen rows
func (t *Table) FrozenRows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frozenRows
}

// FailReads makes ReadAll return err until called again with nil
func (t *Table) FailReads(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readErr = err
}

// FailWrites makes writes and styling return err until called again with nil
func (t *Table) FailWrites(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}
