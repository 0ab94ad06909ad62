package bookshelf

import (
	"context"
	"fmt"
	"io"

	"github.com/ideamans/go-bookshelf/isbn"
	"github.com/sirupsen/logrus"
)

// Store keeps a book table in a spreadsheet and a cached copy of it in memory.
//
// Queries read the cache only. The cache is reloaded in full after every
// write and before an id is assigned. A Store does no locking: callers that
// use it from more than one goroutine must serialise access themselves.
type Store struct {
	config      Config
	backend     Backend
	spreadsheet Spreadsheet
	table       Table
	cache       *cache
	log         logrus.FieldLogger
}

// Connect authenticates, opens the named spreadsheet and table and loads the cache
func Connect(ctx context.Context, auth Authenticator, spreadsheet, table string, config *Config) (*Store, error) {
	cfg := config.withDefaults()

	backend, err := auth.Authenticate(ctx)
	if err != nil {
		return nil, &ConnectionError{Op: "authenticate", Spreadsheet: spreadsheet, Table: table, Err: err}
	}

	s := &Store{
		config:  cfg,
		backend: backend,
		cache:   newCache(),
		log:     cfg.Logger,
	}
	if err := s.open(ctx, spreadsheet, table); err != nil {
		return nil, err
	}
	return s, nil
}

// SpreadsheetName returns the name of the active spreadsheet
func (s *Store) SpreadsheetName() string {
	return s.spreadsheet.Name()
}

// TableName returns the name of the active table
func (s *Store) TableName() string {
	return s.table.Name()
}

// SwitchTable points the store at another spreadsheet and/or table and
// reloads the cache. An empty name keeps the current one. On failure the
// store keeps working against the previous table.
func (s *Store) SwitchTable(ctx context.Context, spreadsheet, table string) error {
	if spreadsheet == "" {
		spreadsheet = s.spreadsheet.Name()
	}
	if table == "" {
		table = s.table.Name()
	}
	return s.open(ctx, spreadsheet, table)
}

// open resolves the spreadsheet and table handles and loads them. Nothing
// on the store changes unless every step succeeds.
func (s *Store) open(ctx context.Context, spreadsheetName, tableName string) error {
	connErr := func(op string, err error) error {
		return &ConnectionError{Op: op, Spreadsheet: spreadsheetName, Table: tableName, Err: err}
	}

	sp, err := s.backend.OpenSpreadsheet(ctx, spreadsheetName)
	if err != nil {
		return connErr("open spreadsheet", err)
	}
	tbl, err := sp.OpenTable(ctx, tableName)
	if err != nil {
		closeHandle(sp)
		return connErr("open table", err)
	}
	columns, rows, err := tbl.ReadAll(ctx)
	if err != nil {
		closeHandle(tbl)
		closeHandle(sp)
		return connErr("load", err)
	}

	prevSpreadsheet, prevTable := s.spreadsheet, s.table
	s.spreadsheet, s.table = sp, tbl
	s.cache.load(columns, rows)

	if prevTable != nil && prevTable != tbl {
		closeHandle(prevTable)
	}
	if prevSpreadsheet != nil && prevSpreadsheet != sp {
		closeHandle(prevSpreadsheet)
	}

	s.log.WithFields(logrus.Fields{
		"spreadsheet": spreadsheetName,
		"table":       tableName,
		"rows":        s.cache.size(),
	}).Info("opened table")
	return nil
}

// Refresh re-reads the whole table into the cache. On failure the previous
// snapshot is kept.
func (s *Store) Refresh(ctx context.Context) error {
	columns, rows, err := s.table.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read table %s: %w", s.table.Name(), err)
	}
	s.cache.load(columns, rows)

	s.log.WithFields(logrus.Fields{
		"table": s.table.Name(),
		"rows":  len(rows),
	}).Debug("cache refreshed")
	return nil
}

// LastAssignedID refreshes the cache and returns the BookID of the last row,
// or 0 when the table is empty or the id cannot be read.
func (s *Store) LastAssignedID(ctx context.Context) (int, error) {
	if err := s.Refresh(ctx); err != nil {
		return 0, err
	}
	row, ok := s.cache.last()
	if !ok {
		return 0, nil
	}
	id, ok := toInt64(row.Values[ColumnBookID])
	if !ok {
		return 0, nil
	}
	return int(id), nil
}

// Add appends the book after the last data row. The header row is written,
// styled and frozen first when the table holds no books yet.
func (s *Store) Add(ctx context.Context, book *Book) error {
	last, err := s.LastAssignedID(ctx)
	if err != nil {
		return err
	}

	if last == 0 {
		if err := s.writeHeader(ctx); err != nil {
			return err
		}
	}

	index := last + 2
	if err := s.table.WriteRow(ctx, index, book.Values()); err != nil {
		return &WriteError{Row: index, Err: err}
	}
	s.log.WithFields(logrus.Fields{
		"table": s.table.Name(),
		"row":   index,
		"id":    book.ID(),
	}).Info("book added")

	return s.Refresh(ctx)
}

func (s *Store) writeHeader(ctx context.Context) error {
	header := make([]interface{}, len(Header))
	for i, col := range Header {
		header[i] = col
	}
	if err := s.table.WriteRow(ctx, 1, header); err != nil {
		return &WriteError{Row: 1, Err: err}
	}
	if err := s.table.StyleHeaderCells(ctx, len(Header), *s.config.HeaderColor); err != nil {
		return &WriteError{Row: 1, Err: fmt.Errorf("failed to style header: %w", err)}
	}
	if err := s.table.FreezeRows(ctx, 1); err != nil {
		return &WriteError{Row: 1, Err: fmt.Errorf("failed to freeze header: %w", err)}
	}
	s.log.WithField("table", s.table.Name()).Info("header written")
	return nil
}

// EditRow replaces the whole row of book id with values. values must hold
// every column, starting with the id itself.
func (s *Store) EditRow(ctx context.Context, id int, values []interface{}) error {
	if id < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}

	index := id + 1
	if err := s.table.WriteRow(ctx, index, values); err != nil {
		return &WriteError{Row: index, Err: err}
	}
	s.log.WithFields(logrus.Fields{
		"table": s.table.Name(),
		"row":   index,
	}).Info("book edited")

	return s.Refresh(ctx)
}

// GetRow returns the cached row of book id. The cache is not refreshed.
func (s *Store) GetRow(id int) (Row, bool) {
	return s.cache.at(id - 1)
}

// FindOne returns the first cached row whose column equals value
func (s *Store) FindOne(column string, value interface{}) (Row, bool) {
	return s.cache.findOne(column, value)
}

// FindISBN looks a book up by ISBN, ignoring hyphens and spaces and treating
// an ISBN-10 and its ISBN-13 form as the same book.
func (s *Store) FindISBN(value string) (Row, bool) {
	for i := 0; i < s.cache.size(); i++ {
		row, _ := s.cache.at(i)
		if isbn.Equivalent(row.GetAsString(ColumnISBN, ""), value) {
			return row, true
		}
	}
	return Row{}, false
}

// DistinctValues returns the unique values of a findable or filterable
// column in first-seen order. ok is false for any other column.
func (s *Store) DistinctValues(column string) (values []interface{}, ok bool) {
	return s.cache.distinct(column)
}

// SelectColumns projects the cache onto columns, in the given order
func (s *Store) SelectColumns(columns ...string) (View, error) {
	for _, col := range columns {
		if !s.cache.hasColumn(col) {
			return View{}, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
	}
	return s.cache.view(columns, nil), nil
}

// FilterRows returns the cached rows whose column equals value. ok is false
// when the column does not exist; an empty view means nothing matched.
func (s *Store) FilterRows(column string, value interface{}) (View, bool) {
	return s.cache.filter(column, value)
}

// ColumnNames returns the column names of the cached table
func (s *Store) ColumnNames() []string {
	return s.cache.schema()
}

// Snapshot returns the whole cached table
func (s *Store) Snapshot() View {
	return s.cache.view(s.cache.columns, nil)
}

// CountBy counts books per value of a filterable column
func (s *Store) CountBy(column string) ([]Group, bool) {
	return s.cache.countBy(column)
}

// MeanRatingBy averages Rating per value of a filterable column
func (s *Store) MeanRatingBy(column string) ([]Group, bool) {
	return s.cache.meanRatingBy(column)
}

// RatingRange returns the lowest and highest rating in the cache
func (s *Store) RatingRange() (min, max float64, ok bool) {
	return s.cache.ratingRange()
}

// Close releases the active handles when the backend holds any
func (s *Store) Close() error {
	var err error
	if c, ok := s.table.(io.Closer); ok {
		err = c.Close()
	}
	if c, ok := s.spreadsheet.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if c, ok := s.backend.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func closeHandle(h interface{}) {
	if c, ok := h.(io.Closer); ok {
		_ = c.Close()
	}
}
