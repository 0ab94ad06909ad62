package bookshelf

import (
	"errors"
	"fmt"
)

var (
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrUnknownColumn       = errors.New("unknown column")
	ErrInvalidID           = errors.New("invalid book id")
)

// ConnectionError reports a failure to authenticate or to locate the
// spreadsheet or table. The store keeps its previous state when one is returned.
type ConnectionError struct {
	Op          string // authenticate, open spreadsheet, open table, load
	Spreadsheet string
	Table       string
	Err         error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed (%s %s/%s): %v", e.Op, e.Spreadsheet, e.Table, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// WriteError reports a remote write that did not complete. The cache still
// holds the snapshot taken before the write was attempted.
type WriteError struct {
	Row int
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write row %d: %v", e.Row, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
