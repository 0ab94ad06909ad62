// Package sqlite stores spreadsheet-shaped tables in SQLite databases. Each
// spreadsheet is a database file; each table keeps its rows as JSON arrays
// keyed by row number, so the header row and data rows behave as in a sheet.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	bookshelf "github.com/ideamans/go-bookshelf"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookshelf_tables (
	name            TEXT PRIMARY KEY,
	header_color    TEXT NOT NULL DEFAULT '',
	styled_columns  INTEGER NOT NULL DEFAULT 0,
	frozen_rows     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS bookshelf_rows (
	table_name  TEXT NOT NULL REFERENCES bookshelf_tables(name),
	row_index   INTEGER NOT NULL,
	cells       TEXT NOT NULL,
	PRIMARY KEY (table_name, row_index)
);`

// Backend implements bookshelf.Backend over a directory of SQLite files
type Backend struct {
	config *Config
}

// New creates a new SQLite backend with the given configuration
func New(config *Config) (*Backend, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	configCopy := *config
	return &Backend{config: &configCopy}, nil
}

// Authenticate implements bookshelf.Authenticator
func (b *Backend) Authenticate(ctx context.Context) (bookshelf.Backend, error) {
	if err := b.config.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", b.config.Dir, err)
	}
	return b, nil
}

// OpenSpreadsheet opens (or, with CreateMissing, creates) <Dir>/<name>.db
func (b *Backend) OpenSpreadsheet(ctx context.Context, name string) (bookshelf.Spreadsheet, error) {
	path := b.config.path(name)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !b.config.CreateMissing {
			return nil, fmt.Errorf("%w: %s", bookshelf.ErrSpreadsheetNotFound, path)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Database{db: db, name: name, createMissing: b.config.CreateMissing}, nil
}

// Database is one spreadsheet file
type Database struct {
	db            *sql.DB
	name          string
	createMissing bool
}

func (d *Database) Name() string {
	return d.name
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	return d.db.Close()
}

// OpenTable implements bookshelf.Spreadsheet
func (d *Database) OpenTable(ctx context.Context, name string) (bookshelf.Table, error) {
	var found string
	err := d.db.QueryRowContext(ctx, `SELECT name FROM bookshelf_tables WHERE name = ?`, name).Scan(&found)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if !d.createMissing {
			return nil, fmt.Errorf("%w: %s", bookshelf.ErrTableNotFound, name)
		}
		if _, err := d.db.ExecContext(ctx, `INSERT INTO bookshelf_tables (name) VALUES (?)`, name); err != nil {
			return nil, fmt.Errorf("create table %s: %w", name, err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup table %s: %w", name, err)
	}

	return &Table{db: d.db, name: name}, nil
}

// Table is one sheet stored in bookshelf_rows
type Table struct {
	db   *sql.DB
	name string
}

func (t *Table) Name() string {
	return t.name
}

// ReadAll implements bookshelf.Table
func (t *Table) ReadAll(ctx context.Context) ([]string, []bookshelf.Row, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT row_index, cells FROM bookshelf_rows WHERE table_name = ? ORDER BY row_index`, t.name)
	if err != nil {
		return nil, nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var header []string
	columns := []string{}
	records := []bookshelf.Row{}
	for rows.Next() {
		var index int
		var raw string
		if err := rows.Scan(&index, &raw); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		var cells []interface{}
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, nil, fmt.Errorf("decode row %d: %w", index, err)
		}

		if index == 1 {
			header = make([]string, len(cells))
			for i, c := range cells {
				if s, ok := c.(string); ok && s != "" {
					header[i] = s
					columns = append(columns, s)
				}
			}
			continue
		}
		if len(cells) == 0 {
			continue
		}

		record := bookshelf.Row{Index: index, Values: make(map[string]interface{})}
		for j := 0; j < len(cells) && j < len(header); j++ {
			if header[j] != "" {
				record.Values[header[j]] = bookshelf.NormalizeCell(cells[j])
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return columns, records, nil
}

// WriteRow implements bookshelf.Table
func (t *Table) WriteRow(ctx context.Context, index int, values []interface{}) error {
	if index < 1 {
		return fmt.Errorf("invalid row index %d", index)
	}
	cells, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode row %d: %w", index, err)
	}
	_, err = t.db.ExecContext(ctx, `
INSERT INTO bookshelf_rows (table_name, row_index, cells) VALUES (?, ?, ?)
ON CONFLICT (table_name, row_index) DO UPDATE SET cells = excluded.cells`,
		t.name, index, string(cells))
	if err != nil {
		return fmt.Errorf("write row %d: %w", index, err)
	}
	return nil
}

// StyleHeaderCells records the header colour; SQLite has no presentation
// layer, but the setting travels with the data for exporters.
func (t *Table) StyleHeaderCells(ctx context.Context, columns int, color bookshelf.Color) error {
	_, err := t.db.ExecContext(ctx,
		`UPDATE bookshelf_tables SET header_color = ?, styled_columns = ? WHERE name = ?`,
		color.Hex(), columns, t.name)
	if err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return nil
}

// FreezeRows records the frozen row count
func (t *Table) FreezeRows(ctx context.Context, count int) error {
	_, err := t.db.ExecContext(ctx,
		`UPDATE bookshelf_tables SET frozen_rows = ? WHERE name = ?`, count, t.name)
	if err != nil {
		return fmt.Errorf("freeze rows: %w", err)
	}
	return nil
}

// Layout returns the stored header colour, styled column count and frozen rows
func (t *Table) Layout(ctx context.Context) (color string, styled, frozen int, err error) {
	err = t.db.QueryRowContext(ctx,
		`SELECT header_color, styled_columns, frozen_rows FROM bookshelf_tables WHERE name = ?`, t.name).
		Scan(&color, &styled, &frozen)
	if err != nil {
		return "", 0, 0, fmt.Errorf("read layout: %w", err)
	}
	return color, styled, frozen, nil
}
