package excel

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	bookshelf "github.com/ideamans/go-bookshelf"
	"github.com/xuri/excelize/v2"
)

// Backend implements bookshelf.Backend over a directory of .xlsx files
type Backend struct {
	config *Config
	mu     sync.Mutex
}

// New creates a new Excel backend with the given configuration
func New(config *Config) (*Backend, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create a copy of config to avoid external modifications
	configCopy := *config

	return &Backend{
		config: &configCopy,
	}, nil
}

// Authenticate implements bookshelf.Authenticator. Local files need no
// credentials, so this only checks that the directory is usable.
func (b *Backend) Authenticate(ctx context.Context) (bookshelf.Backend, error) {
	if err := b.config.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", b.config.Dir, err)
	}
	return b, nil
}

// OpenSpreadsheet implements bookshelf.Backend
func (b *Backend) OpenSpreadsheet(ctx context.Context, name string) (bookshelf.Spreadsheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.config.path(name)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !b.config.CreateMissing {
			return nil, fmt.Errorf("%w: %s", bookshelf.ErrSpreadsheetNotFound, path)
		}
		f := excelize.NewFile()
		defer f.Close()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("failed to create Excel file: %w", err)
		}
	}

	return &Workbook{backend: b, name: name, path: path}, nil
}

// Workbook is one .xlsx file
type Workbook struct {
	backend *Backend
	name    string
	path    string
}

func (w *Workbook) Name() string {
	return w.name
}

// OpenTable implements bookshelf.Spreadsheet
func (w *Workbook) OpenTable(ctx context.Context, name string) (bookshelf.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.backend.mu.Lock()
	defer w.backend.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFileFormat, err)
	}
	defer f.Close()

	sheetIndex, err := f.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if sheetIndex == -1 {
		if !w.backend.config.CreateMissing {
			return nil, fmt.Errorf("%w: %s", bookshelf.ErrTableNotFound, name)
		}
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := f.Save(); err != nil {
			return nil, fmt.Errorf("failed to save Excel file: %w", err)
		}
	}

	return &Sheet{workbook: w, name: name}, nil
}

// Sheet is one worksheet of a workbook
type Sheet struct {
	workbook *Workbook
	name     string
}

func (s *Sheet) Name() string {
	return s.name
}

// ReadAll implements bookshelf.Table
func (s *Sheet) ReadAll(ctx context.Context) ([]string, []bookshelf.Row, error) {
	var columns []string
	var records []bookshelf.Row

	err := s.withFile(ctx, false, func(f *excelize.File) error {
		rows, err := f.GetRows(s.name)
		if err != nil {
			return fmt.Errorf("failed to get rows: %w", err)
		}

		columns = []string{}
		records = []bookshelf.Row{}
		if len(rows) == 0 {
			return nil
		}

		// First row is the schema
		header := rows[0]
		for _, col := range header {
			if col != "" {
				columns = append(columns, col)
			}
		}

		for i := 1; i < len(rows); i++ {
			if isBlank(rows[i]) {
				continue
			}
			record := bookshelf.Row{
				Index:  i + 1, // Row number (1-based, data starts from row 2)
				Values: make(map[string]interface{}),
			}
			for j, value := range rows[i] {
				if j >= len(header) || header[j] == "" {
					continue
				}
				name, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return err
				}
				typ, err := f.GetCellType(s.name, name)
				if err != nil {
					return fmt.Errorf("failed to get type of %s: %w", name, err)
				}
				record.Values[header[j]] = cellValue(typ, value)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return columns, records, nil
}

// WriteRow implements bookshelf.Table
func (s *Sheet) WriteRow(ctx context.Context, index int, values []interface{}) error {
	return s.withFile(ctx, true, func(f *excelize.File) error {
		cell, err := excelize.CoordinatesToCellName(1, index)
		if err != nil {
			return err
		}

		// Clear cells left over from a longer previous row
		if rows, err := f.GetRows(s.name); err == nil && index <= len(rows) {
			for col := len(values) + 1; col <= len(rows[index-1]); col++ {
				name, _ := excelize.CoordinatesToCellName(col, index)
				if err := f.SetCellValue(s.name, name, nil); err != nil {
					return err
				}
			}
		}

		row := append([]interface{}(nil), values...)
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", index, err)
		}
		return nil
	})
}

// StyleHeaderCells implements bookshelf.Table
func (s *Sheet) StyleHeaderCells(ctx context.Context, columns int, color bookshelf.Color) error {
	return s.withFile(ctx, true, func(f *excelize.File) error {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#" + color.Hex()}},
		})
		if err != nil {
			return fmt.Errorf("failed to create style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(columns, 1)
		if err != nil {
			return err
		}
		return f.SetCellStyle(s.name, "A1", last, style)
	})
}

// FreezeRows implements bookshelf.Table
func (s *Sheet) FreezeRows(ctx context.Context, count int) error {
	return s.withFile(ctx, true, func(f *excelize.File) error {
		topLeft, err := excelize.CoordinatesToCellName(1, count+1)
		if err != nil {
			return err
		}
		return f.SetPanes(s.name, &excelize.Panes{
			Freeze:      true,
			YSplit:      count,
			TopLeftCell: topLeft,
			ActivePane:  "bottomLeft",
		})
	})
}

// withFile opens the workbook, runs fn and saves it when write is set
func (s *Sheet) withFile(ctx context.Context, write bool, fn func(f *excelize.File) error) error {
	// Check if context is cancelled
	if err := ctx.Err(); err != nil {
		return err
	}

	b := s.workbook.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := excelize.OpenFile(s.workbook.path)
	if err != nil {
		return fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	if write {
		if err := f.Save(); err != nil {
			return fmt.Errorf("failed to save Excel file: %w", err)
		}
	}
	return nil
}

// cellValue keeps text cells as written and types the rest
func cellValue(typ excelize.CellType, value string) interface{} {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return value
	case excelize.CellTypeBool:
		return value == "1" || strings.EqualFold(value, "true")
	}
	return bookshelf.ParseCell(value)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
