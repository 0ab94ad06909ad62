package bookshelf

import "context"

// Color is an RGB colour with components in the 0-255 range
type Color struct {
	R, G, B uint8
}

// Hex returns the colour as an upper-case RRGGBB string
func (c Color) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{
		digits[c.R>>4], digits[c.R&0x0f],
		digits[c.G>>4], digits[c.G&0x0f],
		digits[c.B>>4], digits[c.B&0x0f],
	}
	return string(b)
}

// Authenticator turns credentials into a usable Backend
type Authenticator interface {
	Authenticate(ctx context.Context) (Backend, error)
}

// Backend is an authenticated session against a spreadsheet service
type Backend interface {
	// OpenSpreadsheet locates a spreadsheet (workbook) by name
	OpenSpreadsheet(ctx context.Context, name string) (Spreadsheet, error)
}

// Spreadsheet is a named collection of tables (worksheets)
type Spreadsheet interface {
	Name() string

	// OpenTable locates a table (worksheet) by name
	OpenTable(ctx context.Context, name string) (Table, error)
}

// Table is a single worksheet whose first row holds the column names
type Table interface {
	Name() string

	// ReadAll returns the header row and every data row. Row.Index is the
	// 1-based sheet row number, so the first data row has Index 2.
	ReadAll(ctx context.Context) ([]string, []Row, error)

	// WriteRow overwrites the 1-based row index with values, starting at the first column
	WriteRow(ctx context.Context, index int, values []interface{}) error

	// StyleHeaderCells paints the background of the first `columns` cells of row 1
	StyleHeaderCells(ctx context.Context, columns int, color Color) error

	// FreezeRows keeps the top `count` rows visible while scrolling
	FreezeRows(ctx context.Context, count int) error
}
