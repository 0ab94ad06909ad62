package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	bookshelf "github.com/ideamans/go-bookshelf"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Backend implements bookshelf.Backend for Google Sheets
type Backend struct {
	sheets *sheets.Service
	drive  *drive.Service
}

// NewBackend creates a Google Sheets backend with provided options
func NewBackend(ctx context.Context, opts ...option.ClientOption) (*Backend, error) {
	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Backend{sheets: sheetsService, drive: driveService}, nil
}

// OpenSpreadsheet finds a spreadsheet by title. When several share the
// title the first one Drive returns is used.
func (b *Backend) OpenSpreadsheet(ctx context.Context, name string) (bookshelf.Spreadsheet, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)
	resp, err := b.drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search spreadsheet %q: %w", name, err)
	}
	if len(resp.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", bookshelf.ErrSpreadsheetNotFound, name)
	}

	return &Spreadsheet{backend: b, name: name, id: resp.Files[0].Id}, nil
}

// Spreadsheet is one Google Sheets document
type Spreadsheet struct {
	backend *Backend
	name    string
	id      string
}

func (s *Spreadsheet) Name() string {
	return s.name
}

// ID returns the spreadsheet id Drive resolved the title to
func (s *Spreadsheet) ID() string {
	return s.id
}

// OpenTable finds a worksheet by title
func (s *Spreadsheet) OpenTable(ctx context.Context, name string) (bookshelf.Table, error) {
	resp, err := s.backend.sheets.Spreadsheets.Get(s.id).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", bookshelf.ErrSpreadsheetNotFound, s.name)
		}
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return &Worksheet{
				spreadsheet: s,
				title:       name,
				sheetID:     sh.Properties.SheetId,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", bookshelf.ErrTableNotFound, name)
}

// Worksheet is one tab of a spreadsheet
type Worksheet struct {
	spreadsheet *Spreadsheet
	title       string
	sheetID     int64
	width       int // header width seen on the last read or header write
}

func (w *Worksheet) Name() string {
	return w.title
}

// ReadAll retrieves the header and all data rows
func (w *Worksheet) ReadAll(ctx context.Context) ([]string, []bookshelf.Row, error) {
	resp, err := w.spreadsheet.backend.sheets.Spreadsheets.Values.
		Get(w.spreadsheet.id, w.a1(readColumns)).
		ValueRenderOption(valueRenderOption).
		Context(ctx).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sheet data: %w", err)
	}

	if len(resp.Values) == 0 {
		return []string{}, []bookshelf.Row{}, nil
	}

	// First row is schema
	header := make([]string, len(resp.Values[0]))
	schema := make([]string, 0, len(header))
	for i, v := range resp.Values[0] {
		if col, ok := v.(string); ok && col != "" {
			header[i] = col
			schema = append(schema, col)
		}
	}
	w.width = len(header)

	records := make([]bookshelf.Row, 0, len(resp.Values)-1)
	for i := 1; i < len(resp.Values); i++ {
		row := resp.Values[i]
		if len(row) == 0 {
			continue
		}

		// Row number (1-based, data starts at row 2)
		record := bookshelf.Row{Index: i + 1, Values: make(map[string]interface{})}
		for j := 0; j < len(row) && j < len(header); j++ {
			if header[j] != "" {
				record.Values[header[j]] = bookshelf.NormalizeCell(row[j])
			}
		}
		records = append(records, record)
	}

	return schema, records, nil
}

// WriteRow overwrites a single row. Values are sent RAW so ids like "007" stay text.
func (w *Worksheet) WriteRow(ctx context.Context, index int, values []interface{}) error {
	row := make([]interface{}, 0, len(values))
	for _, v := range values {
		row = append(row, convertToSheetValue(v))
	}
	// Blank out the rest of a previously wider row
	for len(row) < w.width {
		row = append(row, "")
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := w.spreadsheet.backend.sheets.Spreadsheets.Values.
		Update(w.spreadsheet.id, w.a1(fmt.Sprintf("A%d", index)), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}

	if index == 1 && len(values) > w.width {
		w.width = len(values)
	}
	return nil
}

// StyleHeaderCells sets the background colour of the first columns of row 1
func (w *Worksheet) StyleHeaderCells(ctx context.Context, columns int, color bookshelf.Color) error {
	return w.batchUpdate(ctx, &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          w.sheetID,
				StartRowIndex:    0,
				EndRowIndex:      1,
				StartColumnIndex: 0,
				EndColumnIndex:   int64(columns),
				ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					BackgroundColor: &sheets.Color{
						Red:   float64(color.R) / 255,
						Green: float64(color.G) / 255,
						Blue:  float64(color.B) / 255,
					},
				},
			},
			Fields: "userEnteredFormat.backgroundColor",
		},
	})
}

// FreezeRows sets the frozen row count of the worksheet
func (w *Worksheet) FreezeRows(ctx context.Context, count int) error {
	return w.batchUpdate(ctx, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: w.sheetID,
				GridProperties: &sheets.GridProperties{
					FrozenRowCount:  int64(count),
					ForceSendFields: []string{"FrozenRowCount"},
				},
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "gridProperties.frozenRowCount",
		},
	})
}

func (w *Worksheet) batchUpdate(ctx context.Context, requests ...*sheets.Request) error {
	_, err := w.spreadsheet.backend.sheets.Spreadsheets.
		BatchUpdate(w.spreadsheet.id, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to batch update: %w", err)
	}
	return nil
}

// a1 qualifies a range with the quoted worksheet title
func (w *Worksheet) a1(rng string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(w.title, "'", "''"), rng)
}

// convertToSheetValue converts a Go value to a Google Sheets cell value
func convertToSheetValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case string, bool, float64, float32, int, int32, int64:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func isNotFound(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusNotFound
}
