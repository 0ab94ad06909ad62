package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	bookshelf "github.com/ideamans/go-bookshelf"
	"github.com/ideamans/go-bookshelf/adapters/adaptertest"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheets serves the subset of the Drive and Sheets APIs the backend uses
type fakeSheets struct {
	mu       sync.Mutex
	title    string
	sheetID  int64
	rows     map[int][]interface{}
	batches  []sheets.BatchUpdateSpreadsheetRequest
	failPuts bool
}

func newFakeSheets(title string) *fakeSheets {
	return &fakeSheets{title: title, sheetID: 7, rows: make(map[int][]interface{})}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	valuesPrefix := fmt.Sprintf("/v4/spreadsheets/test-id/values/'%s'!", f.title)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/drive/v3/files":
		if strings.Contains(r.URL.Query().Get("q"), "name = 'books'") {
			w.Write([]byte(`{"files": [{"id": "test-id", "name": "books"}]}`))
			return
		}
		w.Write([]byte(`{"files": []}`))

	case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/test-id":
		fmt.Fprintf(w, `{"sheets": [{"properties": {"sheetId": 0, "title": "Other"}}, {"properties": {"sheetId": %d, "title": %q}}]}`, f.sheetID, f.title)

	case r.Method == http.MethodGet && r.URL.Path == valuesPrefix+"A:ZZ":
		if got := r.URL.Query().Get("valueRenderOption"); got != "UNFORMATTED_VALUE" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"values": f.unformatted()})

	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, valuesPrefix+"A"):
		if f.failPuts {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"code": 500, "message": "backend error"}}`))
			return
		}
		index, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, valuesPrefix+"A"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.URL.Query().Get("valueInputOption"); got != "RAW" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var vr struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil || len(vr.Values) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.rows[index] = vr.Values[0]
		w.Write([]byte(`{}`))

	case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets/test-id:batchUpdate":
		var req sheets.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.batches = append(f.batches, req)
		w.Write([]byte(`{"spreadsheetId": "test-id"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"code": 404, "message": "not found"}}`))
	}
}

// unformatted returns stored rows the way UNFORMATTED_VALUE reads do:
// typed cells as written, trailing blanks trimmed
func (f *fakeSheets) unformatted() [][]interface{} {
	last := 0
	for i := range f.rows {
		if i > last {
			last = i
		}
	}
	out := [][]interface{}{}
	for i := 1; i <= last; i++ {
		row := append([]interface{}{}, f.rows[i]...)
		for len(row) > 0 && row[len(row)-1] == "" {
			row = row[:len(row)-1]
		}
		out = append(out, row)
	}
	return out
}

type staticAuth struct {
	backend *Backend
}

func (a staticAuth) Authenticate(ctx context.Context) (bookshelf.Backend, error) {
	return a.backend, nil
}

func newTestBackend(t *testing.T, handler http.Handler) *Backend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ctx := context.Background()
	sheetsService, err := sheets.NewService(ctx, option.WithEndpoint(server.URL), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create sheets service: %v", err)
	}
	driveService, err := drive.NewService(ctx, option.WithEndpoint(server.URL+"/drive/v3/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create drive service: %v", err)
	}
	return &Backend{sheets: sheetsService, drive: driveService}
}

func openWorksheet(t *testing.T, b *Backend) *Worksheet {
	t.Helper()
	ctx := context.Background()
	sp, err := b.OpenSpreadsheet(ctx, "books")
	if err != nil {
		t.Fatalf("OpenSpreadsheet() error = %v", err)
	}
	table, err := sp.OpenTable(ctx, "Sheet1")
	if err != nil {
		t.Fatalf("OpenTable() error = %v", err)
	}
	return table.(*Worksheet)
}

func TestConformance(t *testing.T) {
	adaptertest.Run(t, func(t *testing.T) (bookshelf.Authenticator, string, string) {
		return staticAuth{backend: newTestBackend(t, newFakeSheets("Sheet1"))}, "books", "Sheet1"
	})
}

func TestBackend_OpenSpreadsheet(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, newFakeSheets("Sheet1"))

	sp, err := b.OpenSpreadsheet(ctx, "books")
	if err != nil {
		t.Fatalf("OpenSpreadsheet() error = %v", err)
	}
	if got := sp.(*Spreadsheet).ID(); got != "test-id" {
		t.Errorf("ID() = %q, want %q", got, "test-id")
	}

	if _, err := b.OpenSpreadsheet(ctx, "missing"); !errors.Is(err, bookshelf.ErrSpreadsheetNotFound) {
		t.Errorf("OpenSpreadsheet(missing) error = %v, want %v", err, bookshelf.ErrSpreadsheetNotFound)
	}
}

func TestSpreadsheet_OpenTable(t *testing.T) {
	b := newTestBackend(t, newFakeSheets("Sheet1"))
	w := openWorksheet(t, b)
	if w.sheetID != 7 {
		t.Errorf("sheetID = %d, want 7", w.sheetID)
	}

	sp := &Spreadsheet{backend: b, name: "gone", id: "gone-id"}
	if _, err := sp.OpenTable(context.Background(), "Sheet1"); !errors.Is(err, bookshelf.ErrSpreadsheetNotFound) {
		t.Errorf("OpenTable() error = %v, want %v", err, bookshelf.ErrSpreadsheetNotFound)
	}
}

func TestWorksheet_ReadAll(t *testing.T) {
	tests := []struct {
		name        string
		sheetData   string
		wantRecords []bookshelf.Row
		wantSchema  []string
	}{
		{
			name: "load with data",
			sheetData: `{
				"values": [
					["BookID", "Name(EN)", "Rating"],
					["001", "Dune", 4.5],
					["002", "Emma", 3]
				]
			}`,
			wantRecords: []bookshelf.Row{
				{Index: 2, Values: map[string]interface{}{"BookID": "001", "Name(EN)": "Dune", "Rating": 4.5}},
				{Index: 3, Values: map[string]interface{}{"BookID": "002", "Name(EN)": "Emma", "Rating": int64(3)}},
			},
			wantSchema: []string{"BookID", "Name(EN)", "Rating"},
		},
		{
			name:        "load empty sheet",
			sheetData:   `{"values": []}`,
			wantRecords: []bookshelf.Row{},
			wantSchema:  []string{},
		},
		{
			name: "skip empty rows",
			sheetData: `{
				"values": [
					["Name(EN)"],
					["John"],
					[],
					["Jane"]
				]
			}`,
			wantRecords: []bookshelf.Row{
				{Index: 2, Values: map[string]interface{}{"Name(EN)": "John"}},
				{Index: 4, Values: map[string]interface{}{"Name(EN)": "Jane"}},
			},
			wantSchema: []string{"Name(EN)"},
		},
		{
			name: "text that looks numeric stays text",
			sheetData: `{
				"values": [
					["Name(EN)", "Location", "Status", "Publisher"],
					["1e3", "1.10", "TRUE", "+81"]
				]
			}`,
			wantRecords: []bookshelf.Row{
				{Index: 2, Values: map[string]interface{}{"Name(EN)": "1e3", "Location": "1.10", "Status": "TRUE", "Publisher": "+81"}},
			},
			wantSchema: []string{"Name(EN)", "Location", "Status", "Publisher"},
		},
		{
			name: "handle unformatted numbers",
			sheetData: `{
				"values": [
					["Rating", "Count"],
					[4.5, 50.0]
				]
			}`,
			wantRecords: []bookshelf.Row{
				{Index: 2, Values: map[string]interface{}{"Rating": 4.5, "Count": int64(50)}},
			},
			wantSchema: []string{"Rating", "Count"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/drive/v3/files":
					w.Write([]byte(`{"files": [{"id": "test-id", "name": "books"}]}`))
				case "/v4/spreadsheets/test-id":
					w.Write([]byte(`{"sheets": [{"properties": {"sheetId": 7, "title": "Sheet1"}}]}`))
				case "/v4/spreadsheets/test-id/values/'Sheet1'!A:ZZ":
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(tt.sheetData))
				default:
					w.WriteHeader(404)
				}
			}))

			gotSchema, gotRecords, err := openWorksheet(t, b).ReadAll(context.Background())
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !reflect.DeepEqual(gotSchema, tt.wantSchema) {
				t.Errorf("ReadAll() schema = %v, want %v", gotSchema, tt.wantSchema)
			}
			if !reflect.DeepEqual(gotRecords, tt.wantRecords) {
				t.Errorf("ReadAll() records = %v, want %v", gotRecords, tt.wantRecords)
			}
		})
	}
}

func TestWorksheet_StyleAndFreeze(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSheets("Sheet1")
	w := openWorksheet(t, newTestBackend(t, fake))

	if err := w.StyleHeaderCells(ctx, 11, bookshelf.DefaultHeaderColor); err != nil {
		t.Fatalf("StyleHeaderCells() error = %v", err)
	}
	if err := w.FreezeRows(ctx, 1); err != nil {
		t.Fatalf("FreezeRows() error = %v", err)
	}

	if len(fake.batches) != 2 {
		t.Fatalf("got %d batch updates, want 2", len(fake.batches))
	}

	repeat := fake.batches[0].Requests[0].RepeatCell
	if repeat == nil {
		t.Fatalf("first request is not repeatCell: %+v", fake.batches[0].Requests[0])
	}
	if repeat.Range.SheetId != 7 || repeat.Range.EndRowIndex != 1 || repeat.Range.EndColumnIndex != 11 {
		t.Errorf("repeatCell range = %+v", repeat.Range)
	}
	bg := repeat.Cell.UserEnteredFormat.BackgroundColor
	if bg.Red != 204.0/255 || bg.Green != 184.0/255 || bg.Blue != 167.0/255 {
		t.Errorf("background = %+v", bg)
	}
	if repeat.Fields != "userEnteredFormat.backgroundColor" {
		t.Errorf("fields = %q", repeat.Fields)
	}

	props := fake.batches[1].Requests[0].UpdateSheetProperties
	if props == nil || props.Properties.GridProperties.FrozenRowCount != 1 || props.Properties.SheetId != 7 {
		t.Errorf("updateSheetProperties = %+v", props)
	}
}

func TestWorksheet_WriteRowPadsToHeaderWidth(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSheets("Sheet1")
	w := openWorksheet(t, newTestBackend(t, fake))

	if err := w.WriteRow(ctx, 1, []interface{}{"A", "B", "C"}); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}
	if err := w.WriteRow(ctx, 2, []interface{}{"007", 4.5}); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}

	want := []interface{}{"007", 4.5, ""}
	if got := fake.rows[2]; !reflect.DeepEqual(got, want) {
		t.Errorf("row 2 = %#v, want %#v", got, want)
	}
}

func TestWorksheet_WriteRowError(t *testing.T) {
	fake := newFakeSheets("Sheet1")
	fake.failPuts = true
	w := openWorksheet(t, newTestBackend(t, fake))

	if err := w.WriteRow(context.Background(), 2, []interface{}{"001"}); err == nil {
		t.Error("WriteRow() expected error but got none")
	}
}

func TestA1(t *testing.T) {
	w := &Worksheet{title: "Bob's books"}
	if got, want := w.a1("A:ZZ"), "'Bob''s books'!A:ZZ"; got != want {
		t.Errorf("a1() = %q, want %q", got, want)
	}
	if got, want := escapeQuery(`it's \ here`), `it\'s \\ here`; got != want {
		t.Errorf("escapeQuery() = %q, want %q", got, want)
	}
}
