// Package adaptertest holds the behaviour every spreadsheet backend must
// share. Adapter packages call Run from their own tests.
package adaptertest

import (
	"context"
	"errors"
	"io"
	"testing"

	bookshelf "github.com/ideamans/go-bookshelf"
	"github.com/sirupsen/logrus"
)

// Setup prepares a backend holding an existing, empty table and returns
// credentials for it together with the spreadsheet and table names.
type Setup func(t *testing.T) (auth bookshelf.Authenticator, spreadsheet, table string)

// Run executes the conformance suite against the backend built by setup
func Run(t *testing.T, setup Setup) {
	t.Run("read empty table", func(t *testing.T) {
		table := openTable(t, setup)
		columns, rows, err := table.ReadAll(context.Background())
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(columns) != 0 || len(rows) != 0 {
			t.Errorf("ReadAll() = %v, %v, want empty", columns, rows)
		}
	})

	t.Run("write and read rows", func(t *testing.T) {
		ctx := context.Background()
		table := openTable(t, setup)

		mustWrite(t, table, 1, "BookID", "Name", "Rating", "Read")
		mustWrite(t, table, 2, "001", "Dune", 4.5, true)
		mustWrite(t, table, 3, "002", "Emma", 3, false)

		columns, rows, err := table.ReadAll(ctx)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if want := []string{"BookID", "Name", "Rating", "Read"}; !equalStrings(columns, want) {
			t.Errorf("ReadAll() columns = %v, want %v", columns, want)
		}
		if len(rows) != 2 {
			t.Fatalf("ReadAll() got %d rows, want 2", len(rows))
		}
		if rows[0].Index != 2 || rows[1].Index != 3 {
			t.Errorf("row indexes = %d, %d, want 2, 3", rows[0].Index, rows[1].Index)
		}
		if got := rows[0].GetAsString("BookID", ""); got != "001" {
			t.Errorf("BookID = %q, want %q", got, "001")
		}
		if got := rows[0].GetAsFloat64("Rating", 0); got != 4.5 {
			t.Errorf("Rating = %v, want 4.5", got)
		}
		if got := rows[1].Values["Rating"]; got != int64(3) {
			t.Errorf("Rating = %#v, want int64(3)", got)
		}
		if got := rows[1].Values["Read"]; got != false {
			t.Errorf("Read = %#v, want false", got)
		}
	})

	t.Run("text cells keep their form", func(t *testing.T) {
		table := openTable(t, setup)
		mustWrite(t, table, 1, "Name", "Shelf", "Code", "Flag", "Count")
		mustWrite(t, table, 2, "1e3", "1.10", "+81", "TRUE", 7)

		_, rows, err := table.ReadAll(context.Background())
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("ReadAll() got %d rows, want 1", len(rows))
		}
		want := map[string]interface{}{"Name": "1e3", "Shelf": "1.10", "Code": "+81", "Flag": "TRUE", "Count": int64(7)}
		for col, w := range want {
			if got := rows[0].Values[col]; got != w {
				t.Errorf("%s = %#v, want %#v", col, got, w)
			}
		}
	})

	t.Run("overwrite row", func(t *testing.T) {
		table := openTable(t, setup)
		mustWrite(t, table, 1, "BookID", "Name")
		mustWrite(t, table, 2, "001", "Dune")
		mustWrite(t, table, 2, "001", "Dune Messiah")

		_, rows, err := table.ReadAll(context.Background())
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("ReadAll() got %d rows, want 1", len(rows))
		}
		if got := rows[0].GetAsString("Name", ""); got != "Dune Messiah" {
			t.Errorf("Name = %q, want %q", got, "Dune Messiah")
		}
	})

	t.Run("style and freeze header", func(t *testing.T) {
		ctx := context.Background()
		table := openTable(t, setup)
		mustWrite(t, table, 1, "BookID", "Name")
		if err := table.StyleHeaderCells(ctx, 2, bookshelf.DefaultHeaderColor); err != nil {
			t.Errorf("StyleHeaderCells() error = %v", err)
		}
		if err := table.FreezeRows(ctx, 1); err != nil {
			t.Errorf("FreezeRows() error = %v", err)
		}
	})

	t.Run("missing table", func(t *testing.T) {
		auth, spreadsheet, _ := setup(t)
		backend, err := auth.Authenticate(context.Background())
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		defer closeIfCloser(backend)

		sp, err := backend.OpenSpreadsheet(context.Background(), spreadsheet)
		if err != nil {
			t.Fatalf("OpenSpreadsheet() error = %v", err)
		}
		defer closeIfCloser(sp)

		if _, err := sp.OpenTable(context.Background(), "no-such-table"); !errors.Is(err, bookshelf.ErrTableNotFound) {
			t.Errorf("OpenTable() error = %v, want %v", err, bookshelf.ErrTableNotFound)
		}
	})

	t.Run("store round trip", func(t *testing.T) {
		ctx := context.Background()
		auth, spreadsheet, tableName := setup(t)

		logger := logrus.New()
		logger.SetOutput(io.Discard)
		store, err := bookshelf.Connect(ctx, auth, spreadsheet, tableName, &bookshelf.Config{Logger: logger})
		if err != nil {
			t.Fatalf("Connect() error = %v", err)
		}
		defer store.Close()

		for _, title := range []string{"Dune", "Emma", "Ulysses"} {
			if _, err := bookshelf.NewBook(ctx, store, bookshelf.BookInput{TitleForeign: title, Rating: "4"}); err != nil {
				t.Fatalf("NewBook(%s) error = %v", title, err)
			}
		}

		if got := store.ColumnNames(); !equalStrings(got, bookshelf.Header) {
			t.Errorf("ColumnNames() = %v, want %v", got, bookshelf.Header)
		}
		row, ok := store.FindOne(bookshelf.ColumnBookID, "002")
		if !ok {
			t.Fatalf("FindOne(BookID, 002) not found")
		}
		if got := row.GetAsString(bookshelf.ColumnTitleForeign, ""); got != "Emma" {
			t.Errorf("FindOne(BookID, 002) title = %q, want %q", got, "Emma")
		}
		last, err := store.LastAssignedID(ctx)
		if err != nil {
			t.Fatalf("LastAssignedID() error = %v", err)
		}
		if last != 3 {
			t.Errorf("LastAssignedID() = %d, want 3", last)
		}
	})
}

func openTable(t *testing.T, setup Setup) bookshelf.Table {
	t.Helper()
	ctx := context.Background()

	auth, spreadsheet, table := setup(t)
	backend, err := auth.Authenticate(ctx)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	t.Cleanup(func() { closeIfCloser(backend) })

	sp, err := backend.OpenSpreadsheet(ctx, spreadsheet)
	if err != nil {
		t.Fatalf("OpenSpreadsheet(%s) error = %v", spreadsheet, err)
	}
	t.Cleanup(func() { closeIfCloser(sp) })

	tbl, err := sp.OpenTable(ctx, table)
	if err != nil {
		t.Fatalf("OpenTable(%s) error = %v", table, err)
	}
	return tbl
}

func mustWrite(t *testing.T, table bookshelf.Table, index int, values ...interface{}) {
	t.Helper()
	if err := table.WriteRow(context.Background(), index, values); err != nil {
		t.Fatalf("WriteRow(%d) error = %v", index, err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func closeIfCloser(v interface{}) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}
