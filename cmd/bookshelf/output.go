package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	bookshelf "github.com/ideamans/go-bookshelf"
	"github.com/ideamans/go-bookshelf/isbn"
	"golang.org/x/term"
)

// tableWriter aligns columns on a terminal and emits plain TSV otherwise,
// so output piped into other tools stays machine readable.
type tableWriter struct {
	w     io.Writer
	flush func() error
}

func newTableWriter(out io.Writer) *tableWriter {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		return &tableWriter{w: tw, flush: tw.Flush}
	}
	return &tableWriter{w: out, flush: func() error { return nil }}
}

func (t *tableWriter) row(cells ...interface{}) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = cellString(c)
	}
	fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func printView(out io.Writer, view bookshelf.View) error {
	t := newTableWriter(out)
	header := make([]interface{}, len(view.Columns))
	for i, c := range view.Columns {
		header[i] = c
	}
	t.row(header...)
	for i := 0; i < view.Len(); i++ {
		t.row(view.Values(i)...)
	}
	return t.flush()
}

// printRow lists one book as column/value pairs
func printRow(out io.Writer, columns []string, row bookshelf.Row) error {
	t := newTableWriter(out)
	for _, col := range columns {
		t.row(col, row.Values[col])
	}
	return t.flush()
}

// printISBNRow prints a row followed by the 13 and 10 digit forms of its ISBN
func printISBNRow(out io.Writer, columns []string, row bookshelf.Row) error {
	t := newTableWriter(out)
	for _, col := range columns {
		t.row(col, row.Values[col])
	}
	if isbn13 := isbn.Canonical(row.GetAsString(bookshelf.ColumnISBN, "")); isbn.Valid13(isbn13) {
		t.row("ISBN-13", isbn13)
		// 979 prefixed numbers have no 10 digit form
		if isbn10 := isbn.To10(isbn13); isbn10 != "" {
			t.row("ISBN-10", isbn10)
		}
	}
	return t.flush()
}

func printGroups(out io.Writer, column, metric string, groups []bookshelf.Group) error {
	t := newTableWriter(out)
	t.row(column, metric)
	for _, g := range groups {
		if metric == "mean" {
			t.row(g.Key, fmt.Sprintf("%.2f", g.Mean))
		} else {
			t.row(g.Key, g.Count)
		}
	}
	return t.flush()
}
