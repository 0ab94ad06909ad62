package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	bookshelf "github.com/ideamans/go-bookshelf"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("not found")

func (a *app) addCmd() *cobra.Command {
	var in bookshelf.BookInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book and print its id",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			book, err := bookshelf.NewBook(cmd.Context(), a.store, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), book.ID())
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&in.TitleLocal, "title-local", "", "title in the local language")
	f.StringVar(&in.TitleForeign, "title", "", "title in English")
	f.StringVar(&in.Author, "author", "", "author")
	f.StringVar(&in.Publisher, "publisher", "", "publisher")
	f.StringVar(&in.ISBN, "isbn", "", "ISBN-10 or ISBN-13")
	f.StringVar(&in.Category, "category", "", "category")
	f.StringVar(&in.Rating, "rating", "", "rating; anything that is not a number is stored as 0")
	f.StringVar(&in.Status, "status", "", "reading status")
	f.StringVar(&in.Location, "location", "", "shelf location")
	f.StringVar(&in.Cover, "cover", "", "cover image path (default "+bookshelf.DefaultCover+")")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the book with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			row, ok := a.store.GetRow(id)
			if !ok {
				return fmt.Errorf("book %s: %w", args[0], errNotFound)
			}
			return printRow(cmd.OutOrStdout(), a.store.ColumnNames(), row)
		}),
	}
}

func (a *app) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <column> <value>",
		Short: "Show the first book whose column equals value",
		Long:  "Show the first book whose column equals value. Findable columns: " + strings.Join(bookshelf.FindableColumns(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			row, ok := a.store.FindOne(args[0], args[1])
			if !ok {
				return fmt.Errorf("%s = %s: %w", args[0], args[1], errNotFound)
			}
			return printRow(cmd.OutOrStdout(), a.store.ColumnNames(), row)
		}),
	}
}

func (a *app) isbnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "isbn <value>",
		Short: "Show the book with the given ISBN-10 or ISBN-13",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			row, ok := a.store.FindISBN(args[0])
			if !ok {
				return fmt.Errorf("ISBN %s: %w", args[0], errNotFound)
			}
			return printISBNRow(cmd.OutOrStdout(), a.store.ColumnNames(), row)
		}),
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <values...>",
		Short: "Replace every column of a book",
		Long:  "Replace every column of a book. Values are given in column order, starting with the id.",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			columns := a.store.ColumnNames()
			if len(args)-1 != len(columns) {
				return fmt.Errorf("expected %d values (%s), got %d", len(columns), strings.Join(columns, ", "), len(args)-1)
			}
			if rowID, err := parseID(args[1]); err != nil || rowID != id {
				return fmt.Errorf("%w: id column %q does not match %d", bookshelf.ErrInvalidID, args[1], id)
			}

			values := make([]interface{}, len(args)-1)
			for i, v := range args[1:] {
				values[i] = bookshelf.ParseCell(v)
			}
			values[0] = bookshelf.FormatID(id)
			return a.store.EditRow(cmd.Context(), id, values)
		}),
	}
}

func (a *app) listCmd() *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every book",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			if len(columns) == 0 {
				return printView(cmd.OutOrStdout(), a.store.Snapshot())
			}
			view, err := a.store.SelectColumns(columns...)
			if err != nil {
				return err
			}
			return printView(cmd.OutOrStdout(), view)
		}),
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "only show these columns, in this order")
	return cmd
}

func (a *app) filterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <column> <value>",
		Short: "List the books whose column equals value",
		Long:  "List the books whose column equals value. Filterable columns: " + strings.Join(bookshelf.FilterableColumns(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			view, ok := a.store.FilterRows(args[0], args[1])
			if !ok {
				return fmt.Errorf("%w: %s", bookshelf.ErrUnknownColumn, args[0])
			}
			return printView(cmd.OutOrStdout(), view)
		}),
	}
}

func (a *app) distinctCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distinct <column>",
		Short: "List the distinct values of a column",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			values, ok := a.store.DistinctValues(args[0])
			if !ok {
				return fmt.Errorf("%w: %s is neither findable nor filterable", bookshelf.ErrUnknownColumn, args[0])
			}
			t := newTableWriter(cmd.OutOrStdout())
			for _, v := range values {
				t.row(v)
			}
			return t.flush()
		}),
	}
}

func (a *app) columnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns of the table",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			findable := bookshelf.FindableColumns()
			filterable := bookshelf.FilterableColumns()

			t := newTableWriter(cmd.OutOrStdout())
			for _, col := range a.store.ColumnNames() {
				kind := ""
				switch {
				case containsString(findable, col):
					kind = "findable"
				case containsString(filterable, col):
					kind = "filterable"
				}
				t.row(col, kind)
			}
			return t.flush()
		}),
	}
}

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the collection",
	}

	group := func(use, short, metric string, fn func(string) ([]bookshelf.Group, bool)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <column>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
				groups, ok := fn(args[0])
				if !ok {
					return fmt.Errorf("%w: %s is not filterable", bookshelf.ErrUnknownColumn, args[0])
				}
				return printGroups(cmd.OutOrStdout(), args[0], metric, groups)
			}),
		}
	}

	cmd.AddCommand(
		group("count", "Count books per value of a column", "count", func(col string) ([]bookshelf.Group, bool) {
			return a.store.CountBy(col)
		}),
		group("mean", "Average rating per value of a column", "mean", func(col string) ([]bookshelf.Group, bool) {
			return a.store.MeanRatingBy(col)
		}),
		&cobra.Command{
			Use:   "range",
			Short: "Show the lowest and highest rating",
			Args:  cobra.NoArgs,
			RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
				min, max, ok := a.store.RatingRange()
				if !ok {
					return fmt.Errorf("no ratings: %w", errNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cellString(min), cellString(max))
				return nil
			}),
		},
	)
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", bookshelf.ErrInvalidID, s)
	}
	return id, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
