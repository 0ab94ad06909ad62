package bookshelf

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultCover is the placeholder image used when a book has no cover
const DefaultCover = "picApp/cover/default_cover.png"

// Registry is the part of the Store a Book needs to obtain an id and persist itself
type Registry interface {
	LastAssignedID(ctx context.Context) (int, error)
	Add(ctx context.Context, book *Book) error
}

// BookInput carries user supplied book details. Rating is raw text.
type BookInput struct {
	TitleLocal   string
	TitleForeign string
	Author       string
	Publisher    string
	ISBN         string
	Category     string
	Rating       string
	Status       string
	Location     string
	Cover        string
}

// Book is one row of the collection. Its id is assigned by NewBook.
type Book struct {
	id           string
	TitleLocal   string
	TitleForeign string
	Author       string
	Publisher    string
	ISBN         string
	Category     string
	Rating       float64
	Status       string
	Location     string
	Cover        string
}

// NewBook builds a book from input, assigns it the next id and stores it.
// An unparsable rating is stored as 0.
func NewBook(ctx context.Context, registry Registry, in BookInput) (*Book, error) {
	book := &Book{
		TitleLocal:   in.TitleLocal,
		TitleForeign: in.TitleForeign,
		Author:       in.Author,
		Publisher:    in.Publisher,
		ISBN:         in.ISBN,
		Category:     in.Category,
		Rating:       ParseRating(in.Rating),
		Status:       in.Status,
		Location:     in.Location,
		Cover:        coverOrDefault(in.Cover),
	}

	last, err := registry.LastAssignedID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to assign book id: %w", err)
	}
	book.id = FormatID(last + 1)

	if err := registry.Add(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ID returns the zero-padded id, e.g. "007"
func (b *Book) ID() string {
	return b.id
}

// Values returns the book as a row in Header order
func (b *Book) Values() []interface{} {
	return []interface{}{
		b.id,
		b.TitleLocal,
		b.TitleForeign,
		b.Author,
		b.Publisher,
		b.ISBN,
		b.Category,
		b.Rating,
		b.Status,
		b.Location,
		b.Cover,
	}
}

// ParseRating parses s as a float and falls back to 0
func ParseRating(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FormatID renders n as a three digit, zero-padded id
func FormatID(n int) string {
	return fmt.Sprintf("%03d", n)
}

func coverOrDefault(cover string) string {
	if strings.TrimSpace(cover) == "" {
		return DefaultCover
	}
	return cover
}
