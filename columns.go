package bookshelf

// Column names of the book table, in sheet order
const (
	ColumnBookID       = "BookID"
	ColumnTitleLocal   = "Name(TH)"
	ColumnTitleForeign = "Name(EN)"
	ColumnAuthor       = "Author"
	ColumnPublisher    = "Publisher"
	ColumnISBN         = "ISBN"
	ColumnCategory     = "Category"
	ColumnRating       = "Rating"
	ColumnStatus       = "Status"
	ColumnLocation     = "Location"
	ColumnCover        = "Cover"
)

// Header is the fixed first row of every book table
var Header = []string{
	ColumnBookID,
	ColumnTitleLocal,
	ColumnTitleForeign,
	ColumnAuthor,
	ColumnPublisher,
	ColumnISBN,
	ColumnCategory,
	ColumnRating,
	ColumnStatus,
	ColumnLocation,
	ColumnCover,
}

// Columns that identify a single book
var findableColumns = []string{
	ColumnBookID,
	ColumnTitleLocal,
	ColumnTitleForeign,
	ColumnISBN,
}

// Columns that group books
var filterableColumns = []string{
	ColumnAuthor,
	ColumnPublisher,
	ColumnCategory,
	ColumnRating,
	ColumnStatus,
	ColumnLocation,
	ColumnCover,
}

// FindableColumns returns the columns eligible for single-row lookup
func FindableColumns() []string {
	return append([]string(nil), findableColumns...)
}

// FilterableColumns returns the columns eligible for equality filtering
func FilterableColumns() []string {
	return append([]string(nil), filterableColumns...)
}

func isFindable(column string) bool {
	return contains(findableColumns, column)
}

func isFilterable(column string) bool {
	return contains(filterableColumns, column)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
