package excel

import "errors"

var (
	// ErrMissingDir is returned when the workbook directory is not specified
	ErrMissingDir = errors.New("directory is required")

	// ErrNotADirectory is returned when Dir points at a file
	ErrNotADirectory = errors.New("not a directory")

	// ErrInvalidFileFormat is returned when the file is not a valid Excel file
	ErrInvalidFileFormat = errors.New("invalid Excel file format")
)
