package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMissingDir is returned when the database directory is not specified
	ErrMissingDir = errors.New("directory is required")

	// ErrNotADirectory is returned when Dir points at a file
	ErrNotADirectory = errors.New("not a directory")
)

// Config holds configuration for the SQLite backend
type Config struct {
	Dir           string // Directory holding one .db file per spreadsheet
	CreateMissing bool   // Create missing databases and tables instead of failing
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dir == "" {
		return ErrMissingDir
	}
	return nil
}

func (c *Config) path(spreadsheet string) string {
	if strings.EqualFold(filepath.Ext(spreadsheet), ".db") {
		return filepath.Join(c.Dir, spreadsheet)
	}
	return filepath.Join(c.Dir, spreadsheet+".db")
}

func (c *Config) ensureDir() error {
	info, err := os.Stat(c.Dir)
	if err == nil {
		if !info.IsDir() {
			return ErrNotADirectory
		}
		return nil
	}
	if os.IsNotExist(err) && c.CreateMissing {
		return os.MkdirAll(c.Dir, 0o755)
	}
	return err
}
