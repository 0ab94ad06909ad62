package excel

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds configuration for the Excel backend
type Config struct {
	Dir           string // Directory holding one .xlsx file per spreadsheet
	CreateMissing bool   // Create missing workbooks and worksheets instead of failing
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dir == "" {
		return ErrMissingDir
	}
	return nil
}

// path returns the workbook file for a spreadsheet name
func (c *Config) path(spreadsheet string) string {
	if strings.EqualFold(filepath.Ext(spreadsheet), ".xlsx") {
		return filepath.Join(c.Dir, spreadsheet)
	}
	return filepath.Join(c.Dir, spreadsheet+".xlsx")
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
		return os.MkdirAll(c.Dir, 0755)
	}
	return err
}
