package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	bookshelf "github.com/ideamans/go-bookshelf"
	"github.com/ideamans/go-bookshelf/adapters/excel"
	"github.com/ideamans/go-bookshelf/adapters/googlesheets"
	"github.com/ideamans/go-bookshelf/adapters/sqlite"
)

const (
	envBackend     = "BOOKSHELF_BACKEND"
	envCredentials = "BOOKSHELF_CREDENTIALS"
	envDir         = "BOOKSHELF_DIR"
	envSpreadsheet = "BOOKSHELF_SPREADSHEET"
	envTable       = "BOOKSHELF_TABLE"
)

// settings are the global flags, defaulted from the environment
type settings struct {
	Backend     string `validate:"required,oneof=sheets excel sqlite"`
	Credentials string `validate:"omitempty,file"`
	Dir         string `validate:"required_unless=Backend sheets"`
	Spreadsheet string `validate:"required"`
	Table       string `validate:"required"`
	Create      bool
	Verbose     bool
}

func defaultSettings(getenv func(string) string) settings {
	s := settings{
		Backend:     getenv(envBackend),
		Credentials: getenv(envCredentials),
		Dir:         getenv(envDir),
		Spreadsheet: getenv(envSpreadsheet),
		Table:       getenv(envTable),
	}
	if s.Backend == "" {
		s.Backend = "sheets"
	}
	if s.Table == "" {
		s.Table = "Sheet1"
	}
	return s
}

func (s settings) validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// authenticator builds the backend named by s.Backend
func (s settings) authenticator() (bookshelf.Authenticator, error) {
	switch s.Backend {
	case "sheets":
		return googlesheets.Credentials{KeyFile: s.Credentials}, nil
	case "excel":
		return excel.New(&excel.Config{Dir: s.Dir, CreateMissing: s.Create})
	case "sqlite":
		return sqlite.New(&sqlite.Config{Dir: s.Dir, CreateMissing: s.Create})
	}
	return nil, fmt.Errorf("unknown backend %q", s.Backend)
}
