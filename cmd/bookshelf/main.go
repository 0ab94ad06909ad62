// Command bookshelf manages a book collection kept in a Google Sheets
// spreadsheet, an Excel workbook or a SQLite database.
package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env: %v", err)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
