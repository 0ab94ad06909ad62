package googlesheets

import (
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// Scopes are the OAuth scopes the backend needs: read/write access to
// spreadsheets and read access to Drive metadata to find them by title.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveMetadataReadonlyScope,
}

// spreadsheetMimeType identifies Google Sheets files in Drive
const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// readColumns bounds the columns read from a worksheet
const readColumns = "A:ZZ"

// Numbers and booleans come back typed; text comes back exactly as written
const valueRenderOption = "UNFORMATTED_VALUE"
