package ingest

import (
	"io"
	"path/filepath"
	"regexp"
)

// FormField is the multipart field the API reads the spreadsheet from.
const FormField = "file"

// Spreadsheet content types the drop target advertises.
const (
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEXLS  = "application/vnd.ms-excel"
)

// Case-sensitive on purpose: "REPORT.XLSX" is rejected.
var spreadsheetName = regexp.MustCompile(`\.(xlsx|xls)$`)

// File is one dropped spreadsheet. Body is read once, by the upload.
type File struct {
	Name string
	Body io.Reader
}

// ValidateFileName checks the extension of a dropped file.
func ValidateFileName(name string) error {
	if !spreadsheetName.MatchString(name) {
		return &ValidationError{Name: name, Message: invalidTypeMessage}
	}
	return nil
}

// ContentType maps a validated file name onto its spreadsheet MIME type.
func ContentType(name string) string {
	if filepath.Ext(name) == ".xls" {
		return MIMEXLS
	}
	return MIMEXLSX
}
