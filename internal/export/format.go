package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownFormat indicates an export format that has no encoder.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is a downloadable export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Formats lists the file formats in menu order.
var Formats = []Format{FormatCSV, FormatXLSX, FormatPDF}

// BaseFilename is the file name, without extension, of every export.
const BaseFilename = "exchange_rates"

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Filename returns the download file name, e.g. exchange_rates.csv.
func (f Format) Filename() string {
	return BaseFilename + "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Encode writes the export table (header row first) in the given format.
func Encode(w io.Writer, f Format, rows [][]string) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatPDF:
		return WritePDF(w, rows, PDFOptions{Compress: true})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
