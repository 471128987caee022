package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes rows as comma-separated values, one row per line.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
