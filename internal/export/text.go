package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText renders rows as an aligned plain-text table for terminals.
func WriteText(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
	}
	return tw.Flush()
}
