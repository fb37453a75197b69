package cli

import (
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
)

// OutputFormatter renders command results as text tables or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

// Table writes rows under header in text mode, or v as JSON otherwise.
func (f *OutputFormatter) Table(header []string, rows [][]string, v interface{}) error {
	if f.Format == "json" {
		return f.JSON(v)
	}

	table := tablewriter.NewWriter(f.Writer)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// JSON writes v as indented JSON.
func (f *OutputFormatter) JSON(v interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
