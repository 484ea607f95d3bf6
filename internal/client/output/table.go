package output

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// TableWriter renders aligned columns on stdout for list-style command
// output.
type TableWriter struct {
	writer *tabwriter.Writer
}

// NewTableWriter creates a table writer with two-space column padding
func NewTableWriter() *TableWriter {
	return &TableWriter{
		writer: tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0),
	}
}

// WriteHeader writes the column header row
func (t *TableWriter) WriteHeader(headers ...string) {
	fmt.Fprintln(t.writer, strings.Join(headers, "\t"))
}

// WriteRow writes a single data row
func (t *TableWriter) WriteRow(values ...string) {
	fmt.Fprintln(t.writer, strings.Join(values, "\t"))
}

// Flush writes buffered output
func (t *TableWriter) Flush() error {
	return t.writer.Flush()
}

// PrintSuccess prints a success message with checkmark
func PrintSuccess(message string) {
	fmt.Printf("✓ %s\n", message)
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "✗ %s\n", message)
}

// PrintWarning prints a warning message to stderr
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "⚠ %s\n", message)
}
