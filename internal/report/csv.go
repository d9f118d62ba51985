// Package report writes run artifacts: the statistics CSV and the run
// summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/AndreyAkinshin/benchcheck/internal/stats"
)

// CSVHeader returns the header row of the statistics CSV.
func CSVHeader() []string {
	return append([]string{"test name"}, stats.FieldNames...)
}

// CSVWriter appends one row per executed test to a statistics CSV. Rows are
// flushed as they are written so an interrupted run keeps its results.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter writes the header to w and returns a writer for the rows.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{w: csv.NewWriter(w)}
	if err := cw.writeRow(CSVHeader()); err != nil {
		return nil, err
	}
	return cw, nil
}

// CreateCSV creates (or truncates) the file at path and writes the header.
// The caller must Close the writer.
func CreateCSV(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create statistics file: %w", err)
	}
	cw, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	cw.closer = f
	return cw, nil
}

// Write appends the row for test id: the identifier followed by every
// numeric token of the statistics block, as printed by the renderer.
func (c *CSVWriter) Write(id string, rec *stats.Record) error {
	return c.writeRow(append([]string{id}, rec.Tokens...))
}

func (c *CSVWriter) writeRow(row []string) error {
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("failed to write statistics row: %w", err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("failed to write statistics row: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the underlying file, if the writer
// owns one.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	err := c.w.Error()
	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
