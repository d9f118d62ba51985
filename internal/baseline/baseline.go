// Package baseline loads historical benchmark results used as the regression
// reference.
package baseline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/benchcheck/internal/errors"
)

// MinColumns is the number of columns a data row must have.
const MinColumns = 6

// scoreColumn is the index of the expected score within a row.
const scoreColumn = 5

// Table maps test-run identifiers to expected scores. The zero value is an
// empty table. A Table is never modified after loading.
type Table struct {
	scores map[string]float64
}

// Empty returns a table with no entries. Every score check against it passes.
func Empty() Table {
	return Table{}
}

// Lookup returns the expected score for id.
func (t Table) Lookup(id string) (float64, bool) {
	score, ok := t.scores[id]
	return score, ok
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.scores)
}

// IDs returns the identifiers in the table, sorted.
func (t Table) IDs() []string {
	ids := make([]string, 0, len(t.scores))
	for id := range t.scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load reads a baseline file. An empty path yields an empty table.
func Load(path string) (Table, error) {
	if path == "" {
		return Empty(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrap(err, fmt.Sprintf("failed to open baseline file: %v", err))
	}
	defer func() { _ = f.Close() }()

	return Parse(f, path)
}

// Parse reads comma-separated baseline data: a header row followed by rows of
// [identifier, max, min, median, median abs dev, score, ...]. The identifier
// is the key and the sixth column the expected score. If an identifier
// appears more than once, the last row wins. name is used in error messages.
func Parse(r io.Reader, name string) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	scores := make(map[string]float64)
	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			if pe, ok := err.(*csv.ParseError); ok {
				line = pe.Line
			}
			return Table{}, errors.MalformedBaseline(name, line, err.Error())
		}
		line, _ := reader.FieldPos(0)
		if header {
			header = false
			continue
		}

		if len(row) < MinColumns {
			return Table{}, errors.MalformedBaseline(name, line,
				fmt.Sprintf("expected at least %d columns, got %d", MinColumns, len(row)))
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(row[scoreColumn]), 64)
		if err != nil {
			return Table{}, errors.MalformedBaseline(name, line,
				fmt.Sprintf("score column %q is not numeric", row[scoreColumn]))
		}
		scores[row[0]] = score
	}

	return Table{scores: scores}, nil
}
