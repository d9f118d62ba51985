// Package stats extracts performance statistics from renderer output.
package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/benchcheck/internal/errors"
)

// Marker is the literal that opens the statistics block in renderer output.
const Marker = "Statistics"

// FatalMarker prefixes a fatal error line in the renderer's error stream.
const FatalMarker = "#ospsg: FATAL "

// scoreIndex is the position of the score among the parsed fields.
const scoreIndex = 4

// Field names of the statistics block, in output order. They double as the
// column names of the statistics CSV.
var FieldNames = []string{"max", "min", "median", "median abs dev", "mean", "std dev", "no. of samples"}

// Record is the statistics block of one renderer run.
type Record struct {
	Max          float64
	Min          float64
	Median       float64
	MedianAbsDev float64
	Mean         float64 // the score used for regression checks
	StdDev       float64
	Samples      float64

	// Values holds every numeric token of the block in order of appearance.
	Values []float64
	// Tokens holds the same tokens as they appeared in the text.
	Tokens []string
	// Block is the statistics block text, starting at the marker.
	Block string
}

// Score returns the value regression checks compare against the baseline.
func (r *Record) Score() float64 {
	return r.Mean
}

// Parse locates the last statistics block in stdout and tokenizes it.
// Output without a block, or with fewer numeric fields than the score
// position requires, is a malformed-output error.
func Parse(stdout string) (*Record, error) {
	idx := strings.LastIndex(stdout, Marker)
	if idx < 0 {
		return nil, errors.MalformedOutput("statistics block not found in renderer output")
	}
	block := stdout[idx:]

	tokens := Tokenize(block)
	if len(tokens) <= scoreIndex {
		return nil, errors.MalformedOutput(fmt.Sprintf("statistics block has %d numeric fields, need at least %d", len(tokens), scoreIndex+1))
	}

	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			// Tokenize only yields well-formed numbers; overflow is the only way here.
			return nil, errors.MalformedOutput(fmt.Sprintf("statistics field %d: %v", i, err))
		}
		values[i] = v
	}

	rec := &Record{
		Values: values,
		Tokens: tokens,
		Block:  strings.TrimSpace(block),
	}
	fields := []*float64{&rec.Max, &rec.Min, &rec.Median, &rec.MedianAbsDev, &rec.Mean, &rec.StdDev, &rec.Samples}
	for i, f := range fields {
		if i < len(values) {
			*f = values[i]
		}
	}
	return rec, nil
}

// Tokenize returns the numeric tokens of text in order of appearance.
//
// A token is an optional '-' immediately followed by one or more digits,
// optionally followed by '.' and one or more digits. A '.' not followed by a
// digit ends the token without being part of it.
func Tokenize(text string) []string {
	var tokens []string
	i := 0
	for i < len(text) {
		start := i
		j := i
		if text[j] == '-' {
			j++
		}
		if j >= len(text) || !isDigit(text[j]) {
			i++
			continue
		}
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		if j+1 < len(text) && text[j] == '.' && isDigit(text[j+1]) {
			j++
			for j < len(text) && isDigit(text[j]) {
				j++
			}
		}
		tokens = append(tokens, text[start:j])
		i = j
	}
	return tokens
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// DetectFatal scans stderr for a fatal error line and returns the message that
// follows the marker. When several fatal lines are present the last one wins.
func DetectFatal(stderr string) (string, bool) {
	idx := strings.LastIndex(stderr, FatalMarker)
	if idx < 0 {
		return "", false
	}
	msg := stderr[idx+len(FatalMarker):]
	if end := strings.IndexAny(msg, "\r\n"); end >= 0 {
		msg = msg[:end]
	}
	return msg, true
}
