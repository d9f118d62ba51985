// Package ppm reads the images written by the benchmark renderer and compares
// them against reference images.
//
// The reader understands only what the renderer writes: a three-line text
// header followed by interleaved 8-bit RGB samples. It is not a general PPM
// decoder. The magic line and the max-value line are read but not checked,
// and any payload past 3*width*height bytes is dropped.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultMaxDiffPerChannel is the largest accepted difference between two
// corresponding bytes. Zero requires an exact match.
const DefaultMaxDiffPerChannel = 0

// Image is a decoded renderer image.
type Image struct {
	Width  int
	Height int
	Pix    []byte // interleaved RGB, possibly shorter than 3*Width*Height
}

// Decode reads an image from r.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	if _, err := readLine(br); err != nil {
		return nil, fmt.Errorf("ppm: read magic line: %w", err)
	}
	dims, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("ppm: read dimensions line: %w", err)
	}
	width, height, err := parseDimensions(dims)
	if err != nil {
		return nil, err
	}
	if _, err := readLine(br); err != nil {
		return nil, fmt.Errorf("ppm: read max value line: %w", err)
	}

	size := int64(3) * int64(width) * int64(height)
	pix, err := io.ReadAll(io.LimitReader(br, size))
	if err != nil {
		return nil, fmt.Errorf("ppm: read pixels: %w", err)
	}

	return &Image{Width: width, Height: height, Pix: pix}, nil
}

// Load reads an image from a file.
func Load(path string) (*Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("ppm: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

func parseDimensions(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("ppm: dimensions line %q: expected width and height", strings.TrimSpace(line))
	}
	width, err := strconv.Atoi(fields[0])
	if err != nil || width < 0 {
		return 0, 0, fmt.Errorf("ppm: invalid width %q", fields[0])
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil || height < 0 {
		return 0, 0, fmt.Errorf("ppm: invalid height %q", fields[1])
	}
	return width, height, nil
}

// Equal reports whether a and b have the same length and every pair of
// corresponding bytes differs by at most maxDiff.
func Equal(a, b []byte, maxDiff int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if absDiff(a[i], b[i]) > maxDiff {
			return false
		}
	}
	return true
}

// DiffStats describes where two equally sized samples disagree.
type DiffStats struct {
	Mismatched  int // bytes differing by more than the tolerance
	FirstOffset int // offset of the first mismatched byte, -1 if none
	MaxDiff     int // largest difference seen
}

// Diff counts the out-of-tolerance bytes of a and b, compared up to the
// shorter length.
func Diff(a, b []byte, maxDiff int) DiffStats {
	d := DiffStats{FirstOffset: -1}
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		diff := absDiff(a[i], b[i])
		if diff > d.MaxDiff {
			d.MaxDiff = diff
		}
		if diff > maxDiff {
			if d.FirstOffset < 0 {
				d.FirstOffset = i
			}
			d.Mismatched++
		}
	}
	return d
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Comparator compares rendered images against reference images.
type Comparator struct {
	MaxDiffPerChannel int
}

// NewComparator returns a comparator with the given per-byte tolerance.
func NewComparator(maxDiff int) Comparator {
	return Comparator{MaxDiffPerChannel: maxDiff}
}

// Result is the verdict of an image comparison.
type Result struct {
	Match   bool
	Skipped bool // one of the files does not exist
	Diff    DiffStats
}

// CompareFiles compares the image at candidate with the one at reference.
// If either file does not exist there is nothing to judge and the comparison
// passes. An existing file that cannot be decoded is an error.
func (c Comparator) CompareFiles(candidate, reference string) (Result, error) {
	if !isFile(candidate) || !isFile(reference) {
		return Result{Match: true, Skipped: true}, nil
	}

	got, err := Load(candidate)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", candidate, err)
	}
	want, err := Load(reference)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", reference, err)
	}

	return Result{
		Match: Equal(got.Pix, want.Pix, c.MaxDiffPerChannel),
		Diff:  Diff(got.Pix, want.Pix, c.MaxDiffPerChannel),
	}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
