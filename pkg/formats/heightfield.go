// Package formats provides parsers for the woodland terrain data files.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Heightfield format errors.
var (
	ErrInvalidHeightHeader  = errors.New("invalid heightfield header: expected 'width depth'")
	ErrTruncatedHeightData  = errors.New("truncated heightfield data")
	ErrInvalidHeightSample  = errors.New("invalid heightfield sample")
	ErrTrailingHeightSample = errors.New("unexpected data after heightfield samples")
)

// MaxHeightFieldDim bounds each dimension of a heightfield file.
const MaxHeightFieldDim = 8192

// HeightFieldData is a parsed heightfield file.
// Samples are row-major: index = row*Width + col, where col runs along
// world x and row along world z.
type HeightFieldData struct {
	Width   int
	Depth   int
	Samples []float32
}

// At returns the sample at (col, row). The caller must bounds-check.
func (h *HeightFieldData) At(col, row int) float32 {
	return h.Samples[row*h.Width+col]
}

// ParseHeightField parses a heightfield file from raw bytes.
//
// Layout is whitespace separated text:
//
//	width depth
//	s(0,0) s(1,0) ... s(width-1,0)
//	...
//	s(0,depth-1) ... s(width-1,depth-1)
func ParseHeightField(data []byte) (*HeightFieldData, error) {
	return ReadHeightField(bytes.NewReader(data))
}

// ReadHeightField parses a heightfield from r.
func ReadHeightField(r io.Reader) (*HeightFieldData, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	width, err := readDim(next)
	if err != nil {
		return nil, err
	}
	depth, err := readDim(next)
	if err != nil {
		return nil, err
	}

	hf := &HeightFieldData{
		Width:   width,
		Depth:   depth,
		Samples: make([]float32, width*depth),
	}

	for i := range hf.Samples {
		tok, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("reading heightfield: %w", err)
			}
			return nil, fmt.Errorf("%w: got %d of %d samples", ErrTruncatedHeightData, i, len(hf.Samples))
		}
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, fmt.Errorf("%w at row %d col %d: %q", ErrInvalidHeightSample, i/width, i%width, tok)
		}
		hf.Samples[i] = float32(v)
	}

	if tok, ok := next(); ok {
		return nil, fmt.Errorf("%w: %q", ErrTrailingHeightSample, tok)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading heightfield: %w", err)
	}

	return hf, nil
}

func readDim(next func() (string, bool)) (int, error) {
	tok, ok := next()
	if !ok {
		return 0, ErrInvalidHeightHeader
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 || n > MaxHeightFieldDim {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHeightHeader, tok)
	}
	return n, nil
}

// ParseHeightFieldFile reads and parses a heightfield from disk.
func ParseHeightFieldFile(path string) (*HeightFieldData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heightfield file: %w", err)
	}
	return ParseHeightField(data)
}

// Encode writes the heightfield in the text layout accepted by ParseHeightField.
func (h *HeightFieldData) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", h.Width, h.Depth)
	for row := 0; row < h.Depth; row++ {
		for col := 0; col < h.Width; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(float64(h.At(col, row)), 'g', -1, 32))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
