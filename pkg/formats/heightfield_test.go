package formats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseHeightField_Valid(t *testing.T) {
	data := []byte("3 2\n0 1 2\n3 4.5 -1\n")

	hf, err := ParseHeightField(data)
	if err != nil {
		t.Fatalf("ParseHeightField failed: %v", err)
	}
	if hf.Width != 3 || hf.Depth != 2 {
		t.Errorf("expected 3x2, got %dx%d", hf.Width, hf.Depth)
	}
	if got := hf.At(1, 1); got != 4.5 {
		t.Errorf("expected At(1,1)=4.5, got %v", got)
	}
	if got := hf.At(2, 1); got != -1 {
		t.Errorf("expected At(2,1)=-1, got %v", got)
	}
}

func TestParseHeightField_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrInvalidHeightHeader},
		{"bad width", "x 2\n", ErrInvalidHeightHeader},
		{"zero depth", "2 0\n", ErrInvalidHeightHeader},
		{"too large", "9000 1\n", ErrInvalidHeightHeader},
		{"truncated", "2 2\n1 2\n3\n", ErrTruncatedHeightData},
		{"bad sample", "2 1\n1 abc\n", ErrInvalidHeightSample},
		{"trailing", "1 1\n1 2\n", ErrTrailingHeightSample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeightField([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestHeightField_EncodeRoundTrip(t *testing.T) {
	hf := &HeightFieldData{Width: 2, Depth: 2, Samples: []float32{0, 0.25, 1.5, -3}}

	var buf bytes.Buffer
	if err := hf.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := ParseHeightField(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseHeightField failed: %v", err)
	}
	for i := range hf.Samples {
		if got.Samples[i] != hf.Samples[i] {
			t.Errorf("sample %d: expected %v, got %v", i, hf.Samples[i], got.Samples[i])
		}
	}
}

func TestParseHeightFieldFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.heightfield")
	if err := os.WriteFile(path, []byte("1 1\n7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	hf, err := ParseHeightFieldFile(path)
	if err != nil {
		t.Fatalf("ParseHeightFieldFile failed: %v", err)
	}
	if hf.At(0, 0) != 7 {
		t.Errorf("expected 7, got %v", hf.At(0, 0))
	}

	if _, err := ParseHeightFieldFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
