package npyio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

func TestWrite(t *testing.T) {
	testCases := []struct {
		array Array
		shape string
	}{
		{NewArray([]float32{1, 2, 3}, 3), "(3,)"},
		{NewArray([]float32{1, 2, 3, 4, 5, 6}, 2, 3), "(2, 3)"},
		{NewArray(nil, 0, 65), "(0, 65)"},
	}

	for _, tc := range testCases {
		var buf bytes.Buffer
		if err := Write(&buf, tc.array); err != nil {
			t.Fatal(err)
		}

		data := buf.Bytes()
		if !bytes.HasPrefix(data, magic[:]) {
			t.Fatalf("missing magic: %q", data[:8])
		}

		headerLen := int(binary.LittleEndian.Uint32(data[8:12]))
		if (preambleSize+headerLen)%headerAlign != 0 {
			t.Errorf("header of length %d is not aligned", headerLen)
		}

		header := string(data[preambleSize : preambleSize+headerLen])
		if !strings.Contains(header, "'shape': "+tc.shape) || !strings.HasSuffix(header, "\n") {
			t.Errorf("unexpected header: %q", header)
		}

		body := data[preambleSize+headerLen:]
		if len(body) != 4*len(tc.array.Data) {
			t.Fatalf("body has %d bytes, expected %d", len(body), 4*len(tc.array.Data))
		}

		for i, x := range tc.array.Data {
			got := math.Float32frombits(binary.LittleEndian.Uint32(body[4*i:]))
			if got != x {
				t.Errorf("element %d: got %v, expected %v", i, got, x)
			}
		}
	}
}

func TestWrite_ShapeMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, NewArray([]float32{1, 2, 3}, 2, 2)); err == nil {
		t.Errorf("expected error for mismatched shape")
	}
}

func TestMakeNPZ(t *testing.T) {
	output := filepath.Join(t.TempDir(), "batch.npz")
	arrays := map[string]Array{
		"X": NewArray([]float32{1, 2, 3, 4}, 2, 2),
		"Y": NewArray([]float32{5, 6}, 2),
	}

	if err := MakeNPZ(output, arrays); err != nil {
		t.Fatal(err)
	}

	r, err := zip.OpenReader(output)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if len(r.File) != 2 {
		t.Fatalf("archive has %d files, expected 2", len(r.File))
	}

	for i, name := range []string{"X", "Y"} {
		f := r.File[i]
		if f.Name != name+".npy" {
			t.Errorf("file %d is %v, expected %v.npy", i, f.Name, name)
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}

		var expected bytes.Buffer
		if err := Write(&expected, arrays[name]); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, expected.Bytes()) {
			t.Errorf("%v.npy does not match", name)
		}
	}
}
