package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"

	"github.com/timpalpant/deeprole/gamestate"
)

// OutputFilename returns a unique name for a file of Initializations
// generated from the given state.
func OutputFilename(dir string, state gamestate.GameState) string {
	name := fmt.Sprintf("%d_%d_%d_%s.csv.gz",
		state.NumSucceeds, state.NumFails, state.ProposeCount, uuid.New())
	return filepath.Join(dir, name)
}

// Writer saves Initializations as gzipped lines of comma-separated values.
type Writer struct {
	f  *os.File
	gz *gzip.Writer
	w  *bufio.Writer
}

// NewWriter creates the given file.
func NewWriter(filename string) (*Writer, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	gz := gzip.NewWriter(f)
	return &Writer{
		f:  f,
		gz: gz,
		w:  bufio.NewWriter(gz),
	}, nil
}

// Write appends one Initialization.
func (w *Writer) Write(in *Initialization) error {
	if _, err := w.w.WriteString(in.String()); err != nil {
		return err
	}

	return w.w.WriteByte('\n')
}

// Close flushes all buffered Initializations and closes the file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}

	if err := w.gz.Close(); err != nil {
		w.f.Close()
		return err
	}

	return w.f.Close()
}

// maxLineSize bounds the length of a single serialized Initialization.
const maxLineSize = 1 << 20

// ReadFile loads all Initializations from a file created with Writer.
func ReadFile(filename string) ([]*Initialization, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %v", filename)
	}
	defer gz.Close()

	var result []*Initialization
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		in, err := ParseInitialization(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "%v:%d", filename, lineNo)
		}

		result = append(result, in)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading %v", filename)
	}

	return result, nil
}
