// Package npyio writes float32 arrays in the NumPy .npy and .npz formats,
// so that training data can be loaded directly in Python.
package npyio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
)

var order = binary.LittleEndian

// Array is a dense row-major float32 array.
type Array struct {
	Shape []int
	Data  []float32
}

// NewArray wraps data with the given shape.
func NewArray(data []float32, shape ...int) Array {
	return Array{Shape: shape, Data: data}
}

func (a Array) numElements() int {
	n := 1
	for _, dim := range a.Shape {
		n *= dim
	}
	return n
}

// Write encodes the array in .npy format.
func Write(w io.Writer, a Array) error {
	if n := a.numElements(); n != len(a.Data) {
		return fmt.Errorf("array of shape %v has %d elements, expected %d", a.Shape, len(a.Data), n)
	}

	if err := writeHeader(w, a.Shape); err != nil {
		return errors.Wrap(err, "error writing npy header")
	}

	var buf [4]byte
	for _, x := range a.Data {
		order.PutUint32(buf[:], math.Float32bits(x))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}

	return nil
}

// The following is adapted from: github.com/sbinet/npyio
var magic = [6]byte{'\x93', 'N', 'U', 'M', 'P', 'Y'}

const (
	majorVersion = byte(2)
	minorVersion = byte(0)
	// Magic, version and 4-byte header length.
	preambleSize = len(magic) + 2 + 4
	headerAlign  = 16
)

func shapeString(shape []int) string {
	dims := make([]string, len(shape))
	for i, dim := range shape {
		dims[i] = fmt.Sprint(dim)
	}

	if len(dims) == 1 {
		return "(" + dims[0] + ",)"
	}

	return "(" + strings.Join(dims, ", ") + ")"
}

func writeHeader(w io.Writer, shape []int) error {
	if err := binary.Write(w, order, magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, order, majorVersion); err != nil {
		return err
	}
	if err := binary.Write(w, order, minorVersion); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf,
		"{'descr': '<f4', 'fortran_order': False, 'shape': %s, }",
		shapeString(shape))

	// The data must start on an aligned offset, and the header ends in a newline.
	padding := (headerAlign - (preambleSize+buf.Len()+1)%headerAlign) % headerAlign
	buf.Write(bytes.Repeat([]byte{'\x20'}, padding))
	buf.WriteByte('\n')

	buflen := int64(buf.Len())
	if err := binary.Write(w, order, uint32(buflen)); err != nil {
		return err
	}

	if n, err := io.Copy(w, buf); err != nil {
		return err
	} else if n < buflen {
		return io.ErrShortWrite
	}

	return nil
}
