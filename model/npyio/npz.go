package npyio

import (
	"bufio"
	"os"
	"sort"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// MakeNPZ saves each array as <name>.npy within a single .npz archive.
func MakeNPZ(output string, arrays map[string]Array) error {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	b := bufio.NewWriter(f)
	z := zip.NewWriter(b)

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w, err := z.Create(name + ".npy")
		if err != nil {
			return err
		}

		if err := Write(w, arrays[name]); err != nil {
			return errors.Wrapf(err, "error writing %v to %v", name, output)
		}
	}

	if err := z.Close(); err != nil {
		return err
	}

	if err := b.Flush(); err != nil {
		return err
	}

	return f.Close()
}
