package areacodes

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
)

// GobDump saves obj as gzip compressed GOB data
func GobDump(filename string, obj any) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(obj); err != nil {
		f.Close()
		return fmt.Errorf("encode %q: %w", filename, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// GobLoad reads gzip compressed GOB data into obj
func GobLoad(filename string, obj any) error {
	f, err := os.Open(filename)
	if err != nil {
		return notFound(filename, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip %q: %w", filename, err)
	}
	defer zr.Close()

	if err := gob.NewDecoder(zr).Decode(obj); err != nil {
		return fmt.Errorf("decode %q: %w", filename, err)
	}
	return nil
}
