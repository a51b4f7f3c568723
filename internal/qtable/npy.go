package qtable

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
)

// Load failure kinds. Callers tell them apart with errors.Is.
var (
	// ErrUnreadable means the file is missing or cannot be opened/read.
	ErrUnreadable = errors.New("qtable: unreadable file")
	// ErrCorrupt means the content is not a float64 C-order .npy array.
	ErrCorrupt = errors.New("qtable: corrupt file")
	// ErrEmpty means the file exists but holds no bytes.
	ErrEmpty = errors.New("qtable: empty file")
	// ErrShapeMismatch means the stored shape differs from the expected one.
	ErrShapeMismatch = errors.New("qtable: shape mismatch")
)

const (
	npyMagic = "\x93NUMPY"
	npyDescr = "<f8"
	npyAlign = 64
)

// Save writes t to path as a NumPy v1.0 .npy file, creating the containing
// directory if absent. The file is written next to its destination and
// renamed into place.
func Save(t *Table, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("qtable: create directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("qtable: save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, t); err != nil {
		tmp.Close()
		return fmt.Errorf("qtable: save %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("qtable: save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("qtable: save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("qtable: save %s: %w", path, err)
	}
	return nil
}

// Encode writes the .npy representation of t to w.
func Encode(w io.Writer, t *Table) error {
	if _, err := w.Write(header(t.shape)); err != nil {
		return err
	}
	buf := make([]byte, 8)
	for _, v := range t.Data() {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// header builds a v1.0 header whose total length is a multiple of 64 bytes,
// ending in a newline.
func header(shape []int) []byte {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", npyDescr, tuple)

	// magic(6) + version(2) + header length(2)
	prefix := len(npyMagic) + 2 + 2
	total := prefix + len(dict) + 1
	if rem := total % npyAlign; rem != 0 {
		total += npyAlign - rem
	}
	dict += strings.Repeat(" ", total-prefix-len(dict)-1) + "\n"

	var b bytes.Buffer
	b.WriteString(npyMagic)
	b.WriteByte(1) // major
	b.WriteByte(0) // minor
	binary.Write(&b, binary.LittleEndian, uint16(len(dict)))
	b.WriteString(dict)
	return b.Bytes()
}

// Load reads a table from a .npy file. Failures wrap ErrUnreadable,
// ErrEmpty or ErrCorrupt.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qtable: load %s: %w: %w", path, ErrUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("qtable: load %s: %w: %w", path, ErrUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("qtable: load %s: %w: is a directory", path, ErrUnreadable)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("qtable: load %s: %w", path, ErrEmpty)
	}

	t, err := decode(bufio.NewReader(f), info.Size())
	if err != nil {
		return nil, fmt.Errorf("qtable: load %s: %w", path, err)
	}
	return t, nil
}

// Decode reads a .npy array from r. Any malformed content wraps ErrCorrupt.
func Decode(r io.Reader) (*Table, error) {
	return decode(r, -1)
}

// decode is Decode with the byte size of the whole input when known
// (negative otherwise); a header claiming more payload than that is corrupt.
func decode(r io.Reader, size int64) (*Table, error) {
	npy, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	descr := npy.Header.Descr
	if descr.Type != npyDescr {
		return nil, fmt.Errorf("%w: dtype %q, want %q", ErrCorrupt, descr.Type, npyDescr)
	}
	if descr.Fortran {
		return nil, fmt.Errorf("%w: fortran order is not supported", ErrCorrupt)
	}

	n, ok := cells(descr.Shape)
	if !ok || len(descr.Shape) < 2 {
		return nil, fmt.Errorf("%w: shape %v", ErrCorrupt, descr.Shape)
	}
	if size >= 0 && int64(n) > size/8 {
		return nil, fmt.Errorf("%w: shape %v needs %d values, file has %d bytes", ErrCorrupt, descr.Shape, n, size)
	}

	var data []float64
	if err := npy.Read(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	t, err := FromData(descr.Shape, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return t, nil
}

// LoadShaped loads a table and checks that its shape equals shape.
func LoadShaped(path string, shape []int) (*Table, error) {
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(t.shape, shape) {
		return nil, fmt.Errorf("qtable: load %s: %w: stored %v, configured %v",
			path, ErrShapeMismatch, t.shape, shape)
	}
	return t, nil
}

// LoadAny tries each candidate path in order and returns the first table
// that loads with the expected shape, along with its path. When all fail,
// the error joins every failure.
func LoadAny(shape []int, paths ...string) (*Table, string, error) {
	if len(paths) == 0 {
		return nil, "", fmt.Errorf("qtable: no candidate files: %w", ErrUnreadable)
	}
	var errs []error
	for _, p := range paths {
		t, err := LoadShaped(p, shape)
		if err == nil {
			return t, p, nil
		}
		errs = append(errs, err)
	}
	return nil, "", errors.Join(errs...)
}
