package dbfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/BassBess/generator2/internal/position"
)

// ReadError wraps a failure encountered while reading or validating a
// database file.
type ReadError struct {
	Stage string
	Err   error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("dbfile: %s: %v", e.Stage, e.Err)
}

func (e ReadError) Unwrap() error { return e.Err }

// Table is a loaded critical-positions database, ready for lookups. It
// exists in this repository only to exercise the consumer-side lookup
// algorithm the format is designed around (§6); the actual playing agent
// that would use it in production is out of scope.
type Table struct {
	MinPly, MaxPly byte
	keys           []uint32
	values         []uint8
}

// Read loads and validates a database file written by Write.
func Read(r io.Reader) (*Table, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, ReadError{Stage: "header", Err: err}
	}
	if header[0] != position.Width || header[1] != position.Height {
		return nil, ReadError{Stage: "header", Err: fmt.Errorf("unexpected board size %dx%d", header[0], header[1])}
	}
	if header[4] != 4 || header[5] != 1 {
		return nil, ReadError{Stage: "header", Err: fmt.Errorf("unexpected key/value widths %d/%d", header[4], header[5])}
	}

	tableSize := binary.LittleEndian.Uint32(header[8:12])

	rawKeys := make([]byte, int(tableSize)*4)
	if _, err := io.ReadFull(r, rawKeys); err != nil {
		return nil, ReadError{Stage: "keys", Err: err}
	}
	values := make([]byte, tableSize)
	if _, err := io.ReadFull(r, values); err != nil {
		return nil, ReadError{Stage: "values", Err: err}
	}

	keys := make([]uint32, tableSize)
	for i := range keys {
		keys[i] = binary.LittleEndian.Uint32(rawKeys[i*4:])
	}

	return &Table{
		MinPly: header[2],
		MaxPly: header[3],
		keys:   keys,
		values: values,
	}, nil
}

// Lookup probes the table for hash64 (a position's Key()), following the
// same linear-probe sequence Write used to insert it. It returns false
// once an empty slot (partial key 0) is reached, or if hash64 is not
// found within one full pass of the table (a defensive bound: with a
// file written by Write the table always has spare capacity, so a full
// pass only happens against a corrupt or foreign file).
func (t *Table) Lookup(hash64 uint64) (column uint8, ok bool) {
	n := uint64(len(t.keys))
	if n == 0 {
		return 0, false
	}
	want := uint32(hash64 >> 16)
	idx := hash64 % n
	for i := uint64(0); i < n; i++ {
		k := t.keys[idx]
		if k == 0 {
			return 0, false
		}
		if k == want {
			return t.values[idx], true
		}
		idx = (idx + 1) % n
	}
	return 0, false
}

// Size returns the number of slots in the table (the prime table_size
// chosen by Write, not the entry count).
func (t *Table) Size() int {
	return len(t.keys)
}
