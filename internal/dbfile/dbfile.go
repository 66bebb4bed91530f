// Package dbfile implements the on-disk critical-positions database: an
// open-addressed, linear-probed hash file mapping a position fingerprint
// to the column index of its unique non-obvious winning move.
//
// The format is fixed by the downstream consumer (a separate playing
// agent, out of scope here) and is deliberately simple: a 12-byte header
// followed by two flat arrays, so that consumer can memory-map the file
// and probe it without any parsing beyond reading the header once.
package dbfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/BassBess/generator2/internal/position"
)

// headerSize is the fixed byte length of the file header (§6 of the
// design this format implements).
const headerSize = 12

// Entry is one critical position: its 64-bit fingerprint and the column
// (0..Width-1) of its unique non-obvious winning move.
type Entry struct {
	Key    uint64
	Column uint8
}

// Header mirrors the fixed-format file header. Width and Height are
// always position.Width and position.Height; MinPly and MaxPly record the
// classifier's ply window so a consumer can reject a lookup outside it
// without a wasted probe.
type Header struct {
	MinPly byte
	MaxPly byte
}

// WriteError wraps a failure encountered while building or writing the
// database file. The caller (cmd/gencritdb) treats this as fatal per the
// design's error-handling policy: report and abort without leaving a
// partial file claiming completeness.
type WriteError struct {
	Stage string
	Err   error
}

func (e WriteError) Error() string {
	return fmt.Sprintf("dbfile: %s: %v", e.Stage, e.Err)
}

func (e WriteError) Unwrap() error { return e.Err }

// Write builds the open-addressed hash table from entries and writes the
// complete file to w. Table size is the smallest prime at least twice
// entry count, per the design's collision-load target.
//
// Write does not deduplicate: the enumerator is specified to visit every
// reachable position exactly once, so duplicate keys should not occur:
// if they do here, both are inserted as distinct slots (the second a
// pure waste of a probe, never a silent loss of data).
func Write(w io.Writer, hdr Header, entries []Entry) error {
	tableSize := nextPrime(2 * len(entries))

	keys := make([]uint32, tableSize)
	values := make([]uint8, tableSize)
	for _, e := range entries {
		idx := e.Key % uint64(tableSize)
		for keys[idx] != 0 {
			idx = (idx + 1) % uint64(tableSize)
		}
		keys[idx] = uint32(e.Key >> 16)
		values[idx] = e.Column
	}

	bw := bufio.NewWriter(w)

	header := make([]byte, headerSize)
	header[0] = position.Width
	header[1] = position.Height
	header[2] = hdr.MinPly
	header[3] = hdr.MaxPly
	header[4] = 4 // key_bytes
	header[5] = 1 // value_bytes
	binary.LittleEndian.PutUint32(header[8:12], uint32(tableSize))
	if _, err := bw.Write(header); err != nil {
		return WriteError{Stage: "header", Err: err}
	}

	var keyBuf [4]byte
	for _, k := range keys {
		binary.LittleEndian.PutUint32(keyBuf[:], k)
		if _, err := bw.Write(keyBuf[:]); err != nil {
			return WriteError{Stage: "keys", Err: err}
		}
	}
	if _, err := bw.Write(values); err != nil {
		return WriteError{Stage: "values", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return WriteError{Stage: "flush", Err: err}
	}
	return nil
}

// nextPrime returns the smallest prime p >= n (and always >= 2).
func nextPrime(n int) int {
	if n < 2 {
		n = 2
	}
	for !isPrime(n) {
		n++
	}
	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
