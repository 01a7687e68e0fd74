// Package wire implements the binary serialization codec used by the
// hypercube gather (package gather) to move a replica.Store across the
// collective transport. The wire layout is described in SPEC_FULL.md
// §4.4; it is a hand-rolled little-endian format in the same style as
// grailbio-base's recordio header encoding (encoding/binary over a
// growable buffer), not a generic serialization library, because the
// format has exactly one producer and one consumer and must remain
// stable only within a single build.
package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/biocore/pipeclust/errors"
	"github.com/biocore/pipeclust/internal/replica"
)

// Per-unique / per-label byte budgets used to size the initial pack
// buffer. These mirror the reference implementation's pack_derep_db
// heuristic (500 bytes/sequence, 100 bytes/label); under-estimating is
// harmless because bytes.Buffer grows on demand.
const (
	bytesPerUnique = 500
	bytesPerLabel  = 100
)

// Pack serializes s into a self-delimiting byte buffer per the wire
// format in SPEC_FULL.md §4.4.
func Pack(s *replica.Store) []byte {
	capacity := 2*4 + s.Unique()*bytesPerUnique + s.Count*bytesPerLabel
	buf := bytes.NewBuffer(make([]byte, 0, capacity))

	putInt32(buf, int32(s.Count))
	putInt32(buf, int32(s.Unique()))

	s.Iter(func(r *replica.Record) {
		putInt32(buf, int32(len(r.Sequence)))
		buf.Write(r.Sequence)
		putInt32(buf, int32(r.Count))
		for _, label := range r.Labels {
			putInt32(buf, int32(len(label)))
			buf.WriteString(label)
		}
	})

	return buf.Bytes()
}

// Unpack decodes buf and merges it into dst, per the unpack contract in
// SPEC_FULL.md §4.4: for each incoming unique sequence, existing keys
// have their labels appended, and new keys get a fresh empty record that
// is then filled in-place (a record mid-fill is never observed outside
// this function, since unpack runs single-threaded per rank — see
// SPEC_FULL.md §9). Unpack returns a *errors.Error of kind
// errors.Integrity if buf is truncated or any declared length would read
// past its end.
func Unpack(dst *replica.Store, buf []byte) error {
	r := &reader{buf: buf}

	totalCount, err := r.int32()
	if err != nil {
		return err
	}
	uniqueCount, err := r.int32()
	if err != nil {
		return err
	}

	dst.Count += int(totalCount)

	for i := int32(0); i < uniqueCount; i++ {
		seqLen, err := r.int32()
		if err != nil {
			return err
		}
		seq, err := r.bytes(int(seqLen))
		if err != nil {
			return err
		}
		numLabels, err := r.int32()
		if err != nil {
			return err
		}

		rec, _ := dst.GetOrCreateEmpty(seq)
		for j := int32(0); j < numLabels; j++ {
			labelLen, err := r.int32()
			if err != nil {
				return err
			}
			label, err := r.bytes(int(labelLen))
			if err != nil {
				return err
			}
			rec.Add(string(label))
		}
	}
	return nil
}

func putInt32(buf *bytes.Buffer, v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	buf.Write(tmp[:])
}

// reader walks buf front-to-back, rejecting any read that would run past
// its end as wire corruption (SPEC_FULL.md §7, WireCorruption).
type reader struct {
	buf []byte
	pos int
}

func (r *reader) int32() (int32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, errors.E(errors.Integrity,
			"wire buffer truncated: declared length exceeds buffer end")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}
