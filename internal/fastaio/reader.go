// Package fastaio streams single-line-residue FASTA records and writes
// de-replicated FASTA/OTU-map output. It is the thin, uninteresting
// collaborator that §1 of SPEC_FULL.md carves out of the core distributed
// de-replication engine, kept here at production quality because the
// engine must still be fed and must still produce its two output files.
package fastaio

import (
	"bufio"
	"bytes"
	"io"

	"github.com/biocore/pipeclust/errors"
)

// maxLineLength bounds a single FASTA line, matching the 2000-byte
// BUFFER_SIZE of the reference reader.
const maxLineLength = 2000

// Record is a transient (label, sequence) pair produced by Reader.Next
// and Reader.Nth. It is consumed immediately by the replica store and
// retains no external references once Insert has returned.
type Record struct {
	Label    string
	Sequence []byte
}

// Reader streams Records from a single FASTA file. One Reader is created
// per (file, rank) processing pass; Restart resets it for a second pass
// over the same file on a reopened handle, replacing the reference implementation's
// process-global counter (SPEC_FULL.md §9) with a per-instance one.
//
// curr is the monotone cursor: the zero-based index that Next will
// return next. Nth never rewinds it.
type Reader struct {
	br   *bufio.Reader
	path string
	curr int
}

// NewReader wraps r, which must be positioned at the start of a FASTA
// file. path is retained only to annotate error messages.
func NewReader(r io.Reader, path string) *Reader {
	return &Reader{
		br:   bufio.NewReaderSize(r, maxLineLength+1),
		path: path,
	}
}

// Restart rewires the reader onto a freshly (re)opened handle for the
// same file and resets the cursor to zero, for callers that process the
// same file a second time within one process.
func (r *Reader) Restart(reopened io.Reader) {
	r.br = bufio.NewReaderSize(reopened, maxLineLength+1)
	r.curr = 0
}

// Next returns the next record in file order, or ok=false at end of
// file. A malformed record (header without a residue line, or an
// unparseable header) is reported as a fatal *errors.Error of kind
// errors.Integrity.
func (r *Reader) Next() (rec *Record, ok bool, err error) {
	header, atEOF, err := r.readLine()
	if err != nil {
		return nil, false, err
	}
	if atEOF {
		return nil, false, nil
	}

	label, err := parseLabel(header)
	if err != nil {
		return nil, false, errors.E(errors.Integrity, "parsing FASTA header", err)
	}

	seqLine, atEOF, err := r.readLine()
	if err != nil {
		return nil, false, err
	}
	if atEOF {
		return nil, false, errors.E(errors.Integrity,
			"FASTA record has a header but no residue line")
	}

	r.curr++
	return &Record{Label: label, Sequence: seqLine}, true, nil
}

// Nth returns the record at zero-based index idx, skipping any records
// with index < idx. If idx < curr, Nth returns end-of-stream without
// reading anything further: the cursor is monotone and never rewinds.
func (r *Reader) Nth(idx int) (rec *Record, ok bool, err error) {
	if idx < r.curr {
		return nil, false, nil
	}
	for {
		rec, ok, err = r.Next()
		if err != nil || !ok {
			return rec, ok, err
		}
		if r.curr-1 == idx {
			return rec, true, nil
		}
	}
}

// readLine reads one line with its line terminator stripped. atEOF is
// true only when no bytes at all were available (clean end of file); a
// final line lacking a trailing newline is still returned as data. A
// line longer than maxLineLength is a fatal parse error.
func (r *Reader) readLine() (line []byte, atEOF bool, err error) {
	raw, err := r.br.ReadSlice('\n')
	switch err {
	case nil:
		// ok
	case bufio.ErrBufferFull:
		return nil, false, errors.E(errors.Invalid, "FASTA line exceeds maximum length")
	case io.EOF:
		if len(raw) == 0 {
			return nil, true, nil
		}
		// Final line without a trailing newline.
	default:
		return nil, false, errors.E(errors.Net, "reading FASTA input", err)
	}
	trimmed := bytes.TrimRight(raw, "\r\n")
	out := make([]byte, len(trimmed))
	copy(out, trimmed)
	return out, false, nil
}

// parseLabel extracts the first whitespace-delimited token following the
// leading '>' on a FASTA header line; any remainder of the line is
// discarded. This resolves the ambiguity noted in SPEC_FULL.md §9 about
// the reference reader's sscanf format specifier: the label is always
// the first token, later tokens are ignored.
func parseLabel(header []byte) (string, error) {
	if len(header) == 0 || header[0] != '>' {
		return "", errors.E(errors.Invalid, "FASTA header does not start with '>'")
	}
	fields := bytes.Fields(header[1:])
	if len(fields) == 0 {
		return "", errors.E(errors.Invalid, "FASTA header has no label token")
	}
	return string(fields[0]), nil
}
