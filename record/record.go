// Package record reads and writes table records as JSON lines: one JSON
// object per line, as produced by web table extraction corpora.
package record

import (
	"bufio"
	"bytes"
	"io"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/internal/util"
	"github.com/teranos/wtu/table"
)

// Record is one decoded line.
type Record struct {
	// Ordinal counts non-blank lines from 0.
	Ordinal int
	// Line is the 1-based line number in the input.
	Line  int
	Table *table.Table
}

// Reader reads table records line by line.
type Reader struct {
	r       *bufio.Reader
	ordinal int
	line    int
}

// NewReader creates a reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 1<<20)}
}

// Next returns the next record. Blank lines are skipped. Invalid UTF-8 is
// replaced before decoding. A line that does not decode yields its Ordinal
// and Line together with an ErrMalformedRecord error, and reading may
// continue. io.EOF marks the end of input.
func (r *Reader) Next() (Record, error) {
	for {
		data, err := r.r.ReadBytes('\n')
		if len(data) == 0 && err != nil {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			return Record{}, errors.Wrap(err, "read record")
		}
		r.line++

		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			continue
		}

		rec := Record{Ordinal: r.ordinal, Line: r.line}
		r.ordinal++

		t, decodeErr := table.Decode([]byte(util.SanitizeUTF8(string(data))))
		if decodeErr != nil {
			return rec, errors.Wrapf(decodeErr, "line %d", r.line)
		}
		rec.Table = t
		return rec, nil
	}
}

// Writer writes compacted table records, one per line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes t and appends it as one line.
func (w *Writer) Write(t *table.Table) error {
	data, err := table.Encode(t)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	if _, err := w.w.Write(data); err != nil {
		return errors.Wrap(err, "write record")
	}
	return w.w.WriteByte('\n')
}

// Flush writes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
