package pulse

import (
	"io"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/record"
	"github.com/teranos/wtu/table"
)

// FromReader turns a record reader into a Source. Malformed lines become
// jobs carrying their error; other read errors end the batch.
func FromReader(r *record.Reader) Source {
	return SourceFunc(func() (Job, error) {
		rec, err := r.Next()
		switch {
		case err == io.EOF:
			return Job{}, io.EOF
		case errors.IsMalformedRecord(err):
			return Job{Ordinal: rec.Ordinal, Err: err}, nil
		case err != nil:
			return Job{}, err
		}
		return Job{Ordinal: rec.Ordinal, Table: rec.Table}, nil
	})
}

// FromTables is a Source over decoded tables, numbered from 0.
func FromTables(tables ...*table.Table) Source {
	i := 0
	return SourceFunc(func() (Job, error) {
		if i >= len(tables) {
			return Job{}, io.EOF
		}
		job := Job{Ordinal: i, Table: tables[i]}
		i++
		return job, nil
	})
}
