package table

import (
	"encoding/json"
	"sort"

	"github.com/teranos/wtu/errors"
)

// Record field names.
const (
	fieldRelation    = "relation"
	fieldAnnotations = "annotations"
	fieldHeaderRow   = "headerRowIndex"
)

// Decode parses one JSON table record. Every failure is an
// ErrMalformedRecord.
func Decode(data []byte) (*Table, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapMalformedRecord(err, "decode record")
	}

	relRaw, ok := raw[fieldRelation]
	if !ok {
		return nil, errors.NewMalformedRecordError("record has no %q field", fieldRelation)
	}
	var relation [][]string
	if err := json.Unmarshal(relRaw, &relation); err != nil {
		return nil, errors.WrapMalformedRecord(err, "decode relation")
	}

	t, err := New(relation)
	if err != nil {
		return nil, err
	}

	if hdrRaw, ok := raw[fieldHeaderRow]; ok {
		var hdr int
		if err := json.Unmarshal(hdrRaw, &hdr); err != nil {
			return nil, errors.WrapMalformedRecord(err, "decode headerRowIndex")
		}
		if err := t.SetHeaderRow(hdr); err != nil {
			return nil, err
		}
	}

	if annRaw, ok := raw[fieldAnnotations]; ok && string(annRaw) != "null" {
		var regions map[string][]Annotation
		if err := json.Unmarshal(annRaw, &regions); err != nil {
			return nil, errors.WrapMalformedRecord(err, "decode annotations")
		}
		keys := make([]string, 0, len(regions))
		for key := range regions {
			keys = append(keys, key)
		}
		// "" and ":" both name the table region; "" merges first
		sort.Strings(keys)
		for _, key := range keys {
			list := regions[key]
			r, err := ParseRegion(key)
			if err != nil {
				return nil, errors.WrapMalformedRecord(err, "decode annotations")
			}
			if !t.validRegion(r) {
				return nil, errors.NewMalformedRecordError("annotation region %q outside %dx%d table", key, t.numCols, t.numRows)
			}
			l := t.store.GetOrCreate(r)
			for _, a := range list {
				l.Append(a)
			}
		}
	}

	for _, k := range []string{fieldRelation, fieldAnnotations, fieldHeaderRow} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		t.extra = raw
	}
	return t, nil
}

// Encode compacts the store and renders the table as a JSON record. Unknown
// fields of the decoded record are written back unchanged.
func Encode(t *Table) ([]byte, error) {
	t.store.Compact()

	out := make(map[string]any, len(t.extra)+3)
	for k, v := range t.extra {
		out[k] = v
	}
	out[fieldRelation] = t.relation

	regions := make(map[string][]Annotation, len(t.store.regions))
	for r, l := range t.store.regions {
		regions[r.String()] = l.All()
	}
	out[fieldAnnotations] = regions

	if t.hasHeader {
		out[fieldHeaderRow] = t.headerRow
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	return data, nil
}
