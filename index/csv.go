package index

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/internal/util"
	"github.com/teranos/wtu/kb"
	"github.com/teranos/wtu/logger"
)

// DefaultDelimiter separates the columns of index files.
const DefaultDelimiter = '\t'

// rowFunc receives one record with the expected column count. Returning
// errSkipRow counts the row as skipped; any other error aborts the load.
type rowFunc func(line int, rec []string) error

var errSkipRow = errors.New("skip row")

// readDelimited streams a delimited index file. Rows with the wrong column
// count are skipped and counted. Quotes carry no meaning in index files.
func readDelimited(r io.Reader, name string, delim rune, columns int, fn rowFunc) (rows, skipped int, err error) {
	if delim == 0 {
		delim = DefaultDelimiter
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, skipped, nil
		}
		if err != nil {
			return rows, skipped, errors.Wrapf(err, "read %s", name)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) != columns {
			skipped++
			continue
		}
		for i := range rec {
			rec[i] = util.DropInvalidUTF8(rec[i])
		}
		if err := fn(line, rec); err != nil {
			if errors.Is(err, errSkipRow) {
				skipped++
				continue
			}
			return rows, skipped, err
		}
		rows++
	}
}

func openIndexFile(path, backend string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.WrapBackendUnavailable(err, backend),
			"check the index path in the configuration or import the index with 'wtu index import'",
		)
	}
	return f, nil
}

func parseFrequency(s, name string, line int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Newf("%s:%d: frequency %q is not an integer", name, line, s)
	}
	return n, nil
}

// mentionRow validates and normalizes one (mention, entity_uri, frequency) row.
func mentionRow(rec []string, name string, line int) (key, uri string, freq int, err error) {
	key = NormalizeMention(rec[0])
	if key == "" {
		return "", "", 0, errSkipRow
	}
	freq, err = parseFrequency(rec[2], name, line)
	if err != nil {
		return "", "", 0, err
	}
	return key, kb.ShortURI(strings.TrimSpace(rec[1]), EntityPrefix), freq, nil
}

// propertyRow validates and normalizes one (entity_uri, property_uri,
// literal_type, literal_value) row.
func propertyRow(rec []string) (entity string, p Property) {
	return kb.ShortURI(strings.TrimSpace(rec[0]), EntityPrefix), Property{
		PropertyURI:  kb.ShortURI(strings.TrimSpace(rec[1]), PropertyPrefix),
		LiteralType:  kb.ShortURI(strings.TrimSpace(rec[2]), ""),
		LiteralValue: rec[3],
	}
}

func shortClass(s string) string {
	return kb.ShortURI(strings.TrimSpace(s), ClassPrefix)
}

var labelCaser = cases.Lower(language.Und)

// NormalizeLabel is the class index key of a header label.
func NormalizeLabel(s string) string {
	return labelCaser.String(strings.TrimSpace(s))
}

// CSVMentionIndex is an in-memory mention index loaded from a file.
type CSVMentionIndex struct {
	entries map[string][]Candidate
	byLen   map[int][]string
	Rows    int
	Skipped int
}

// LoadMentionCSV reads a (mention, entity_uri, frequency) file.
func LoadMentionCSV(path string, delim rune, log *zap.SugaredLogger) (*CSVMentionIndex, error) {
	f, err := openIndexFile(path, "csv mention index")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMentionCSV(f, path, delim, log)
}

// ReadMentionCSV reads a mention index from r; name labels error messages.
func ReadMentionCSV(r io.Reader, name string, delim rune, log *zap.SugaredLogger) (*CSVMentionIndex, error) {
	ix := &CSVMentionIndex{
		entries: make(map[string][]Candidate),
		byLen:   make(map[int][]string),
	}

	rows, skipped, err := readDelimited(r, name, delim, 3, func(line int, rec []string) error {
		key, uri, freq, err := mentionRow(rec, name, line)
		if err != nil {
			return err
		}
		if _, seen := ix.entries[key]; !seen {
			n := utf8.RuneCountInString(key)
			ix.byLen[n] = append(ix.byLen[n], key)
		}
		ix.entries[key] = append(ix.entries[key], Candidate{EntityURI: uri, Frequency: freq, Mention: key, Similarity: 1})
		return nil
	})
	if err != nil {
		return nil, errors.WrapBackendUnavailable(err, "csv mention index")
	}
	ix.Rows, ix.Skipped = rows, skipped

	for _, keys := range ix.byLen {
		sort.Strings(keys)
	}

	logger.OrNop(log).Infow("Loaded mention index",
		logger.FieldBackend, "csv",
		logger.FieldFile, name,
		logger.FieldCount, rows,
		logger.FieldSkipped, skipped,
	)
	return ix, nil
}

// Lookup returns the candidates stored under mention.
func (ix *CSVMentionIndex) Lookup(mention string) ([]Candidate, error) {
	src := ix.entries[mention]
	if len(src) == 0 {
		return nil, nil
	}
	out := make([]Candidate, len(src))
	copy(out, src)
	return out, nil
}

// Similar returns the candidates of every key whose similarity to mention
// is at least cutoff.
func (ix *CSVMentionIndex) Similar(mention string, cutoff float64) ([]Candidate, error) {
	n := utf8.RuneCountInString(mention)
	lo, hi := lengthWindow(n, cutoff)

	lengths := make([]int, 0, len(ix.byLen))
	for l := range ix.byLen {
		if l >= lo && l <= hi {
			lengths = append(lengths, l)
		}
	}
	sort.Ints(lengths)

	var out []Candidate
	for _, l := range lengths {
		for _, key := range ix.byLen[l] {
			sim := Similarity(mention, key)
			if sim < cutoff {
				continue
			}
			for _, c := range ix.entries[key] {
				c.Similarity = sim
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// Len returns the number of distinct mentions.
func (ix *CSVMentionIndex) Len() int { return len(ix.entries) }

// CSVPropertyIndex is an in-memory property index loaded from a file.
type CSVPropertyIndex struct {
	entries map[string][]Property
	Rows    int
	Skipped int
}

// LoadPropertyCSV reads an (entity_uri, property_uri, literal_type,
// literal_value) file.
func LoadPropertyCSV(path string, delim rune, log *zap.SugaredLogger) (*CSVPropertyIndex, error) {
	f, err := openIndexFile(path, "csv property index")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPropertyCSV(f, path, delim, log)
}

// ReadPropertyCSV reads a property index from r.
func ReadPropertyCSV(r io.Reader, name string, delim rune, log *zap.SugaredLogger) (*CSVPropertyIndex, error) {
	ix := &CSVPropertyIndex{entries: make(map[string][]Property)}

	rows, skipped, err := readDelimited(r, name, delim, 4, func(_ int, rec []string) error {
		entity, p := propertyRow(rec)
		ix.entries[entity] = append(ix.entries[entity], p)
		return nil
	})
	if err != nil {
		return nil, errors.WrapBackendUnavailable(err, "csv property index")
	}
	ix.Rows, ix.Skipped = rows, skipped

	logger.OrNop(log).Infow("Loaded property index",
		logger.FieldBackend, "csv",
		logger.FieldFile, name,
		logger.FieldCount, rows,
		logger.FieldSkipped, skipped,
	)
	return ix, nil
}

// Properties returns the properties of entityURI in file order.
func (ix *CSVPropertyIndex) Properties(entityURI string) ([]Property, error) {
	return ix.entries[kb.ShortURI(entityURI, EntityPrefix)], nil
}

// CSVClassIndex is an in-memory class index loaded from a file.
type CSVClassIndex struct {
	entries map[string]string
	Rows    int
	Skipped int
}

// LoadClassCSV reads a (label, class_uri) file. The first row for a label wins.
func LoadClassCSV(path string, delim rune, log *zap.SugaredLogger) (*CSVClassIndex, error) {
	f, err := openIndexFile(path, "csv class index")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadClassCSV(f, path, delim, log)
}

// ReadClassCSV reads a class index from r.
func ReadClassCSV(r io.Reader, name string, delim rune, log *zap.SugaredLogger) (*CSVClassIndex, error) {
	ix := &CSVClassIndex{entries: make(map[string]string)}

	rows, skipped, err := readDelimited(r, name, delim, 2, func(_ int, rec []string) error {
		label := NormalizeLabel(rec[0])
		if label == "" {
			return errSkipRow
		}
		if _, ok := ix.entries[label]; !ok {
			ix.entries[label] = shortClass(rec[1])
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapBackendUnavailable(err, "csv class index")
	}
	ix.Rows, ix.Skipped = rows, skipped

	logger.OrNop(log).Infow("Loaded class index",
		logger.FieldBackend, "csv",
		logger.FieldFile, name,
		logger.FieldCount, rows,
		logger.FieldSkipped, skipped,
	)
	return ix, nil
}

// Class returns the class stored for label.
func (ix *CSVClassIndex) Class(label string) (string, bool, error) {
	uri, ok := ix.entries[NormalizeLabel(label)]
	return uri, ok, nil
}
