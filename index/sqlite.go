package index

import (
	"database/sql"
	"unicode/utf8"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/kb"
)

// SQLiteMentionIndex reads the mention_index table.
type SQLiteMentionIndex struct {
	db *sql.DB
}

// NewSQLiteMentionIndex checks that the mention_index table is queryable.
func NewSQLiteMentionIndex(db *sql.DB) (*SQLiteMentionIndex, error) {
	if err := probe(db, "mention_index"); err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite mention index")
	}
	return &SQLiteMentionIndex{db: db}, nil
}

func (ix *SQLiteMentionIndex) Lookup(mention string) ([]Candidate, error) {
	rows, err := ix.db.Query(
		`SELECT entity_uri, frequency FROM mention_index WHERE mention = ? ORDER BY entity_uri`,
		mention,
	)
	if err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite mention index")
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		c := Candidate{Mention: mention, Similarity: 1}
		if err := rows.Scan(&c.EntityURI, &c.Frequency); err != nil {
			return nil, errors.WrapBackendUnavailable(err, "sqlite mention index")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite mention index")
	}
	return out, nil
}

func (ix *SQLiteMentionIndex) Similar(mention string, cutoff float64) ([]Candidate, error) {
	lo, hi := lengthWindow(utf8.RuneCountInString(mention), cutoff)
	rows, err := ix.db.Query(
		`SELECT mention, entity_uri, frequency FROM mention_index
		 WHERE length(mention) BETWEEN ? AND ?
		 ORDER BY mention, entity_uri`,
		lo, hi,
	)
	if err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite mention index")
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.Mention, &c.EntityURI, &c.Frequency); err != nil {
			return nil, errors.WrapBackendUnavailable(err, "sqlite mention index")
		}
		if c.Similarity = Similarity(mention, c.Mention); c.Similarity >= cutoff {
			out = append(out, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite mention index")
	}
	return out, nil
}

// SQLitePropertyIndex reads the property_index table.
type SQLitePropertyIndex struct {
	db *sql.DB
}

// NewSQLitePropertyIndex checks that the property_index table is queryable.
func NewSQLitePropertyIndex(db *sql.DB) (*SQLitePropertyIndex, error) {
	if err := probe(db, "property_index"); err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite property index")
	}
	return &SQLitePropertyIndex{db: db}, nil
}

func (ix *SQLitePropertyIndex) Properties(entityURI string) ([]Property, error) {
	rows, err := ix.db.Query(
		`SELECT property_uri, literal_type, literal_value FROM property_index WHERE entity_uri = ? ORDER BY id`,
		kb.ShortURI(entityURI, EntityPrefix),
	)
	if err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite property index")
	}
	defer rows.Close()

	var out []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.PropertyURI, &p.LiteralType, &p.LiteralValue); err != nil {
			return nil, errors.WrapBackendUnavailable(err, "sqlite property index")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite property index")
	}
	return out, nil
}

// SQLiteClassIndex reads the class_index table.
type SQLiteClassIndex struct {
	db *sql.DB
}

// NewSQLiteClassIndex checks that the class_index table is queryable.
func NewSQLiteClassIndex(db *sql.DB) (*SQLiteClassIndex, error) {
	if err := probe(db, "class_index"); err != nil {
		return nil, errors.WrapBackendUnavailable(err, "sqlite class index")
	}
	return &SQLiteClassIndex{db: db}, nil
}

func (ix *SQLiteClassIndex) Class(label string) (string, bool, error) {
	var uri string
	err := ix.db.QueryRow(`SELECT class_uri FROM class_index WHERE label = ?`, NormalizeLabel(label)).Scan(&uri)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.WrapBackendUnavailable(err, "sqlite class index")
	}
	return uri, true, nil
}

func probe(db *sql.DB, table string) error {
	if db == nil {
		return errors.New("no database configured")
	}
	// table names come from this package only
	rows, err := db.Query("SELECT 1 FROM " + table + " LIMIT 1")
	if err != nil {
		return err
	}
	return rows.Close()
}
