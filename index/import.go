package index

import (
	"context"
	"database/sql"
	"os"

	"go.uber.org/zap"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/logger"
)

// ImportStats reports the outcome of a bulk import.
type ImportStats struct {
	Rows    int
	Skipped int
}

// ImportMentions loads a mention file into mention_index in one
// transaction. Frequencies of repeated (mention, entity) pairs add up.
func ImportMentions(ctx context.Context, db *sql.DB, path string, delim rune, log *zap.SugaredLogger) (ImportStats, error) {
	const stmt = `INSERT INTO mention_index (mention, entity_uri, frequency) VALUES (?, ?, ?)
		ON CONFLICT (mention, entity_uri) DO UPDATE SET frequency = frequency + excluded.frequency`

	return importFile(ctx, db, path, delim, 3, stmt, log, func(line int, rec []string) ([]any, error) {
		key, uri, freq, err := mentionRow(rec, path, line)
		if err != nil {
			return nil, err
		}
		return []any{key, uri, freq}, nil
	})
}

// ImportProperties loads a property file into property_index.
func ImportProperties(ctx context.Context, db *sql.DB, path string, delim rune, log *zap.SugaredLogger) (ImportStats, error) {
	const stmt = `INSERT INTO property_index (entity_uri, property_uri, literal_type, literal_value) VALUES (?, ?, ?, ?)`

	return importFile(ctx, db, path, delim, 4, stmt, log, func(_ int, rec []string) ([]any, error) {
		entity, p := propertyRow(rec)
		return []any{entity, p.PropertyURI, p.LiteralType, p.LiteralValue}, nil
	})
}

// ImportClasses loads a (label, class_uri) file into class_index. The first
// row for a label wins.
func ImportClasses(ctx context.Context, db *sql.DB, path string, delim rune, log *zap.SugaredLogger) (ImportStats, error) {
	const stmt = `INSERT INTO class_index (label, class_uri) VALUES (?, ?) ON CONFLICT (label) DO NOTHING`

	return importFile(ctx, db, path, delim, 2, stmt, log, func(_ int, rec []string) ([]any, error) {
		label := NormalizeLabel(rec[0])
		if label == "" {
			return nil, errSkipRow
		}
		return []any{label, shortClass(rec[1])}, nil
	})
}

func importFile(
	ctx context.Context,
	db *sql.DB,
	path string,
	delim rune,
	columns int,
	stmt string,
	log *zap.SugaredLogger,
	args func(line int, rec []string) ([]any, error),
) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, errors.Wrap(err, "begin import")
	}
	defer tx.Rollback()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return ImportStats{}, errors.Wrap(err, "prepare import")
	}
	defer prepared.Close()

	rows, skipped, err := readDelimited(f, path, delim, columns, func(line int, rec []string) error {
		values, err := args(line, rec)
		if err != nil {
			return err
		}
		if _, err := prepared.ExecContext(ctx, values...); err != nil {
			return errors.Wrapf(err, "%s:%d", path, line)
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, errors.Wrapf(err, "import %s", path)
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, errors.Wrap(err, "commit import")
	}

	logger.OrNop(log).Infow("Imported index file",
		logger.FieldFile, path,
		logger.FieldCount, rows,
		logger.FieldSkipped, skipped,
	)
	return ImportStats{Rows: rows, Skipped: skipped}, nil
}
