// Package store persists the outcome of annotation runs in SQLite so a
// batch can be inspected after the fact.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/pulse"
	"github.com/teranos/wtu/table"
	"github.com/teranos/wtu/task"
)

// Run is one batch.
type Run struct {
	ID         string
	Tasks      []string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Stats summarizes the records of a run.
type Stats struct {
	Run
	Records     int
	ByStatus    map[task.Status]int
	Annotations int
}

// RecordStore handles persistence of runs and their table records
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a record store on a migrated database
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

// BeginRun registers a new run
func (s *RecordStore) BeginRun(ctx context.Context, tasks []string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Tasks:     tasks,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, tasks, started_at) VALUES (?, ?, ?)`,
		run.ID, strings.Join(tasks, ","), run.StartedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create run")
	}
	return run, nil
}

// FinishRun marks a run as finished
func (s *RecordStore) FinishRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE run_id = ?`, time.Now().UTC(), runID)
	if err != nil {
		return errors.Wrap(err, "failed to finish run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "run %s", runID)
	}
	return nil
}

// Save stores one pool result. Only annotated tables keep their record;
// other outcomes keep status and error text.
func (s *RecordStore) Save(ctx context.Context, runID string, r pulse.Result) error {
	var record string
	annotations := 0
	if r.Status == task.StatusAnnotated && r.Table != nil {
		data, err := table.Encode(r.Table)
		if err != nil {
			return errors.Wrapf(err, "encode record %d", r.Ordinal)
		}
		record = string(data)
		annotations = r.Table.Store().Len()
	}
	var errText string
	if r.Err != nil {
		errText = r.Err.Error()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO table_records (run_id, ordinal, record, status, error, annotations)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, r.Ordinal, record, string(r.Status), errText, annotations,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to save record %d", r.Ordinal)
	}
	return nil
}

// Record returns the stored JSON of an annotated record
func (s *RecordStore) Record(ctx context.Context, runID string, ordinal int) ([]byte, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM table_records WHERE run_id = ? AND ordinal = ? AND status = ?`,
		runID, ordinal, string(task.StatusAnnotated),
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "annotated record %d of run %s", ordinal, runID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get record")
	}
	return []byte(record), nil
}

// Runs lists runs, most recent first
func (s *RecordStore) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, tasks, started_at, finished_at
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "failed to list runs")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run      Run
		tasks    string
		finished sql.NullTime
	)
	if err := row.Scan(&run.ID, &tasks, &run.StartedAt, &finished); err != nil {
		return Run{}, errors.Wrap(err, "failed to scan run")
	}
	if tasks != "" {
		run.Tasks = strings.Split(tasks, ",")
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}

// Stats summarizes a run; an empty runID selects the most recent run
func (s *RecordStore) Stats(ctx context.Context, runID string) (*Stats, error) {
	query := `SELECT run_id, tasks, started_at, finished_at FROM runs WHERE run_id = ?`
	args := []any{runID}
	if runID == "" {
		query = `SELECT run_id, tasks, started_at, finished_at FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`
		args = nil
	}
	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if runID == "" {
			return nil, errors.Wrap(errors.ErrNotFound, "no runs recorded")
		}
		return nil, errors.Wrapf(errors.ErrNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, err
	}

	stats := &Stats{Run: run, ByStatus: make(map[task.Status]int)}
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(annotations), 0)
		FROM table_records WHERE run_id = ? GROUP BY status`, run.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count records")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status      string
			count, anno int
		)
		if err := rows.Scan(&status, &count, &anno); err != nil {
			return nil, errors.Wrap(err, "failed to scan record counts")
		}
		stats.ByStatus[task.Status(status)] = count
		stats.Records += count
		stats.Annotations += anno
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to count records")
	}
	return stats, nil
}
