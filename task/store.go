package task

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

// errBadRow marks a stored row whose columns do not decode into a Task.
var errBadRow = errors.New("undecodable task row")

// start_time and actual_start_time hold UTC unix nanoseconds so range
// filters compare numerically.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                        TEXT PRIMARY KEY,
	user_id                   TEXT NOT NULL DEFAULT '',
	operation_id              TEXT NOT NULL DEFAULT '',
	expected_duration_minutes INTEGER NOT NULL DEFAULT 0,
	start_time                INTEGER NOT NULL,
	actual_start_time         INTEGER,
	actual_duration_minutes   INTEGER,
	materials                 TEXT NOT NULL DEFAULT '{}',
	created_at                DATETIME NOT NULL,
	updated_at                DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_start_time ON tasks (start_time);
`

const columns = `id, user_id, operation_id, expected_duration_minutes, start_time,
	actual_start_time, actual_duration_minutes, materials, created_at, updated_at`

// SQLiteStore persists tasks in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the tasks table exists. The caller is responsible for calling Close.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger used to report rows skipped by List.
func (s *SQLiteStore) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Create persists a new task and sets its ID, CreatedAt, and UpdatedAt.
func (s *SQLiteStore) Create(t *Task) (string, error) {
	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.insert(t, false); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Put inserts t or replaces the stored task with the same ID. The original
// CreatedAt is kept on replace.
func (s *SQLiteStore) Put(t *Task) error {
	if t.ID == "" {
		_, err := s.Create(t)
		return err
	}
	now := time.Now().UTC()
	t.UpdatedAt = now
	if existing, err := s.Get(t.ID); err == nil {
		t.CreatedAt = existing.CreatedAt
	} else if errors.Is(err, ErrNotFound) {
		t.CreatedAt = now
	} else {
		return err
	}
	return s.insert(t, true)
}

func (s *SQLiteStore) insert(t *Task, replace bool) error {
	materials, err := json.Marshal(t.Materials)
	if err != nil {
		return fmt.Errorf("encode materials: %w", err)
	}
	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	_, err = s.db.Exec(verb+` INTO tasks (`+columns+`) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.OperatorID, t.OperationID, t.ExpectedDurationMinutes,
		t.StartTime.UTC().UnixNano(), nullUnix(t.ActualStartTime), nullInt(t.ActualDurationMinutes),
		string(materials), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.StartTime = t.StartTime.UTC()
	return nil
}

// Get retrieves a task by ID.
func (s *SQLiteStore) Get(id string) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+columns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

// Update saves changes to an existing task, updating UpdatedAt automatically.
func (s *SQLiteStore) Update(t *Task) error {
	t.UpdatedAt = time.Now().UTC()
	materials, err := json.Marshal(t.Materials)
	if err != nil {
		return fmt.Errorf("encode materials: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE tasks SET
			user_id=?, operation_id=?, expected_duration_minutes=?, start_time=?,
			actual_start_time=?, actual_duration_minutes=?, materials=?, updated_at=?
		WHERE id=?`,
		t.OperatorID, t.OperationID, t.ExpectedDurationMinutes, t.StartTime.UTC().UnixNano(),
		nullUnix(t.ActualStartTime), nullInt(t.ActualDurationMinutes), string(materials),
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	t.StartTime = t.StartTime.UTC()
	return nil
}

// List returns tasks matching the filter, ordered by start time. Rows whose
// materials do not decode are logged and skipped.
func (s *SQLiteStore) List(filter Filter) ([]*Task, error) {
	q := strings.Builder{}
	q.WriteString("SELECT " + columns + " FROM tasks WHERE 1=1")
	args := []any{}

	if filter.OperatorID != "" {
		q.WriteString(" AND user_id=?")
		args = append(args, filter.OperatorID)
	}
	if filter.OperationID != "" {
		q.WriteString(" AND operation_id=?")
		args = append(args, filter.OperationID)
	}
	if filter.From != nil {
		q.WriteString(" AND start_time>=?")
		args = append(args, filter.From.UTC().UnixNano())
	}
	if filter.To != nil {
		q.WriteString(" AND start_time<?")
		args = append(args, filter.To.UTC().UnixNano())
	}
	q.WriteString(" ORDER BY start_time ASC, id ASC")
	if filter.Limit > 0 {
		q.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
		if filter.Offset > 0 {
			q.WriteString(fmt.Sprintf(" OFFSET %d", filter.Offset))
		}
	}

	rows, err := s.db.Query(q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if errors.Is(err, errBadRow) {
			s.logger.Warn("skipping task row", zap.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Delete removes a task by ID.
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*Task, error) {
	var t Task
	var start int64
	var actualStart, actualDuration sql.NullInt64
	var materialsJSON string

	err := s.Scan(
		&t.ID, &t.OperatorID, &t.OperationID, &t.ExpectedDurationMinutes, &start,
		&actualStart, &actualDuration, &materialsJSON,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.StartTime = time.Unix(0, start).UTC()
	if actualStart.Valid {
		at := time.Unix(0, actualStart.Int64).UTC()
		t.ActualStartTime = &at
	}
	if actualDuration.Valid {
		d := actualDuration.Int64
		t.ActualDurationMinutes = &d
	}
	if err := json.Unmarshal([]byte(materialsJSON), &t.Materials); err != nil {
		return nil, fmt.Errorf("task %s: %w: %v", t.ID, errBadRow, err)
	}
	return &t, nil
}

func nullUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().UnixNano()
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
