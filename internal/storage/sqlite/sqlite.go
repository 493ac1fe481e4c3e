// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The document is spread over three tables:
//
//	teacher   one row, the login account
//	students  one row per student, ordered by position
//	meta      key/value integers (the student id sequence)
//
// Save rewrites all three inside one transaction, so a reader never sees
// half a document.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/classroom-api/internal/config"
	"github.com/aanand-mishra/classroom-api/internal/storage"
	"github.com/aanand-mishra/classroom-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

const sequenceKey = "student_sequence"

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath and creates the tables
// if they do not already exist.
func New(cfg *config.Config) (*SQLite, error) {
	return Open(cfg.StoragePath)
}

// Open is New for callers that only have a path.
func Open(path string) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet; it only validates
	// the driver name and data source name (DSN).
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent; safe on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS teacher (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			email    TEXT NOT NULL,
			password TEXT NOT NULL,
			image    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS students (
			position        INTEGER PRIMARY KEY,
			id              TEXT    NOT NULL UNIQUE,
			first_name      TEXT    NOT NULL,
			last_name       TEXT    NOT NULL,
			email           TEXT    NOT NULL,
			age             INTEGER,
			enrollment_date TEXT    NOT NULL,
			image           TEXT    NOT NULL,
			courses         TEXT    NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Load reads the teacher row, every student row in position order and the
// id sequence, and assembles them into one document.
//
// A database without a teacher row is reported as an error: it has never
// been initialised.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Load(ctx context.Context) (types.Document, error) {
	var doc types.Document

	err := s.Db.QueryRowContext(ctx,
		"SELECT id, name, email, password, image FROM teacher LIMIT 1",
	).Scan(
		&doc.Teacher.ID,
		&doc.Teacher.Name,
		&doc.Teacher.Email,
		&doc.Teacher.Password,
		&doc.Teacher.Image,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Document{}, errors.New("sqlite.Load: database is not initialised")
		}
		return types.Document{}, fmt.Errorf("sqlite.Load: scan teacher: %w", err)
	}

	rows, err := s.Db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, age, enrollment_date, image, courses
		FROM students
		ORDER BY position`,
	)
	if err != nil {
		return types.Document{}, fmt.Errorf("sqlite.Load: query students: %w", err)
	}
	defer rows.Close()

	doc.Students = make([]types.Student, 0)

	for rows.Next() {
		var (
			student types.Student
			age     sql.NullInt64
			courses string
		)

		if err := rows.Scan(
			&student.ID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&age,
			&student.EnrollmentDate,
			&student.Image,
			&courses,
		); err != nil {
			return types.Document{}, fmt.Errorf("sqlite.Load: scan student: %w", err)
		}

		if age.Valid {
			v := int(age.Int64)
			student.Age = &v
		}
		if err := json.Unmarshal([]byte(courses), &student.Courses); err != nil {
			return types.Document{}, fmt.Errorf("sqlite.Load: decode courses of %s: %w", student.ID, err)
		}

		doc.Students = append(doc.Students, student)
	}

	if err := rows.Err(); err != nil {
		return types.Document{}, fmt.Errorf("sqlite.Load: rows iteration: %w", err)
	}

	err = s.Db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", sequenceKey,
	).Scan(&doc.StudentSequence)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, fmt.Errorf("sqlite.Load: scan sequence: %w", err)
	}

	return doc, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Save replaces the stored document.
//
// Everything happens inside one transaction: if any statement fails the
// deferred Rollback discards the partial write and the previous document
// stays intact. Rollback after a successful Commit is a harmless no-op.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Save(ctx context.Context, doc types.Document) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite.Save: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM teacher"); err != nil {
		return fmt.Errorf("sqlite.Save: clear teacher: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO teacher (id, name, email, password, image) VALUES (?, ?, ?, ?, ?)",
		doc.Teacher.ID, doc.Teacher.Name, doc.Teacher.Email, doc.Teacher.Password, doc.Teacher.Image,
	); err != nil {
		return fmt.Errorf("sqlite.Save: insert teacher: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
		return fmt.Errorf("sqlite.Save: clear students: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO students
			(position, id, first_name, last_name, email, age, enrollment_date, image, courses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare: %w", err)
	}
	defer stmt.Close()

	for i, student := range doc.Students {
		courses := student.Courses
		if courses == nil {
			courses = []string{}
		}
		encoded, err := json.Marshal(courses)
		if err != nil {
			return fmt.Errorf("sqlite.Save: encode courses of %s: %w", student.ID, err)
		}

		var age sql.NullInt64
		if student.Age != nil {
			age = sql.NullInt64{Int64: int64(*student.Age), Valid: true}
		}

		// Argument order matches the column list above.
		if _, err := stmt.ExecContext(ctx,
			i,
			student.ID,
			student.FirstName,
			student.LastName,
			student.Email,
			age,
			student.EnrollmentDate,
			student.Image,
			string(encoded),
		); err != nil {
			return fmt.Errorf("sqlite.Save: insert student %s: %w", student.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		sequenceKey, doc.StudentSequence,
	); err != nil {
		return fmt.Errorf("sqlite.Save: store sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Save: commit: %w", err)
	}

	return nil
}

// EnsureInitialized seeds the database when the teacher table is empty.
func (s *SQLite) EnsureInitialized(ctx context.Context) error {
	var count int
	if err := s.Db.QueryRowContext(ctx, "SELECT COUNT(*) FROM teacher").Scan(&count); err != nil {
		return fmt.Errorf("sqlite.EnsureInitialized: count teacher: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := s.Save(ctx, storage.Seed()); err != nil {
		return fmt.Errorf("sqlite.EnsureInitialized: %w", err)
	}

	slog.Info("database initialized with sample data")
	return nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
