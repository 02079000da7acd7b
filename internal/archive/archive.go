package archive

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a requested submission does not exist.
var ErrNotFound = errors.New("not found")

// Submission is the archived outcome of one interview: what was delivered
// and when. The archive is write-only from the service's point of view;
// live sessions never read from it.
type Submission struct {
	ID           string
	SessionID    string
	EmployeeName string
	Division     string
	ProcessName  string
	Summary      string
	Filename     string
	IsDraft      bool
	SubmittedAt  time.Time
}

// Store wraps a SQLite database holding the submission archive.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "procap.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't
// been run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return fmt.Errorf("parsing migration version from %q: %w", entry.Name(), err)
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

// Save appends a submission record.
func (s *Store) Save(sub Submission) error {
	isDraft := 0
	if sub.IsDraft {
		isDraft = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO submissions (id, session_id, employee_name, division, process_name, summary, filename, is_draft, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.SessionID, sub.EmployeeName, sub.Division, sub.ProcessName,
		sub.Summary, sub.Filename, isDraft, sub.SubmittedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Get returns one archived submission by id.
func (s *Store) Get(id string) (Submission, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, employee_name, division, process_name, summary, filename, is_draft, submitted_at
		FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return Submission{}, ErrNotFound
	}
	return sub, err
}

// ListRecent returns the most recent submissions, newest first.
func (s *Store) ListRecent(limit int) ([]Submission, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, employee_name, division, process_name, summary, filename, is_draft, submitted_at
		FROM submissions ORDER BY submitted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, sub)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (Submission, error) {
	var sub Submission
	var isDraft int
	var submittedAt string
	err := row.Scan(&sub.ID, &sub.SessionID, &sub.EmployeeName, &sub.Division,
		&sub.ProcessName, &sub.Summary, &sub.Filename, &isDraft, &submittedAt)
	if err != nil {
		return Submission{}, err
	}
	sub.IsDraft = isDraft != 0
	t, err := time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return Submission{}, fmt.Errorf("parsing submitted_at: %w", err)
	}
	sub.SubmittedAt = t
	return sub, nil
}
