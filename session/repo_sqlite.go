package session

import (
	"database/sql"

	"github.com/indiriim/go-notify-admin/internal/errors"
	_ "modernc.org/sqlite"
)

var _ Repo = (*SQLiteRepo)(nil)

// SQLiteRepo stores session entries in a single-file SQLite database.
// Useful on hosts where several tools share one credential database.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLiteRepo opens (and if needed initializes) the database at path.
func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewSQLiteRepo] open %s", path)
	}
	const schema = `
		CREATE TABLE IF NOT EXISTS session_entries (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "[NewSQLiteRepo] schema")
	}
	return &SQLiteRepo{db: db}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM session_entries WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "[SQLiteRepo.Get] %s", key)
	}
	return value, true, nil
}

func (r *SQLiteRepo) Set(key, value string) error {
	const q = `
		INSERT INTO session_entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.Exec(q, key, value); err != nil {
		return errors.Wrapf(err, "[SQLiteRepo.Set] %s", key)
	}
	return nil
}

func (r *SQLiteRepo) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM session_entries WHERE key = ?`, key); err != nil {
		return errors.Wrapf(err, "[SQLiteRepo.Delete] %s", key)
	}
	return nil
}
