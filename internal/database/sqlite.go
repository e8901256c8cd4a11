package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) an SQLite database at dsn and runs migrations.
// For in-memory use pass "file::memory:?cache=shared".
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	} else if !strings.Contains(dsn, "_journal_mode") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// ReplaceCountries stores any valid JSON element. Elements that are not
// objects carry no codes and are only reachable through ListCountries.
func (s *SQLiteDB) ReplaceCountries(records []json.RawMessage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM countries`); err != nil {
		return fmt.Errorf("clear countries: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO countries (position, cca2, cca3, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if !gjson.ValidBytes(rec) {
			return fmt.Errorf("record %d is not valid JSON", i)
		}
		cca2 := strings.ToUpper(gjson.GetBytes(rec, "cca2").String())
		cca3 := strings.ToUpper(gjson.GetBytes(rec, "cca3").String())
		if _, err := stmt.Exec(i, cca2, cca3, string(rec)); err != nil {
			return fmt.Errorf("insert country %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListCountries() ([]json.RawMessage, error) {
	rows, err := s.db.Query(`SELECT body FROM countries ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	records := []json.RawMessage{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		records = append(records, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}
	return records, nil
}

func (s *SQLiteDB) GetCountry(code string) (json.RawMessage, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	code = strings.ToUpper(code)
	var body string
	err := s.db.QueryRow(`
		SELECT body FROM countries
		WHERE cca2 = ? OR cca3 = ?
		ORDER BY position ASC LIMIT 1`,
		code, code,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", code, err)
	}
	return json.RawMessage(body), nil
}

func (s *SQLiteDB) CountCountries() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM countries`).Scan(&count)
	return count, err
}
