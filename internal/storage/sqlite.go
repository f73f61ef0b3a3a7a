package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/itrgo/internal/domain"

	_ "modernc.org/sqlite"
)

// Fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists records and users in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// one writer keeps sqlite from returning SQLITE_BUSY under concurrent appends
	db.SetMaxOpenConns(1)
	s, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open database and creates missing tables.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tax_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		pan TEXT NOT NULL,
		status TEXT NOT NULL,
		income REAL NOT NULL,
		tax REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tax_records_created_at ON tax_records (created_at);
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash BLOB NOT NULL,
		created_at TEXT NOT NULL
	);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, rec domain.StoredRecord) error {
	query := `INSERT INTO tax_records (name, pan, status, income, tax, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		rec.Name, rec.PAN, string(rec.Status), rec.Income, rec.Tax, rec.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert tax record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.StoredRecord, error) {
	query := `
		SELECT name, pan, status, income, tax, created_at
		FROM tax_records
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []domain.StoredRecord{}
	for rows.Next() {
		var (
			rec     domain.StoredRecord
			status  string
			created string
		)
		if err := rows.Scan(&rec.Name, &rec.PAN, &status, &rec.Income, &rec.Tax, &created); err != nil {
			return nil, fmt.Errorf("failed to scan tax record: %w", err)
		}
		rec.Status = domain.ComplianceStatus(status)
		if rec.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", created, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u User) error {
	query := `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) ON CONFLICT(username) DO NOTHING`
	res, err := s.db.ExecContext(ctx, query, u.Username, u.PasswordHash, u.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if n == 0 {
		return ErrUserExists
	}
	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT username, password_hash, created_at FROM users WHERE username = ?`, username)
	var (
		u       User
		created string
	)
	if err := row.Scan(&u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}
	var err error
	if u.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return User{}, fmt.Errorf("invalid created_at %q: %w", created, err)
	}
	return u, nil
}
