package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/payoff"
)

// SQLiteStore implements BookStore using SQLite.
type SQLiteStore struct {
	db          *sql.DB
	mu          sync.RWMutex // serializes writers
	keepHistory int
	retry       RetryConfig
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithKeepHistory caps the saved analyses per book. Zero keeps everything.
func WithKeepHistory(n int) Option {
	return func(s *SQLiteStore) {
		s.keepHistory = n
	}
}

// NewSQLiteStore creates a new SQLite-based book store.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Every connection would see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}

	store := &SQLiteStore{db: db, retry: DefaultRetryConfig()}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Named books
	CREATE TABLE IF NOT EXISTS books (
		name TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	-- Legs in entry order per book
	CREATE TABLE IF NOT EXISTS legs (
		id TEXT PRIMARY KEY,
		book TEXT NOT NULL,
		seq INTEGER NOT NULL,
		category TEXT NOT NULL,
		strike REAL NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL,
		side TEXT NOT NULL,
		price REAL NOT NULL,
		UNIQUE(book, seq)
	);

	-- Saved analyses
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		book TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		strategy TEXT NOT NULL,
		break_evens TEXT NOT NULL,
		risk TEXT NOT NULL,
		legs INTEGER NOT NULL,
		max_pnl REAL NOT NULL,
		min_pnl REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_legs_book ON legs(book, seq);
	CREATE INDEX IF NOT EXISTS idx_analyses_book ON analyses(book, timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Book Methods
// ============================================================================

// bookNamePattern allows letters, digits, spaces, dots, dashes and underscores.
var bookNamePattern = regexp.MustCompile(`^[A-Za-z0-9_. -]{1,64}$`)

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.Wrap(apperrors.ErrInputValidation, "book name is required")
	}
	if !bookNamePattern.MatchString(name) {
		return "", apperrors.Wrapf(apperrors.ErrInputValidation, "invalid book name %q", name)
	}
	return name, nil
}

// LoadBook reads a book and replays its legs in entry order. A book that was
// never saved returns a DataError matching ErrBookNotFound.
func (s *SQLiteStore) LoadBook(ctx context.Context, name string) (payoff.Book, error) {
	name, err := normalizeName(name)
	if err != nil {
		return payoff.Book{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return payoff.Book{}, apperrors.NewDataError("book", name, "failed to look up book", fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err))
	}
	if exists == 0 {
		return payoff.Book{}, apperrors.NewDataError("book", name, "not found", apperrors.ErrBookNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, strike, quantity, side, price
		FROM legs
		WHERE book = ?
		ORDER BY seq ASC
	`, name)
	if err != nil {
		return payoff.Book{}, fmt.Errorf("failed to query legs: %w", err)
	}
	defer rows.Close()

	var book payoff.Book
	for rows.Next() {
		var r LegRecord
		if err := rows.Scan(&r.Category, &r.Strike, &r.Quantity, &r.Side, &r.Price); err != nil {
			return payoff.Book{}, fmt.Errorf("failed to scan leg: %w", err)
		}
		if book, err = r.applyTo(book); err != nil {
			return payoff.Book{}, apperrors.NewDataError("leg", name, "stored leg is invalid", err)
		}
	}
	if err := rows.Err(); err != nil {
		return payoff.Book{}, fmt.Errorf("error iterating legs: %w", err)
	}

	return book, nil
}

// SaveBook replaces the stored legs of a book in one transaction.
func (s *SQLiteStore) SaveBook(ctx context.Context, name string, book payoff.Book) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	return retry(ctx, s.retry, func() error {
		return s.saveBook(ctx, name, book)
	})
}

func (s *SQLiteStore) saveBook(ctx context.Context, name string, book payoff.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO books (name, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`, name, now, now); err != nil {
		return fmt.Errorf("failed to upsert book: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM legs WHERE book = ?`, name); err != nil {
		return fmt.Errorf("failed to clear legs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO legs (id, book, seq, category, strike, quantity, side, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for seq, r := range RecordsFromBook(book) {
		_, err := stmt.ExecContext(ctx, uuid.New().String(), name, seq, r.Category, r.Strike, r.Quantity, r.Side, r.Price)
		if err != nil {
			return fmt.Errorf("failed to insert leg: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBooks returns every stored book with its leg count.
func (s *SQLiteStore) ListBooks(ctx context.Context) ([]BookInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.name, b.updated_at, COUNT(l.id)
		FROM books b
		LEFT JOIN legs l ON l.book = b.name
		GROUP BY b.name, b.updated_at
		ORDER BY b.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []BookInfo
	for rows.Next() {
		var b BookInfo
		if err := rows.Scan(&b.Name, &b.UpdatedAt, &b.Legs); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	return books, rows.Err()
}

// DeleteBook removes a book, its legs and its history.
func (s *SQLiteStore) DeleteBook(ctx context.Context, name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	return retry(ctx, s.retry, func() error {
		return s.deleteBook(ctx, name)
	})
}

func (s *SQLiteStore) deleteBook(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM books WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewDataError("book", name, "not found", apperrors.ErrBookNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM legs WHERE book = ?`, name); err != nil {
		return fmt.Errorf("failed to delete legs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE book = ?`, name); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}

	return tx.Commit()
}

// ============================================================================
// History Methods
// ============================================================================

// RecordAnalysis saves the headline results of an analysis and prunes the
// book's history to the configured size.
func (s *SQLiteStore) RecordAnalysis(ctx context.Context, book string, analysis *payoff.Analysis) (*AnalysisRecord, error) {
	book, err := normalizeName(book)
	if err != nil {
		return nil, err
	}

	rec := &AnalysisRecord{
		ID:         uuid.New().String(),
		Book:       book,
		Timestamp:  time.Now().UTC(),
		Strategy:   analysis.Strategy,
		BreakEvens: analysis.BreakEvens,
		Risk:       analysis.Risk,
		Legs:       analysis.Mix.Total(),
		MaxPnL:     analysis.Profile.MaxPnL(),
		MinPnL:     analysis.Profile.MinPnL(),
	}
	if rec.BreakEvens == nil {
		rec.BreakEvens = []float64{}
	}

	breakEvens, err := json.Marshal(rec.BreakEvens)
	if err != nil {
		return nil, fmt.Errorf("failed to encode break-evens: %w", err)
	}
	risk, err := json.Marshal(rec.Risk)
	if err != nil {
		return nil, fmt.Errorf("failed to encode risk: %w", err)
	}

	err = retry(ctx, s.retry, func() error {
		return s.insertAnalysis(ctx, rec, string(breakEvens), string(risk))
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *SQLiteStore) insertAnalysis(ctx context.Context, rec *AnalysisRecord, breakEvens, risk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analyses (id, book, timestamp, strategy, break_evens, risk, legs, max_pnl, min_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Book, rec.Timestamp, rec.Strategy.String(), breakEvens, risk, rec.Legs, rec.MaxPnL, rec.MinPnL)
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}

	if s.keepHistory > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM analyses
			WHERE book = ? AND id NOT IN (
				SELECT id FROM analyses WHERE book = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?
			)
		`, rec.Book, rec.Book, s.keepHistory)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
	}

	return tx.Commit()
}

// History returns saved analyses, newest first.
func (s *SQLiteStore) History(ctx context.Context, filter HistoryFilter) ([]AnalysisRecord, error) {
	query := "SELECT id, book, timestamp, strategy, break_evens, risk, legs, max_pnl, min_pnl FROM analyses WHERE 1=1"
	args := []interface{}{}

	if filter.Book != "" {
		book, err := normalizeName(filter.Book)
		if err != nil {
			return nil, err
		}
		query += " AND book = ?"
		args = append(args, book)
	}
	if filter.Strategy != "" {
		query += " AND strategy = ?"
		args = append(args, filter.Strategy)
	}

	query += " ORDER BY timestamp DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var r AnalysisRecord
		var strategy, breakEvensJSON, riskJSON string

		if err := rows.Scan(&r.ID, &r.Book, &r.Timestamp, &strategy, &breakEvensJSON, &riskJSON, &r.Legs, &r.MaxPnL, &r.MinPnL); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}

		r.Strategy = payoff.ParseStrategy(strategy)
		if err := json.Unmarshal([]byte(breakEvensJSON), &r.BreakEvens); err != nil {
			return nil, fmt.Errorf("failed to decode break-evens of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(riskJSON), &r.Risk); err != nil {
			return nil, fmt.Errorf("failed to decode risk of %s: %w", r.ID, err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

var _ BookStore = (*SQLiteStore)(nil)

