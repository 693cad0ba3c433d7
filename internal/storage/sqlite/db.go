// Package sqlite stores the catalog and loans in a single SQLite file.
// Queries are built with goqu and executed through sqlx.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var dialect = goqu.Dialect("sqlite3")

const schema = `
CREATE TABLE IF NOT EXISTS authors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	author_id INTEGER NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
	genre TEXT NOT NULL,
	blurb TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_books_title ON books(title);

CREATE TABLE IF NOT EXISTS borrowers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS loans (
	id TEXT PRIMARY KEY,
	book_id INTEGER NOT NULL,
	borrower_id INTEGER NOT NULL,
	borrow_date TEXT NOT NULL,
	due_date TEXT NOT NULL,
	return_date TEXT,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL,
	CHECK (return_date IS NULL OR return_date >= borrow_date)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_loans_one_open_per_book ON loans(book_id) WHERE return_date IS NULL;
CREATE INDEX IF NOT EXISTS idx_loans_borrower ON loans(borrower_id, borrow_date);
`

// DB is an open SQLite database with the library schema applied.
type DB struct {
	db *sqlx.DB
}

// Open creates the file (and its directory) if needed and applies the schema.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers; transactions carry it in ctx.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

type txKey struct{}

func (d *DB) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ext returns the transaction in ctx, or the pool.
func (d *DB) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return d.db
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func (d *DB) get(ctx context.Context, dest any, b sqlBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.GetContext(ctx, d.ext(ctx), dest, query, args...)
}

func (d *DB) selectAll(ctx context.Context, dest any, b sqlBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.SelectContext(ctx, d.ext(ctx), dest, query, args...)
}

func (d *DB) exec(ctx context.Context, b sqlBuilder) (rowsAffected, lastID int64, err error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return 0, 0, fmt.Errorf("build query: %w", err)
	}
	res, err := d.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, err
	}
	if rowsAffected, err = res.RowsAffected(); err != nil {
		return 0, 0, err
	}
	if lastID, err = res.LastInsertId(); err != nil {
		return 0, 0, err
	}
	return rowsAffected, lastID, nil
}

func isConstraint(err error, code int) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == code
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE)
}

func isForeignKeyViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
}
