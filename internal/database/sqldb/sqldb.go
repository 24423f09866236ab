// Package sqldb adapts a *sql.DB to database.DB. It backs the repository
// tests (go-sqlmock) and any deployment that prefers the pgx stdlib driver.
package sqldb

import (
	"context"
	"database/sql"

	"jobboard/internal/database"

	"github.com/cockroachdb/errors"
)

type DB struct {
	db *sql.DB
}

func New(db *sql.DB) *DB {
	return &DB{db: db}
}

func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.db == nil {
		return errors.New("nil db")
	}
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r: r}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *DB) Begin(ctx context.Context) (database.Tx, error) {
	t, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx{t: t}, nil
}

func (d *DB) SQLDB() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}

type tx struct {
	t *sql.Tx
}

func (t tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.t.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t tx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := t.t.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r: r}, nil
}

func (t tx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.t.QueryRowContext(ctx, query, args...)
}

func (t tx) Commit(_ context.Context) error {
	return t.t.Commit()
}

func (t tx) Rollback(_ context.Context) error {
	return t.t.Rollback()
}

// rows drops the error from (*sql.Rows).Close so it matches database.Rows;
// the same error resurfaces through Err.
type rows struct {
	r *sql.Rows
}

func (r rows) Close()                 { _ = r.r.Close() }
func (r rows) Next() bool             { return r.r.Next() }
func (r rows) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r rows) Err() error             { return r.r.Err() }
