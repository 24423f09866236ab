package migration

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"jobboard/internal/database"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedded embed.FS

const advisoryLockKey int64 = 746295114

// Runner applies V<version>__<name>.sql files in version order. Applied
// versions are recorded with a checksum; editing an applied file is an error.
type Runner struct {
	// FS defaults to the migrations embedded in the binary.
	FS     fs.FS
	Logger *zap.Logger
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// Run applies every pending migration inside a single transaction guarded by
// a transaction-scoped advisory lock, so concurrent starters serialise.
func (r Runner) Run(ctx context.Context, db database.DB) (int, error) {
	if db == nil {
		return 0, errors.New("nil db")
	}

	migs, err := r.load()
	if err != nil {
		return 0, err
	}
	if len(migs) == 0 {
		return 0, nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "begin migration transaction")
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return 0, errors.Wrap(err, "acquire migration lock")
	}

	if _, err := tx.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return 0, errors.Wrap(err, "ensure schema_migrations")
	}

	applied, err := appliedChecksums(ctx, tx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migs {
		if sum, ok := applied[m.Version]; ok {
			if sum != m.Checksum {
				return 0, errors.Newf("migration checksum mismatch: version=%d name=%s", m.Version, m.Name)
			}
			continue
		}

		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			return 0, errors.Wrapf(err, "apply migration version=%d file=%s", m.Version, m.Filename)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name, checksum, applied_at) VALUES ($1, $2, $3, $4)`,
			m.Version, m.Name, m.Checksum, time.Now().UTC(),
		); err != nil {
			return 0, errors.Wrapf(err, "record migration version=%d", m.Version)
		}
		if r.Logger != nil {
			r.Logger.Info("migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "commit migrations")
	}
	return count, nil
}

func (r Runner) load() ([]Migration, error) {
	fsys := r.FS
	if fsys == nil {
		sub, err := fs.Sub(embedded, "migrations")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	return loadMigrations(fsys)
}

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	migs := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		m := fileRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, errors.Newf("invalid migration version: %s", name)
		}

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		sqlText := strings.TrimSpace(string(b))
		if sqlText == "" {
			return nil, errors.Newf("empty migration file: %s", name)
		}

		h := sha256.Sum256([]byte(sqlText))
		migs = append(migs, Migration{
			Version:  v,
			Name:     m[2],
			Filename: name,
			SQL:      sqlText,
			Checksum: hex.EncodeToString(h[:]),
		})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, errors.Newf("duplicate migration version: %d", migs[i].Version)
		}
	}

	return migs, nil
}

func appliedChecksums(ctx context.Context, tx database.Tx) (map[int64]string, error) {
	rows, err := tx.Query(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "read schema_migrations")
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var v int64
		var c string
		if err := rows.Scan(&v, &c); err != nil {
			return nil, err
		}
		out[v] = c
	}
	return out, rows.Err()
}
