// Package seeder loads development fixtures: one verified account per role
// and a handful of approved postings. Every seeder is idempotent.
package seeder

import (
	"context"

	"jobboard/internal/database"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return errors.Wrapf(err, "seed %s", s.Name())
		}
		log.Info("seeded", zap.String("seeder", s.Name()))
	}
	return nil
}

// runInTx commits fn's writes or none of them.
func runInTx(ctx context.Context, db database.DB, fn func(tx database.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}
