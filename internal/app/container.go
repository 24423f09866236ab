package app

import (
	"context"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/infrastructure/blob"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"
	"jobboard/internal/usecase"
	"jobboard/internal/usecase/expiry"
	"jobboard/internal/ws"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB      database.DB
	Cache   *cache.Redis
	Resumes *blob.Store
	Hub     *ws.Hub
	Tokens  *jwt.HMACService

	JobRepo         *repository.PostgresJobRepository
	ApplicationRepo *repository.PostgresApplicationRepository
	UserRepo        *repository.PostgresUserRepository

	Jobs         *usecase.Jobs
	Applications *usecase.Applications
	Scheduler    *expiry.Scheduler
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	resumes, err := blob.NewLocal(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init resume storage")
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Cache:   cache.NewRedis(ctx, cfg.Redis, log),
		Resumes: resumes,
		Hub:     ws.NewHub(log),
		Tokens:  jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL),

		JobRepo:         repository.NewPostgresJobRepository(db),
		ApplicationRepo: repository.NewPostgresApplicationRepository(db),
		UserRepo:        repository.NewPostgresUserRepository(db),
	}

	c.Jobs = usecase.NewJobUsecase(c.JobRepo, c.Cache, c.Hub, log, usecase.WithListingTTL(cfg.Redis.ListTTL))
	c.Applications = usecase.NewApplicationUsecase(c.JobRepo, c.ApplicationRepo, c.Resumes, log)
	c.Scheduler = expiry.NewScheduler(c.Jobs, cfg.Expiry, log)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs error
	if c.Cache != nil {
		errs = errors.CombineErrors(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = errors.CombineErrors(errs, c.DB.Close())
	}
	return errs
}
