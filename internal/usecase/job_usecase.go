package usecase

import (
	"context"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/logger"
	"jobboard/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingCache holds public listing pages. Implementations must treat a
// failed backend as a miss.
type ListingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evt job.Event)
}

type JobUsecase interface {
	Create(ctx context.Context, actor user.User, d job.Draft) (job.Job, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	List(ctx context.Context, f job.Filter) ([]job.Job, error)
	ListMine(ctx context.Context, actor user.User) ([]job.Job, error)
	ListAll(ctx context.Context, actor user.User) ([]job.Job, error)
	Update(ctx context.Context, actor user.User, id uuid.UUID, p job.Patch) (job.Job, error)
	Approve(ctx context.Context, actor user.User, id uuid.UUID) (job.Job, error)
	Delete(ctx context.Context, actor user.User, id uuid.UUID) error
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}

// Jobs is the job lifecycle controller: it owns every transition between
// pending, approved, expired and deleted.
type Jobs struct {
	jobs   repository.JobRepository
	cache  ListingCache
	events EventPublisher
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

type JobsOption func(*Jobs)

func WithJobsClock(now func() time.Time) JobsOption {
	return func(u *Jobs) { u.now = now }
}

func WithListingTTL(ttl time.Duration) JobsOption {
	return func(u *Jobs) { u.ttl = ttl }
}

func NewJobUsecase(jobs repository.JobRepository, cache ListingCache, events EventPublisher, log *zap.Logger, opts ...JobsOption) *Jobs {
	u := &Jobs{
		jobs:   jobs,
		cache:  cache,
		events: events,
		logger: logger.Named(log, "jobs"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Jobs) Create(ctx context.Context, actor user.User, d job.Draft) (job.Job, error) {
	if !actor.HasRole(user.RoleClient, user.RoleAdmin) {
		return job.Job{}, ErrForbidden
	}

	j, err := job.New(d, actor.ID, u.now())
	if err != nil {
		return job.Job{}, err
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		return job.Job{}, err
	}

	u.logger.Info("job created",
		zap.String(logger.FieldJobID, j.ID.String()),
		zap.String(logger.FieldActorID, actor.ID.String()),
		zap.String("job_type", string(j.Type)),
	)
	u.changed(ctx, job.EventCreated, j.ID)
	return j, nil
}

func (u *Jobs) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return u.jobs.Get(ctx, id)
}

// List serves the public listing, going through the cache when one is
// configured. Cached pages are re-checked against the clock so an entry
// that expired since it was cached is never shown.
func (u *Jobs) List(ctx context.Context, f job.Filter) ([]job.Job, error) {
	f = f.Normalize()
	now := u.now()
	key := ListCacheKey(f)

	if u.cache != nil {
		var cached []job.Job
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.logger.Debug("listing cache read failed", zap.Error(err))
		}
		if hit {
			out := cached[:0]
			for _, j := range cached {
				if j.IsListed(now) {
					out = append(out, j)
				}
			}
			return out, nil
		}
	}

	jobs, err := u.jobs.List(ctx, f, now)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, jobs, u.ttl); err != nil {
			u.logger.Debug("listing cache write failed", zap.Error(err))
		}
	}
	return jobs, nil
}

func (u *Jobs) ListMine(ctx context.Context, actor user.User) ([]job.Job, error) {
	if !actor.HasRole(user.RoleClient, user.RoleAdmin) {
		return nil, ErrForbidden
	}
	return u.jobs.ListByOwner(ctx, actor.ID)
}

func (u *Jobs) ListAll(ctx context.Context, actor user.User) ([]job.Job, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return u.jobs.ListAll(ctx)
}

// Update edits an existing job. Approval survives edits.
func (u *Jobs) Update(ctx context.Context, actor user.User, id uuid.UUID, p job.Patch) (job.Job, error) {
	current, err := u.authorized(ctx, actor, id)
	if err != nil {
		return job.Job{}, err
	}

	edited, err := current.Apply(p, u.now())
	if err != nil {
		return job.Job{}, err
	}
	if p.Empty() {
		return current, nil
	}
	if err := u.jobs.Update(ctx, edited); err != nil {
		return job.Job{}, err
	}

	u.logger.Info("job updated",
		zap.String(logger.FieldJobID, id.String()),
		zap.String(logger.FieldActorID, actor.ID.String()),
	)
	u.changed(ctx, job.EventUpdated, id)
	return edited, nil
}

// Approve makes a pending job publicly visible. It is admin-only and
// idempotent.
func (u *Jobs) Approve(ctx context.Context, actor user.User, id uuid.UUID) (job.Job, error) {
	if !actor.IsAdmin() {
		return job.Job{}, ErrForbidden
	}
	j, err := u.jobs.Approve(ctx, id)
	if err != nil {
		return job.Job{}, err
	}

	u.logger.Info("job approved",
		zap.String(logger.FieldJobID, id.String()),
		zap.String(logger.FieldActorID, actor.ID.String()),
	)
	u.changed(ctx, job.EventApproved, id)
	return j, nil
}

func (u *Jobs) Delete(ctx context.Context, actor user.User, id uuid.UUID) error {
	if _, err := u.authorized(ctx, actor, id); err != nil {
		return err
	}
	if err := u.jobs.Delete(ctx, id); err != nil {
		return err
	}

	u.logger.Info("job deleted",
		zap.String(logger.FieldJobID, id.String()),
		zap.String(logger.FieldActorID, actor.ID.String()),
	)
	u.changed(ctx, job.EventDeleted, id)
	return nil
}

// ExpireBefore deletes every job whose expiry lies strictly before now.
func (u *Jobs) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	n, err := u.jobs.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.invalidate(ctx)
		if u.events != nil {
			u.events.Publish(ctx, job.Event{Type: job.EventExpired, Count: n, At: now.UTC()})
		}
	}
	return n, nil
}

// authorized loads id and applies the owner-or-admin rule. A missing job
// wins over a forbidden one.
func (u *Jobs) authorized(ctx context.Context, actor user.User, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.Get(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if !canManage(actor, j.PostedBy) {
		return job.Job{}, errors.Wrapf(ErrForbidden, "job %s", id)
	}
	return j, nil
}

func (u *Jobs) changed(ctx context.Context, t job.EventType, id uuid.UUID) {
	u.invalidate(ctx)
	if u.events != nil {
		u.events.Publish(ctx, job.Event{Type: t, JobID: id, At: u.now().UTC()})
	}
}

func (u *Jobs) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, listCachePattern); err != nil {
		u.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}
