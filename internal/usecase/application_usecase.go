package usecase

import (
	"context"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/eligibility"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/blob"
	"jobboard/internal/logger"
	"jobboard/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ResumeStore interface {
	Save(ctx context.Context, u blob.Upload) (string, error)
	Delete(ctx context.Context, handle string) error
}

type ApplyInput struct {
	JobID       uuid.UUID
	CoverLetter string
	Resume      *blob.Upload
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor user.User, in ApplyInput) (application.Application, error)
	ListMine(ctx context.Context, actor user.User) ([]application.Application, error)
	ListForJob(ctx context.Context, actor user.User, jobID uuid.UUID) ([]application.Application, error)
	UpdateStatus(ctx context.Context, actor user.User, id uuid.UUID, status string) (application.Application, error)
}

type Applications struct {
	jobs    repository.JobRepository
	apps    repository.ApplicationRepository
	resumes ResumeStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewApplicationUsecase(jobs repository.JobRepository, apps repository.ApplicationRepository, resumes ResumeStore, log *zap.Logger) *Applications {
	return &Applications{
		jobs:    jobs,
		apps:    apps,
		resumes: resumes,
		logger:  logger.Named(log, "applications"),
		now:     time.Now,
	}
}

// Apply runs the eligibility rules and, when they pass, stores the resume
// and records the application. The resume check comes first; everything
// after it follows the engine's order.
func (u *Applications) Apply(ctx context.Context, actor user.User, in ApplyInput) (application.Application, error) {
	if in.Resume == nil {
		return application.Application{}, eligibility.ErrResumeRequired
	}

	now := u.now()
	var target *job.Job
	j, err := u.jobs.Get(ctx, in.JobID)
	switch {
	case err == nil:
		target = &j
	case !errors.Is(err, job.ErrNotFound):
		return application.Application{}, err
	}

	applied := false
	if target != nil {
		if applied, err = u.apps.Exists(ctx, in.JobID, actor.ID); err != nil {
			return application.Application{}, err
		}
	}

	decision := eligibility.CanApply(eligibility.Input{
		User:           actor,
		Job:            target,
		AlreadyApplied: applied,
		Now:            now,
	})
	if !decision.Allowed() {
		u.logger.Debug("application denied",
			zap.String(logger.FieldJobID, in.JobID.String()),
			zap.String(logger.FieldUserID, actor.ID.String()),
			zap.String(logger.FieldReason, string(decision.Reason)),
		)
		return application.Application{}, decision.Err()
	}

	handle, err := u.resumes.Save(ctx, *in.Resume)
	if err != nil {
		return application.Application{}, err
	}

	a := application.New(in.JobID, actor.ID, handle, in.CoverLetter, now)
	if err := u.apps.Create(ctx, a); err != nil {
		if delErr := u.resumes.Delete(ctx, handle); delErr != nil {
			u.logger.Warn("orphaned resume blob", zap.String("handle", handle), zap.Error(delErr))
		}
		return application.Application{}, err
	}
	a.Job = application.SummaryOf(*target)

	u.logger.Info("application recorded",
		zap.String(logger.FieldJobID, in.JobID.String()),
		zap.String(logger.FieldUserID, actor.ID.String()),
	)
	return a, nil
}

func (u *Applications) ListMine(ctx context.Context, actor user.User) ([]application.Application, error) {
	return u.apps.ListByUser(ctx, actor.ID)
}

// ListForJob is open to the job's poster and to admins.
func (u *Applications) ListForJob(ctx context.Context, actor user.User, jobID uuid.UUID) ([]application.Application, error) {
	j, err := u.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, j.PostedBy) {
		return nil, errors.Wrapf(ErrForbidden, "applications for job %s", jobID)
	}
	return u.apps.ListByJob(ctx, jobID)
}

// UpdateStatus lets the job's poster or an admin move an application along.
// Once the job is gone only an admin may.
func (u *Applications) UpdateStatus(ctx context.Context, actor user.User, id uuid.UUID, status string) (application.Application, error) {
	st, ok := application.ParseStatus(status)
	if !ok {
		return application.Application{}, domain.FieldError("status", "Invalid status")
	}

	a, err := u.apps.Get(ctx, id)
	if err != nil {
		return application.Application{}, err
	}

	switch {
	case actor.IsAdmin():
	case a.JobAvailable() && canManage(actor, a.Job.PostedBy):
	default:
		return application.Application{}, errors.Wrapf(ErrForbidden, "application %s", id)
	}

	updated, err := u.apps.UpdateStatus(ctx, id, st)
	if err != nil {
		return application.Application{}, err
	}

	u.logger.Info("application status updated",
		zap.String("application_id", id.String()),
		zap.String(logger.FieldActorID, actor.ID.String()),
		zap.String(logger.FieldStatus, string(st)),
	)
	return updated, nil
}
