package repository

import (
	"context"
	"database/sql"

	"jobboard/internal/database"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) error
	Exists(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (application.Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]application.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// Applications keep their job_id after the job is gone, so reads LEFT JOIN
// and surface a nil summary for dangling references.
const applicationSelect = `SELECT a.id, a.job_id, a.user_id, a.resume, a.cover_letter, a.status, a.applied_at,
	j.id, j.title, j.company, j.location, j.job_type, j.salary, j.posted_by
	FROM applications a
	LEFT JOIN jobs j ON j.id = a.job_id`

// Create inserts a; a second application for the same (job, user) pair
// fails with application.ErrAlreadyApplied.
func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, user_id, resume, cover_letter, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.JobID, a.UserID, a.Resume, a.CoverLetter, string(a.Status), a.AppliedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return application.ErrAlreadyApplied
		}
		return errors.Wrap(err, "insert application")
	}
	return nil
}

func (r *PostgresApplicationRepository) Exists(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`, jobID, userID)
	if err := row.Scan(&exists); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "check application")
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) Get(ctx context.Context, id uuid.UUID) (application.Application, error) {
	a, err := scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, errors.Wrap(err, "get application")
	}
	return a, nil
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]application.Application, error) {
	return r.queryApplications(ctx, "list applications by user",
		applicationSelect+` WHERE a.user_id = $1 ORDER BY a.applied_at DESC`, userID)
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return r.queryApplications(ctx, "list applications by job",
		applicationSelect+` WHERE a.job_id = $1 ORDER BY a.applied_at DESC`, jobID)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error) {
	n, err := r.db.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return application.Application{}, errors.Wrap(err, "update application status")
	}
	if n == 0 {
		return application.Application{}, application.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *PostgresApplicationRepository) queryApplications(ctx context.Context, op, q string, args ...any) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a        application.Application
		status   string
		jobID    uuid.NullUUID
		title    sql.NullString
		company  sql.NullString
		location sql.NullString
		jobType  sql.NullString
		salary   sql.NullString
		postedBy uuid.NullUUID
	)
	if err := row.Scan(
		&a.ID, &a.JobID, &a.UserID, &a.Resume, &a.CoverLetter, &status, &a.AppliedAt,
		&jobID, &title, &company, &location, &jobType, &salary, &postedBy,
	); err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	a.AppliedAt = a.AppliedAt.UTC()

	if jobID.Valid {
		a.Job = &application.JobSummary{
			ID:       jobID.UUID,
			Title:    title.String,
			Company:  company.String,
			Location: location.String,
			Type:     job.Type(jobType.String),
			Salary:   salary.String,
			PostedBy: postedBy.UUID,
		}
	}
	return a, nil
}
