package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/domain/job"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type JobRepository interface {
	Create(ctx context.Context, j job.Job) error
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	List(ctx context.Context, f job.Filter, now time.Time) ([]job.Job, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error)
	ListAll(ctx context.Context) ([]job.Job, error)
	Update(ctx context.Context, j job.Job) error
	Approve(ctx context.Context, id uuid.UUID) (job.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, title, description, company, location, state, job_type, salary,
	requirements, posted_by, is_approved, expires_at, created_at`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	reqs, err := encodeRequirements(j.Requirements)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		j.ID, j.Title, j.Description, j.Company, j.Location, string(j.State), string(j.Type), j.Salary,
		reqs, j.PostedBy, j.IsApproved, nullTime(j.ExpiresAt), j.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert job")
	}
	return nil
}

func (r *PostgresJobRepository) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, errors.Wrap(err, "get job")
	}
	return j, nil
}

// List returns the public listing: approved and unexpired jobs matching f,
// newest first.
func (r *PostgresJobRepository) List(ctx context.Context, f job.Filter, now time.Time) ([]job.Job, error) {
	f = f.Normalize()

	where := []string{"is_approved", "(expires_at IS NULL OR expires_at > $1)"}
	args := []any{now}

	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("job_type = $%d", len(args)))
	}
	if f.State != "" {
		args = append(args, string(f.State))
		where = append(where, fmt.Sprintf("state = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR company ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}

	args = append(args, f.Limit, f.Offset)
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return r.queryJobs(ctx, "list jobs", q, args...)
}

func (r *PostgresJobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error) {
	return r.queryJobs(ctx, "list jobs by owner",
		`SELECT `+jobColumns+` FROM jobs WHERE posted_by = $1 ORDER BY created_at DESC`, ownerID)
}

// ListAll is the moderation view: every stored job regardless of approval
// or expiry.
func (r *PostgresJobRepository) ListAll(ctx context.Context) ([]job.Job, error) {
	return r.queryJobs(ctx, "list all jobs",
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
}

// Update writes the editable fields. Approval and ownership are never
// touched here.
func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) error {
	reqs, err := encodeRequirements(j.Requirements)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE jobs
		 SET title = $2, description = $3, company = $4, location = $5, state = $6,
		     job_type = $7, salary = $8, requirements = $9, expires_at = $10
		 WHERE id = $1`,
		j.ID, j.Title, j.Description, j.Company, j.Location, string(j.State),
		string(j.Type), j.Salary, reqs, nullTime(j.ExpiresAt),
	)
	if err != nil {
		return errors.Wrap(err, "update job")
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) Approve(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE jobs SET is_approved = TRUE WHERE id = $1 RETURNING `+jobColumns, id)
	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, errors.Wrap(err, "approve job")
	}
	return j, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete job")
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

// DeleteExpired removes every job whose expiry lies strictly before now and
// reports how many rows went.
func (r *PostgresJobRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.db.Exec(ctx,
		`DELETE FROM jobs WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, errors.Wrap(err, "delete expired jobs")
	}
	return n, nil
}

func (r *PostgresJobRepository) queryJobs(ctx context.Context, op, q string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j         job.Job
		state     string
		jobType   string
		reqs      []byte
		expiresAt sql.NullTime
	)
	if err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Company, &j.Location, &state, &jobType, &j.Salary,
		&reqs, &j.PostedBy, &j.IsApproved, &expiresAt, &j.CreatedAt,
	); err != nil {
		return job.Job{}, err
	}
	j.State = job.State(state)
	j.Type = job.Type(jobType)
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		j.ExpiresAt = &t
	}
	j.CreatedAt = j.CreatedAt.UTC()

	j.Requirements = []string{}
	if len(reqs) > 0 {
		if err := json.Unmarshal(reqs, &j.Requirements); err != nil {
			return job.Job{}, errors.Wrap(err, "decode requirements")
		}
	}
	return j, nil
}

func encodeRequirements(reqs []string) (string, error) {
	if reqs == nil {
		reqs = []string{}
	}
	b, err := json.Marshal(reqs)
	if err != nil {
		return "", errors.Wrap(err, "encode requirements")
	}
	return string(b), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
