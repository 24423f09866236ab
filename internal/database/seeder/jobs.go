package seeder

import (
	"context"
	"encoding/json"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/domain/job"

	"github.com/cockroachdb/errors"
)

var demoDrafts = []job.Draft{
	{
		Title: "Backend Engineer", Description: "Own the listings API and its Postgres schema",
		Company: "Acme Labs", Location: "Bengaluru", State: string(job.StateKarnataka),
		Type: string(job.TypeFullTime), Salary: "₹18,00,000 per year", Requirements: []string{"Go", "PostgreSQL"},
	},
	{
		Title: "Weekend Store Assistant", Description: "Help customers and restock shelves on weekends",
		Company: "Fresh Mart", Location: "Kochi", State: string(job.StateKerala),
		Type: string(job.TypePartTime), Salary: "₹500 per day", Requirements: []string{"Customer service"},
	},
	{
		Title: "Remote Content Writer", Description: "Write product guides for an online learning platform",
		Company: "LearnWell", Location: "Chennai", State: string(job.StateTamilNadu),
		Type: string(job.TypeWorkFromHome), Salary: "₹25,000 per month", Requirements: []string{"English", "Research"},
	},
}

// DemoJobsSeeder writes approved postings owned by the demo client. It
// must run after DemoUsersSeeder.
type DemoJobsSeeder struct {
	Now func() time.Time
}

func (DemoJobsSeeder) Name() string { return "jobs" }

func (s DemoJobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "title", "requirements", "posted_by", "is_approved", "expires_at"); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	poster := fixtureID("user:client")

	return runInTx(ctx, db, func(tx database.Tx) error {
		for _, d := range demoDrafts {
			j, err := job.New(d, poster, now().UTC())
			if err != nil {
				return errors.Wrapf(err, "demo job %q", d.Title)
			}
			j.ID = fixtureID("job:" + d.Title)
			j.IsApproved = true

			reqs, err := json.Marshal(j.Requirements)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (id, title, description, company, location, state, job_type, salary,
					requirements, posted_by, is_approved, expires_at, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
				 ON CONFLICT (id) DO NOTHING`,
				j.ID, j.Title, j.Description, j.Company, j.Location, string(j.State), string(j.Type), j.Salary,
				string(reqs), j.PostedBy, j.IsApproved, j.ExpiresAt, j.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
