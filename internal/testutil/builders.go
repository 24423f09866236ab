package testutil

import (
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

// NewUser returns a verified user with the given role.
func NewUser(role user.Role) user.User {
	return user.User{
		ID:         uuid.New(),
		Name:       string(role) + " user",
		Email:      uuid.NewString()[:8] + "@example.com",
		Role:       role,
		IsVerified: true,
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func Unverified(u user.User) user.User {
	u.IsVerified = false
	return u
}

// DraftBuilder builds valid job drafts with overridable fields.
type DraftBuilder struct {
	d job.Draft
}

func NewDraft() *DraftBuilder {
	return &DraftBuilder{d: job.Draft{
		Title:        "Backend Engineer",
		Description:  "Build and run the job board API",
		Company:      "Acme",
		Location:     "Bengaluru",
		State:        string(job.StateKarnataka),
		Type:         string(job.TypeFullTime),
		Salary:       "₹30,000",
		Requirements: []string{"Go", "PostgreSQL"},
	}}
}

func (b *DraftBuilder) WithType(t job.Type) *DraftBuilder {
	b.d.Type = string(t)
	return b
}

func (b *DraftBuilder) WithTitle(title string) *DraftBuilder {
	b.d.Title = title
	return b
}

func (b *DraftBuilder) WithState(s job.State) *DraftBuilder {
	b.d.State = string(s)
	return b
}

func (b *DraftBuilder) WithExpiry(t time.Time) *DraftBuilder {
	b.d.ExpiresAt = &t
	return b
}

func (b *DraftBuilder) Build() job.Draft {
	d := b.d
	d.Requirements = append([]string(nil), b.d.Requirements...)
	return d
}

// NewJob builds a stored job posted by owner.
func NewJob(owner uuid.UUID, t job.Type, approved bool, createdAt time.Time) job.Job {
	j, err := job.New(NewDraft().WithType(t).Build(), owner, createdAt)
	if err != nil {
		panic(err)
	}
	j.IsApproved = approved
	return j
}
