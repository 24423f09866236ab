package application

import (
	"errors"
	"strings"
	"time"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("already applied for this job")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

// Application is one ledger entry keyed by (JobID, UserID).
type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	UserID      uuid.UUID
	Resume      string
	CoverLetter string
	Status      Status
	AppliedAt   time.Time

	// Job is resolved at read time and is nil once the job has been deleted
	// or swept.
	Job *JobSummary
}

// JobSummary is the slice of a job shown next to an application.
type JobSummary struct {
	ID       uuid.UUID
	Title    string
	Company  string
	Location string
	Type     job.Type
	Salary   string
	PostedBy uuid.UUID
}

func (a Application) JobAvailable() bool { return a.Job != nil }

func SummaryOf(j job.Job) *JobSummary {
	return &JobSummary{
		ID:       j.ID,
		Title:    j.Title,
		Company:  j.Company,
		Location: j.Location,
		Type:     j.Type,
		Salary:   j.Salary,
		PostedBy: j.PostedBy,
	}
}

// New builds a pending application. Eligibility has already been decided by
// the caller.
func New(jobID, userID uuid.UUID, resume, coverLetter string, now time.Time) Application {
	return Application{
		ID:          uuid.New(),
		JobID:       jobID,
		UserID:      userID,
		Resume:      resume,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      StatusPending,
		AppliedAt:   now.UTC(),
	}
}
