package dto

import (
	"time"

	"jobboard/internal/domain/application"

	"github.com/google/uuid"
)

type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

type JobSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Company  string    `json:"company"`
	Location string    `json:"location"`
	JobType  string    `json:"jobType"`
	Salary   string    `json:"salary"`
}

// ApplicationResponse carries a nil Job once the posting is gone.
type ApplicationResponse struct {
	ID          uuid.UUID           `json:"id"`
	JobID       uuid.UUID           `json:"jobId"`
	UserID      uuid.UUID           `json:"userId"`
	Resume      string              `json:"resume"`
	CoverLetter string              `json:"coverLetter"`
	Status      string              `json:"status"`
	AppliedAt   time.Time           `json:"appliedAt"`
	Job         *JobSummaryResponse `json:"job"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	out := ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		UserID:      a.UserID,
		Resume:      a.Resume,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		AppliedAt:   a.AppliedAt,
	}
	if a.Job != nil {
		out.Job = &JobSummaryResponse{
			ID:       a.Job.ID,
			Title:    a.Job.Title,
			Company:  a.Job.Company,
			Location: a.Job.Location,
			JobType:  string(a.Job.Type),
			Salary:   a.Job.Salary,
		}
	}
	return out
}

func NewApplicationResponses(apps []application.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}
