package dto

import (
	"time"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

type CreateJobRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	State        string     `json:"state"`
	JobType      string     `json:"jobType"`
	Salary       string     `json:"salary"`
	Requirements []string   `json:"requirements"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

func (r CreateJobRequest) Draft() job.Draft {
	return job.Draft{
		Title:        r.Title,
		Description:  r.Description,
		Company:      r.Company,
		Location:     r.Location,
		State:        r.State,
		Type:         r.JobType,
		Salary:       r.Salary,
		Requirements: r.Requirements,
		ExpiresAt:    r.ExpiresAt,
	}
}

// UpdateJobRequest is a partial edit; absent fields stay as they are.
type UpdateJobRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Company      *string    `json:"company"`
	Location     *string    `json:"location"`
	State        *string    `json:"state"`
	JobType      *string    `json:"jobType"`
	Salary       *string    `json:"salary"`
	Requirements *[]string  `json:"requirements"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

func (r UpdateJobRequest) Patch() job.Patch {
	return job.Patch{
		Title:        r.Title,
		Description:  r.Description,
		Company:      r.Company,
		Location:     r.Location,
		State:        r.State,
		Type:         r.JobType,
		Salary:       r.Salary,
		Requirements: r.Requirements,
		ExpiresAt:    r.ExpiresAt,
	}
}

type JobResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	State        string     `json:"state"`
	JobType      string     `json:"jobType"`
	Salary       string     `json:"salary"`
	Requirements []string   `json:"requirements"`
	PostedBy     uuid.UUID  `json:"postedBy"`
	IsApproved   bool       `json:"isApproved"`
	Status       string     `json:"status"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func NewJobResponse(j job.Job, now time.Time) JobResponse {
	reqs := j.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return JobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Description:  j.Description,
		Company:      j.Company,
		Location:     j.Location,
		State:        string(j.State),
		JobType:      string(j.Type),
		Salary:       j.Salary,
		Requirements: reqs,
		PostedBy:     j.PostedBy,
		IsApproved:   j.IsApproved,
		Status:       string(j.Status(now)),
		ExpiresAt:    j.ExpiresAt,
		CreatedAt:    j.CreatedAt,
	}
}

func NewJobResponses(jobs []job.Job, now time.Time) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j, now))
	}
	return out
}

type JobListResponse struct {
	Jobs   []JobResponse `json:"jobs"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
