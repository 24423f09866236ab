package job

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated  EventType = "job_created"
	EventUpdated  EventType = "job_updated"
	EventApproved EventType = "job_approved"
	EventDeleted  EventType = "job_deleted"
	EventExpired  EventType = "jobs_expired"
)

// Event announces a lifecycle transition to live listeners. JobID is unset
// for sweeps, which report Count instead.
type Event struct {
	Type  EventType `json:"type"`
	JobID uuid.UUID `json:"job_id,omitzero"`
	Count int64     `json:"count,omitempty"`
	At    time.Time `json:"timestamp"`
}
