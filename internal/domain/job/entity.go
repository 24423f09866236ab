package job

import (
	"errors"
	"strings"
	"time"

	"jobboard/internal/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

// PartTimeLifetime is how long a part-time posting stays open when the
// poster does not choose an expiry.
const PartTimeLifetime = 24 * time.Hour

type Type string

const (
	TypePartTime     Type = "part-time"
	TypeFullTime     Type = "full-time"
	TypeWorkFromHome Type = "work-from-home"
)

func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypePartTime, TypeFullTime, TypeWorkFromHome:
		return t, true
	default:
		return "", false
	}
}

type State string

const (
	StateAndhraPradesh State = "Andhra Pradesh"
	StateKarnataka     State = "Karnataka"
	StateKerala        State = "Kerala"
	StateTamilNadu     State = "Tamil Nadu"
	StateTelangana     State = "Telangana"
	StatePuducherry    State = "Puducherry"
)

var States = []State{
	StateAndhraPradesh,
	StateKarnataka,
	StateKerala,
	StateTamilNadu,
	StateTelangana,
	StatePuducherry,
}

// ParseState matches case-insensitively and returns the canonical spelling.
func ParseState(s string) (State, bool) {
	s = strings.TrimSpace(s)
	for _, st := range States {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Status is the derived lifecycle position of a stored job.
type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusExpired         Status = "expired"
)

type Job struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Company      string
	Location     string
	State        State
	Type         Type
	Salary       string
	Requirements []string
	PostedBy     uuid.UUID
	IsApproved   bool
	ExpiresAt    *time.Time
	CreatedAt    time.Time
}

// IsExpired reports whether the expiry instant lies strictly before now.
func (j Job) IsExpired(now time.Time) bool {
	return j.ExpiresAt != nil && j.ExpiresAt.Before(now)
}

// IsListed reports whether the job belongs in the public listing.
func (j Job) IsListed(now time.Time) bool {
	return j.IsApproved && (j.ExpiresAt == nil || j.ExpiresAt.After(now))
}

func (j Job) Status(now time.Time) Status {
	switch {
	case j.IsExpired(now):
		return StatusExpired
	case j.IsApproved:
		return StatusApproved
	default:
		return StatusPendingApproval
	}
}

func (j Job) OwnedBy(userID uuid.UUID) bool {
	return j.PostedBy != uuid.Nil && j.PostedBy == userID
}

// Draft carries the poster-supplied fields of a new job.
type Draft struct {
	Title        string
	Description  string
	Company      string
	Location     string
	State        string
	Type         string
	Salary       string
	Requirements []string
	ExpiresAt    *time.Time
}

// New validates d and builds a pending job. A part-time job without an
// explicit expiry expires PartTimeLifetime after now; other types never
// expire unless one is given.
func New(d Draft, postedBy uuid.UUID, now time.Time) (Job, error) {
	verr := domain.NewValidationError()

	title := required(verr, "title", d.Title, "Job title is required")
	desc := required(verr, "description", d.Description, "Job description is required")
	company := required(verr, "company", d.Company, "Company name is required")
	location := required(verr, "location", d.Location, "Location is required")
	salary := required(verr, "salary", d.Salary, "Salary information is required")

	state, ok := ParseState(d.State)
	if !ok {
		verr.Add("state", "Invalid state")
	}
	typ, ok := ParseType(d.Type)
	if !ok {
		verr.Add("jobType", "Invalid job type")
	}
	if d.ExpiresAt != nil && !d.ExpiresAt.After(now) {
		verr.Add("expiresAt", "Expiry must be in the future")
	}
	if postedBy == uuid.Nil {
		verr.Add("postedBy", "Poster is required")
	}

	if err := verr.OrNil(); err != nil {
		return Job{}, err
	}

	j := Job{
		ID:           uuid.New(),
		Title:        title,
		Description:  desc,
		Company:      company,
		Location:     location,
		State:        state,
		Type:         typ,
		Salary:       salary,
		Requirements: normalizeRequirements(d.Requirements),
		PostedBy:     postedBy,
		IsApproved:   false,
		CreatedAt:    now.UTC(),
	}
	switch {
	case d.ExpiresAt != nil:
		exp := d.ExpiresAt.UTC()
		j.ExpiresAt = &exp
	case typ == TypePartTime:
		exp := j.CreatedAt.Add(PartTimeLifetime)
		j.ExpiresAt = &exp
	}
	return j, nil
}

// Patch is a partial edit. Nil fields are left untouched. Approval and
// ownership are not editable.
type Patch struct {
	Title        *string
	Description  *string
	Company      *string
	Location     *string
	State        *string
	Type         *string
	Salary       *string
	Requirements *[]string
	ExpiresAt    *time.Time
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Company == nil && p.Location == nil &&
		p.State == nil && p.Type == nil && p.Salary == nil && p.Requirements == nil && p.ExpiresAt == nil
}

// Apply validates p against j and returns the edited copy. The expiry is only
// changed when p sets one; switching the job type does not re-derive it.
func (j Job) Apply(p Patch, now time.Time) (Job, error) {
	verr := domain.NewValidationError()
	out := j

	if p.Title != nil {
		out.Title = required(verr, "title", *p.Title, "Job title is required")
	}
	if p.Description != nil {
		out.Description = required(verr, "description", *p.Description, "Job description is required")
	}
	if p.Company != nil {
		out.Company = required(verr, "company", *p.Company, "Company name is required")
	}
	if p.Location != nil {
		out.Location = required(verr, "location", *p.Location, "Location is required")
	}
	if p.Salary != nil {
		out.Salary = required(verr, "salary", *p.Salary, "Salary information is required")
	}
	if p.State != nil {
		st, ok := ParseState(*p.State)
		if !ok {
			verr.Add("state", "Invalid state")
		}
		out.State = st
	}
	if p.Type != nil {
		t, ok := ParseType(*p.Type)
		if !ok {
			verr.Add("jobType", "Invalid job type")
		}
		out.Type = t
	}
	if p.Requirements != nil {
		out.Requirements = normalizeRequirements(*p.Requirements)
	}
	if p.ExpiresAt != nil {
		if !p.ExpiresAt.After(now) {
			verr.Add("expiresAt", "Expiry must be in the future")
		}
		exp := p.ExpiresAt.UTC()
		out.ExpiresAt = &exp
	}

	if err := verr.OrNil(); err != nil {
		return Job{}, err
	}
	return out, nil
}

// Filter narrows the public listing. Zero values mean "any".
type Filter struct {
	Type   Type
	State  State
	Search string
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Normalize fills paging defaults and clamps the limit.
func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Matches applies the filter in memory, including the public-listing rule.
func (f Filter) Matches(j Job, now time.Time) bool {
	if !j.IsListed(now) {
		return false
	}
	if f.Type != "" && j.Type != f.Type {
		return false
	}
	if f.State != "" && j.State != f.State {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.Title), q) &&
			!strings.Contains(strings.ToLower(j.Company), q) &&
			!strings.Contains(strings.ToLower(j.Description), q) {
			return false
		}
	}
	return true
}

func required(verr *domain.ValidationError, field, v, msg string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		verr.Add(field, msg)
	}
	return v
}

func normalizeRequirements(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
