// Package eligibility decides whether a user may apply to a job. The rules
// are evaluated in a fixed order and the first failing rule is the only
// reason reported.
package eligibility

import (
	"errors"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
)

type Reason string

const (
	ReasonNone                     Reason = ""
	ReasonNotFound                 Reason = "not_found"
	ReasonNotApproved              Reason = "not_approved"
	ReasonExpired                  Reason = "expired"
	ReasonRoleNotEligible          Reason = "role_not_eligible"
	ReasonRestrictedForNormalUsers Reason = "restricted_for_normal_users"
	ReasonEmailNotVerified         Reason = "email_not_verified"
	ReasonAlreadyApplied           Reason = "already_applied"
	ReasonResumeRequired           Reason = "resume_required"
)

var (
	ErrNotApproved              = errors.New("job is not approved")
	ErrExpired                  = errors.New("job has expired")
	ErrRoleNotEligible          = errors.New("role may not apply for jobs")
	ErrRestrictedForNormalUsers = errors.New("normal users may not apply for part-time jobs")
	ErrEmailNotVerified         = errors.New("email not verified")
	ErrResumeRequired           = errors.New("resume required")
)

var reasonErrors = map[Reason]error{
	ReasonNotFound:                 job.ErrNotFound,
	ReasonNotApproved:              ErrNotApproved,
	ReasonExpired:                  ErrExpired,
	ReasonRoleNotEligible:          ErrRoleNotEligible,
	ReasonRestrictedForNormalUsers: ErrRestrictedForNormalUsers,
	ReasonEmailNotVerified:         ErrEmailNotVerified,
	ReasonAlreadyApplied:           application.ErrAlreadyApplied,
	ReasonResumeRequired:           ErrResumeRequired,
}

var reasonMessages = map[Reason]string{
	ReasonNotFound:                 "Job not found",
	ReasonNotApproved:              "This job is not approved yet",
	ReasonExpired:                  "This job has expired",
	ReasonRoleNotEligible:          "Only students and normal users can apply for jobs",
	ReasonRestrictedForNormalUsers: "Normal users can only apply for full-time and work-from-home jobs",
	ReasonEmailNotVerified:         "Please verify your email before applying",
	ReasonAlreadyApplied:           "You have already applied for this job",
	ReasonResumeRequired:           "Please upload a resume",
}

// Err maps a reason to its sentinel error; ReasonNone maps to nil.
func (r Reason) Err() error {
	return reasonErrors[r]
}

// Message is the user-facing explanation for r.
func (r Reason) Message() string {
	return reasonMessages[r]
}

// ReasonOf recovers the reason behind a sentinel returned by Err.
func ReasonOf(err error) (Reason, bool) {
	if err == nil {
		return ReasonNone, false
	}
	for r, target := range reasonErrors {
		if errors.Is(err, target) {
			return r, true
		}
	}
	return ReasonNone, false
}

type Decision struct {
	Reason Reason
}

func (d Decision) Allowed() bool { return d.Reason == ReasonNone }

func (d Decision) Err() error { return d.Reason.Err() }

func allow() Decision        { return Decision{} }
func deny(r Reason) Decision { return Decision{Reason: r} }

// Input is everything the decision depends on. Job is nil when the job does
// not exist.
type Input struct {
	User           user.User
	Job            *job.Job
	AlreadyApplied bool
	Now            time.Time
}

// CanApply evaluates the application rules in order:
// existence, approval, expiry, role, job type for normal users,
// verification, and finally duplicates.
func CanApply(in Input) Decision {
	j := in.Job
	if j == nil {
		return deny(ReasonNotFound)
	}
	if !j.IsApproved {
		return deny(ReasonNotApproved)
	}
	if j.IsExpired(in.Now) {
		return deny(ReasonExpired)
	}

	switch in.User.Role {
	case user.RoleStudent:
	case user.RoleNormal:
		if !normalUserMayApply(j.Type) {
			return deny(ReasonRestrictedForNormalUsers)
		}
	case user.RoleClient, user.RoleAdmin:
		return deny(ReasonRoleNotEligible)
	default:
		return deny(ReasonRoleNotEligible)
	}

	if !in.User.IsVerified {
		return deny(ReasonEmailNotVerified)
	}
	if in.AlreadyApplied {
		return deny(ReasonAlreadyApplied)
	}
	return allow()
}

func normalUserMayApply(t job.Type) bool {
	switch t {
	case job.TypeFullTime, job.TypeWorkFromHome:
		return true
	case job.TypePartTime:
		return false
	default:
		return false
	}
}
