package eligibility

import (
	"testing"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func approvedJob(t job.Type) *job.Job {
	return &job.Job{ID: uuid.New(), Type: t, IsApproved: true, PostedBy: uuid.New()}
}

func TestCanApply_Scenarios(t *testing.T) {
	unapproved := approvedJob(job.TypeFullTime)
	unapproved.IsApproved = false

	past := now.Add(-time.Minute)
	expired := approvedJob(job.TypeFullTime)
	expired.ExpiresAt = &past

	tests := []struct {
		name string
		in   Input
		want Reason
	}{
		{
			name: "normal user applying to part-time",
			in:   Input{User: user.User{Role: user.RoleNormal, IsVerified: true}, Job: approvedJob(job.TypePartTime), Now: now},
			want: ReasonRestrictedForNormalUsers,
		},
		{
			name: "student applying to unapproved job",
			in:   Input{User: user.User{Role: user.RoleStudent, IsVerified: true}, Job: unapproved, Now: now},
			want: ReasonNotApproved,
		},
		{
			name: "missing job",
			in:   Input{User: user.User{Role: user.RoleStudent, IsVerified: true}, Now: now},
			want: ReasonNotFound,
		},
		{
			name: "expired job",
			in:   Input{User: user.User{Role: user.RoleStudent, IsVerified: true}, Job: expired, Now: now},
			want: ReasonExpired,
		},
		{
			name: "client may not apply",
			in:   Input{User: user.User{Role: user.RoleClient, IsVerified: true}, Job: approvedJob(job.TypeFullTime), Now: now},
			want: ReasonRoleNotEligible,
		},
		{
			name: "unknown role is denied",
			in:   Input{User: user.User{Role: user.Role("guest"), IsVerified: true}, Job: approvedJob(job.TypeFullTime), Now: now},
			want: ReasonRoleNotEligible,
		},
		{
			name: "unverified student",
			in:   Input{User: user.User{Role: user.RoleStudent}, Job: approvedJob(job.TypePartTime), Now: now},
			want: ReasonEmailNotVerified,
		},
		{
			name: "duplicate",
			in:   Input{User: user.User{Role: user.RoleNormal, IsVerified: true}, Job: approvedJob(job.TypeWorkFromHome), AlreadyApplied: true, Now: now},
			want: ReasonAlreadyApplied,
		},
		{
			name: "student on part-time",
			in:   Input{User: user.User{Role: user.RoleStudent, IsVerified: true}, Job: approvedJob(job.TypePartTime), Now: now},
			want: ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanApply(tt.in)
			assert.Equal(t, tt.want, d.Reason)
			assert.Equal(t, tt.want == ReasonNone, d.Allowed())
		})
	}
}

// expectedReason restates the rule order independently of CanApply.
func expectedReason(exists, approved, expired bool, role user.Role, typ job.Type, verified, applied bool) Reason {
	switch {
	case !exists:
		return ReasonNotFound
	case !approved:
		return ReasonNotApproved
	case expired:
		return ReasonExpired
	case role != user.RoleStudent && role != user.RoleNormal:
		return ReasonRoleNotEligible
	case role == user.RoleNormal && typ == job.TypePartTime:
		return ReasonRestrictedForNormalUsers
	case !verified:
		return ReasonEmailNotVerified
	case applied:
		return ReasonAlreadyApplied
	default:
		return ReasonNone
	}
}

func TestCanApply_TotalAndDeterministic(t *testing.T) {
	bools := []bool{false, true}
	roles := []user.Role{user.RoleNormal, user.RoleStudent, user.RoleClient, user.RoleAdmin}
	types := []job.Type{job.TypePartTime, job.TypeFullTime, job.TypeWorkFromHome}
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	combos := 0
	for _, exists := range bools {
		for _, approved := range bools {
			for _, expired := range bools {
				for _, role := range roles {
					for _, typ := range types {
						for _, verified := range bools {
							for _, applied := range bools {
								combos++

								var j *job.Job
								if exists {
									j = &job.Job{ID: uuid.New(), Type: typ, IsApproved: approved, ExpiresAt: &future}
									if expired {
										j.ExpiresAt = &past
									}
								}
								in := Input{
									User:           user.User{ID: uuid.New(), Role: role, IsVerified: verified},
									Job:            j,
									AlreadyApplied: applied,
									Now:            now,
								}

								want := expectedReason(exists, approved, expired, role, typ, verified, applied)
								first := CanApply(in)
								second := CanApply(in)

								require.Equal(t, want, first.Reason, "exists=%v approved=%v expired=%v role=%s type=%s verified=%v applied=%v",
									exists, approved, expired, role, typ, verified, applied)
								require.Equal(t, first, second)
							}
						}
					}
				}
			}
		}
	}
	assert.Equal(t, 2*2*2*4*3*2*2, combos)
}

func TestReason_ErrRoundTrip(t *testing.T) {
	assert.NoError(t, ReasonNone.Err())
	assert.ErrorIs(t, ReasonNotFound.Err(), job.ErrNotFound)
	assert.ErrorIs(t, ReasonAlreadyApplied.Err(), application.ErrAlreadyApplied)

	for _, r := range []Reason{
		ReasonNotFound, ReasonNotApproved, ReasonExpired, ReasonRoleNotEligible,
		ReasonRestrictedForNormalUsers, ReasonEmailNotVerified, ReasonAlreadyApplied, ReasonResumeRequired,
	} {
		got, ok := ReasonOf(r.Err())
		require.True(t, ok, r)
		assert.Equal(t, r, got)
		assert.NotEmpty(t, r.Message())
	}

	_, ok := ReasonOf(nil)
	assert.False(t, ok)
}
