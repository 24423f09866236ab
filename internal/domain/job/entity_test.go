package job

import (
	"testing"
	"time"

	"jobboard/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func validDraft(typ Type) Draft {
	return Draft{
		Title:       "  Backend Engineer ",
		Description: "Build APIs",
		Company:     "Acme",
		Location:    "Chennai",
		State:       "tamil nadu",
		Type:        string(typ),
		Salary:      "₹30,000",
		Requirements: []string{
			"Go", " ", " PostgreSQL ",
		},
	}
}

func TestNew_ExpiryDefaults(t *testing.T) {
	owner := uuid.New()

	pt, err := New(validDraft(TypePartTime), owner, now)
	require.NoError(t, err)
	require.NotNil(t, pt.ExpiresAt)
	assert.Equal(t, pt.CreatedAt.Add(24*time.Hour), *pt.ExpiresAt)

	for _, typ := range []Type{TypeFullTime, TypeWorkFromHome} {
		j, err := New(validDraft(typ), owner, now)
		require.NoError(t, err)
		assert.Nil(t, j.ExpiresAt, typ)
	}
}

func TestNew_ExplicitExpiryWins(t *testing.T) {
	exp := now.Add(72 * time.Hour)
	for _, typ := range []Type{TypePartTime, TypeFullTime, TypeWorkFromHome} {
		d := validDraft(typ)
		d.ExpiresAt = &exp

		j, err := New(d, uuid.New(), now)
		require.NoError(t, err)
		require.NotNil(t, j.ExpiresAt)
		assert.Equal(t, exp, *j.ExpiresAt)
	}
}

func TestNew_NormalizesAndStartsPending(t *testing.T) {
	owner := uuid.New()
	j, err := New(validDraft(TypeFullTime), owner, now)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, j.ID)
	assert.Equal(t, "Backend Engineer", j.Title)
	assert.Equal(t, StateTamilNadu, j.State)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, j.Requirements)
	assert.Equal(t, owner, j.PostedBy)
	assert.False(t, j.IsApproved)
	assert.Equal(t, StatusPendingApproval, j.Status(now))
}

func TestNew_ValidationErrors(t *testing.T) {
	past := now.Add(-time.Minute)
	_, err := New(Draft{State: "Goa", Type: "contract", ExpiresAt: &past}, uuid.Nil, now)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"title":       "Job title is required",
		"description": "Job description is required",
		"company":     "Company name is required",
		"location":    "Location is required",
		"salary":      "Salary information is required",
		"state":       "Invalid state",
		"jobType":     "Invalid job type",
		"expiresAt":   "Expiry must be in the future",
		"postedBy":    "Poster is required",
	}, verr.Fields)
}

func TestParseState_AllSixRegions(t *testing.T) {
	require.Len(t, States, 6)
	for _, st := range States {
		got, ok := ParseState(string(st))
		assert.True(t, ok)
		assert.Equal(t, st, got)
	}
}

func TestJob_ExpiryAndListing(t *testing.T) {
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		job      Job
		expired  bool
		listed   bool
		wantStat Status
	}{
		{"pending", Job{}, false, false, StatusPendingApproval},
		{"approved no expiry", Job{IsApproved: true}, false, true, StatusApproved},
		{"approved future expiry", Job{IsApproved: true, ExpiresAt: &future}, false, true, StatusApproved},
		{"approved past expiry", Job{IsApproved: true, ExpiresAt: &past}, true, false, StatusExpired},
		{"expiring exactly now", Job{IsApproved: true, ExpiresAt: &now}, false, false, StatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.job.IsExpired(now))
			assert.Equal(t, tt.listed, tt.job.IsListed(now))
			assert.Equal(t, tt.wantStat, tt.job.Status(now))
		})
	}
}

func TestApply_PatchKeepsApprovalAndExpiry(t *testing.T) {
	j, err := New(validDraft(TypeFullTime), uuid.New(), now)
	require.NoError(t, err)
	j.IsApproved = true

	title := "Senior Backend Engineer"
	typ := "part-time"
	out, err := j.Apply(Patch{Title: &title, Type: &typ}, now)
	require.NoError(t, err)

	assert.Equal(t, title, out.Title)
	assert.Equal(t, TypePartTime, out.Type)
	assert.True(t, out.IsApproved)
	assert.Nil(t, out.ExpiresAt)
	assert.Equal(t, j.ID, out.ID)
}

func TestApply_RejectsInvalidFields(t *testing.T) {
	j, err := New(validDraft(TypeFullTime), uuid.New(), now)
	require.NoError(t, err)

	blank := "  "
	state := "Goa"
	_, err = j.Apply(Patch{Company: &blank, State: &state}, now)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "company")
	assert.Contains(t, verr.Fields, "state")
	assert.True(t, Patch{}.Empty())
}

func TestFilter_Matches(t *testing.T) {
	j := Job{
		Title:       "Data Analyst",
		Company:     "Globex",
		Description: "SQL and dashboards",
		State:       StateKerala,
		Type:        TypeWorkFromHome,
		IsApproved:  true,
	}

	assert.True(t, Filter{}.Matches(j, now))
	assert.True(t, Filter{Search: "GLOBEX"}.Matches(j, now))
	assert.True(t, Filter{Search: "dashboards", Type: TypeWorkFromHome, State: StateKerala}.Matches(j, now))
	assert.False(t, Filter{Type: TypeFullTime}.Matches(j, now))
	assert.False(t, Filter{State: StateKarnataka}.Matches(j, now))
	assert.False(t, Filter{Search: "rust"}.Matches(j, now))

	j.IsApproved = false
	assert.False(t, Filter{}.Matches(j, now))
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Limit: 500, Offset: -3, Search: "  go "}.Normalize()
	assert.Equal(t, MaxListLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Equal(t, "go", f.Search)
	assert.Equal(t, DefaultListLimit, Filter{}.Normalize().Limit)
}
