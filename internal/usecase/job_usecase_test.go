package usecase

import (
	"context"
	"testing"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jobsFixture struct {
	uc     *Jobs
	store  *testutil.JobStore
	cache  *testutil.Cache
	events *testutil.Events
	now    time.Time
}

func newJobsFixture(t *testing.T) *jobsFixture {
	t.Helper()
	f := &jobsFixture{
		store:  testutil.NewJobStore(),
		cache:  testutil.NewCache(),
		events: &testutil.Events{},
		now:    time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	f.uc = NewJobUsecase(f.store, f.cache, f.events, zap.NewNop(), WithJobsClock(func() time.Time { return f.now }))
	return f
}

func TestJobs_CreateApproveList(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	client := testutil.NewUser(user.RoleClient)
	admin := testutil.NewUser(user.RoleAdmin)

	created, err := f.uc.Create(ctx, client, testutil.NewDraft().Build())
	require.NoError(t, err)
	assert.False(t, created.IsApproved)
	assert.Nil(t, created.ExpiresAt)
	assert.Equal(t, "₹30,000", created.Salary)
	assert.Equal(t, job.StatusPendingApproval, created.Status(f.now))

	listed, err := f.uc.List(ctx, job.Filter{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = f.uc.Approve(ctx, client, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	approved, err := f.uc.Approve(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	listed, err = f.uc.List(ctx, job.Filter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	assert.Equal(t, []job.EventType{job.EventCreated, job.EventApproved}, f.events.Types())
}

func TestJobs_CreateRequiresPosterRole(t *testing.T) {
	f := newJobsFixture(t)
	for _, role := range []user.Role{user.RoleNormal, user.RoleStudent} {
		_, err := f.uc.Create(context.Background(), testutil.NewUser(role), testutil.NewDraft().Build())
		assert.ErrorIs(t, err, ErrForbidden, role)
	}
	assert.Equal(t, 0, f.store.Len())
}

func TestJobs_CreatePartTimeDefaultsExpiry(t *testing.T) {
	f := newJobsFixture(t)
	j, err := f.uc.Create(context.Background(), testutil.NewUser(user.RoleClient),
		testutil.NewDraft().WithType(job.TypePartTime).Build())
	require.NoError(t, err)
	require.NotNil(t, j.ExpiresAt)
	assert.Equal(t, f.now.Add(24*time.Hour), *j.ExpiresAt)
}

func TestJobs_CreateValidation(t *testing.T) {
	f := newJobsFixture(t)
	d := testutil.NewDraft().WithTitle("  ").Build()
	d.Type = "contract"

	_, err := f.uc.Create(context.Background(), testutil.NewUser(user.RoleClient), d)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Job title is required", verr.Fields["title"])
	assert.Equal(t, "Invalid job type", verr.Fields["jobType"])
	assert.Empty(t, f.events.Types())
}

func TestJobs_DeleteOwnerVersusStranger(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	owner := testutil.NewUser(user.RoleClient)
	stranger := testutil.NewUser(user.RoleClient)

	j, err := f.uc.Create(ctx, owner, testutil.NewDraft().Build())
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.Delete(ctx, stranger, j.ID), ErrForbidden)
	require.NoError(t, f.uc.Delete(ctx, owner, j.ID))
	assert.ErrorIs(t, f.uc.Delete(ctx, owner, j.ID), job.ErrNotFound)

	// NotFound is reported before any ownership check.
	assert.ErrorIs(t, f.uc.Delete(ctx, stranger, j.ID), job.ErrNotFound)
}

func TestJobs_UpdateKeepsApprovalAndExpiry(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	owner := testutil.NewUser(user.RoleClient)
	admin := testutil.NewUser(user.RoleAdmin)

	j, err := f.uc.Create(ctx, owner, testutil.NewDraft().Build())
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, admin, j.ID)
	require.NoError(t, err)

	title := "Senior Backend Engineer"
	partTime := string(job.TypePartTime)
	edited, err := f.uc.Update(ctx, owner, j.ID, job.Patch{Title: &title, Type: &partTime})
	require.NoError(t, err)
	assert.Equal(t, title, edited.Title)
	assert.True(t, edited.IsApproved)
	assert.Nil(t, edited.ExpiresAt)

	stored, err := f.uc.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, title, stored.Title)
	assert.True(t, stored.IsApproved)

	_, err = f.uc.Update(ctx, testutil.NewUser(user.RoleClient), j.ID, job.Patch{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	past := f.now.Add(-time.Hour)
	_, err = f.uc.Update(ctx, admin, j.ID, job.Patch{ExpiresAt: &past})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "expiresAt")
}

func TestJobs_ListUsesCacheAndDropsExpiredHits(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	owner := testutil.NewUser(user.RoleClient)

	soon := f.now.Add(30 * time.Minute)
	short := testutil.NewJob(owner.ID, job.TypeFullTime, true, f.now.Add(-time.Hour))
	short.ExpiresAt = &soon
	long := testutil.NewJob(owner.ID, job.TypeFullTime, true, f.now.Add(-2*time.Hour))
	require.NoError(t, f.store.Create(ctx, short))
	require.NoError(t, f.store.Create(ctx, long))

	first, err := f.uc.List(ctx, job.Filter{})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, short.ID, first[0].ID)
	assert.Equal(t, 1, f.cache.Len())

	f.now = f.now.Add(time.Hour)
	second, err := f.uc.List(ctx, job.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits)
	require.Len(t, second, 1)
	assert.Equal(t, long.ID, second[0].ID)
}

func TestJobs_MutationsInvalidateListingCache(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	admin := testutil.NewUser(user.RoleAdmin)

	_, err := f.uc.List(ctx, job.Filter{Search: "go"})
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.Len())

	j, err := f.uc.Create(ctx, admin, testutil.NewDraft().Build())
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.Len())

	_, err = f.uc.List(ctx, job.Filter{})
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, admin, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.Len())
	assert.Equal(t, 2, f.cache.Invalidations)
}

func TestJobs_ListMineAndListAll(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	a := testutil.NewUser(user.RoleClient)
	b := testutil.NewUser(user.RoleClient)
	admin := testutil.NewUser(user.RoleAdmin)

	_, err := f.uc.Create(ctx, a, testutil.NewDraft().Build())
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, b, testutil.NewDraft().Build())
	require.NoError(t, err)

	mine, err := f.uc.ListMine(ctx, a)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].PostedBy)

	_, err = f.uc.ListMine(ctx, testutil.NewUser(user.RoleStudent))
	assert.ErrorIs(t, err, ErrForbidden)

	all, err := f.uc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.uc.ListAll(ctx, a)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestJobs_ExpireBefore(t *testing.T) {
	f := newJobsFixture(t)
	ctx := context.Background()
	owner := testutil.NewUser(user.RoleClient)

	past := f.now.Add(-time.Minute)
	exactlyNow := f.now
	expired := testutil.NewJob(owner.ID, job.TypePartTime, true, f.now.Add(-25*time.Hour))
	expired.ExpiresAt = &past
	boundary := testutil.NewJob(owner.ID, job.TypeFullTime, true, f.now)
	boundary.ExpiresAt = &exactlyNow
	open := testutil.NewJob(owner.ID, job.TypeFullTime, true, f.now)
	for _, j := range []job.Job{expired, boundary, open} {
		require.NoError(t, f.store.Create(ctx, j))
	}

	n, err := f.uc.ExpireBefore(ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 2, f.store.Len())

	evts := f.events.All()
	require.Len(t, evts, 1)
	assert.Equal(t, job.EventExpired, evts[0].Type)
	assert.Equal(t, int64(1), evts[0].Count)

	n, err = f.uc.ExpireBefore(ctx, f.now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, f.events.All(), 1)
}

func TestListCacheKey_NormalizesFilter(t *testing.T) {
	a := ListCacheKey(job.Filter{Search: "  Go ", Limit: 0})
	b := ListCacheKey(job.Filter{Search: "go", Limit: job.DefaultListLimit})
	c := ListCacheKey(job.Filter{Search: "go", Type: job.TypePartTime})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^jobs:list:[0-9a-f]{64}$`, a)
}
