// Package testutil holds in-memory stand-ins for the stores and side
// channels used by the usecase and HTTP tests.
package testutil

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/blob"

	"github.com/google/uuid"
)

// JobStore is an in-memory repository.JobRepository.
type JobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]job.Job

	// Err, when set, is returned by every call.
	Err error
}

func NewJobStore(jobs ...job.Job) *JobStore {
	s := &JobStore{jobs: map[uuid.UUID]job.Job{}}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *JobStore) Create(_ context.Context, j job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.jobs[j.ID] = j
	return nil
}

func (s *JobStore) Get(_ context.Context, id uuid.UUID) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return job.Job{}, s.Err
	}
	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (s *JobStore) List(_ context.Context, f job.Filter, now time.Time) ([]job.Job, error) {
	f = f.Normalize()
	return s.collect(func(j job.Job) bool { return f.Matches(j, now) }, f.Limit, f.Offset)
}

func (s *JobStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]job.Job, error) {
	return s.collect(func(j job.Job) bool { return j.PostedBy == ownerID }, 0, 0)
}

func (s *JobStore) ListAll(context.Context) ([]job.Job, error) {
	return s.collect(func(job.Job) bool { return true }, 0, 0)
}

func (s *JobStore) Update(_ context.Context, j job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.jobs[j.ID]
	if !ok {
		return job.ErrNotFound
	}
	j.IsApproved = cur.IsApproved
	j.PostedBy = cur.PostedBy
	j.CreatedAt = cur.CreatedAt
	s.jobs[j.ID] = j
	return nil
}

func (s *JobStore) Approve(_ context.Context, id uuid.UUID) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return job.Job{}, s.Err
	}
	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	j.IsApproved = true
	s.jobs[id] = j
	return j, nil
}

func (s *JobStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.jobs[id]; !ok {
		return job.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *JobStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for id, j := range s.jobs {
		if j.IsExpired(now) {
			delete(s.jobs, id)
			n++
		}
	}
	return n, nil
}

// Len reports how many jobs are stored.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *JobStore) collect(keep func(job.Job) bool, limit, offset int) ([]job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]job.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ApplicationStore is an in-memory repository.ApplicationRepository. It
// resolves job summaries against Jobs the way the SQL LEFT JOIN does.
type ApplicationStore struct {
	mu   sync.Mutex
	apps map[uuid.UUID]application.Application
	Jobs *JobStore

	Err error
}

func NewApplicationStore(jobs *JobStore) *ApplicationStore {
	return &ApplicationStore{apps: map[uuid.UUID]application.Application{}, Jobs: jobs}
}

// Create enforces (job, user) uniqueness under the store lock.
func (s *ApplicationStore) Create(_ context.Context, a application.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.apps {
		if existing.JobID == a.JobID && existing.UserID == a.UserID {
			return application.ErrAlreadyApplied
		}
	}
	a.Job = nil
	s.apps[a.ID] = a
	return nil
}

func (s *ApplicationStore) Exists(_ context.Context, jobID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, a := range s.apps {
		if a.JobID == jobID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ApplicationStore) Get(ctx context.Context, id uuid.UUID) (application.Application, error) {
	s.mu.Lock()
	a, ok := s.apps[id]
	err := s.Err
	s.mu.Unlock()
	if err != nil {
		return application.Application{}, err
	}
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return s.resolve(ctx, a), nil
}

func (s *ApplicationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]application.Application, error) {
	return s.list(ctx, func(a application.Application) bool { return a.UserID == userID })
}

func (s *ApplicationStore) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return s.list(ctx, func(a application.Application) bool { return a.JobID == jobID })
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error) {
	s.mu.Lock()
	if s.Err != nil {
		s.mu.Unlock()
		return application.Application{}, s.Err
	}
	a, ok := s.apps[id]
	if !ok {
		s.mu.Unlock()
		return application.Application{}, application.ErrNotFound
	}
	a.Status = status
	s.apps[id] = a
	s.mu.Unlock()
	return s.resolve(ctx, a), nil
}

func (s *ApplicationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apps)
}

func (s *ApplicationStore) list(ctx context.Context, keep func(application.Application) bool) ([]application.Application, error) {
	s.mu.Lock()
	if s.Err != nil {
		s.mu.Unlock()
		return nil, s.Err
	}
	out := make([]application.Application, 0)
	for _, a := range s.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	for i := range out {
		out[i] = s.resolve(ctx, out[i])
	}
	return out, nil
}

func (s *ApplicationStore) resolve(ctx context.Context, a application.Application) application.Application {
	a.Job = nil
	if s.Jobs == nil {
		return a
	}
	if j, err := s.Jobs.Get(ctx, a.JobID); err == nil {
		a.Job = application.SummaryOf(j)
	}
	return a
}

// UserStore is an in-memory user.Repository.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func NewUserStore(users ...user.User) *UserStore {
	s := &UserStore{users: map[uuid.UUID]user.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) Put(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

// Cache is an in-memory listing cache that understands trailing-* patterns.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte

	Hits          int
	Invalidations int
}

func NewCache() *Cache {
	return &Cache{entries: map[string][]byte{}}
}

func (c *Cache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(b, out)
}

func (c *Cache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *Cache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations++
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Events records published lifecycle events.
type Events struct {
	mu     sync.Mutex
	events []job.Event
}

func (e *Events) Publish(_ context.Context, evt job.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *Events) Types() []job.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]job.EventType, 0, len(e.events))
	for _, evt := range e.events {
		out = append(out, evt.Type)
	}
	return out
}

func (e *Events) All() []job.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]job.Event(nil), e.events...)
}

// Resumes keeps uploaded resumes in memory without validating them.
type Resumes struct {
	mu    sync.Mutex
	blobs map[string]string

	SaveErr error
}

func NewResumes() *Resumes {
	return &Resumes{blobs: map[string]string{}}
}

func (r *Resumes) Save(_ context.Context, u blob.Upload) (string, error) {
	if r.SaveErr != nil {
		return "", r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	handle := "resume-" + uuid.NewString() + path.Ext(u.Filename)
	r.blobs[handle] = u.Filename
	return handle, nil
}

func (r *Resumes) Delete(_ context.Context, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, handle)
	return nil
}

func (r *Resumes) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
