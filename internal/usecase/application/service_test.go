package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"
	jobuc "job-portal/internal/usecase/job"

	"github.com/google/uuid"
)

type mockApplicationRepo struct {
	mu    sync.Mutex
	jobs  map[uuid.UUID]*job.Job
	items map[uuid.UUID]application.Application
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{jobs: map[uuid.UUID]*job.Job{}, items: map[uuid.UUID]application.Application{}}
}

func (m *mockApplicationRepo) Create(_ context.Context, a application.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[a.JobID]
	if !ok {
		return job.ErrNotFound
	}
	for _, existing := range m.items {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return application.ErrAlreadyApplied
		}
	}
	a.CreatedAt = time.Now()
	m.items[a.ID] = a
	j.ApplicationIDs = append(j.ApplicationIDs, a.ID)
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (m *mockApplicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status application.Status) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	a.Status = status
	m.items[id] = a
	return a, nil
}

func (m *mockApplicationRepo) ListByApplicant(_ context.Context, applicantID uuid.UUID) ([]application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]application.Application, 0)
	for _, a := range m.items {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]application.Application, 0)
	for _, a := range m.items {
		if a.JobID == jobID {
			a.Applicant = &user.User{ID: a.ApplicantID, Email: "s@x.com", PasswordHash: "hash"}
			out = append(out, a)
		}
	}
	return out, nil
}

type mockJobRepo struct{ repo *mockApplicationRepo }

func (m mockJobRepo) Create(context.Context, job.Job) error { return nil }
func (m mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	m.repo.mu.Lock()
	defer m.repo.mu.Unlock()
	j, ok := m.repo.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return *j, nil
}
func (m mockJobRepo) Search(context.Context, string) ([]job.Job, error) {
	m.repo.mu.Lock()
	defer m.repo.mu.Unlock()
	out := make([]job.Job, 0, len(m.repo.jobs))
	for _, j := range m.repo.jobs {
		cp := *j
		cp.ApplicationIDs = append([]uuid.UUID(nil), j.ApplicationIDs...)
		out = append(out, cp)
	}
	return out, nil
}
func (m mockJobRepo) ListByCreator(context.Context, uuid.UUID) ([]job.Job, error) { return nil, nil }

// memoryCache stores JSON like the Redis cache does.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

type event struct {
	userID uuid.UUID
	name   string
}

type mockNotifier struct {
	mu     sync.Mutex
	events []event
}

func (m *mockNotifier) Notify(userID uuid.UUID, name string, _ any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event{userID: userID, name: name})
}

type fixture struct {
	svc      *Service
	repo     *mockApplicationRepo
	notifier *mockNotifier
	jobID    uuid.UUID
	owner    uuid.UUID
}

func newFixture(ownerCheck bool) fixture {
	repo := newMockApplicationRepo()
	f := fixture{repo: repo, notifier: &mockNotifier{}, jobID: uuid.New(), owner: uuid.New()}
	repo.jobs[f.jobID] = &job.Job{ID: f.jobID, Title: "Backend Engineer", CreatedBy: f.owner}
	f.svc = NewService(repo, mockJobRepo{repo: repo}, Options{Notifier: f.notifier, OwnerCheck: ownerCheck})
	return f
}

func TestApply(t *testing.T) {
	f := newFixture(false)
	student := uuid.New()

	a, err := f.svc.Apply(context.Background(), student, f.jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Status != application.StatusPending {
		t.Fatalf("expected pending, got %s", a.Status)
	}
	if ids := f.repo.jobs[f.jobID].ApplicationIDs; len(ids) != 1 || ids[0] != a.ID {
		t.Fatalf("expected job back-reference, got %v", ids)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].userID != f.owner || f.notifier.events[0].name != EventApplicationReceived {
		t.Fatalf("expected job owner notified, got %+v", f.notifier.events)
	}

	if _, err := f.svc.Apply(context.Background(), student, f.jobID); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), student, uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestApply_ConcurrentDuplicate(t *testing.T) {
	f := newFixture(false)
	student := uuid.New()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Apply(context.Background(), student, f.jobID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, ErrAlreadyApplied) {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	if ok != 1 || len(f.repo.items) != 1 {
		t.Fatalf("expected exactly one application, got ok=%d stored=%d", ok, len(f.repo.items))
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(false)
	student := uuid.New()
	a, err := f.svc.Apply(context.Background(), student, f.jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), f.owner, a.ID, "  "); !errors.Is(err, ErrStatusRequired) {
		t.Fatalf("expected ErrStatusRequired, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.owner, a.ID, "maybe"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if got, _ := f.repo.GetByID(context.Background(), a.ID); got.Status != application.StatusPending {
		t.Fatalf("rejected update must not change status, got %s", got.Status)
	}

	updated, err := f.svc.UpdateStatus(context.Background(), f.owner, a.ID, "Accepted")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Status != application.StatusAccepted {
		t.Fatalf("expected accepted, got %s", updated.Status)
	}
	last := f.notifier.events[len(f.notifier.events)-1]
	if last.userID != student || last.name != EventApplicationStatusUpdated {
		t.Fatalf("expected applicant notified, got %+v", last)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), f.owner, uuid.New(), "rejected"); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestUpdateStatus_OwnerCheck(t *testing.T) {
	f := newFixture(true)
	a, err := f.svc.Apply(context.Background(), uuid.New(), f.jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), uuid.New(), a.ID, "rejected"); !errors.Is(err, ErrNotJobOwner) {
		t.Fatalf("expected ErrNotJobOwner, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.owner, a.ID, "rejected"); err != nil {
		t.Fatalf("owner update should succeed: %v", err)
	}
}

func TestListing(t *testing.T) {
	f := newFixture(false)
	student := uuid.New()

	if _, err := f.svc.ListByApplicant(context.Background(), student); !errors.Is(err, ErrNoApplications) {
		t.Fatalf("expected ErrNoApplications, got %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), student, f.jobID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	items, err := f.svc.ListByApplicant(context.Background(), student)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one application, got %d %v", len(items), err)
	}

	res, err := f.svc.ListApplicants(context.Background(), f.jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Applications) != 1 || res.Applications[0].Applicant.PasswordHash != "" {
		t.Fatalf("expected sanitized applicant, got %+v", res.Applications)
	}
	if _, err := f.svc.ListApplicants(context.Background(), uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestApply_RefreshesCachedSearches(t *testing.T) {
	repo := newMockApplicationRepo()
	jobID := uuid.New()
	repo.jobs[jobID] = &job.Job{ID: jobID, Title: "Backend Engineer", CreatedBy: uuid.New()}

	cache := newMemoryCache()
	jobs := jobuc.NewService(mockJobRepo{repo: repo}, nil, nil, cache, time.Minute, nil)
	svc := NewService(repo, mockJobRepo{repo: repo}, Options{Searches: cache})

	before, err := jobs.Search(context.Background(), "backend")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(before) != 1 || len(before[0].ApplicationIDs) != 0 {
		t.Fatalf("unexpected first search: %+v", before)
	}

	if _, err := svc.Apply(context.Background(), uuid.New(), jobID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	after, err := jobs.Search(context.Background(), "backend")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(after) != 1 || len(after[0].ApplicationIDs) != 1 {
		t.Fatalf("expected the search to see the new application, got %+v", after)
	}
}

func TestApply_FailureKeepsCachedSearches(t *testing.T) {
	repo := newMockApplicationRepo()
	cache := newMemoryCache()
	_ = cache.SetJSON(context.Background(), jobuc.SearchCacheKey("backend"), []job.Job{{ID: uuid.New()}}, time.Minute)
	svc := NewService(repo, mockJobRepo{repo: repo}, Options{Searches: cache})

	if _, err := svc.Apply(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if hit, _ := cache.GetJSON(context.Background(), jobuc.SearchCacheKey("backend"), &[]job.Job{}); !hit {
		t.Fatalf("a rejected apply must not invalidate cached searches")
	}
}
