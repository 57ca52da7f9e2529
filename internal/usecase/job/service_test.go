package job

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"job-portal/internal/domain/company"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	items    []job.Job
	searches int
}

func (m *mockJobRepo) Create(_ context.Context, j job.Job) error {
	m.items = append([]job.Job{j}, m.items...)
	return nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	for _, j := range m.items {
		if j.ID == id {
			return j, nil
		}
	}
	return job.Job{}, job.ErrNotFound
}

func (m *mockJobRepo) Search(_ context.Context, keyword string) ([]job.Job, error) {
	m.searches++
	kw := strings.ToLower(keyword)
	out := make([]job.Job, 0)
	for _, j := range m.items {
		if strings.Contains(strings.ToLower(j.Title), kw) || strings.Contains(strings.ToLower(j.Description), kw) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) ListByCreator(_ context.Context, userID uuid.UUID) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for _, j := range m.items {
		if j.CreatedBy == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

type mockCompanyRepo struct{ ids map[uuid.UUID]bool }

func (m mockCompanyRepo) Create(context.Context, company.Company) error { return nil }
func (m mockCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (company.Company, error) {
	if !m.ids[id] {
		return company.Company{}, company.ErrNotFound
	}
	return company.Company{ID: id, Name: "Acme"}, nil
}
func (m mockCompanyRepo) ListByOwner(context.Context, uuid.UUID) ([]company.Company, error) {
	return nil, nil
}
func (m mockCompanyRepo) Update(context.Context, company.Company) error { return nil }

type mockUserRepo struct{ roles map[uuid.UUID]user.Role }

func (m mockUserRepo) Create(context.Context, user.User) error { return nil }
func (m mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r, ok := m.roles[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return user.User{ID: id, Role: r}, nil
}
func (m mockUserRepo) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (m mockUserRepo) ExistsByEmail(context.Context, string) (bool, error)        { return false, nil }
func (m mockUserRepo) Update(context.Context, user.User) error                    { return nil }
func (m mockUserRepo) SetOTP(context.Context, uuid.UUID, string, time.Time) error { return nil }
func (m mockUserRepo) ClearOTP(context.Context, uuid.UUID) error                  { return nil }
func (m mockUserRepo) ResetPassword(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

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

type fixture struct {
	svc       *Service
	jobs      *mockJobRepo
	cache     *memoryCache
	recruiter uuid.UUID
	student   uuid.UUID
	companyID uuid.UUID
}

func newFixture() fixture {
	f := fixture{
		jobs:      &mockJobRepo{},
		cache:     newMemoryCache(),
		recruiter: uuid.New(),
		student:   uuid.New(),
		companyID: uuid.New(),
	}
	users := mockUserRepo{roles: map[uuid.UUID]user.Role{f.recruiter: user.RoleRecruiter, f.student: user.RoleStudent}}
	f.svc = NewService(f.jobs, mockCompanyRepo{ids: map[uuid.UUID]bool{f.companyID: true}}, users, f.cache, time.Minute, nil)
	return f
}

func (f fixture) input(title string) PostInput {
	return PostInput{
		Title:        title,
		Description:  "Build APIs",
		Requirements: []string{"Go", " SQL "},
		Salary:       1000,
		Experience:   "2",
		Location:     "Remote",
		JobType:      "Full-time",
		Position:     1,
		CompanyID:    f.companyID,
	}
}

func TestPost(t *testing.T) {
	f := newFixture()

	j, err := f.svc.Post(context.Background(), f.recruiter, f.input("Backend Engineer"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if j.CreatedBy != f.recruiter || len(j.Requirements) != 2 || j.Requirements[1] != "SQL" {
		t.Fatalf("unexpected job %+v", j)
	}

	if _, err := f.svc.Post(context.Background(), f.student, f.input("X")); !errors.Is(err, ErrNotRecruiter) {
		t.Fatalf("expected ErrNotRecruiter, got %v", err)
	}

	in := f.input("X")
	in.Position = 0
	if _, err := f.svc.Post(context.Background(), f.recruiter, in); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	in = f.input("X")
	in.CompanyID = uuid.New()
	if _, err := f.svc.Post(context.Background(), f.recruiter, in); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestSearch_CachesAndInvalidates(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Post(context.Background(), f.recruiter, f.input("Backend Engineer")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	items, err := f.svc.Search(context.Background(), "backend")
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one result, got %d %v", len(items), err)
	}
	if _, err := f.svc.Search(context.Background(), "  BACKEND "); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.jobs.searches != 1 {
		t.Fatalf("expected second search served from cache, repo hit %d times", f.jobs.searches)
	}

	if _, err := f.svc.Post(context.Background(), f.recruiter, f.input("Backend Lead")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	items, err = f.svc.Search(context.Background(), "backend")
	if err != nil || len(items) != 2 {
		t.Fatalf("expected fresh results after post, got %d %v", len(items), err)
	}
}

func TestSearch_Empty(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Search(context.Background(), "nothing"); !errors.Is(err, ErrJobsNotFound) {
		t.Fatalf("expected ErrJobsNotFound, got %v", err)
	}
}

func TestGetAndAdminList(t *testing.T) {
	f := newFixture()
	j, err := f.svc.Post(context.Background(), f.recruiter, f.input("Backend Engineer"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := f.svc.Get(context.Background(), j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	items, err := f.svc.ListByCreator(context.Background(), f.recruiter)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one admin job, got %d %v", len(items), err)
	}
	if _, err := f.svc.ListByCreator(context.Background(), f.student); !errors.Is(err, ErrJobsNotFound) {
		t.Fatalf("expected ErrJobsNotFound, got %v", err)
	}
}

func TestSearchCacheKey_Normalized(t *testing.T) {
	if SearchCacheKey("  Go   Dev ") != SearchCacheKey("go dev") {
		t.Fatalf("expected normalized keys to match")
	}
	if !strings.HasPrefix(SearchLockKey(SearchCacheKey("x")), "jobs:lock:") {
		t.Fatalf("unexpected lock key")
	}
}
