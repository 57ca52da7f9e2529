package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"job-portal/internal/domain/job"
	jobuc "job-portal/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeJobUsecase struct {
	posted   jobuc.PostInput
	postErr  error
	keyword  string
	searched []job.Job
}

func (f *fakeJobUsecase) Post(_ context.Context, userID uuid.UUID, in jobuc.PostInput) (job.Job, error) {
	f.posted = in
	if f.postErr != nil {
		return job.Job{}, f.postErr
	}
	return job.Job{ID: uuid.New(), Title: in.Title, Requirements: in.Requirements, CompanyID: in.CompanyID, CreatedBy: userID}, nil
}

func (f *fakeJobUsecase) Search(_ context.Context, keyword string) ([]job.Job, error) {
	f.keyword = keyword
	if len(f.searched) == 0 {
		return nil, jobuc.ErrJobsNotFound
	}
	return f.searched, nil
}

func (f *fakeJobUsecase) Get(context.Context, uuid.UUID) (job.Job, error) {
	return job.Job{}, jobuc.ErrJobNotFound
}

func (f *fakeJobUsecase) ListByCreator(context.Context, uuid.UUID) ([]job.Job, error) {
	return nil, jobuc.ErrJobsNotFound
}

func jobTestApp(userID uuid.UUID, uc JobUsecase) *fiber.App {
	h := NewJobHandler(uc)
	return newTestApp(userID, func(r fiber.Router, auth fiber.Handler) {
		h.RegisterRoutes(r.Group("/job"), auth)
	})
}

func postJobBody(companyID string) string {
	return `{"title":"Backend Engineer","description":"Go services","requirements":"go, sql",` +
		`"salary":"12","experience":"2","location":"Remote","jobType":"Full-time","position":2,` +
		`"companyId":"` + companyID + `"}`
}

func TestJobHandler_Post(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()
	uc := &fakeJobUsecase{}

	resp, body := doRequest(t, jobTestApp(userID, uc), jsonRequest(http.MethodPost, "/job/post", postJobBody(companyID.String())))
	if resp.StatusCode != fiber.StatusCreated || body["message"] != "New job created successfully." {
		t.Fatalf("unexpected response: %d %v", resp.StatusCode, body)
	}
	if uc.posted.Salary != 12 || uc.posted.Position != 2 || len(uc.posted.Requirements) != 2 || uc.posted.CompanyID != companyID {
		t.Fatalf("unexpected input: %+v", uc.posted)
	}
	j, _ := body["job"].(map[string]any)
	if j["created_by"] != userID.String() {
		t.Fatalf("unexpected job: %v", j)
	}
}

func TestJobHandler_Post_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"missing fields", `{"title":"Backend Engineer"}`, nil, fiber.StatusBadRequest, "Something is missing."},
		{"bad company id", postJobBody("acme"), nil, fiber.StatusBadRequest, "Something is missing."},
		{"not recruiter", postJobBody(uuid.NewString()), jobuc.ErrNotRecruiter, fiber.StatusForbidden, "Only recruiters can post jobs"},
		{"unknown company", postJobBody(uuid.NewString()), jobuc.ErrCompanyNotFound, fiber.StatusNotFound, "Company not found."},
		{"store failure", postJobBody(uuid.NewString()), errors.New("db down"), fiber.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		uc := &fakeJobUsecase{postErr: tc.err}
		resp, body := doRequest(t, jobTestApp(uuid.New(), uc), jsonRequest(http.MethodPost, "/job/post", tc.body))
		if resp.StatusCode != tc.status || body["message"] != tc.msg {
			t.Fatalf("%s: unexpected response: %d %v", tc.name, resp.StatusCode, body)
		}
	}
}

func TestJobHandler_Post_RequiresAuth(t *testing.T) {
	resp, _ := doRequest(t, jobTestApp(uuid.Nil, &fakeJobUsecase{}), jsonRequest(http.MethodPost, "/job/post", postJobBody(uuid.NewString())))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJobHandler_List(t *testing.T) {
	uc := &fakeJobUsecase{searched: []job.Job{{ID: uuid.New(), Title: "Backend Engineer"}}}

	resp, body := doRequest(t, jobTestApp(uuid.Nil, uc), jsonRequest(http.MethodGet, "/job?keyword=backend", ""))
	if resp.StatusCode != fiber.StatusOK || uc.keyword != "backend" {
		t.Fatalf("unexpected response: %d %v (keyword %q)", resp.StatusCode, body, uc.keyword)
	}
	if jobs, _ := body["jobs"].([]any); len(jobs) != 1 {
		t.Fatalf("unexpected jobs: %v", body["jobs"])
	}
}

func TestJobHandler_NotFound(t *testing.T) {
	uc := &fakeJobUsecase{}
	app := jobTestApp(uuid.New(), uc)

	for path, msg := range map[string]string{
		"/job?keyword=nothing":     "Jobs not found.",
		"/job/admin":               "Jobs not found.",
		"/job/" + uuid.NewString(): "Job not found.",
	} {
		resp, body := doRequest(t, app, jsonRequest(http.MethodGet, path, ""))
		if resp.StatusCode != fiber.StatusNotFound || body["message"] != msg {
			t.Fatalf("%s: unexpected response: %d %v", path, resp.StatusCode, body)
		}
	}

	resp, body := doRequest(t, app, jsonRequest(http.MethodGet, "/job/not-a-uuid", ""))
	if resp.StatusCode != fiber.StatusBadRequest || body["message"] != "Invalid job ID format." {
		t.Fatalf("unexpected response: %d %v", resp.StatusCode, body)
	}
}
