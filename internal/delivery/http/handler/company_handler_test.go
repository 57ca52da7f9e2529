package handler

import (
	"context"
	"net/http"
	"testing"

	"job-portal/internal/domain/company"
	"job-portal/internal/upload"
	companyuc "job-portal/internal/usecase/company"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeCompanyUsecase struct {
	owned map[uuid.UUID]company.Company
	got   companyuc.Input
	err   error
}

func (f *fakeCompanyUsecase) Register(_ context.Context, ownerID uuid.UUID, in companyuc.Input) (company.Company, error) {
	f.got = in
	if f.err != nil {
		return company.Company{}, f.err
	}
	c := company.Company{ID: uuid.New(), Name: in.Name, Description: in.Description, UserID: ownerID}
	if in.Logo != nil {
		c.LogoURL = "https://storage.example.com/company_logos/" + in.Logo.Filename
	}
	return c, nil
}

func (f *fakeCompanyUsecase) List(_ context.Context, ownerID uuid.UUID) ([]company.Company, error) {
	out := make([]company.Company, 0)
	for _, c := range f.owned {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, companyuc.ErrCompanyNotFound
	}
	return out, nil
}

func (f *fakeCompanyUsecase) Get(_ context.Context, id uuid.UUID) (company.Company, error) {
	c, ok := f.owned[id]
	if !ok {
		return company.Company{}, companyuc.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanyUsecase) Update(_ context.Context, ownerID, id uuid.UUID, in companyuc.Input) (company.Company, error) {
	f.got = in
	c, ok := f.owned[id]
	if !ok || c.UserID != ownerID {
		return company.Company{}, companyuc.ErrCompanyNotFound
	}
	if in.Website != "" {
		c.Website = in.Website
	}
	return c, nil
}

func companyTestApp(userID uuid.UUID, uc CompanyUsecase) *fiber.App {
	h := NewCompanyHandler(uc)
	return newTestApp(userID, func(r fiber.Router, auth fiber.Handler) {
		h.RegisterRoutes(r.Group("/company"), auth)
	})
}

func TestCompanyHandler_Register_FormFields(t *testing.T) {
	uc := &fakeCompanyUsecase{}
	req := multipartRequest(t, http.MethodPost, "/company/register", map[string]string{
		"companyName": "Acme",
		"description": "Widgets",
		"location":    "Jakarta",
		"website":     "https://acme.example.com",
	}, "logo", "acme.png", []byte("\x89PNG\r\n\x1a\n"))

	resp, body := doRequest(t, companyTestApp(uuid.New(), uc), req)
	if resp.StatusCode != fiber.StatusCreated || body["message"] != "Company registered successfully." {
		t.Fatalf("unexpected response: %d %v", resp.StatusCode, body)
	}
	if uc.got.Name != "Acme" || uc.got.Location != "Jakarta" || uc.got.Website != "https://acme.example.com" {
		t.Fatalf("unexpected input: %+v", uc.got)
	}
	if uc.got.Logo == nil || uc.got.Logo.Filename != "acme.png" {
		t.Fatalf("expected logo file from the logo field, got %+v", uc.got.Logo)
	}
	co, _ := body["company"].(map[string]any)
	if co["logo"] != "https://storage.example.com/company_logos/acme.png" {
		t.Fatalf("unexpected company: %v", co)
	}
}

func TestCompanyHandler_Register_NameAlias(t *testing.T) {
	uc := &fakeCompanyUsecase{}
	req := multipartRequest(t, http.MethodPost, "/company/register", map[string]string{"name": "Globex", "description": "Gadgets"}, "", "", nil)

	resp, _ := doRequest(t, companyTestApp(uuid.New(), uc), req)
	if resp.StatusCode != fiber.StatusCreated || uc.got.Name != "Globex" || uc.got.Logo != nil {
		t.Fatalf("unexpected result: %d %+v", resp.StatusCode, uc.got)
	}
}

func TestCompanyHandler_Register_Errors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{companyuc.ErrMissingFields, fiber.StatusBadRequest, "Company name and description are required."},
		{companyuc.ErrCompanyExists, fiber.StatusConflict, "You can't register same company."},
		{upload.ErrUnsupportedType, fiber.StatusBadRequest, "Only images and PDF are allowed!"},
	}
	for _, tc := range cases {
		uc := &fakeCompanyUsecase{err: tc.err}
		req := multipartRequest(t, http.MethodPost, "/company/register", map[string]string{"companyName": "Acme"}, "", "", nil)
		resp, body := doRequest(t, companyTestApp(uuid.New(), uc), req)
		if resp.StatusCode != tc.status || body["message"] != tc.msg {
			t.Fatalf("%v: unexpected response: %d %v", tc.err, resp.StatusCode, body)
		}
	}
}

func TestCompanyHandler_Update_OwnerScoped(t *testing.T) {
	owner := uuid.New()
	c := company.Company{ID: uuid.New(), Name: "Acme", UserID: owner}
	uc := &fakeCompanyUsecase{owned: map[uuid.UUID]company.Company{c.ID: c}}
	fields := map[string]string{"website": "https://acme.example.com"}

	resp, body := doRequest(t, companyTestApp(uuid.New(), uc), multipartRequest(t, http.MethodPut, "/company/"+c.ID.String(), fields, "", "", nil))
	if resp.StatusCode != fiber.StatusNotFound || body["message"] != "Company not found." {
		t.Fatalf("non-owner: unexpected response: %d %v", resp.StatusCode, body)
	}

	resp, body = doRequest(t, companyTestApp(owner, uc), multipartRequest(t, http.MethodPut, "/company/"+c.ID.String(), fields, "logo", "new.png", []byte("png")))
	if resp.StatusCode != fiber.StatusOK || body["message"] != "Company information updated." {
		t.Fatalf("owner: unexpected response: %d %v", resp.StatusCode, body)
	}
	if uc.got.Logo == nil || uc.got.Logo.Filename != "new.png" {
		t.Fatalf("expected logo passed through, got %+v", uc.got.Logo)
	}

	resp, body = doRequest(t, companyTestApp(owner, uc), multipartRequest(t, http.MethodPut, "/company/not-an-id", fields, "", "", nil))
	if resp.StatusCode != fiber.StatusBadRequest || body["message"] != "Invalid company ID format." {
		t.Fatalf("bad id: unexpected response: %d %v", resp.StatusCode, body)
	}
}

func TestCompanyHandler_ListAndGet(t *testing.T) {
	owner := uuid.New()
	c := company.Company{ID: uuid.New(), Name: "Acme", UserID: owner}
	uc := &fakeCompanyUsecase{owned: map[uuid.UUID]company.Company{c.ID: c}}

	resp, body := doRequest(t, companyTestApp(owner, uc), jsonRequest(http.MethodGet, "/company", ""))
	if items, _ := body["companies"].([]any); resp.StatusCode != fiber.StatusOK || len(items) != 1 {
		t.Fatalf("unexpected list: %d %v", resp.StatusCode, body)
	}

	resp, body = doRequest(t, companyTestApp(uuid.New(), uc), jsonRequest(http.MethodGet, "/company", ""))
	if resp.StatusCode != fiber.StatusNotFound || body["message"] != "Companies not found." {
		t.Fatalf("unexpected empty list: %d %v", resp.StatusCode, body)
	}

	resp, body = doRequest(t, companyTestApp(owner, uc), jsonRequest(http.MethodGet, "/company/"+c.ID.String(), ""))
	if co, _ := body["company"].(map[string]any); resp.StatusCode != fiber.StatusOK || co["name"] != "Acme" {
		t.Fatalf("unexpected get: %d %v", resp.StatusCode, body)
	}

	resp, _ = doRequest(t, companyTestApp(uuid.Nil, uc), jsonRequest(http.MethodGet, "/company/"+c.ID.String(), ""))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", resp.StatusCode)
	}
}
