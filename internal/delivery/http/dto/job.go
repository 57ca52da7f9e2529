package dto

import (
	"time"

	"job-portal/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID              uuid.UUID        `json:"_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Requirements    []string         `json:"requirements"`
	Salary          float64          `json:"salary"`
	ExperienceLevel string           `json:"experienceLevel"`
	Location        string           `json:"location"`
	JobType         string           `json:"jobType"`
	Position        int              `json:"position"`
	CompanyID       uuid.UUID        `json:"companyId"`
	Company         *CompanyResponse `json:"company,omitempty"`
	CreatedBy       uuid.UUID        `json:"created_by"`
	Applications    []uuid.UUID      `json:"applications"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func NewJobResponse(j job.Job) JobResponse {
	reqs := j.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	apps := j.ApplicationIDs
	if apps == nil {
		apps = []uuid.UUID{}
	}
	out := JobResponse{
		ID:              j.ID,
		Title:           j.Title,
		Description:     j.Description,
		Requirements:    reqs,
		Salary:          j.Salary,
		ExperienceLevel: j.ExperienceLevel,
		Location:        j.Location,
		JobType:         j.JobType,
		Position:        j.Position,
		CompanyID:       j.CompanyID,
		CreatedBy:       j.CreatedBy,
		Applications:    apps,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
	if j.Company != nil {
		c := NewCompanyResponse(*j.Company)
		out.Company = &c
	}
	return out
}

func NewJobListResponse(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j))
	}
	return out
}
