package dto

import (
	"time"

	"job-portal/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID          uuid.UUID     `json:"_id"`
	JobID       uuid.UUID     `json:"jobId"`
	Job         *JobResponse  `json:"job,omitempty"`
	ApplicantID uuid.UUID     `json:"applicantId"`
	Applicant   *UserResponse `json:"applicant,omitempty"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	out := ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Job != nil {
		j := NewJobResponse(*a.Job)
		out.Job = &j
	}
	if a.Applicant != nil {
		u := NewUserResponse(*a.Applicant)
		out.Applicant = &u
	}
	return out
}

func NewApplicationListResponse(items []application.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}

// JobApplicantsResponse is a job with its applications embedded.
type JobApplicantsResponse struct {
	JobResponse
	Applications []ApplicationResponse `json:"applications"`
}
