package dto

import (
	"time"

	"job-portal/internal/domain/company"

	"github.com/google/uuid"
)

type CompanyResponse struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	Logo        string    `json:"logo"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCompanyResponse(c company.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Location:    c.Location,
		Website:     c.Website,
		Logo:        c.LogoURL,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewCompanyListResponse(items []company.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(items))
	for _, c := range items {
		out = append(out, NewCompanyResponse(c))
	}
	return out
}
