package dto

import (
	"time"

	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	Bio                string   `json:"bio"`
	Skills             []string `json:"skills"`
	Resume             string   `json:"resume"`
	ResumeOriginalName string   `json:"resumeOriginalName"`
	ProfilePhoto       string   `json:"profilePhoto"`
}

// UserResponse never carries the password hash or OTP state.
type UserResponse struct {
	ID          uuid.UUID       `json:"_id"`
	FullName    string          `json:"fullName"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	Role        string          `json:"role"`
	Profile     ProfileResponse `json:"profile"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewUserResponse(u user.User) UserResponse {
	skills := u.Profile.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		Profile: ProfileResponse{
			Bio:                u.Profile.Bio,
			Skills:             skills,
			Resume:             u.Profile.ResumeURL,
			ResumeOriginalName: u.Profile.ResumeOriginalName,
			ProfilePhoto:       u.Profile.ProfilePhotoURL,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
