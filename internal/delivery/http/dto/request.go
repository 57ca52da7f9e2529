package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type PostJobRequest struct {
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description" validate:"required"`
	Requirements StringList `json:"requirements" validate:"required,min=1"`
	Salary       Number     `json:"salary" validate:"gt=0"`
	Experience   string     `json:"experience" validate:"required"`
	Location     string     `json:"location" validate:"required"`
	JobType      string     `json:"jobType" validate:"required"`
	Position     Number     `json:"position" validate:"gt=0"`
	CompanyID    string     `json:"companyId" validate:"required,uuid"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// StringList accepts either a JSON array of strings or a single
// comma-separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = trimAll(items)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = trimAll(strings.Split(s, ","))
	return nil
}

func trimAll(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Number accepts a JSON number or a numeric string.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
