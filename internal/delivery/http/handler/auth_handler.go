package handler

import (
	"context"
	"errors"
	"time"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/user"
	"job-portal/internal/pkg/response"
	ucauth "job-portal/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, error)
	Login(ctx context.Context, in ucauth.LoginInput) (ucauth.LoginResult, error)
	Logout(ctx context.Context, token string)
	SendOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ucauth.ResetPasswordInput) error
}

type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	uc     AuthUsecase
	cookie CookieOptions
}

func NewAuthHandler(uc AuthUsecase, cookie CookieOptions) *AuthHandler {
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 24 * time.Hour
	}
	return &AuthHandler{uc: uc, cookie: cookie}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Post("/send-otp", h.SendOTP)
	r.Post("/verify-otp-reset-password", h.ResetPassword)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	usr, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		FullName:    c.FormValue("fullName"),
		Email:       c.FormValue("email"),
		PhoneNumber: c.FormValue("phoneNumber"),
		Password:    c.FormValue("password"),
		Role:        c.FormValue("role"),
		Photo:       optionalFile(c, "profilePhoto"),
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Account created successfully.", fiber.Map{
		"user": dto.NewUserResponse(usr),
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req, "Email and password are required"); err != nil {
		return err
	}

	res, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Expires:  res.Session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return response.Success(c, fiber.StatusOK, "Welcome back !! "+res.User.FullName, fiber.Map{
		"user": dto.NewUserResponse(res.User),
	})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	h.uc.Logout(c.Context(), c.Cookies(middleware.TokenCookie))

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return response.Success(c, fiber.StatusOK, "Logged out successfully.", nil)
}

func (h *AuthHandler) SendOTP(c fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := bindJSON(c, &req, "Email is required"); err != nil {
		return err
	}
	if err := h.uc.SendOTP(c.Context(), req.Email); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "OTP sent to your email", nil)
}

func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bindJSON(c, &req, "Email, OTP and new password are required"); err != nil {
		return err
	}
	err := h.uc.ResetPassword(c.Context(), ucauth.ResetPasswordInput{
		Email:       req.Email,
		OTP:         req.OTP,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Password reset successfully", nil)
}

func mapAuthUsecaseError(err error) error {
	if appErr, ok := uploadError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, ucauth.ErrMissingFields):
		return middleware.NewAppError(fiber.StatusBadRequest, "All fields are required!", nil, err)
	case errors.Is(err, ucauth.ErrWeakPassword):
		return middleware.NewAppError(fiber.StatusBadRequest, "Password must be at least 8 characters", nil, err)
	case errors.Is(err, ucauth.ErrInvalidRole):
		return middleware.NewAppError(fiber.StatusBadRequest, "Role must be student or recruiter", nil, err)
	case errors.Is(err, ucauth.ErrPhotoRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, "Profile photo is required!", nil, err)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "User already exist with this email.", nil, err)
	case errors.Is(err, ucauth.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, ucauth.ErrInvalidPassword):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid password!", nil, err)
	case errors.Is(err, ucauth.ErrOTPInvalid):
		return middleware.NewAppError(fiber.StatusBadRequest, "OTP is invalid or has already been used", nil, err)
	case errors.Is(err, ucauth.ErrOTPExpired):
		return middleware.NewAppError(fiber.StatusBadRequest, "OTP has expired", nil, err)
	case errors.Is(err, ucauth.ErrMailFailed):
		return middleware.NewAppError(fiber.StatusInternalServerError, "Could not send OTP email", nil, err)
	default:
		return internalError(err)
	}
}
