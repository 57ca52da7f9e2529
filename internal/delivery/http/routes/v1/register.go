package v1

import (
	"job-portal/internal/delivery/http/handler"
	"job-portal/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth         fiber.Handler
	UserIDKey    string
	Users        *handler.AuthHandler
	Profile      *handler.UserHandler
	Companies    *handler.CompanyHandler
	Jobs         *handler.JobHandler
	Applications *handler.ApplicationHandler
	WS           *ws.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.Auth == nil {
		return
	}

	users := r.Group("/user")
	if h.Users != nil {
		h.Users.RegisterRoutes(users)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(users, h.Auth)
	}
	if h.Companies != nil {
		h.Companies.RegisterRoutes(r.Group("/company"), h.Auth)
	}
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(r.Group("/job"), h.Auth)
	}
	if h.Applications != nil {
		h.Applications.RegisterRoutes(r.Group("/applicants"), h.Auth)
	}
	if h.WS != nil {
		r.Get("/ws/applications", h.Auth, h.WS.HandleApplicationsWS(h.UserIDKey))
	}
}
