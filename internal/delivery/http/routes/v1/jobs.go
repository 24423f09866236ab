package v1

import (
	"jobboard/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, jobs *handler.JobsHandler, admin *handler.AdminHandler, auth fiber.Handler) {
	if r == nil {
		return
	}
	if jobs != nil {
		jobs.RegisterRoutes(r, auth)
	}
	if admin != nil {
		admin.RegisterRoutes(r, auth)
	}
}
