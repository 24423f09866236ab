package v1

import (
	"jobboard/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Jobs         *handler.JobsHandler
	Applications *handler.ApplicationsHandler
	Admin        *handler.AdminHandler
}

// Register mounts every /api/v1 endpoint. auth guards the protected ones.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}
	RegisterJobs(r, h.Jobs, h.Admin, auth)
	RegisterApplications(r, h.Applications, auth)
}
