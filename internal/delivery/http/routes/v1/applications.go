package v1

import (
	"jobboard/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterApplications(r fiber.Router, apps *handler.ApplicationsHandler, auth fiber.Handler) {
	if r == nil || apps == nil {
		return
	}
	apps.RegisterRoutes(r, auth)
}
