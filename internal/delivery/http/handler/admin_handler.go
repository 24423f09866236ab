package handler

import (
	"time"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler serves the moderation queue.
type AdminHandler struct {
	uc  usecase.JobUsecase
	now func() time.Time
}

func NewAdminHandler(uc usecase.JobUsecase) *AdminHandler {
	return &AdminHandler{uc: uc, now: time.Now}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRoles(user.RoleAdmin)

	r.Get("/admin/jobs", auth, admin, h.HandleListAll)
	r.Put("/admin/jobs/:id/approve", auth, admin, h.HandleApprove)
	r.Delete("/admin/jobs/:id", auth, admin, h.HandleDelete)
}

func (h *AdminHandler) HandleListAll(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	jobs, err := h.uc.ListAll(c.Context(), actor)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Jobs retrieved", dto.NewJobResponses(jobs, h.now()))
}

func (h *AdminHandler) HandleApprove(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", job.ErrNotFound)
	if err != nil {
		return err
	}

	j, err := h.uc.Approve(c.Context(), actor, id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Job approved successfully", dto.NewJobResponse(j, h.now()))
}

func (h *AdminHandler) HandleDelete(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", job.ErrNotFound)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), actor, id); err != nil {
		return mapError(err)
	}
	return response.OK(c, "Job deleted successfully", nil)
}
