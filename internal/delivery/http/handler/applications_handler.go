package handler

import (
	"strings"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/blob"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationsHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationsHandler(uc usecase.ApplicationUsecase) *ApplicationsHandler {
	return &ApplicationsHandler{uc: uc}
}

// RegisterRoutes mounts the application endpoints. Applying only needs a
// valid token; role and verification are decided by the eligibility rules
// so the denial reason stays precise.
func (h *ApplicationsHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	verified := middleware.RequireVerified()
	poster := middleware.RequireRoles(user.RoleClient, user.RoleAdmin)

	r.Post("/applications", auth, h.HandleApply)
	r.Get("/applications/user", auth, verified, h.HandleListMine)
	r.Get("/applications/job/:jobId", auth, verified, poster, h.HandleListForJob)
	r.Put("/applications/:id/status", auth, verified, poster, h.HandleUpdateStatus)
}

func (h *ApplicationsHandler) HandleApply(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(strings.TrimSpace(c.FormValue("job_id")))
	if err != nil {
		return mapError(domain.FieldError("job_id", "Invalid job id"))
	}

	in := usecase.ApplyInput{JobID: jobID, CoverLetter: c.FormValue("cover_letter")}

	// A missing file is left nil; the usecase reports it as resume_required.
	if fh, err := c.FormFile("resume"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Unable to read resume", nil, err)
		}
		defer f.Close()
		in.Resume = &blob.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	}

	a, err := h.uc.Apply(c.Context(), actor, in)
	if err != nil {
		return mapError(err)
	}
	return response.Created(c, "Application submitted successfully", dto.NewApplicationResponse(a))
}

func (h *ApplicationsHandler) HandleListMine(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	apps, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Applications retrieved", dto.NewApplicationResponses(apps))
}

func (h *ApplicationsHandler) HandleListForJob(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := parseID(c, "jobId", job.ErrNotFound)
	if err != nil {
		return err
	}

	apps, err := h.uc.ListForJob(c.Context(), actor, jobID)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Applications retrieved", dto.NewApplicationResponses(apps))
}

func (h *ApplicationsHandler) HandleUpdateStatus(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", application.ErrNotFound)
	if err != nil {
		return err
	}

	var req dto.UpdateApplicationStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	a, err := h.uc.UpdateStatus(c.Context(), actor, id, req.Status)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Application status updated", dto.NewApplicationResponse(a))
}
