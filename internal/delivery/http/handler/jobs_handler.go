package handler

import (
	"strconv"
	"strings"
	"time"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc  usecase.JobUsecase
	now func() time.Time
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc, now: time.Now}
}

// RegisterRoutes mounts the job endpoints. my-jobs is registered ahead of
// :id so it is not captured as an id.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	verified := middleware.RequireVerified()
	poster := middleware.RequireRoles(user.RoleClient, user.RoleAdmin)

	r.Get("/jobs", h.HandleList)
	r.Get("/jobs/my-jobs", auth, verified, poster, h.HandleListMine)
	r.Get("/jobs/:id", h.HandleGet)
	r.Post("/jobs", auth, verified, poster, h.HandleCreate)
	r.Put("/jobs/:id", auth, verified, poster, h.HandleUpdate)
	r.Delete("/jobs/:id", auth, verified, poster, h.HandleDelete)
}

func (h *JobsHandler) HandleList(c fiber.Ctx) error {
	f, err := parseJobFilter(c)
	if err != nil {
		return mapError(err)
	}

	jobs, err := h.uc.List(c.Context(), f)
	if err != nil {
		return mapError(err)
	}

	f = f.Normalize()
	return response.OK(c, "Jobs retrieved", dto.JobListResponse{
		Jobs:   dto.NewJobResponses(jobs, h.now()),
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

func (h *JobsHandler) HandleGet(c fiber.Ctx) error {
	id, err := parseID(c, "id", job.ErrNotFound)
	if err != nil {
		return err
	}
	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Job retrieved", dto.NewJobResponse(j, h.now()))
}

func (h *JobsHandler) HandleListMine(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	jobs, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Jobs retrieved", dto.NewJobResponses(jobs, h.now()))
}

func (h *JobsHandler) HandleCreate(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	j, err := h.uc.Create(c.Context(), actor, req.Draft())
	if err != nil {
		return mapError(err)
	}
	return response.Created(c, "Job created and pending approval", dto.NewJobResponse(j, h.now()))
}

func (h *JobsHandler) HandleUpdate(c fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", job.ErrNotFound)
	if err != nil {
		return err
	}

	var req dto.UpdateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	j, err := h.uc.Update(c.Context(), actor, id, req.Patch())
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, "Job updated", dto.NewJobResponse(j, h.now()))
}

func (h *JobsHandler) HandleDelete(c fiber.Ctx) error {
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
	return response.OK(c, "Job deleted", nil)
}

func parseJobFilter(c fiber.Ctx) (job.Filter, error) {
	verr := domain.NewValidationError()
	f := job.Filter{Search: c.Query("search")}

	if raw := strings.TrimSpace(c.Query("jobType")); raw != "" {
		t, ok := job.ParseType(raw)
		if !ok {
			verr.Add("jobType", "Invalid job type")
		}
		f.Type = t
	}
	if raw := strings.TrimSpace(c.Query("state")); raw != "" {
		st, ok := job.ParseState(raw)
		if !ok {
			verr.Add("state", "Invalid state")
		}
		f.State = st
	}

	var err error
	if f.Limit, err = parseQueryIntStrict(c, "limit", job.DefaultListLimit); err != nil {
		verr.Add("limit", "limit must be an integer")
	}
	if f.Offset, err = parseQueryIntStrict(c, "offset", 0); err != nil {
		verr.Add("offset", "offset must be an integer")
	}

	return f, verr.OrNil()
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}
