package handler

import (
	"errors"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/eligibility"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var reasonStatus = map[eligibility.Reason]int{
	eligibility.ReasonNotFound:                 fiber.StatusNotFound,
	eligibility.ReasonNotApproved:              fiber.StatusBadRequest,
	eligibility.ReasonExpired:                  fiber.StatusBadRequest,
	eligibility.ReasonRoleNotEligible:          fiber.StatusForbidden,
	eligibility.ReasonRestrictedForNormalUsers: fiber.StatusForbidden,
	eligibility.ReasonEmailNotVerified:         fiber.StatusForbidden,
	eligibility.ReasonAlreadyApplied:           fiber.StatusBadRequest,
	eligibility.ReasonResumeRequired:           fiber.StatusBadRequest,
}

// mapError turns domain and usecase errors into AppErrors. Anything it does
// not recognise becomes a 500 with the cause attached for logging.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", verr.Fields, err)
	}

	switch {
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Access denied", nil, err)
	case errors.Is(err, application.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	}

	if r, ok := eligibility.ReasonOf(err); ok {
		return middleware.NewAppError(reasonStatus[r], r.Message(), map[string]string{"reason": string(r)}, err)
	}

	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

// parseID reads a uuid path parameter. A malformed id cannot name an
// existing resource, so it is reported as notFound.
func parseID(c fiber.Ctx, param string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, mapError(notFound)
	}
	return id, nil
}

func currentUser(c fiber.Ctx) (user.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return user.User{}, middleware.NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
	}
	return u, nil
}
