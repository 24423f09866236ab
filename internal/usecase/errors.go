package usecase

import (
	"jobboard/internal/domain/user"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	// ErrForbidden means the actor exists but may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	ErrInternal  = errors.New("internal error")
)

// canManage is the owner-or-admin rule shared by jobs and their applications.
func canManage(actor user.User, ownerID uuid.UUID) bool {
	return actor.IsAdmin() || (actor.ID != uuid.Nil && actor.ID == ownerID)
}
