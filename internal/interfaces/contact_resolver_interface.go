package interfaces

import (
	"marketChat/internal/models"
)

// ContactResolver maps user ids to display information owned by the
// marketplace. Resolve returns errs.ErrContactNotFound for ids that do not
// exist; any other failure means the profile backend is unreachable and the
// caller decides whether that matters.
type ContactResolver interface {
	Resolve(userID uint) (*models.Contact, error)
	ResolveAll(userIDs []uint) (map[uint]*models.Contact, error)
}
