package repositories

import (
	"fmt"
	"marketChat/internal/errs"
	"marketChat/internal/models"
	"sync"
)

// MemoryProfileRepository is the in-process contact resolver. Tests seed it
// explicitly; permissive mode (local runs without marketplace data) accepts
// any non-zero id and fabricates a display name.
type MemoryProfileRepository struct {
	mu         sync.Mutex
	contacts   map[uint]models.Contact
	permissive bool
}

func NewMemoryProfileRepository(permissive bool) *MemoryProfileRepository {
	return &MemoryProfileRepository{
		contacts:   make(map[uint]models.Contact),
		permissive: permissive,
	}
}

func (mpr *MemoryProfileRepository) Seed(contact models.Contact) {
	mpr.mu.Lock()
	defer mpr.mu.Unlock()
	mpr.contacts[contact.UserID] = contact
}

func (mpr *MemoryProfileRepository) Resolve(userID uint) (*models.Contact, error) {
	mpr.mu.Lock()
	defer mpr.mu.Unlock()
	if contact, ok := mpr.contacts[userID]; ok {
		return &contact, nil
	}
	if mpr.permissive && userID != 0 {
		return &models.Contact{UserID: userID, DisplayName: fmt.Sprintf("user %d", userID)}, nil
	}
	return nil, errs.ErrContactNotFound
}

func (mpr *MemoryProfileRepository) ResolveAll(userIDs []uint) (map[uint]*models.Contact, error) {
	contacts := make(map[uint]*models.Contact, len(userIDs))
	for _, userID := range userIDs {
		contact, err := mpr.Resolve(userID)
		if err != nil {
			continue
		}
		contacts[userID] = contact
	}
	return contacts, nil
}
