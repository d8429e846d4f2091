package repositories

import (
	"errors"
	"marketChat/internal/errs"
	"marketChat/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository resolves counterpart display info from the marketplace
// profiles table. Read-only: the marketplace application owns that data.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

func (pr *ProfileRepository) Resolve(userID uint) (*models.Contact, error) {
	var profile models.Profile
	if err := pr.db.First(&profile, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrContactNotFound
		}
		return nil, err
	}
	return profile.ToContact(), nil
}

func (pr *ProfileRepository) ResolveAll(userIDs []uint) (map[uint]*models.Contact, error) {
	contacts := make(map[uint]*models.Contact, len(userIDs))
	if len(userIDs) == 0 {
		return contacts, nil
	}
	var profiles []models.Profile
	if err := pr.db.Where("id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for i := range profiles {
		contacts[profiles[i].ID] = profiles[i].ToContact()
	}
	return contacts, nil
}
