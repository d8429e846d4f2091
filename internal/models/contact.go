package models

// Contact is the display information for a conversation counterpart. It is
// resolved from the marketplace profile data, which this service does not own.
type Contact struct {
	UserID      uint    `json:"user_id"`
	DisplayName string  `json:"display_name"`
	AvatarRef   *string `json:"avatar_ref"`
}

// Profile mirrors the marketplace profiles table. Read-only here; the
// marketplace application owns the schema and its migrations.
type Profile struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

func (profile *Profile) ToContact() *Contact {
	return &Contact{
		UserID:      profile.ID,
		DisplayName: profile.FullName,
		AvatarRef:   profile.AvatarURL,
	}
}
