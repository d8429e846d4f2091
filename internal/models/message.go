package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is an immutable direct message between two users. The only field
// that ever changes after creation is ReadAt, and only from null to a
// timestamp. The autoincrement primary key gives messages their total order.
type Message struct {
	gorm.Model
	SenderID       uint       `gorm:"not null;index:idx_messages_pair" json:"sender_id"`
	ReceiverID     uint       `gorm:"not null;index:idx_messages_pair;index:idx_messages_receiver_unread" json:"receiver_id"`
	Content        string     `gorm:"not null" json:"content"`
	ReadAt         *time.Time `gorm:"index:idx_messages_receiver_unread" json:"read_at"`
	IdempotencyKey *string    `gorm:"uniqueIndex" json:"-"`
}
