package interfaces

import (
	"marketChat/internal/models"
)

// ChatRepository is the durable message store. It is the single owner of
// message state; conversation summaries and unread counts are views derived
// from it and are never written directly.
type ChatRepository interface {
	SaveMessage(message *models.Message) (*models.Message, error)
	FindMessageByIdempotencyKey(key string) (*models.Message, error)
	GetMessageByID(messageID uint) (*models.Message, error)
	GetMessagesBetweenUsers(userID, counterpartID uint, limit int, beforeID uint) ([]models.Message, error)
	MarkMessageRead(messageID uint) error
	GetUserConversations(userID uint, page, size int) ([]models.ConversationSummary, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	GetUnreadCountFromUser(userID, counterpartID uint) (int64, error)
}
