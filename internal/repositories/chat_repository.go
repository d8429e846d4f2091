package repositories

import (
	"errors"
	"marketChat/internal/errs"
	"marketChat/internal/models"
	"time"

	"gorm.io/gorm"
)

// ChatRepository is the postgres message store. Appends are linearized by the
// autoincrement primary key; everything the conversation screens need is
// computed with set-based queries instead of per-conversation lookups.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

func (chr *ChatRepository) SaveMessage(message *models.Message) (*models.Message, error) {
	if err := chr.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (chr *ChatRepository) FindMessageByIdempotencyKey(key string) (*models.Message, error) {
	var message models.Message
	err := chr.db.Where("idempotency_key = ?", key).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (chr *ChatRepository) GetMessageByID(messageID uint) (*models.Message, error) {
	var message models.Message
	err := chr.db.First(&message, messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// GetMessagesBetweenUsers returns one ascending history page of the
// conversation between the two users. beforeID > 0 fetches the page older
// than that message id.
func (chr *ChatRepository) GetMessagesBetweenUsers(userID, counterpartID uint, limit int, beforeID uint) ([]models.Message, error) {
	query := chr.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, counterpartID, counterpartID, userID)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var messages []models.Message
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	// fetched newest-first for the limit, returned oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkMessageRead sets read_at once. Marking an already-read message again
// matches zero rows, which is fine: the operation is idempotent.
func (chr *ChatRepository) MarkMessageRead(messageID uint) error {
	return chr.db.Model(&models.Message{}).
		Where("id = ? AND read_at IS NULL", messageID).
		Update("read_at", time.Now().UTC()).Error
}

type unreadRow struct {
	CounterpartID uint
	UnreadCount   int64
}

// GetUserConversations derives the conversation list in two queries: one
// DISTINCT ON picking the latest message per counterpart, one grouped count
// of unread messages. No per-row fan-out.
func (chr *ChatRepository) GetUserConversations(userID uint, page, size int) ([]models.ConversationSummary, int64, error) {
	var lastMessages []models.Message
	query := `
		SELECT * FROM (
			SELECT DISTINCT ON (CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END) *
			FROM messages
			WHERE (sender_id = ? OR receiver_id = ?) AND deleted_at IS NULL
			ORDER BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END, created_at DESC, id DESC
		) conversations
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	err := chr.db.Raw(query, userID, userID, userID, userID, size, (page-1)*size).Scan(&lastMessages).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `
		SELECT COUNT(DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END)
		FROM messages
		WHERE (sender_id = ? OR receiver_id = ?) AND deleted_at IS NULL`
	if err := chr.db.Raw(countQuery, userID, userID, userID).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var unreadRows []unreadRow
	unreadQuery := `
		SELECT sender_id AS counterpart_id, COUNT(*) AS unread_count
		FROM messages
		WHERE receiver_id = ? AND read_at IS NULL AND deleted_at IS NULL
		GROUP BY sender_id`
	if err := chr.db.Raw(unreadQuery, userID).Scan(&unreadRows).Error; err != nil {
		return nil, 0, err
	}
	unread := make(map[uint]int64, len(unreadRows))
	for _, row := range unreadRows {
		unread[row.CounterpartID] = row.UnreadCount
	}

	summaries := make([]models.ConversationSummary, 0, len(lastMessages))
	for i := range lastMessages {
		lastMessage := lastMessages[i]
		counterpartID := lastMessage.SenderID
		if counterpartID == userID {
			counterpartID = lastMessage.ReceiverID
		}
		summaries = append(summaries, models.ConversationSummary{
			CounterpartID: counterpartID,
			LastMessage:   &lastMessage,
			UnreadCount:   unread[counterpartID],
		})
	}
	return summaries, total, nil
}

func (chr *ChatRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := chr.db.Model(&models.Message{}).
		Where("receiver_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (chr *ChatRepository) GetUnreadCountFromUser(userID, counterpartID uint) (int64, error) {
	var count int64
	err := chr.db.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", userID, counterpartID).
		Count(&count).Error
	return count, err
}
