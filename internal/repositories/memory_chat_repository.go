package repositories

import (
	"marketChat/internal/errs"
	"marketChat/internal/models"
	"sort"
	"sync"
	"time"
)

// MemoryChatRepository keeps the message log in process, behind the same
// contract as the postgres store. Local runs and tests use it; the mutex
// plays the role the primary key sequence plays in postgres, linearizing
// concurrent appends.
type MemoryChatRepository struct {
	mu       sync.Mutex
	messages []models.Message
	nextID   uint
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		nextID: 1,
	}
}

func (mcr *MemoryChatRepository) SaveMessage(message *models.Message) (*models.Message, error) {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()

	if message.IdempotencyKey != nil {
		// same behavior as the unique index: a replayed key never appends twice
		if existing := mcr.findByKey(*message.IdempotencyKey); existing != nil {
			return existing, nil
		}
	}

	message.ID = mcr.nextID
	mcr.nextID++
	message.CreatedAt = time.Now().UTC()
	message.UpdatedAt = message.CreatedAt
	mcr.messages = append(mcr.messages, *message)
	return message, nil
}

func (mcr *MemoryChatRepository) FindMessageByIdempotencyKey(key string) (*models.Message, error) {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()
	return mcr.findByKey(key), nil
}

func (mcr *MemoryChatRepository) findByKey(key string) *models.Message {
	for i := range mcr.messages {
		if mcr.messages[i].IdempotencyKey != nil && *mcr.messages[i].IdempotencyKey == key {
			message := mcr.messages[i]
			return &message
		}
	}
	return nil
}

func (mcr *MemoryChatRepository) GetMessageByID(messageID uint) (*models.Message, error) {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()
	for i := range mcr.messages {
		if mcr.messages[i].ID == messageID {
			message := mcr.messages[i]
			return &message, nil
		}
	}
	return nil, errs.ErrMessageNotFound
}

func (mcr *MemoryChatRepository) GetMessagesBetweenUsers(userID, counterpartID uint, limit int, beforeID uint) ([]models.Message, error) {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()

	pair := make([]models.Message, 0)
	for _, message := range mcr.messages {
		if !messageBetween(message, userID, counterpartID) {
			continue
		}
		if beforeID > 0 && message.ID >= beforeID {
			continue
		}
		pair = append(pair, message)
	}
	sortAscending(pair)
	if limit > 0 && len(pair) > limit {
		pair = pair[len(pair)-limit:]
	}
	return pair, nil
}

func (mcr *MemoryChatRepository) MarkMessageRead(messageID uint) error {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()
	for i := range mcr.messages {
		if mcr.messages[i].ID == messageID {
			if mcr.messages[i].ReadAt == nil {
				now := time.Now().UTC()
				mcr.messages[i].ReadAt = &now
			}
			return nil
		}
	}
	return nil
}

func (mcr *MemoryChatRepository) GetUserConversations(userID uint, page, size int) ([]models.ConversationSummary, int64, error) {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()

	lastByCounterpart := make(map[uint]models.Message)
	unread := make(map[uint]int64)
	for _, message := range mcr.messages {
		var counterpartID uint
		switch userID {
		case message.SenderID:
			counterpartID = message.ReceiverID
		case message.ReceiverID:
			counterpartID = message.SenderID
		default:
			continue
		}
		last, ok := lastByCounterpart[counterpartID]
		if !ok || newerThan(message, last) {
			lastByCounterpart[counterpartID] = message
		}
		if message.ReceiverID == userID && message.ReadAt == nil {
			unread[counterpartID]++
		}
	}

	summaries := make([]models.ConversationSummary, 0, len(lastByCounterpart))
	for counterpartID, lastMessage := range lastByCounterpart {
		message := lastMessage
		summaries = append(summaries, models.ConversationSummary{
			CounterpartID: counterpartID,
			LastMessage:   &message,
			UnreadCount:   unread[counterpartID],
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return newerThan(*summaries[i].LastMessage, *summaries[j].LastMessage)
	})

	total := int64(len(summaries))
	from := (page - 1) * size
	if from >= len(summaries) {
		return []models.ConversationSummary{}, total, nil
	}
	to := from + size
	if to > len(summaries) {
		to = len(summaries)
	}
	return summaries[from:to], total, nil
}

func (mcr *MemoryChatRepository) GetUnreadCount(userID uint) (int64, error) {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()
	var count int64
	for _, message := range mcr.messages {
		if message.ReceiverID == userID && message.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (mcr *MemoryChatRepository) GetUnreadCountFromUser(userID, counterpartID uint) (int64, error) {
	mcr.mu.Lock()
	defer mcr.mu.Unlock()
	var count int64
	for _, message := range mcr.messages {
		if message.ReceiverID == userID && message.SenderID == counterpartID && message.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func messageBetween(message models.Message, userID, counterpartID uint) bool {
	return (message.SenderID == userID && message.ReceiverID == counterpartID) ||
		(message.SenderID == counterpartID && message.ReceiverID == userID)
}

func newerThan(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func sortAscending(messages []models.Message) {
	sort.Slice(messages, func(i, j int) bool {
		return newerThan(messages[j], messages[i])
	})
}
