package services

import (
	"log"
	"marketChat/internal/enums"
	"marketChat/internal/errs"
	"marketChat/internal/interfaces"
	"marketChat/internal/models"
	redisModels "marketChat/internal/models/redis"
	socketModels "marketChat/internal/models/socket"
	"marketChat/internal/validators"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 20

	retryBackoff = 100 * time.Millisecond
)

// ChatService is the messaging core behind the REST and websocket surfaces.
// All mutation goes through SendMessage and the mark-read operations; the
// conversation list and unread counts are read-only derivations of the store.
type ChatService struct {
	chatRepo   interfaces.ChatRepository
	contacts   interfaces.ContactResolver
	publisher  interfaces.EventPublisher
	maxRetries int
}

func NewChatService(
	chatRepo interfaces.ChatRepository,
	contacts interfaces.ContactResolver,
	publisher interfaces.EventPublisher,
	maxRetries int,
) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		contacts:   contacts,
		publisher:  publisher,
		maxRetries: maxRetries,
	}
}

// SendMessage validates, appends and then notifies. The append is durable
// before anything is published, so a failed notification loses a ping, never
// a message.
func (cs *ChatService) SendMessage(senderID uint, req *models.SendMessageRequestBody) (*models.Message, []error) {
	if validationErrs := validators.ValidateSendMessage(req, senderID); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	for _, userID := range []uint{senderID, req.ReceiverID} {
		if _, err := cs.contacts.Resolve(userID); err != nil {
			if err == errs.ErrContactNotFound {
				return nil, []error{errs.ErrUnknownUser}
			}
			// the resolver being down must not block the write; display
			// info is looked up lazily on the conversation list anyway
			log.Printf("contact resolver unavailable for user %d: %v", userID, err)
		}
	}

	key := req.IdempotencyKey
	if key == "" {
		// a server-side key keeps the bounded retries below safe too
		key = uuid.NewString()
	}
	if existing, err := cs.chatRepo.FindMessageByIdempotencyKey(key); err == nil && existing != nil {
		return existing, nil
	}

	message := &models.Message{
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		Content:        strings.TrimSpace(req.Content),
		IdempotencyKey: &key,
	}

	var saved *models.Message
	err := cs.withRetries(func() error {
		var saveErr error
		saved, saveErr = cs.chatRepo.SaveMessage(message)
		return saveErr
	})
	if err != nil {
		// an attempt may have committed before its response was lost;
		// the idempotency key tells us
		if existing, findErr := cs.chatRepo.FindMessageByIdempotencyKey(key); findErr == nil && existing != nil {
			saved = existing
		} else {
			log.Printf("failed to save message from %d to %d: %v", senderID, req.ReceiverID, err)
			return nil, []error{errs.ErrStoreUnavailable}
		}
	}

	cs.publish(redisModels.RedisPublishedMessage{
		Event:      enums.SOCKET_EVENT_NEW_MESSAGE,
		ReceiverID: saved.ReceiverID,
		Payload:    saved,
	})

	return saved, nil
}

// MarkMessageRead flips read_at exactly once. Only the user the message was
// addressed to may do it; repeating it is a no-op, not an error.
func (cs *ChatService) MarkMessageRead(messageID, readerID uint) []error {
	message, err := cs.chatRepo.GetMessageByID(messageID)
	if err != nil {
		if err == errs.ErrMessageNotFound {
			return []error{err}
		}
		return []error{errs.ErrStoreUnavailable}
	}

	if message.ReceiverID != readerID {
		return []error{errs.ErrForbidden}
	}

	if message.ReadAt != nil {
		return nil
	}

	if err := cs.withRetries(func() error {
		return cs.chatRepo.MarkMessageRead(messageID)
	}); err != nil {
		log.Printf("failed to mark message %d read: %v", messageID, err)
		return []error{errs.ErrStoreUnavailable}
	}

	cs.publish(redisModels.RedisPublishedMessage{
		Event:      enums.SOCKET_EVENT_SEEN_MESSAGE,
		ReceiverID: message.SenderID,
		Payload:    socketModels.SeenMessagePayload{MessageIds: []uint{messageID}},
	})

	return nil
}

func (cs *ChatService) MarkMessagesRead(messageIDs []uint, readerID uint) []error {
	var errors []error
	for _, messageID := range messageIDs {
		if markErrs := cs.MarkMessageRead(messageID, readerID); len(markErrs) > 0 {
			errors = append(errors, markErrs...)
		}
	}
	return errors
}

func (cs *ChatService) GetUserConversations(userID uint, page, size int) (*models.ConversationListResponse, []error) {
	summaries, total, err := cs.chatRepo.GetUserConversations(userID, page, size)
	if err != nil {
		log.Printf("failed to load conversations for user %d: %v", userID, err)
		return nil, []error{errs.ErrStoreUnavailable}
	}

	counterpartIDs := make([]uint, 0, len(summaries))
	for _, summary := range summaries {
		counterpartIDs = append(counterpartIDs, summary.CounterpartID)
	}
	contacts, err := cs.contacts.ResolveAll(counterpartIDs)
	if err != nil {
		// summaries stay useful without display info
		log.Printf("failed to resolve contacts for user %d: %v", userID, err)
	} else {
		for i := range summaries {
			summaries[i].Contact = contacts[summaries[i].CounterpartID]
		}
	}

	return &models.ConversationListResponse{
		Conversations: summaries,
		Page:          page,
		Size:          size,
		Total:         total,
	}, nil
}

func (cs *ChatService) GetMessageHistory(userID, counterpartID uint, limit int, beforeID uint) (*models.MessageListResponse, []error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}

	messages, err := cs.chatRepo.GetMessagesBetweenUsers(userID, counterpartID, limit, beforeID)
	if err != nil {
		log.Printf("failed to load history between %d and %d: %v", userID, counterpartID, err)
		return nil, []error{errs.ErrStoreUnavailable}
	}

	var nextBeforeID uint
	if len(messages) == limit {
		nextBeforeID = messages[0].ID
	}
	return &models.MessageListResponse{
		Messages:     messages,
		NextBeforeID: nextBeforeID,
	}, nil
}

// GetUnreadCount counts the user's unread messages; counterpartID scopes the
// count to one conversation, zero means across all of them.
func (cs *ChatService) GetUnreadCount(userID, counterpartID uint) (int64, []error) {
	var count int64
	var err error
	if counterpartID > 0 {
		count, err = cs.chatRepo.GetUnreadCountFromUser(userID, counterpartID)
	} else {
		count, err = cs.chatRepo.GetUnreadCount(userID)
	}
	if err != nil {
		log.Printf("failed to count unread messages for user %d: %v", userID, err)
		return 0, []error{errs.ErrStoreUnavailable}
	}
	return count, nil
}

func (cs *ChatService) withRetries(op func() error) error {
	var err error
	for attempt := 0; attempt <= cs.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * retryBackoff)
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

func (cs *ChatService) publish(event redisModels.RedisPublishedMessage) {
	if err := cs.publisher.Publish(event); err != nil {
		// never propagated: durability and live notification are decoupled
		log.Printf("failed to publish %s event for user %d: %v", event.Event, event.ReceiverID, err)
	}
}
