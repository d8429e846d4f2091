package services

import (
	"errors"
	"sync"
	"testing"

	"marketChat/internal/enums"
	"marketChat/internal/errs"
	"marketChat/internal/models"
	redisModels "marketChat/internal/models/redis"
	"marketChat/internal/repositories"

	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events instead of going to redis.
type recordingPublisher struct {
	mu     sync.Mutex
	events []redisModels.RedisPublishedMessage
}

func (rp *recordingPublisher) Publish(event redisModels.RedisPublishedMessage) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.events = append(rp.events, event)
	return nil
}

func (rp *recordingPublisher) recorded() []redisModels.RedisPublishedMessage {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return append([]redisModels.RedisPublishedMessage(nil), rp.events...)
}

// flakyRepo fails the first failures write attempts, then behaves normally.
type flakyRepo struct {
	*repositories.MemoryChatRepository
	mu       sync.Mutex
	failures int
}

func (fr *flakyRepo) SaveMessage(message *models.Message) (*models.Message, error) {
	fr.mu.Lock()
	if fr.failures > 0 {
		fr.failures--
		fr.mu.Unlock()
		return nil, errors.New("connection reset")
	}
	fr.mu.Unlock()
	return fr.MemoryChatRepository.SaveMessage(message)
}

func newTestService(t *testing.T) (*ChatService, *repositories.MemoryChatRepository, *recordingPublisher) {
	t.Helper()
	repo := repositories.NewMemoryChatRepository()
	contacts := repositories.NewMemoryProfileRepository(false)
	contacts.Seed(models.Contact{UserID: 1, DisplayName: "Alice"})
	contacts.Seed(models.Contact{UserID: 2, DisplayName: "Bob"})
	contacts.Seed(models.Contact{UserID: 3, DisplayName: "Carol"})
	publisher := &recordingPublisher{}
	return NewChatService(repo, contacts, publisher, 2), repo, publisher
}

func TestSendMessageValidation(t *testing.T) {
	req := require.New(t)
	service, _, publisher := newTestService(t)

	cases := []struct {
		name    string
		body    *models.SendMessageRequestBody
		wantErr error
	}{
		{"nil body", nil, errs.ErrInvalidRequestBody},
		{"empty content", &models.SendMessageRequestBody{ReceiverID: 2, Content: "   "}, errs.ErrEmptyContent},
		{"missing receiver", &models.SendMessageRequestBody{Content: "hi"}, errs.ErrInvalidParams},
		{"self messaging", &models.SendMessageRequestBody{ReceiverID: 1, Content: "hi"}, errs.ErrSelfMessaging},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			saved, sendErrs := service.SendMessage(1, tc.body)
			require.Nil(t, saved)
			require.Contains(t, sendErrs, tc.wantErr)
		})
	}

	req.Empty(publisher.recorded())
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	req := require.New(t)
	service, _, publisher := newTestService(t)

	saved, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{
		ReceiverID: 99,
		Content:    "anyone there?",
	})
	req.Nil(saved)
	req.Contains(sendErrs, errs.ErrUnknownUser)
	req.Empty(publisher.recorded())
}

func TestSendMessagePersistsThenPublishes(t *testing.T) {
	req := require.New(t)
	service, repo, publisher := newTestService(t)

	saved, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{
		ReceiverID: 2,
		Content:    "  hello bob  ",
	})
	req.Empty(sendErrs)
	req.NotNil(saved)
	req.Equal("hello bob", saved.Content)
	req.NotZero(saved.ID)

	// read-your-writes: the message is in the store before SendMessage returns
	stored, err := repo.GetMessageByID(saved.ID)
	req.NoError(err)
	req.Equal(saved.Content, stored.Content)

	events := publisher.recorded()
	req.Len(events, 1)
	req.Equal(enums.SOCKET_EVENT_NEW_MESSAGE, events[0].Event)
	req.Equal(uint(2), events[0].ReceiverID)
}

func TestSendMessageIdempotencyReplay(t *testing.T) {
	req := require.New(t)
	service, _, publisher := newTestService(t)

	body := &models.SendMessageRequestBody{
		ReceiverID:     2,
		Content:        "only once",
		IdempotencyKey: "client-key-1",
	}

	first, sendErrs := service.SendMessage(1, body)
	req.Empty(sendErrs)

	replay, sendErrs := service.SendMessage(1, body)
	req.Empty(sendErrs)
	req.Equal(first.ID, replay.ID)

	// the replay neither appends nor notifies again
	history, historyErrs := service.GetMessageHistory(1, 2, 0, 0)
	req.Empty(historyErrs)
	req.Len(history.Messages, 1)
	req.Len(publisher.recorded(), 1)
}

func TestSendMessageRetriesTransientFailures(t *testing.T) {
	req := require.New(t)
	repo := &flakyRepo{MemoryChatRepository: repositories.NewMemoryChatRepository(), failures: 2}
	contacts := repositories.NewMemoryProfileRepository(true)
	publisher := &recordingPublisher{}
	service := NewChatService(repo, contacts, publisher, 2)

	saved, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{
		ReceiverID: 2,
		Content:    "eventually",
	})
	req.Empty(sendErrs)
	req.NotNil(saved)
	req.Len(publisher.recorded(), 1)
}

func TestSendMessageGivesUpAfterBoundedRetries(t *testing.T) {
	req := require.New(t)
	repo := &flakyRepo{MemoryChatRepository: repositories.NewMemoryChatRepository(), failures: 10}
	contacts := repositories.NewMemoryProfileRepository(true)
	publisher := &recordingPublisher{}
	service := NewChatService(repo, contacts, publisher, 1)

	saved, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{
		ReceiverID: 2,
		Content:    "never lands",
	})
	req.Nil(saved)
	req.Contains(sendErrs, errs.ErrStoreUnavailable)
	req.Empty(publisher.recorded())
}

func TestMarkMessageReadOnlyByReceiver(t *testing.T) {
	req := require.New(t)
	service, _, publisher := newTestService(t)

	saved, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{ReceiverID: 2, Content: "read me"})
	req.Empty(sendErrs)

	// neither the sender nor a third user may flip it
	req.Contains(service.MarkMessageRead(saved.ID, 1), errs.ErrForbidden)
	req.Contains(service.MarkMessageRead(saved.ID, 3), errs.ErrForbidden)

	req.Empty(service.MarkMessageRead(saved.ID, 2))

	events := publisher.recorded()
	req.Len(events, 2)
	req.Equal(enums.SOCKET_EVENT_SEEN_MESSAGE, events[1].Event)
	// the seen notification goes back to the sender
	req.Equal(uint(1), events[1].ReceiverID)

	// marking again is a quiet no-op
	req.Empty(service.MarkMessageRead(saved.ID, 2))
	req.Len(publisher.recorded(), 2)
}

func TestMarkMessageReadNotFound(t *testing.T) {
	req := require.New(t)
	service, _, _ := newTestService(t)

	req.Contains(service.MarkMessageRead(404, 2), errs.ErrMessageNotFound)
}

func TestGetUserConversationsAttachesContacts(t *testing.T) {
	req := require.New(t)
	service, _, _ := newTestService(t)

	_, sendErrs := service.SendMessage(2, &models.SendMessageRequestBody{ReceiverID: 1, Content: "hi alice"})
	req.Empty(sendErrs)
	_, sendErrs = service.SendMessage(3, &models.SendMessageRequestBody{ReceiverID: 1, Content: "me too"})
	req.Empty(sendErrs)

	list, listErrs := service.GetUserConversations(1, 1, 10)
	req.Empty(listErrs)
	req.Equal(int64(2), list.Total)
	req.Len(list.Conversations, 2)

	req.Equal(uint(3), list.Conversations[0].CounterpartID)
	req.NotNil(list.Conversations[0].Contact)
	req.Equal("Carol", list.Conversations[0].Contact.DisplayName)
	req.Equal(int64(1), list.Conversations[0].UnreadCount)

	req.Equal(uint(2), list.Conversations[1].CounterpartID)
	req.NotNil(list.Conversations[1].Contact)
	req.Equal("Bob", list.Conversations[1].Contact.DisplayName)
}

func TestGetMessageHistoryCursor(t *testing.T) {
	req := require.New(t)
	service, _, _ := newTestService(t)

	for i := 0; i < 5; i++ {
		_, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{ReceiverID: 2, Content: "m"})
		req.Empty(sendErrs)
	}

	firstPage, historyErrs := service.GetMessageHistory(2, 1, 3, 0)
	req.Empty(historyErrs)
	req.Len(firstPage.Messages, 3)
	req.NotZero(firstPage.NextBeforeID)

	secondPage, historyErrs := service.GetMessageHistory(2, 1, 3, firstPage.NextBeforeID)
	req.Empty(historyErrs)
	req.Len(secondPage.Messages, 2)
	// a short page means the history is exhausted
	req.Zero(secondPage.NextBeforeID)

	req.Less(secondPage.Messages[1].ID, firstPage.Messages[0].ID)
}

func TestGetUnreadCountScoping(t *testing.T) {
	req := require.New(t)
	service, _, _ := newTestService(t)

	_, sendErrs := service.SendMessage(2, &models.SendMessageRequestBody{ReceiverID: 1, Content: "one"})
	req.Empty(sendErrs)
	_, sendErrs = service.SendMessage(2, &models.SendMessageRequestBody{ReceiverID: 1, Content: "two"})
	req.Empty(sendErrs)
	_, sendErrs = service.SendMessage(3, &models.SendMessageRequestBody{ReceiverID: 1, Content: "three"})
	req.Empty(sendErrs)

	total, countErrs := service.GetUnreadCount(1, 0)
	req.Empty(countErrs)
	req.Equal(int64(3), total)

	fromBob, countErrs := service.GetUnreadCount(1, 2)
	req.Empty(countErrs)
	req.Equal(int64(2), fromBob)
}

func TestMarkMessagesReadBatch(t *testing.T) {
	req := require.New(t)
	service, _, _ := newTestService(t)

	first, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{ReceiverID: 2, Content: "a"})
	req.Empty(sendErrs)
	second, sendErrs := service.SendMessage(1, &models.SendMessageRequestBody{ReceiverID: 2, Content: "b"})
	req.Empty(sendErrs)

	req.Empty(service.MarkMessagesRead([]uint{first.ID, second.ID}, 2))

	unread, countErrs := service.GetUnreadCount(2, 0)
	req.Empty(countErrs)
	req.Zero(unread)
}
