package models

// ConversationSummary is a derived view, never stored: the counterpart a user
// has exchanged messages with, the most recent message between them and how
// many of the counterpart's messages are still unread.
type ConversationSummary struct {
	CounterpartID uint     `json:"counterpart_id"`
	Contact       *Contact `json:"contact,omitempty"`
	LastMessage   *Message `json:"last_message"`
	UnreadCount   int64    `json:"unread_count"`
}
