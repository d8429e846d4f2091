package models

// MessageListResponse is one ascending page of a conversation history.
// NextBeforeID is the cursor for the next older page; zero when the client
// should not page further.
type MessageListResponse struct {
	Messages     []Message `json:"messages"`
	NextBeforeID uint      `json:"next_before_id"`
}
