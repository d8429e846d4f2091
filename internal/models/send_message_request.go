package models

type SendMessageRequestBody struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	// IdempotencyKey lets a caller retry a send over a flaky network without
	// duplicating the message. Optional; the service generates one otherwise.
	IdempotencyKey string `json:"idempotency_key"`
}
