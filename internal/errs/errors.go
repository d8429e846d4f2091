package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody  = Error("invalid request body")
	ErrInvalidParams       = Error("invalid params")
	ErrInvalidRequest      = Error("invalid request")
	ErrUnauthorized        = Error("unauthorized")
	ErrEmptyContent        = Error("message content is empty")
	ErrSelfMessaging       = Error("sender and receiver are the same user")
	ErrUnknownUser         = Error("unknown user")
	ErrContactNotFound     = Error("contact not found")
	ErrMessageNotFound     = Error("message not found")
	ErrForbidden           = Error("message is not addressed to this user")
	ErrStoreUnavailable    = Error("message store is temporarily unavailable")
	ErrSubscriptionDropped = Error("subscription dropped")
)
