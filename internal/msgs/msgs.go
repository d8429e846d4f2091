package msgs

const (
	MsgOperationFailed         = "operation failed"
	MsgOperationSuccessful     = "operation successful"
	MsgYouMustLoginFirst       = "you must login first"
	MsgMessageSentSuccessfully = "message sent successfully"
	MsgMessageMarkedAsRead     = "message marked as read"
)
