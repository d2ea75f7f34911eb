package messaging

import "errors"

var (
	// ErrSendInProgress rejects a send while another one is in flight
	ErrSendInProgress   = errors.New("a message is already being sent")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidDate      = errors.New("invalid date filter")
)

// Page messages
const (
	MsgEnterMessage     = "Please enter a message"
	MsgSelectRecipients = "Please select recipients"
	MsgSent             = "Message sent successfully"
	MsgSendFailed       = "Failed to send message"
	MsgGroupsFailed     = "Failed to load recipient groups"
	MsgHistoryFailed    = "Failed to load message history"
)

// ValidationError is a client-side precondition failure. It is never sent upstream.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
