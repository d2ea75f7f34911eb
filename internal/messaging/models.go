package messaging

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"schoolboard/internal/common/models"
)

// Recipient is one dialable member of a group. Phone is not validated here.
type Recipient struct {
	ID    models.ID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// RecipientGroup is loaded once per page and never changes while it is shown
type RecipientGroup struct {
	GroupType  string      `json:"group_type"`
	Recipients []Recipient `json:"recipients"`
}

// Label is the group key with its first letter upper-cased
func (g RecipientGroup) Label() string {
	return Capitalize(g.GroupType)
}

func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// HistoryEntry is one sent or received message. SID is unique.
type HistoryEntry struct {
	SID       string           `json:"sid"`
	To        string           `json:"to"`
	From      string           `json:"from"`
	Body      string           `json:"body"`
	Status    string           `json:"status"`
	DateSent  models.Timestamp `json:"date_sent"`
	Direction Direction        `json:"direction"`
}

// Template is a saved message body the composer can start from
type Template struct {
	ID           models.ID `json:"id"`
	Name         string    `json:"name"`
	TemplateType string    `json:"template_type"`
	Content      string    `json:"content"`
}

// SendRequest is the /messaging/send body. GroupType is omitted for
// explicit individual recipients.
type SendRequest struct {
	Message    string      `json:"message"`
	Recipients []Recipient `json:"recipients"`
	GroupType  string      `json:"group_type,omitempty"`
}

// statusTones maps delivery states to badge tones
var statusTones = map[string]string{
	"delivered": "success",
	"failed":    "danger",
}

// StatusTone returns the badge tone for a delivery status, "default" when unmapped
func StatusTone(status string) string {
	if tone, ok := statusTones[strings.ToLower(status)]; ok {
		return tone
	}
	return "default"
}
