package messaging

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// DefaultHistoryLimit is used when a non-positive limit is requested
const DefaultHistoryLimit = 100

// Requester is the part of the API client the service needs
type Requester interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
}

// Service maps each messaging endpoint to one call. Errors are returned unchanged.
type Service interface {
	SendMessage(ctx context.Context, message string, recipients []Recipient, groupType string) (json.RawMessage, error)
	GetMessageHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
	GetRecipientGroups(ctx context.Context) ([]RecipientGroup, error)
	GetTemplates(ctx context.Context, templateType string) ([]Template, error)
}

type service struct {
	client Requester
}

func NewService(client Requester) Service {
	return &service{
		client: client,
	}
}

// SendMessage returns the upstream confirmation as received
func (s *service) SendMessage(ctx context.Context, message string, recipients []Recipient, groupType string) (json.RawMessage, error) {
	req := SendRequest{
		Message:    message,
		Recipients: recipients,
		GroupType:  groupType,
	}

	var confirmation json.RawMessage
	if err := s.client.Post(ctx, "/messaging/send", req, &confirmation); err != nil {
		return nil, err
	}
	return confirmation, nil
}

func (s *service) GetMessageHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	params := url.Values{"limit": {strconv.Itoa(limit)}}

	var history []HistoryEntry
	if err := s.client.Get(ctx, "/messaging/history", params, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *service) GetRecipientGroups(ctx context.Context) ([]RecipientGroup, error) {
	var groups []RecipientGroup
	if err := s.client.Get(ctx, "/messaging/recipient-groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *service) GetTemplates(ctx context.Context, templateType string) ([]Template, error) {
	var params url.Values
	if templateType != "" {
		params = url.Values{"template_type": {templateType}}
	}

	var templates []Template
	if err := s.client.Get(ctx, "/messaging/templates", params, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
