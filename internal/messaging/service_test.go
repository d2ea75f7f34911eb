package messaging

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"schoolboard/internal/apiclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Query  string
	Body   map[string]any
}

// newTestService serves envelope bodies keyed by path and records every request
func newTestService(t *testing.T, bodies map[string]string) (Service, func(path string) recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	requests := make(map[string]recordedRequest)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Query: r.URL.RawQuery}
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &rec.Body)
			}
		}
		mu.Lock()
		requests[r.URL.Path] = rec
		mu.Unlock()

		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"Failed to send messages"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	lookup := func(path string) recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return requests[path]
	}
	return NewService(apiclient.New(srv.URL, time.Second)), lookup
}

func TestService_SendMessage(t *testing.T) {
	svc, lookup := newTestService(t, map[string]string{
		"/messaging/send": `{"success":true,"message":"Messages sent successfully","data":[{"sid":"SM1"}]}`,
	})
	recipients := []Recipient{{ID: "p1", Name: "Mary Phiri", Phone: "+260971234567"}}

	confirmation, err := svc.SendMessage(context.Background(), "School closes early", recipients, "parents")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"sid":"SM1"}]`, string(confirmation))

	req := lookup("/messaging/send")
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "School closes early", req.Body["message"])
	assert.Equal(t, "parents", req.Body["group_type"])
	require.Len(t, req.Body["recipients"], 1)
}

func TestService_SendMessageWithoutGroup(t *testing.T) {
	svc, lookup := newTestService(t, map[string]string{
		"/messaging/send": `{"success":true,"data":null}`,
	})

	_, err := svc.SendMessage(context.Background(), "Hi", []Recipient{{ID: "1"}}, "")
	require.NoError(t, err)
	assert.NotContains(t, lookup("/messaging/send").Body, "group_type")
}

func TestService_SendMessageFailure(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{})

	_, err := svc.SendMessage(context.Background(), "Hi", []Recipient{{ID: "1"}}, "")
	require.Error(t, err)

	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestService_GetMessageHistory(t *testing.T) {
	svc, lookup := newTestService(t, map[string]string{
		"/messaging/history": `{"success":true,"data":[
			{"sid":"SM1","to":"+260971234567","from":"+15005550006","body":"Hello","status":"delivered","date_sent":"Tue, 05 Mar 2024 09:15:00 +0000","direction":"outbound-api"},
			{"sid":"SM2","to":"+260971234568","from":"+15005550006","body":"Reply","status":"received","date_sent":"2024-03-04T10:00:00Z","direction":"inbound"}
		]}`,
	})

	history, err := svc.GetMessageHistory(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "SM1", history[0].SID)
	assert.Equal(t, 5, history[0].DateSent.UTC().Day())
	assert.Equal(t, DirectionInbound, history[1].Direction)
	assert.Equal(t, "limit=100", lookup("/messaging/history").Query)

	_, err = svc.GetMessageHistory(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, "limit=25", lookup("/messaging/history").Query)
}

func TestService_GetRecipientGroups(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"/messaging/recipient-groups": `{"success":true,"data":[
			{"group_type":"parents","recipients":[{"id":"p1","name":"Mary Phiri","phone":"+260971234567"}]},
			{"group_type":"staff","recipients":[]}
		]}`,
	})

	groups, err := svc.GetRecipientGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Parents", groups[0].Label())
	assert.Equal(t, "Mary Phiri", groups[0].Recipients[0].Name)
	assert.Empty(t, groups[1].Recipients)
}

func TestService_GetTemplates(t *testing.T) {
	svc, lookup := newTestService(t, map[string]string{
		"/messaging/templates": `{"success":true,"data":[{"id":3,"name":"Fee reminder","template_type":"sms","content":"Dear parent, fees are due."}]}`,
	})

	templates, err := svc.GetTemplates(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "3", templates[0].ID.String())
	assert.Equal(t, "", lookup("/messaging/templates").Query)

	_, err = svc.GetTemplates(context.Background(), "sms")
	require.NoError(t, err)
	assert.Equal(t, "template_type=sms", lookup("/messaging/templates").Query)
}

func TestStatusTone(t *testing.T) {
	assert.Equal(t, "success", StatusTone("delivered"))
	assert.Equal(t, "danger", StatusTone("failed"))
	assert.Equal(t, "default", StatusTone("queued"))
	assert.Equal(t, "default", StatusTone(""))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Parents", Capitalize("parents"))
	assert.Equal(t, "Éleves", Capitalize("éleves"))
	assert.Equal(t, "", Capitalize(""))
}
