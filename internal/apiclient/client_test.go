package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveUpstream(method, path, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, method+" "+path+" "+outcome)
}

func TestClient_Get(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":{"total_students":42}}`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(srv.URL+"/", time.Second,
		WithObserver(obs),
		WithTokenSource(func(ctx context.Context) string { return "upstream-token" }),
	)

	var out struct {
		TotalStudents int `json:"total_students"`
	}
	err := c.Get(context.Background(), "/dashboard/recent-activities", url.Values{"limit": {"10"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, 42, out.TotalStudents)
	assert.Equal(t, "/dashboard/recent-activities", gotReq.URL.Path)
	assert.Equal(t, "10", gotReq.URL.Query().Get("limit"))
	assert.Equal(t, "Bearer upstream-token", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Accept"))
	assert.Equal(t, []string{"GET /dashboard/recent-activities 200"}, obs.outcomes)
}

func TestClient_Post(t *testing.T) {
	var body map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"success":true,"message":"sent","data":null}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	out := map[string]any{"untouched": true}
	err := c.Post(context.Background(), "messaging/send", map[string]string{"message": "hi"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "hi", body["message"])
	assert.Equal(t, map[string]any{"untouched": true}, out, "null data leaves out untouched")
}

func TestClient_NoTokenHeaderWhenEmpty(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, WithTokenSource(func(ctx context.Context) string { return "" }))
	require.NoError(t, c.Get(context.Background(), "/messaging/history", nil, &[]any{}))
	assert.Empty(t, auth)
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"Failed to fetch dashboard statistics"}`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(srv.URL, time.Second, WithObserver(obs))
	err := c.Get(context.Background(), "/dashboard/stats", nil, &struct{}{})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Failed to fetch dashboard statistics", httpErr.Detail())
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.False(t, IsTransport(err))
	assert.Equal(t, []string{"GET /dashboard/stats 500"}, obs.outcomes)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	c := New(addr, time.Second, WithObserver(obs))
	err := c.Get(context.Background(), "/dashboard/stats", nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, []string{"GET /dashboard/stats transport_error"}, obs.outcomes)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, 50*time.Millisecond)
	err := c.Get(context.Background(), "/dashboard/stats", nil, nil)
	assert.True(t, IsTransport(err))
}

func TestClient_MalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.Get(context.Background(), "/dashboard/stats", nil, &struct{}{})
	require.Error(t, err)
	assert.False(t, IsTransport(err))
	assert.Contains(t, err.Error(), "decoding")
}

func TestClient_DoRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"abc"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	raw, err := c.DoRaw(context.Background(), http.MethodPost, "/auth/login", nil, map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"abc"}`, string(raw))
}
