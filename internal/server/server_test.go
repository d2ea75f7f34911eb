package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"schoolboard/internal/config"
	"schoolboard/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu    sync.Mutex
	auth  map[string]string
	calls map[string]int
}

func (f *fakeAPI) authorization(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth[path]
}

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	api := &fakeAPI{auth: map[string]string{}, calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.auth[r.URL.Path] = r.Header.Get("Authorization")
		api.calls[r.URL.Path]++
		api.mu.Unlock()

		switch r.URL.Path {
		case "/auth/login":
			var body struct{ Password string }
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"access_token":"upstream-token","token_type":"bearer","expires_in":3600,"user":{"id":"1","email":"admin@school.zm","role":"admin"}}`)
		case "/dashboard/stats":
			_, _ = io.WriteString(w, `{"success":true,"data":{"total_students":42}}`)
		case "/dashboard/recent-activities":
			_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
		case "/dashboard/revenue-chart", "/dashboard/payment-methods-chart", "/dashboard/grade-distribution":
			_, _ = io.WriteString(w, `{"success":true,"data":{"labels":[],"datasets":[]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return api, srv.URL
}

func newTestServer(t *testing.T) (*Server, http.Handler, *fakeAPI) {
	t.Helper()
	api, apiURL := newFakeAPI(t)
	cfg := &config.Config{
		Port:            8080,
		Secret:          "test-secret",
		Env:             "production",
		BaseURL:         "http://localhost:8080",
		APIBaseURL:      apiURL,
		APITimeout:      time.Second,
		ActivityLimit:   10,
		HistoryLimit:    100,
		NotificationTTL: 5 * time.Second,
		SessionTTL:      time.Minute,
	}
	s, err := NewServer(cfg, metrics.New())
	require.NoError(t, err)
	return s, s.RegisterRoutes(), api
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {"admin@school.zm"}, "password": {"secret"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(h, r)
	require.Equal(t, http.StatusSeeOther, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestNewServer_RequiresConfig(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestStart(t *testing.T) {
	s, _, _ := newTestServer(t)
	srv, err := s.Start()
	require.NoError(t, err)
	assert.Equal(t, ":8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
}

func TestHealth(t *testing.T) {
	_, h, _ := newTestServer(t)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool       `json:"success"`
		Data    HealthData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "up", resp.Data.Status)
	assert.Contains(t, resp.Data.Sessions, "dashboard")
}

func TestAuthGate(t *testing.T) {
	_, h, _ := newTestServer(t)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodGet, "/dashboard/panel?period=month", nil)
	r.Header.Set("HX-Request", "true")
	w = serve(h, r)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))

	w = serve(h, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hx-post="/login"`)

	w = serve(h, httptest.NewRequest(http.MethodGet, "/assets/js/charts.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginAndDashboard(t *testing.T) {
	_, h, api := newTestServer(t)
	cookie := login(t, h)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	w := serve(h, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Total Students")
	assert.Contains(t, w.Body.String(), ">42<")
	assert.Equal(t, "Bearer upstream-token", api.authorization("/dashboard/stats"))
	assert.Equal(t, "Sec-CH-Prefers-Color-Scheme", w.Header().Get("Accept-CH"))

	// signed-in users skip the login page
	r = httptest.NewRequest(http.MethodGet, "/login", nil)
	r.AddCookie(cookie)
	w = serve(h, r)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogoutReleasesSession(t *testing.T) {
	s, h, _ := newTestServer(t)
	cookie := login(t, h)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	serve(h, r)
	assert.Equal(t, 1, s.sessions.Len()["dashboard"])

	r = httptest.NewRequest(http.MethodGet, "/logout", nil)
	r.AddCookie(cookie)
	w := serve(h, r)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, s.sessions.Len()["dashboard"])
}

func TestNotFound(t *testing.T) {
	_, h, _ := newTestServer(t)
	cookie := login(t, h)

	r := httptest.NewRequest(http.MethodGet, "/students", nil)
	r.AddCookie(cookie)
	w := serve(h, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404")
}

func TestMetricsEndpoint(t *testing.T) {
	_, h, _ := newTestServer(t)
	login(t, h)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), `upstream_requests_total{method="POST",outcome="200",path="/auth/login"} 1`)
}
