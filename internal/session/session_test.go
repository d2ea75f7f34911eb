package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedStore(ttl time.Duration) (*Store[string], *time.Time) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	s := NewStore[string]("test", ttl)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStore_PutGet(t *testing.T) {
	s, _ := newClockedStore(time.Minute)

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Put("a", "dashboard")
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "dashboard", v)

	s.Put("a", "fresh")
	v, _ = s.Get("a")
	assert.Equal(t, "fresh", v, "put replaces")

	s.Delete("a")
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestStore_GetOrCreate(t *testing.T) {
	s, _ := newClockedStore(time.Minute)
	calls := 0
	create := func() string {
		calls++
		return "created"
	}

	assert.Equal(t, "created", s.GetOrCreate("a", create))
	assert.Equal(t, "created", s.GetOrCreate("a", create))
	assert.Equal(t, 1, calls)
}

func TestStore_IdleExpiry(t *testing.T) {
	s, now := newClockedStore(time.Minute)

	s.Put("a", "one")
	s.Put("b", "two")

	*now = now.Add(45 * time.Second)
	_, ok := s.Get("a")
	require.True(t, ok, "get refreshes the idle timer")

	*now = now.Add(45 * time.Second)
	_, ok = s.Get("b")
	assert.False(t, ok)
	_, ok = s.Get("a")
	assert.True(t, ok)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestStore_Janitor(t *testing.T) {
	s := NewStore[int]("janitor", time.Millisecond)
	s.Put("a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	j := s.StartJanitor(ctx, 5*time.Millisecond)
	defer j.Stop()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	j.Stop()
}

func TestIsAuthenticated(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	_, token, err := ja.Encode(map[string]interface{}{"username": "admin@school.zm"})
	require.NoError(t, err)

	var got bool
	handler := jwtauth.Verifier(ja)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IsAuthenticated(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, got)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, got)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	handler.ServeHTTP(httptest.NewRecorder(), r)
	assert.False(t, got)
}

func TestRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/messaging", nil)
	Redirect(w, r, "/login")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.Header.Set("HX-Request", "true")
	Redirect(w, r, "/login")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
}
