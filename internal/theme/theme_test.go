package theme

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		hint   string
		want   Mode
	}{
		{"Default", "", "", Light},
		{"Cookie dark", "dark", "", Dark},
		{"Cookie wins over hint", "light", `"dark"`, Light},
		{"Hint dark", "", `"dark"`, Dark},
		{"Hint unquoted", "", "dark", Dark},
		{"Invalid cookie falls back to hint", "purple", "dark", Dark},
		{"Invalid everything", "purple", "sepia", Light},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.hint != "" {
				r.Header.Set(HintHeader, tt.hint)
			}
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestToggle(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "light"})
	w := httptest.NewRecorder()

	assert.Equal(t, Dark, Toggle(w, r, false))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "dark", cookies[0].Value)
	assert.Equal(t, 365*24*60*60, cookies[0].MaxAge)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestMode(t *testing.T) {
	assert.Equal(t, Light, Dark.Toggled())
	assert.Equal(t, Dark, Light.Toggled())
	assert.True(t, Dark.IsDark())
	assert.False(t, Light.IsDark())

	_, ok := Parse("")
	assert.False(t, ok)
	m, ok := Parse(" DARK ")
	assert.True(t, ok)
	assert.Equal(t, Dark, m)
}
