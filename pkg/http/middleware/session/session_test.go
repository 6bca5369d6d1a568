package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seen string
	handler := NewSessionMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec, seen
}

func TestHeaderWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderName, "from-header")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})

	rec, id := serve(t, req)

	assert.Equal(t, "from-header", id)
	assert.Equal(t, "from-header", rec.Header().Get(HeaderName))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCookieFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})

	_, id := serve(t, req)

	assert.Equal(t, "from-cookie", id)
}

func TestIssuesNewSession(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "too long", header: strings.Repeat("x", maxIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderName, tt.header)
			}

			rec, id := serve(t, req)

			require.Len(t, id, 36)
			assert.NotEqual(t, tt.header, id)
			assert.Equal(t, id, rec.Header().Get(HeaderName))

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, CookieName, cookies[0].Name)
			assert.Equal(t, id, cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly)
		})
	}
}

func TestIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, ID(req.Context()))
	assert.Equal(t, "abc", ID(WithID(req.Context(), "abc")))
}
