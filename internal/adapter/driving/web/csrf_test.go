package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFGuard_IssueSetsScopedCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	token := csrfGuard{secure: true}.issue(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, token, c.Value)
	assert.Len(t, token, csrfTokenBytes*2)
	assert.Equal(t, "/contact", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Positive(t, c.MaxAge)
}

func TestCSRFGuard_IssueReusesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rec := httptest.NewRecorder()

	assert.Equal(t, "existing", csrfGuard{}.issue(rec, req))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCSRFGuard_Verify(t *testing.T) {
	post := func(cookie, field string) *http.Request {
		form := url.Values{csrfFormField: {field}}
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: cookie})
		}
		require.NoError(t, req.ParseForm())
		return req
	}

	g := csrfGuard{}
	assert.True(t, g.verify(post("abc", "abc")))
	assert.False(t, g.verify(post("abc", "abd")))
	assert.False(t, g.verify(post("abc", "")))
	assert.False(t, g.verify(post("", "abc")))
}
