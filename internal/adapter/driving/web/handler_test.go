package web_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/iatsite/internal/adapter/driven/content"
	"github.com/ericfisherdev/iatsite/internal/adapter/driving/web"
	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

// memInquiryStore is an in-memory InquiryStore.
type memInquiryStore struct {
	mu        sync.Mutex
	inquiries []model.Inquiry
}

func (m *memInquiryStore) Create(_ context.Context, inquiry model.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inquiries = append(m.inquiries, inquiry)
	return nil
}

func (m *memInquiryStore) GetByID(_ context.Context, id string) (*model.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inq := range m.inquiries {
		if inq.ID == id {
			return &inq, nil
		}
	}
	return nil, nil
}

func (m *memInquiryStore) ListRecent(_ context.Context, limit int) ([]model.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inquiries[:min(limit, len(m.inquiries))], nil
}

func (m *memInquiryStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inquiries), nil
}

type testSite struct {
	handler http.Handler
	web     *web.Handler
	store   *memInquiryStore
}

func newTestSite(t *testing.T) testSite {
	t.Helper()
	return newTestSiteWith(t, web.Settings{CounterDuration: 40 * time.Millisecond, CounterFrameInterval: 5 * time.Millisecond})
}

func newTestSiteWith(t *testing.T, settings web.Settings) testSite {
	t.Helper()

	snap, err := application.NewContentService(content.NewEmbeddedSource()).Load(context.Background())
	require.NoError(t, err)

	store := &memInquiryStore{}
	h := web.NewHandler(
		application.NewContentProvider(snap),
		application.NewInquiryService(store),
		settings,
		slog.Default(),
	)
	t.Cleanup(h.Close)
	mux := http.NewServeMux()
	web.RegisterRoutes(mux, h)
	return testSite{handler: mux, web: h, store: store}
}

func (s testSite) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s testSite) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestPages_Render(t *testing.T) {
	site := newTestSite(t)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"IAT Technologies", `data-socket="/ws/counters/home-students-placed"`, ">0+</span>", "What Our Students Say"}},
		{"/about", []string{"About IAT Technologies", "<strong>IT Training and Placement</strong>", "How It Works"}},
		{"/courses", []string{"Our Courses", `value="All" class="tab active"`, "Java Full Stack Development"}},
		{"/placements", []string{"Recent Placements", `data-socket="/ws/counters/placements-rate"`, "Hiring Partners"}},
		{"/contact", []string{"Contact Us", `name="csrf_token"`, "Mon - Sat: 9:00 AM - 7:00 PM"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := site.get(t, tt.path)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestLayout_MarksActiveNav(t *testing.T) {
	rec := newTestSite(t).get(t, "/placements")

	assert.Contains(t, rec.Body.String(), `<a class="nav-link active" href="/placements" aria-current="page">Placements</a>`)
	assert.Contains(t, rec.Body.String(), `<a class="nav-link" href="/courses">Courses</a>`)
}

func TestCourses_FilterByCategory(t *testing.T) {
	rec := newTestSite(t).get(t, "/courses?category=Analytics")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="course-card" data-category="Analytics"`))
	assert.NotContains(t, body, `class="course-card" data-category="Development"`)
	assert.Contains(t, body, `value="Analytics" class="tab active"`)
	assert.Less(t, strings.Index(body, "Data Analytics"), strings.Index(body, "Power BI"))
}

func TestCourses_UnknownCategory(t *testing.T) {
	rec := newTestSite(t).get(t, "/courses?category=Cooking")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No courses found in the selected category.")
	assert.NotContains(t, rec.Body.String(), `class="course-card"`)
}

func TestCourses_HTMXFragment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/courses?category=Security", nil)
	req.Header.Set("HX-Request", "true")
	rec := newTestSite(t).do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<div id="course-browser">`))
	assert.NotContains(t, body, "<html")
	assert.Equal(t, 1, strings.Count(body, `class="course-card"`))
	assert.Contains(t, body, "Cyber Security")
}

func TestNotFound(t *testing.T) {
	rec := newTestSite(t).get(t, "/no-such-page")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The page you are looking for does not exist.")
}

func TestStaticAssets(t *testing.T) {
	site := newTestSite(t)

	for _, path := range []string{"/static/css/site.css", "/static/js/counter.js", "/static/js/swap.js", "/static/img/avatar.svg"} {
		rec := site.get(t, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestLayout_ScriptsServedLocally(t *testing.T) {
	site := newTestSite(t)
	body := site.get(t, "/courses").Body.String()

	scripts := regexp.MustCompile(`<script src="([^"]+)"`).FindAllStringSubmatch(body, -1)
	require.NotEmpty(t, scripts)
	for _, m := range scripts {
		assert.True(t, strings.HasPrefix(m[1], "/static/js/"), "script %s must be served from /static/js/", m[1])
		assert.Equal(t, http.StatusOK, site.get(t, m[1]).Code, m[1])
	}
	assert.Contains(t, body, `<script src="/static/js/swap.js" defer></script>`)
}

func TestContact_PreselectsCourse(t *testing.T) {
	rec := newTestSite(t).get(t, "/contact?course=Power+BI")

	assert.Contains(t, rec.Body.String(), `<option value="Power BI" selected>Power BI</option>`)
}

// csrfCookie fetches the contact page and returns the issued CSRF cookie.
func csrfCookie(t *testing.T, site testSite) *http.Cookie {
	t.Helper()
	rec := site.get(t, "/contact")
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" {
			return c
		}
	}
	t.Fatal("no csrf_token cookie issued")
	return nil
}

func postContact(t *testing.T, site testSite, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return site.do(t, req)
}

func validForm(token string) url.Values {
	return url.Values{
		"csrf_token": {token},
		"name":       {"Asha Rao"},
		"email":      {"asha@example.com"},
		"phone":      {"+91 98765 43210"},
		"course":     {"Data Analytics"},
		"message":    {"When does the next batch start?"},
	}
}

func TestContact_Submit(t *testing.T) {
	site := newTestSite(t)
	cookie := csrfCookie(t, site)

	rec := postContact(t, site, cookie, validForm(cookie.Value))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contact?sent=1", rec.Header().Get("Location"))
	require.Len(t, site.store.inquiries, 1)
	assert.Equal(t, "Asha Rao", site.store.inquiries[0].Name)
	assert.Equal(t, "Data Analytics", site.store.inquiries[0].Course)

	confirm := site.get(t, "/contact?sent=1")
	assert.Contains(t, confirm.Body.String(), "Thank you! Our counsellor will contact you shortly.")
}

func TestContact_ValidationErrors(t *testing.T) {
	site := newTestSite(t)
	cookie := csrfCookie(t, site)

	form := validForm(cookie.Value)
	form.Set("email", "not-an-email")
	form.Set("message", "")
	rec := postContact(t, site, cookie, form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Contains(t, body, "Please tell us how we can help.")
	assert.Contains(t, body, `value="Asha Rao"`)
	assert.Contains(t, body, `aria-invalid="true"`)
	assert.Empty(t, site.store.inquiries)
}

func TestContact_RejectsMissingCSRF(t *testing.T) {
	site := newTestSite(t)
	cookie := csrfCookie(t, site)

	tests := []struct {
		name   string
		cookie *http.Cookie
		token  string
	}{
		{"no cookie", nil, cookie.Value},
		{"no token", cookie, ""},
		{"mismatched token", cookie, "forged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postContact(t, site, tt.cookie, validForm(tt.token))
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
	assert.Empty(t, site.store.inquiries)
}

func TestContentNotLoaded(t *testing.T) {
	h := web.NewHandler(application.NewContentProvider(nil), nil, web.Settings{}, slog.Default())
	mux := http.NewServeMux()
	web.RegisterRoutes(mux, h)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func dialCounter(t *testing.T, srv *httptest.Server, id string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/counters/" + id
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

type frame struct {
	Type    string `json:"type"`
	Value   int    `json:"value"`
	Display string `json:"display"`
	Done    bool   `json:"done"`
}

func TestCounterSocket_AnimatesAfterVisible(t *testing.T) {
	srv := httptest.NewServer(newTestSite(t).handler)
	t.Cleanup(srv.Close)

	conn, _, err := dialCounter(t, srv, "home-students-placed")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "visible"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frames []frame
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Done {
			break
		}
	}

	last := frames[len(frames)-1]
	assert.Equal(t, "frame", last.Type)
	assert.Equal(t, 2293, last.Value)
	assert.Equal(t, "2293+", last.Display)
	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i].Value, frames[i-1].Value, "frames must not decrease")
	}

	// The server closes the socket once the counter settles.
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestCounterSocket_IdleUntilVisible(t *testing.T) {
	srv := httptest.NewServer(newTestSite(t).handler)
	t.Cleanup(srv.Close)

	conn, _, err := dialCounter(t, srv, "placements-rate")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestCounterSocket_MountTimeoutClosesIdleSocket(t *testing.T) {
	site := newTestSiteWith(t, web.Settings{CounterMountTimeout: 50 * time.Millisecond})
	srv := httptest.NewServer(site.handler)
	t.Cleanup(srv.Close)

	conn, _, err := dialCounter(t, srv, "placements-rate")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestCounterSocket_HandlerCloseEndsSockets(t *testing.T) {
	site := newTestSite(t)
	srv := httptest.NewServer(site.handler)
	t.Cleanup(srv.Close)

	conn, _, err := dialCounter(t, srv, "placements-rate")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	site.web.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestCounterSocket_UnknownStat(t *testing.T) {
	srv := httptest.NewServer(newTestSite(t).handler)
	t.Cleanup(srv.Close)

	_, resp, err := dialCounter(t, srv, "nope")

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
