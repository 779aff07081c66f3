package httphandler_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/iatsite/internal/adapter/driving/http"
	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

const testOrigin = "https://iat.example"

func testContent() model.Content {
	return model.Content{
		Courses: []model.Course{
			{ID: "1", Title: "Data Analytics", Category: "Analytics", Features: []string{"SQL"}},
			{ID: "2", Title: "Full Stack", Category: "Development"},
			{ID: "3", Title: "Power BI", Category: "Analytics"},
		},
		Testimonials: []model.Testimonial{
			{ID: "t1", Name: "Asha", Course: "Data Analytics", Company: "Acme", Rating: 5},
		},
		Companies: []model.Company{{ID: "acme", Name: "Acme", Logo: "/static/img/company.svg"}},
		Placements: []model.Placement{
			{ID: "p1", Name: "Ravi", Course: "Full Stack", Company: "Acme", Package: "8 LPA", Year: 2025},
		},
		Site: model.SiteInfo{
			Name: "IAT",
			HomeStats: []model.Stat{
				{ID: "home-students-placed", Label: "Students Placed", Number: 2293, Suffix: "+"},
			},
			PlacementStats: []model.Stat{
				{ID: "placements-rate", Label: "Placement Rate", Number: 95, Suffix: "%"},
			},
		},
	}
}

func newTestServer(t *testing.T, snapshot *application.ContentSnapshot) http.Handler {
	t.Helper()

	provider := application.NewContentProvider(snapshot)
	h := httphandler.NewHandler(provider, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h, []string{testOrigin})
	return httphandler.ApplyMiddleware(mux, slog.Default())
}

func loadedServer(t *testing.T) http.Handler {
	t.Helper()
	content := testContent()
	return newTestServer(t, &application.ContentSnapshot{
		Content:  content,
		Catalog:  application.NewCatalog(content.Courses),
		Source:   "test",
		LoadedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	})
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListCourses(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantCategory string
		wantIDs      []string
	}{
		{"no parameter selects all", "/api/v1/courses", "All", []string{"1", "2", "3"}},
		{"explicit all", "/api/v1/courses?category=All", "All", []string{"1", "2", "3"}},
		{"one category keeps order", "/api/v1/courses?category=Analytics", "Analytics", []string{"1", "3"}},
		{"unknown category is empty", "/api/v1/courses?category=Cooking", "Cooking", []string{}},
	}

	srv := loadedServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			var resp httphandler.CourseListResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCategory, resp.Category)

			ids := make([]string, 0, len(resp.Courses))
			for _, c := range resp.Courses {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListCourses_EmptyIsArray(t *testing.T) {
	rec := get(t, loadedServer(t), "/api/v1/courses?category=Cooking")
	assert.JSONEq(t, `{"category":"Cooking","courses":[]}`, rec.Body.String())
}

func TestListCourses_NilFeaturesBecomeEmptyArray(t *testing.T) {
	rec := get(t, loadedServer(t), "/api/v1/courses?category=Development")

	var raw struct {
		Courses []map[string]any `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Courses, 1)
	assert.Equal(t, []any{}, raw.Courses[0]["features"])
}

func TestListCategories(t *testing.T) {
	rec := get(t, loadedServer(t), "/api/v1/categories")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"All", "Analytics", "Development"}, got)
}

func TestListFeeds(t *testing.T) {
	srv := loadedServer(t)

	rec := get(t, srv, "/api/v1/testimonials")
	require.Equal(t, http.StatusOK, rec.Code)
	var testimonials []httphandler.TestimonialResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &testimonials))
	require.Len(t, testimonials, 1)
	assert.Equal(t, 5, testimonials[0].Rating)

	rec = get(t, srv, "/api/v1/companies")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"acme","name":"Acme","logo":"/static/img/company.svg"}]`, rec.Body.String())

	rec = get(t, srv, "/api/v1/placements")
	require.Equal(t, http.StatusOK, rec.Code)
	var placements []httphandler.PlacementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placements))
	require.Len(t, placements, 1)
	assert.Equal(t, 2025, placements[0].Year)
}

func TestListStats(t *testing.T) {
	rec := get(t, loadedServer(t), "/api/v1/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	var stats []httphandler.StatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "home-students-placed", stats[0].ID)
	assert.Equal(t, "2293+", stats[0].Display)
	assert.Equal(t, "95%", stats[1].Display)
}

func TestGetStat(t *testing.T) {
	srv := loadedServer(t)

	rec := get(t, srv, "/api/v1/stats/placements-rate")
	require.Equal(t, http.StatusOK, rec.Code)
	var stat httphandler.StatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stat))
	assert.Equal(t, 95, stat.Number)

	rec = get(t, srv, "/api/v1/stats/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"stat not found"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := get(t, loadedServer(t), "/api/v1/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.ContentSource)
	assert.Equal(t, "2026-05-01T08:00:00Z", resp.ContentLoadedAt)
	_, err := time.Parse(time.RFC3339, resp.Time)
	assert.NoError(t, err)
}

func TestContentNotLoaded(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/v1/courses")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, srv, "/api/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	srv := loadedServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/courses", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplyMiddleware_RecoversPanics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	srv := httphandler.ApplyMiddleware(mux, slog.Default())

	rec := get(t, srv, "/boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestApplyMiddleware_Compresses(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	loadedServer(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}
