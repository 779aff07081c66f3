// Package httphandler serves the read-only JSON API over the site content.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/ericfisherdev/iatsite/internal/application"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	content *application.ContentProvider
	now     func() time.Time
	logger  *slog.Logger
}

// NewHandler creates a Handler reading the current content snapshot from content.
func NewHandler(content *application.ContentProvider, logger *slog.Logger) *Handler {
	return &Handler{
		content: content,
		now:     time.Now,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers all /api/v1/ routes on the provided mux.
// Every API route, and the CORS preflight for them, is wrapped in a CORS
// handler allowing allowedOrigins.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler, allowedOrigins []string) {
	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})

	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, withCORS(fn))
	}

	route("GET /api/v1/health", h.Health)
	route("GET /api/v1/courses", h.ListCourses)
	route("GET /api/v1/categories", h.ListCategories)
	route("GET /api/v1/testimonials", h.ListTestimonials)
	route("GET /api/v1/companies", h.ListCompanies)
	route("GET /api/v1/placements", h.ListPlacements)
	route("GET /api/v1/stats", h.ListStats)
	route("GET /api/v1/stats/{id}", h.GetStat)
	mux.Handle("OPTIONS /api/", withCORS(http.NotFoundHandler()))
}

// snapshot returns the current content, writing a 503 when none is loaded yet.
func (h *Handler) snapshot(w http.ResponseWriter) (*application.ContentSnapshot, bool) {
	snap := h.content.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "content not loaded")
		return nil, false
	}
	return snap, true
}

// Health returns the service status and the content origin.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	}
	if snap := h.content.Get(); snap != nil {
		resp.ContentSource = snap.Source
		resp.ContentLoadedAt = snap.LoadedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCourses returns the courses in the category named by the "category"
// query parameter. A missing or empty parameter selects every course; an
// unknown category yields an empty list.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	selected := application.NormalizeCategory(r.URL.Query().Get("category"))
	courses := snap.Catalog.Filter(selected)

	resp := CourseListResponse{
		Category: selected,
		Courses:  make([]CourseResponse, 0, len(courses)),
	}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, toCourseResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCategories returns the category list in display order, "All" first.
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Catalog.Categories())
}

// ListTestimonials returns every testimonial in feed order.
func (h *Handler) ListTestimonials(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	resp := make([]TestimonialResponse, 0, len(snap.Content.Testimonials))
	for _, t := range snap.Content.Testimonials {
		resp = append(resp, toTestimonialResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCompanies returns the partner companies in feed order.
func (h *Handler) ListCompanies(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	resp := make([]CompanyResponse, 0, len(snap.Content.Companies))
	for _, c := range snap.Content.Companies {
		resp = append(resp, CompanyResponse{ID: c.ID, Name: c.Name, Logo: c.Logo})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPlacements returns the placement records in feed order.
func (h *Handler) ListPlacements(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	resp := make([]PlacementResponse, 0, len(snap.Content.Placements))
	for _, p := range snap.Content.Placements {
		resp = append(resp, toPlacementResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListStats returns every headline statistic shown by the animated counters.
func (h *Handler) ListStats(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	stats := snap.Content.Site.AllStats()
	resp := make([]StatResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, toStatResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetStat returns a single statistic by ID.
func (h *Handler) GetStat(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	id := r.PathValue("id")
	stat, found := snap.Content.StatByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "stat not found")
		return
	}
	writeJSON(w, http.StatusOK, toStatResponse(stat))
}
