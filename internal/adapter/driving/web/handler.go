// Package web implements the HTML site driving adapter using templ components.
package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/iatsite/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/iatsite/internal/adapter/driving/web/templates/components"
	"github.com/ericfisherdev/iatsite/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/iatsite/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/iatsite/internal/application"
)

// Settings holds the presentation options the composition root passes in.
type Settings struct {
	CounterDuration      time.Duration
	CounterFrameInterval time.Duration
	CounterMountTimeout  time.Duration
	SecureCookies        bool
}

// DefaultCounterMountTimeout bounds how long a counter socket stays open.
const DefaultCounterMountTimeout = 5 * time.Minute

// Handler is the web driving adapter that serves HTML via templ components
// and streams counter animations over websockets.
type Handler struct {
	content   *application.ContentProvider
	inquiries *application.InquiryService
	settings  Settings
	csrf      csrfGuard
	now       func() time.Time
	logger    *slog.Logger

	lifetime   context.Context
	stop       context.CancelFunc
	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	content *application.ContentProvider,
	inquiries *application.InquiryService,
	settings Settings,
	logger *slog.Logger,
) *Handler {
	if settings.CounterDuration <= 0 {
		settings.CounterDuration = application.DefaultCounterDuration
	}
	if settings.CounterFrameInterval <= 0 {
		settings.CounterFrameInterval = application.DefaultFrameInterval
	}
	if settings.CounterMountTimeout <= 0 {
		settings.CounterMountTimeout = DefaultCounterMountTimeout
	}
	lifetime, cancel := context.WithCancel(context.Background())
	return &Handler{
		content:    content,
		inquiries:  inquiries,
		settings:   settings,
		csrf:       csrfGuard{secure: settings.SecureCookies},
		now:        time.Now,
		logger:     logger,
		lifetime:   lifetime,
		stop:       cancel,
		pongWait:   counterPongWait,
		pingPeriod: counterPingPeriod,
	}
}

// Close ends every open counter socket with a going-away close frame. It is
// meant for http.Server.RegisterOnShutdown, which does not track hijacked
// connections.
func (h *Handler) Close() {
	h.stop()
}

// snapshot returns the current content or writes a 503 when none is loaded.
func (h *Handler) snapshot(w http.ResponseWriter) (*application.ContentSnapshot, bool) {
	snap := h.content.Get()
	if snap == nil {
		http.Error(w, "content not loaded", http.StatusServiceUnavailable)
		return nil, false
	}
	return snap, true
}

// page builds the layout data shared by every page.
func (h *Handler) page(snap *application.ContentSnapshot, title, active string) vm.Page {
	site := snap.Content.Site
	fullTitle := site.Name
	if title != "" {
		fullTitle = title + " | " + site.Name
	}
	return vm.Page{
		Title:       fullTitle,
		Active:      active,
		SiteName:    site.Name,
		Tagline:     site.Tagline,
		Phones:      site.Phones,
		Emails:      site.Emails,
		Address:     site.Address,
		OfficeHours: site.OfficeHours,
		Year:        h.now().Year(),
	}
}

// render writes component with the given status. Rendering goes through a
// buffer so a template error still produces a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page vm.Page, body templ.Component) {
	h.render(w, r, status, templates.Layout(page, body))
}

// Home renders the landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	h.renderPage(w, r, http.StatusOK, h.page(snap, "", "/"), pages.Home(toHomePageViewModel(snap)))
}

// About renders the institute story page.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	h.renderPage(w, r, http.StatusOK, h.page(snap, "About Us", "/about"), pages.About(toAboutPageViewModel(snap)))
}

// Courses renders the course catalog filtered by the "category" query
// parameter. Fragment requests from the category tabs receive only the tabs and
// grid fragment.
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	filter := application.NewCourseFilter(snap.Catalog).Select(r.URL.Query().Get("category"))
	view := toCoursesPageViewModel(filter)

	if isHTMXRequest(r) {
		h.render(w, r, http.StatusOK, components.CourseBrowser(view))
		return
	}
	h.renderPage(w, r, http.StatusOK, h.page(snap, "Courses", "/courses"), pages.Courses(view))
}

// Placements renders placement results and partner companies.
func (h *Handler) Placements(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	h.renderPage(w, r, http.StatusOK, h.page(snap, "Placements", "/placements"), pages.Placements(toPlacementsPageViewModel(snap)))
}

// Contact renders the enquiry form. A "course" query parameter preselects
// that course; "sent=1" shows the confirmation after a successful submit.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	token := h.csrf.issue(w, r)
	in := application.InquiryInput{Course: r.URL.Query().Get("course")}
	form := toContactForm(snap.Catalog, token, in, nil)
	form.Submitted = r.URL.Query().Get("sent") == "1"

	view := toContactPageViewModel(snap.Content.Site, form)
	h.renderPage(w, r, http.StatusOK, h.page(snap, "Contact Us", "/contact"), pages.Contact(view))
}

// SubmitContact validates and stores an enquiry. Invalid input re-renders the
// form with 422; success redirects back with a confirmation flag.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !h.csrf.verify(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	in := application.InquiryInput{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Course:  r.PostFormValue("course"),
		Message: r.PostFormValue("message"),
	}

	inquiry, err := h.inquiries.Submit(r.Context(), in, snap.Catalog)
	if err != nil {
		var verr *application.ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("failed to submit inquiry", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		token := h.csrf.issue(w, r)
		form := toContactForm(snap.Catalog, token, in, verr.Fields)
		view := toContactPageViewModel(snap.Content.Site, form)
		h.renderPage(w, r, http.StatusUnprocessableEntity, h.page(snap, "Contact Us", "/contact"), pages.Contact(view))
		return
	}

	h.logger.Info("inquiry received", "id", inquiry.ID, "course", inquiry.Course)
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

// NotFound renders the 404 page for any unmatched path.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	h.renderPage(w, r, http.StatusNotFound, h.page(snap, "Page Not Found", ""), pages.NotFound())
}
