package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all site routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
// Any path no other route claims renders the 404 page.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /about", h.About)
	mux.HandleFunc("GET /courses", h.Courses)
	mux.HandleFunc("GET /placements", h.Placements)
	mux.HandleFunc("GET /contact", h.Contact)
	mux.HandleFunc("POST /contact", h.SubmitContact)

	// Counter animation stream, one socket per mounted counter.
	mux.HandleFunc("GET /ws/counters/{id}", h.CounterSocket)

	mux.HandleFunc("/", h.NotFound)
}
