package web

import (
	"net/http"
	"strings"
)

// htmxRequestHeader marks fragment requests. static/js/swap.js sends it using
// the htmx header name.
const htmxRequestHeader = "HX-Request"

// isHTMXRequest reports whether the request asked for a fragment instead of a
// full page.
func isHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(htmxRequestHeader), "true")
}
