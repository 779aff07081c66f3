package driven

import "context"

// Feed file names read from a ContentSource.
const (
	FeedCourses      = "courses.json"
	FeedTestimonials = "testimonials.json"
	FeedCompanies    = "companies.json"
	FeedPlacements   = "placements.json"
	FeedSite         = "site.yaml"
)

// ContentSource defines the driven port for reading raw content feeds.
// Implementations return the file contents unparsed; decoding and validation
// happen in the application layer so every source behaves the same.
type ContentSource interface {
	// ReadFeed returns the raw bytes of the named feed. Implementations wrap
	// ErrFeedNotFound when the feed does not exist.
	ReadFeed(ctx context.Context, name string) ([]byte, error)

	// Describe returns a short human-readable origin for logs, e.g. "embedded".
	Describe() string
}
