package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/iatsite/internal/domain/model"
	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

// ErrInvalidContent is wrapped by every feed validation failure.
var ErrInvalidContent = errors.New("invalid content")

// ContentSnapshot is one immutable load of every content feed, with the
// catalog (and its cached category list) built from the course feed.
type ContentSnapshot struct {
	Content  model.Content
	Catalog  *Catalog
	Source   string
	LoadedAt time.Time
}

// ContentService reads, decodes and validates content feeds from a source.
type ContentService struct {
	source driven.ContentSource
	now    func() time.Time
}

// NewContentService creates a ContentService reading from source.
func NewContentService(source driven.ContentSource) *ContentService {
	return &ContentService{source: source, now: time.Now}
}

// Load reads every feed wholesale and returns a validated snapshot.
func (s *ContentService) Load(ctx context.Context) (*ContentSnapshot, error) {
	var content model.Content

	steps := []struct {
		feed   string
		decode func([]byte) error
	}{
		{driven.FeedCourses, func(b []byte) (err error) { content.Courses, err = decodeCourses(b); return }},
		{driven.FeedTestimonials, func(b []byte) (err error) { content.Testimonials, err = decodeTestimonials(b); return }},
		{driven.FeedCompanies, func(b []byte) (err error) { content.Companies, err = decodeCompanies(b); return }},
		{driven.FeedPlacements, func(b []byte) (err error) { content.Placements, err = decodePlacements(b); return }},
		{driven.FeedSite, func(b []byte) (err error) { content.Site, err = decodeSite(b); return }},
	}

	for _, step := range steps {
		data, err := s.source.ReadFeed(ctx, step.feed)
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", step.feed, s.source.Describe(), err)
		}
		if err := step.decode(data); err != nil {
			return nil, fmt.Errorf("decode %s: %w: %w", step.feed, ErrInvalidContent, err)
		}
	}

	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	return &ContentSnapshot{
		Content:  content,
		Catalog:  NewCatalog(content.Courses),
		Source:   s.source.Describe(),
		LoadedAt: s.now(),
	}, nil
}

// ValidateContent checks the cross-record rules every feed must follow:
// non-empty unique IDs per feed, a category on every course, ratings within
// range and unique stat IDs across both stat lists.
func ValidateContent(c model.Content) error {
	courseIDs := make([]string, 0, len(c.Courses))
	for _, course := range c.Courses {
		if course.Category == "" {
			return fmt.Errorf("%w: course %q has no category", ErrInvalidContent, course.ID)
		}
		courseIDs = append(courseIDs, course.ID)
	}
	if err := checkUniqueIDs(driven.FeedCourses, courseIDs); err != nil {
		return err
	}

	testimonialIDs := make([]string, 0, len(c.Testimonials))
	for _, t := range c.Testimonials {
		if t.Rating < 0 || t.Rating > model.MaxRating {
			return fmt.Errorf("%w: testimonial %q rating %d outside 0..%d", ErrInvalidContent, t.ID, t.Rating, model.MaxRating)
		}
		testimonialIDs = append(testimonialIDs, t.ID)
	}
	if err := checkUniqueIDs(driven.FeedTestimonials, testimonialIDs); err != nil {
		return err
	}

	companyIDs := make([]string, 0, len(c.Companies))
	for _, co := range c.Companies {
		companyIDs = append(companyIDs, co.ID)
	}
	if err := checkUniqueIDs(driven.FeedCompanies, companyIDs); err != nil {
		return err
	}

	placementIDs := make([]string, 0, len(c.Placements))
	for _, p := range c.Placements {
		placementIDs = append(placementIDs, p.ID)
	}
	if err := checkUniqueIDs(driven.FeedPlacements, placementIDs); err != nil {
		return err
	}

	stats := c.Site.AllStats()
	statIDs := make([]string, 0, len(stats))
	for _, st := range stats {
		statIDs = append(statIDs, st.ID)
	}
	return checkUniqueIDs(driven.FeedSite+" stats", statIDs)
}

func checkUniqueIDs(feed string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: %s record %d has no id", ErrInvalidContent, feed, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s has duplicate id %q", ErrInvalidContent, feed, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// RefreshContent reloads the snapshot every interval and swaps it into
// provider. A failed reload keeps the previous snapshot. RefreshContent
// blocks until ctx is cancelled.
func RefreshContent(ctx context.Context, svc *ContentService, provider *ContentProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("content refresh stopped")
			return
		case <-ticker.C:
			snapshot, err := svc.Load(ctx)
			if err != nil {
				slog.Error("content refresh failed, keeping previous snapshot", "error", err)
				continue
			}
			provider.Replace(snapshot)
			slog.Info("content refreshed",
				"source", snapshot.Source,
				"courses", len(snapshot.Content.Courses),
			)
		}
	}
}
