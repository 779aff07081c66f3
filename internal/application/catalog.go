package application

import (
	"slices"

	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

// Catalog is the read-mostly course list together with its category choices.
// The category list is derived once at construction and never recomputed.
type Catalog struct {
	courses    []model.Course
	categories []string
}

// NewCatalog builds a Catalog from the full course list. Categories are
// model.CategoryAll followed by each distinct course category in order of
// first appearance. Empty categories are skipped.
func NewCatalog(courses []model.Course) *Catalog {
	seen := make(map[string]struct{}, len(courses))
	categories := []string{model.CategoryAll}
	for _, c := range courses {
		if c.Category == "" || c.Category == model.CategoryAll {
			continue
		}
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		categories = append(categories, c.Category)
	}

	return &Catalog{
		courses:    slices.Clone(courses),
		categories: categories,
	}
}

// Courses returns a copy of the full course list in feed order.
func (c *Catalog) Courses() []model.Course {
	return slices.Clone(c.courses)
}

// Categories returns a copy of the cached category choices, "All" first.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// HasCategory reports whether category is one of the catalog's choices.
func (c *Catalog) HasCategory(category string) bool {
	return slices.Contains(c.categories, category)
}

// CourseByTitle returns the course with the given title.
func (c *Catalog) CourseByTitle(title string) (model.Course, bool) {
	for _, course := range c.courses {
		if course.Title == title {
			return course, true
		}
	}
	return model.Course{}, false
}

// Filter returns the catalog courses visible under selected.
func (c *Catalog) Filter(selected string) []model.Course {
	return FilterCourses(c.courses, selected)
}

// FilterCourses returns every item when selected is model.CategoryAll and
// otherwise the items whose Category equals selected, in their original order.
// A selection that matches nothing, including an unknown category, yields an
// empty slice rather than an error.
func FilterCourses(items []model.Course, selected string) []model.Course {
	out := make([]model.Course, 0, len(items))
	for _, item := range items {
		if item.InCategory(selected) {
			out = append(out, item)
		}
	}
	return out
}

// NormalizeCategory maps an absent selection to model.CategoryAll and passes
// every other value through unchanged.
func NormalizeCategory(raw string) string {
	if raw == "" {
		return model.CategoryAll
	}
	return raw
}

// CourseFilter is the selection state of the course filter UI. Transitions
// return a new value; the visible subset is always recomputed from the
// catalog and the current selection.
type CourseFilter struct {
	catalog  *Catalog
	selected string
}

// NewCourseFilter returns a filter over catalog with "All" selected.
func NewCourseFilter(catalog *Catalog) CourseFilter {
	return CourseFilter{catalog: catalog, selected: model.CategoryAll}
}

// Select returns the filter state after the user picks category.
func (f CourseFilter) Select(category string) CourseFilter {
	f.selected = NormalizeCategory(category)
	return f
}

// Selected returns the current selection.
func (f CourseFilter) Selected() string { return f.selected }

// Categories returns the available choices.
func (f CourseFilter) Categories() []string { return f.catalog.Categories() }

// Visible returns the courses matching the current selection.
func (f CourseFilter) Visible() []model.Course {
	return f.catalog.Filter(f.selected)
}
