package model

// CategoryAll is the category selection that applies no filtering.
const CategoryAll = "All"

// Course represents a training course offered by the institute.
// Category is the only field the course filter looks at.
type Course struct {
	ID          string
	Title       string
	Description string // Markdown.
	Category    string
	Duration    string // Display text, e.g. "3 Months".
	Level       string
	Icon        string
	Features    []string
}

// InCategory reports whether the course is visible under the given category selection.
func (c Course) InCategory(selected string) bool {
	return selected == CategoryAll || c.Category == selected
}
