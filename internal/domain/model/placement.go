package model

// Placement records a student placed at a partner company.
type Placement struct {
	ID      string
	Name    string
	Course  string
	Company string
	Package string // Display text, e.g. "6.5 LPA".
	Image   string
	Year    int
}
