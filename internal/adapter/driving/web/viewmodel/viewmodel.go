// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// Page holds the data every page layout needs: document title, the active
// navigation entry and the footer contact block.
type Page struct {
	Title       string
	Active      string
	SiteName    string
	Tagline     string
	Phones      []string
	Emails      []string
	Address     string
	OfficeHours string
	Year        int
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Label  string
	Path   string
	Active bool
}

// Highlight is a titled paragraph for feature, process and perk grids.
type Highlight struct {
	Title       string
	Description string
}

// Counter is an animated statistic. Initial is what renders before the
// counter becomes visible; Final is the settled text used for assistive tech.
type Counter struct {
	ID         string
	Label      string
	Initial    string
	Final      string
	SocketPath string
}

// CourseCard holds presentation-ready data for a course tile.
type CourseCard struct {
	ID              string
	Title           string
	Category        string
	Duration        string
	Level           string
	Icon            string
	DescriptionHTML string
	Features        []string
	EnquirePath     string
}

// CategoryTab is one button of the course category filter.
type CategoryTab struct {
	Name     string
	Selected bool
}

// CourseList is the swappable course grid of the courses page.
type CourseList struct {
	Selected string
	Courses  []CourseCard
}

// Testimonial holds presentation-ready data for a student review.
type Testimonial struct {
	Name    string
	Byline  string
	Comment string
	Image   string
	Stars   string
}

// Company is a partner logo.
type Company struct {
	Name string
	Logo string
}

// PlacementCard holds presentation-ready data for a placed student.
type PlacementCard struct {
	Name    string
	Course  string
	Company string
	Package string
	Image   string
	Year    string
}

// HomePage is the landing page.
type HomePage struct {
	SiteName        string
	Tagline         string
	Stats           []Counter
	Features        []Highlight
	FeaturedCourses []CourseCard
	Testimonials    []Testimonial
	Companies       []Company
}

// AboutPage is the institute story page.
type AboutPage struct {
	SiteName  string
	StoryHTML string
	Stats     []Counter
	Features  []Highlight
	Process   []Highlight
}

// CoursesPage is the filterable course catalog.
type CoursesPage struct {
	Categories []CategoryTab
	List       CourseList
}

// PlacementsPage lists placement results.
type PlacementsPage struct {
	Stats      []Counter
	Perks      []Highlight
	Placements []PlacementCard
	Companies  []Company
}

// Option is a select box entry.
type Option struct {
	Value    string
	Selected bool
}

// ContactForm holds submitted values and per-field errors for re-rendering.
type ContactForm struct {
	CSRFToken string
	Name      string
	Email     string
	Phone     string
	Message   string
	Courses   []Option
	Errors    map[string]string
	Submitted bool
}

// Error returns the message for field, or "" when the field is valid.
func (f ContactForm) Error(field string) string {
	return f.Errors[field]
}

// ContactPage is the enquiry page.
type ContactPage struct {
	Phones      []string
	Emails      []string
	Address     string
	OfficeHours string
	Form        ContactForm
}
