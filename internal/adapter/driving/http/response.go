package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status          string `json:"status"`
	Time            string `json:"time"`
	ContentSource   string `json:"content_source,omitempty"`
	ContentLoadedAt string `json:"content_loaded_at,omitempty"`
}

// CourseResponse is the JSON representation of a course.
type CourseResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Duration    string   `json:"duration"`
	Level       string   `json:"level"`
	Icon        string   `json:"icon"`
	Features    []string `json:"features"`
}

// CourseListResponse wraps a filtered course list with the applied category.
type CourseListResponse struct {
	Category string           `json:"category"`
	Courses  []CourseResponse `json:"courses"`
}

// TestimonialResponse is the JSON representation of a student testimonial.
type TestimonialResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Course  string `json:"course"`
	Company string `json:"company"`
	Comment string `json:"comment"`
	Image   string `json:"image"`
	Rating  int    `json:"rating"`
}

// CompanyResponse is the JSON representation of a partner company.
type CompanyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// PlacementResponse is the JSON representation of a placement record.
type PlacementResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Course  string `json:"course"`
	Company string `json:"company"`
	Package string `json:"package"`
	Image   string `json:"image"`
	Year    int    `json:"year"`
}

// StatResponse is the JSON representation of a counter statistic. Display is
// the fully animated text, e.g. "2293+".
type StatResponse struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Number  int    `json:"number"`
	Suffix  string `json:"suffix"`
	Display string `json:"display"`
}

// toCourseResponse converts a domain Course to its JSON representation.
// Nil features become an empty array.
func toCourseResponse(c model.Course) CourseResponse {
	features := c.Features
	if features == nil {
		features = []string{}
	}

	return CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Duration:    c.Duration,
		Level:       c.Level,
		Icon:        c.Icon,
		Features:    features,
	}
}

func toTestimonialResponse(t model.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:      t.ID,
		Name:    t.Name,
		Course:  t.Course,
		Company: t.Company,
		Comment: t.Comment,
		Image:   t.Image,
		Rating:  t.Rating,
	}
}

func toPlacementResponse(p model.Placement) PlacementResponse {
	return PlacementResponse{
		ID:      p.ID,
		Name:    p.Name,
		Course:  p.Course,
		Company: p.Company,
		Package: p.Package,
		Image:   p.Image,
		Year:    p.Year,
	}
}

func toStatResponse(s model.Stat) StatResponse {
	return StatResponse{
		ID:      s.ID,
		Label:   s.Label,
		Number:  s.Number,
		Suffix:  s.Suffix,
		Display: application.FormatCounter(max(s.Number, 0), s.Suffix),
	}
}
