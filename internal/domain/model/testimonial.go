package model

// MaxRating is the highest star rating a testimonial can carry.
const MaxRating = 5

// Testimonial is a quote from a former student.
type Testimonial struct {
	ID      string
	Name    string
	Course  string
	Company string
	Comment string
	Image   string
	Rating  int // 0..MaxRating.
}
