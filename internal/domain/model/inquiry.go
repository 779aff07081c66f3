package model

import "time"

// Inquiry is a contact form submission from a prospective student.
type Inquiry struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Course    string // Optional course title the visitor is interested in.
	Message   string
	CreatedAt time.Time
}
