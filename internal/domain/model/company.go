package model

// Company is a hiring partner shown in the alumni logo wall.
type Company struct {
	ID   string
	Name string
	Logo string
}
