package model

// Stat is a headline number rendered as an animated counter.
type Stat struct {
	ID     string // Stable identifier used by the counter websocket route.
	Label  string
	Number int
	Suffix string // Appended after the number, e.g. "+" or "%".
}
