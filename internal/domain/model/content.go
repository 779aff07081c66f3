package model

// Content is the full set of static feeds backing the site. It is loaded once
// at startup and treated as read-only afterwards.
type Content struct {
	Courses      []Course
	Testimonials []Testimonial
	Companies    []Company
	Placements   []Placement
	Site         SiteInfo
}

// StatByID returns the stat with the given ID from either stat list.
func (c Content) StatByID(id string) (Stat, bool) {
	for _, s := range c.Site.AllStats() {
		if s.ID == id {
			return s, true
		}
	}
	return Stat{}, false
}
