package model

// SiteInfo holds institute-wide settings and copy that are not record feeds.
type SiteInfo struct {
	Name           string
	Tagline        string
	Phones         []string
	Emails         []string
	Address        string
	OfficeHours    string
	AboutMarkdown  string
	Features       []Highlight
	Process        []Highlight
	PlacementPerks []Highlight
	HomeStats      []Stat
	PlacementStats []Stat
}

// Highlight is a titled paragraph used by feature, process and perk lists.
type Highlight struct {
	Title       string
	Description string
}

// AllStats returns the home and placement stats in page order.
func (s SiteInfo) AllStats() []Stat {
	stats := make([]Stat, 0, len(s.HomeStats)+len(s.PlacementStats))
	stats = append(stats, s.HomeStats...)
	stats = append(stats, s.PlacementStats...)
	return stats
}
